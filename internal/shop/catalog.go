package shop

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/erazemk/mithai/internal/cache"
	"github.com/erazemk/mithai/internal/errs"
	"github.com/erazemk/mithai/internal/events"
	"github.com/erazemk/mithai/internal/imaging"
	"github.com/erazemk/mithai/internal/model"
	"github.com/erazemk/mithai/internal/store"
)

const catalogKey = "sweets:all"

// CreateSweetCommand is the input to CreateSweet. Price and quantity are
// pointers so that a missing value can be told apart from zero.
type CreateSweetCommand struct {
	Name     string   `json:"name" validate:"required,max=200"`
	Category string   `json:"category" validate:"required,max=100"`
	Price    *float64 `json:"price" validate:"required,gte=0,lte=10000000"`
	Quantity *int     `json:"quantity" validate:"required,gte=0,lte=1000000"`
}

// UpdateSweetCommand is the input to UpdateSweet. Nil fields and blank
// strings are left unchanged.
type UpdateSweetCommand struct {
	Name     *string  `json:"name" validate:"omitempty,max=200"`
	Category *string  `json:"category" validate:"omitempty,max=100"`
	Price    *float64 `json:"price" validate:"omitempty,gte=0,lte=10000000"`
	Quantity *int     `json:"quantity" validate:"omitempty,gte=0,lte=1000000"`
}

// SearchQuery holds raw search parameters. Empty fields do not filter.
type SearchQuery struct {
	Name     string
	Category string
	MinPrice string
	MaxPrice string
}

// CreateSweet adds a sweet owned by ownerID.
func (s *Service) CreateSweet(ctx context.Context, ownerID int64, cmd CreateSweetCommand) (*model.Sweet, error) {
	cmd.Name = strings.TrimSpace(cmd.Name)
	cmd.Category = strings.TrimSpace(cmd.Category)
	if err := s.check(cmd); err != nil {
		return nil, err
	}

	sweet, err := store.CreateSweet(ctx, s.db, cmd.Name, cmd.Category, *cmd.Price, *cmd.Quantity, ownerID)
	if err != nil {
		return nil, internal(err)
	}

	s.invalidateCatalog(ctx)
	s.publish(ctx, events.Event{
		Type:      events.TypeSweetCreated,
		SweetID:   sweet.ID,
		AccountID: ownerID,
		Quantity:  sweet.Quantity,
	})
	return sweet, nil
}

// ListSweets returns the whole catalog, newest first. Results are served
// from the cache when possible.
func (s *Service) ListSweets(ctx context.Context) ([]model.Sweet, error) {
	if data, err := s.cache.Get(ctx, catalogKey); err == nil {
		var sweets []model.Sweet
		if err := json.Unmarshal(data, &sweets); err == nil {
			return sweets, nil
		}
		s.log.Warn("discarding undecodable catalog cache entry")
	} else if !errors.Is(err, cache.ErrMiss) {
		s.log.Warn("reading catalog cache failed", zap.Error(err))
	}

	sweets, err := store.ListSweets(ctx, s.db, model.SweetFilter{})
	if err != nil {
		return nil, internal(err)
	}
	if sweets == nil {
		sweets = []model.Sweet{}
	}

	if data, err := json.Marshal(sweets); err == nil {
		if err := s.cache.Set(ctx, catalogKey, data, s.cacheTTL); err != nil {
			s.log.Warn("writing catalog cache failed", zap.Error(err))
		}
	}
	return sweets, nil
}

// SearchSweets returns sweets matching every given filter. Each
// whitespace-separated word of q.Name must occur in the sweet's name,
// ignoring case.
func (s *Service) SearchSweets(ctx context.Context, q SearchQuery) ([]model.Sweet, error) {
	filter := model.SweetFilter{
		NameTokens: strings.Fields(q.Name),
		Category:   strings.TrimSpace(q.Category),
	}

	var err error
	if filter.MinPrice, err = parsePrice("minPrice", q.MinPrice); err != nil {
		return nil, err
	}
	if filter.MaxPrice, err = parsePrice("maxPrice", q.MaxPrice); err != nil {
		return nil, err
	}

	sweets, err := store.ListSweets(ctx, s.db, filter)
	if err != nil {
		return nil, internal(err)
	}
	if sweets == nil {
		sweets = []model.Sweet{}
	}
	return sweets, nil
}

func parsePrice(field, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, errs.E(errs.Validation, field+" must be a non-negative number")
	}
	return &v, nil
}

// ListMySweets returns the sweets created by ownerID, newest first.
func (s *Service) ListMySweets(ctx context.Context, ownerID int64) ([]model.Sweet, error) {
	sweets, err := store.ListSweetsByOwner(ctx, s.db, ownerID)
	if err != nil {
		return nil, internal(err)
	}
	if sweets == nil {
		sweets = []model.Sweet{}
	}
	return sweets, nil
}

// UpdateSweet applies the supplied fields to a sweet owned by callerID.
func (s *Service) UpdateSweet(ctx context.Context, id, callerID int64, cmd UpdateSweetCommand) (*model.Sweet, error) {
	if err := s.check(cmd); err != nil {
		return nil, err
	}

	patch := store.SweetPatch{
		Name:     nonBlank(cmd.Name),
		Category: nonBlank(cmd.Category),
		Price:    cmd.Price,
		Quantity: cmd.Quantity,
	}

	var sweet *model.Sweet
	err := store.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.requireOwner(ctx, tx, id, callerID, "update"); err != nil {
			return err
		}
		if _, err := store.UpdateSweet(ctx, tx, id, patch); err != nil {
			return err
		}
		var err error
		sweet, err = store.GetSweet(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, internal(err)
	}

	s.invalidateCatalog(ctx)
	s.publish(ctx, events.Event{Type: events.TypeSweetUpdated, SweetID: id, AccountID: callerID})
	return sweet, nil
}

// DeleteSweet permanently removes a sweet owned by callerID. Ledger entries
// that reference it are kept.
func (s *Service) DeleteSweet(ctx context.Context, id, callerID int64) error {
	err := store.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.requireOwner(ctx, tx, id, callerID, "delete"); err != nil {
			return err
		}
		_, err := store.DeleteSweet(ctx, tx, id)
		return err
	})
	if err != nil {
		return internal(err)
	}

	s.log.Info("sweet deleted", zap.Int64("sweet_id", id), zap.Int64("account_id", callerID))
	s.invalidateCatalog(ctx)
	s.publish(ctx, events.Event{Type: events.TypeSweetDeleted, SweetID: id, AccountID: callerID})
	return nil
}

// SetSweetImage replaces the photo of a sweet owned by callerID.
func (s *Service) SetSweetImage(ctx context.Context, id, callerID int64, r io.Reader) error {
	photo, err := imaging.Normalize(r)
	switch {
	case errors.Is(err, imaging.ErrTooLarge), errors.Is(err, imaging.ErrUnsupported), errors.Is(err, imaging.ErrCorrupt):
		return errs.Wrap(errs.Validation, imageMessage(err), err)
	case err != nil:
		return internal(err)
	}

	err = store.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.requireOwner(ctx, tx, id, callerID, "update"); err != nil {
			return err
		}
		_, err := store.SetSweetImage(ctx, tx, id, photo.Data, photo.MIME)
		return err
	})
	if err != nil {
		return internal(err)
	}

	s.invalidateCatalog(ctx)
	return nil
}

func imageMessage(err error) string {
	switch {
	case errors.Is(err, imaging.ErrTooLarge):
		return imaging.ErrTooLarge.Error()
	case errors.Is(err, imaging.ErrUnsupported):
		return imaging.ErrUnsupported.Error()
	default:
		return imaging.ErrCorrupt.Error()
	}
}

// SweetImage returns the stored photo of a sweet and its MIME type.
func (s *Service) SweetImage(ctx context.Context, id int64) ([]byte, string, error) {
	data, mime, err := store.GetSweetImage(ctx, s.db, id)
	if err != nil {
		return nil, "", internal(err)
	}
	if data == nil {
		return nil, "", errs.E(errs.NotFound, "image not found")
	}
	return data, mime, nil
}

// requireOwner fails with NotFound if the sweet does not exist and with
// Authorization if callerID does not own it.
func (s *Service) requireOwner(ctx context.Context, q store.DBTX, id, callerID int64, action string) error {
	ownerID, found, err := store.GetSweetOwner(ctx, q, id)
	if err != nil {
		return err
	}
	if !found {
		return errs.E(errs.NotFound, "sweet not found")
	}
	if ownerID != callerID {
		s.log.Warn("sweet ownership check failed",
			zap.Int64("sweet_id", id),
			zap.Int64("account_id", callerID),
			zap.String("action", action),
		)
		return errs.E(errs.Authorization, "you are not allowed to "+action+" this sweet")
	}
	return nil
}

func (s *Service) invalidateCatalog(ctx context.Context) {
	if err := s.cache.Delete(ctx, catalogKey); err != nil {
		s.log.Warn("invalidating catalog cache failed", zap.Error(err))
	}
}

func nonBlank(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

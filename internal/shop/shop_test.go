package shop

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erazemk/mithai/internal/db"
	"github.com/erazemk/mithai/internal/events"
	"github.com/erazemk/mithai/internal/model"
)

const testSecret = "test-secret"

type recordingPublisher struct {
	mu      sync.Mutex
	events  []events.Event
	ctxErrs []error
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	p.ctxErrs = append(p.ctxErrs, ctx.Err())
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func newTestService(t *testing.T) (*Service, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	return New(db.NewTestDB(t), testSecret, Options{Events: pub}), pub
}

func mustRegister(t *testing.T, s *Service, name, email string) *model.Account {
	t.Helper()
	session, err := s.Register(context.Background(), RegisterCommand{
		Name:     name,
		Email:    email,
		Password: "gulab-jamun",
		Role:     model.RoleCustomer,
	})
	require.NoError(t, err)
	return session.Account
}

func mustCreateSweet(t *testing.T, s *Service, ownerID int64, name, category string, price float64, quantity int) *model.Sweet {
	t.Helper()
	sweet, err := s.CreateSweet(context.Background(), ownerID, CreateSweetCommand{
		Name:     name,
		Category: category,
		Price:    &price,
		Quantity: &quantity,
	})
	require.NoError(t, err)
	return sweet
}

func ptr[T any](v T) *T { return &v }

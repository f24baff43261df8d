package shop

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/mithai/internal/auth"
	"github.com/erazemk/mithai/internal/errs"
	"github.com/erazemk/mithai/internal/model"
	"github.com/erazemk/mithai/internal/store"
)

// PasswordCost is the bcrypt cost used for new accounts.
const PasswordCost = 10

// RegisterCommand is the input to Register.
type RegisterCommand struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,max=320"`
	Password string `json:"password" validate:"required,max=72"`
	Role     string `json:"role" validate:"required,role"`
}

// LoginCommand is the input to Login.
type LoginCommand struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Session is an authenticated account together with its signed token.
type Session struct {
	Account *model.Account
	Token   string
}

// dummyHash is compared against when an email is unknown so that a failed
// login takes about as long whether or not the account exists.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("mithai-house"), PasswordCost)

// Register creates an account and signs a session token for it.
func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (*Session, error) {
	cmd.Name = strings.TrimSpace(cmd.Name)
	cmd.Email = strings.TrimSpace(cmd.Email)
	cmd.Role = strings.TrimSpace(cmd.Role)
	if err := s.check(cmd); err != nil {
		return nil, err
	}

	existing, err := store.GetAccountByEmail(ctx, s.db, cmd.Email)
	if err != nil {
		return nil, internal(err)
	}
	if existing != nil {
		return nil, errs.E(errs.Conflict, "user already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), PasswordCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, errs.E(errs.Validation, "password is too long")
	}
	if err != nil {
		return nil, internal(err)
	}

	account, err := store.CreateAccount(ctx, s.db, cmd.Name, cmd.Email, string(hash), cmd.Role)
	if errors.Is(err, store.ErrDuplicateEmail) {
		return nil, errs.E(errs.Conflict, "user already exists")
	}
	if err != nil {
		return nil, internal(err)
	}

	token, err := auth.GenerateToken(s.secret, account.ID, account.Role)
	if err != nil {
		return nil, internal(err)
	}

	s.log.Info("account registered", zap.Int64("account_id", account.ID), zap.String("role", account.Role))
	return &Session{Account: account, Token: token}, nil
}

// Login checks credentials and signs a session token.
func (s *Service) Login(ctx context.Context, cmd LoginCommand) (*Session, error) {
	cmd.Email = strings.TrimSpace(cmd.Email)
	if err := s.check(cmd); err != nil {
		return nil, err
	}

	account, err := store.GetAccountByEmail(ctx, s.db, cmd.Email)
	if err != nil {
		return nil, internal(err)
	}

	hash := dummyHash
	if account != nil {
		hash = []byte(account.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(cmd.Password)); err != nil || account == nil {
		s.log.Warn("login failed", zap.String("email", cmd.Email))
		return nil, errs.E(errs.Authentication, "email or password incorrect")
	}

	token, err := auth.GenerateToken(s.secret, account.ID, account.Role)
	if err != nil {
		return nil, internal(err)
	}

	s.log.Info("account logged in", zap.Int64("account_id", account.ID))
	return &Session{Account: account, Token: token}, nil
}

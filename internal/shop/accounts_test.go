package shop

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/mithai/internal/auth"
	"github.com/erazemk/mithai/internal/errs"
	"github.com/erazemk/mithai/internal/model"
)

func TestRegister(t *testing.T) {
	s, _ := newTestService(t)

	session, err := s.Register(context.Background(), RegisterCommand{
		Name:     "  Asha  ",
		Email:    " asha@example.com ",
		Password: "barfi",
		Role:     model.RoleAdmin,
	})
	require.NoError(t, err)

	assert.Equal(t, "Asha", session.Account.Name)
	assert.Equal(t, "asha@example.com", session.Account.Email)
	assert.Equal(t, model.RoleAdmin, session.Account.Role)
	assert.NotEqual(t, "barfi", session.Account.PasswordHash)

	claims, err := auth.ValidateToken(testSecret, session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.Account.ID, claims.UserID)
	assert.Equal(t, model.RoleAdmin, claims.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s, _ := newTestService(t)
	mustRegister(t, s, "Asha", "asha@example.com")

	_, err := s.Register(context.Background(), RegisterCommand{
		Name: "Other", Email: "asha@example.com", Password: "x", Role: model.RoleCustomer,
	})
	assert.True(t, errs.Is(err, errs.Conflict))
	assert.Equal(t, "user already exists", errs.ClientMessage(err))
}

func TestRegisterValidation(t *testing.T) {
	s, _ := newTestService(t)

	valid := RegisterCommand{Name: "Asha", Email: "a@example.com", Password: "pw", Role: model.RoleCustomer}
	tests := []struct {
		name   string
		modify func(*RegisterCommand)
		want   string
	}{
		{"missing name", func(c *RegisterCommand) { c.Name = "   " }, "name is required"},
		{"missing email", func(c *RegisterCommand) { c.Email = "" }, "email is required"},
		{"missing password", func(c *RegisterCommand) { c.Password = "" }, "password is required"},
		{"missing role", func(c *RegisterCommand) { c.Role = "" }, "role is required"},
		{"unknown role", func(c *RegisterCommand) { c.Role = "manager" }, "role must be one of: customer, admin"},
		{"password too long", func(c *RegisterCommand) { c.Password = strings.Repeat("x", 100) }, "password is too long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := valid
			tt.modify(&cmd)
			_, err := s.Register(context.Background(), cmd)
			require.Error(t, err)
			assert.Equal(t, errs.Validation, errs.KindOf(err))
			assert.Equal(t, tt.want, errs.ClientMessage(err))
		})
	}
}

func TestLogin(t *testing.T) {
	s, _ := newTestService(t)
	account := mustRegister(t, s, "Asha", "asha@example.com")

	session, err := s.Login(context.Background(), LoginCommand{Email: "asha@example.com", Password: "gulab-jamun"})
	require.NoError(t, err)
	assert.Equal(t, account.ID, session.Account.ID)

	claims, err := auth.ValidateToken(testSecret, session.Token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, claims.UserID)
}

func TestLoginFailures(t *testing.T) {
	s, _ := newTestService(t)
	mustRegister(t, s, "Asha", "asha@example.com")

	tests := []struct {
		name string
		cmd  LoginCommand
		kind errs.Kind
	}{
		{"wrong password", LoginCommand{Email: "asha@example.com", Password: "nope"}, errs.Authentication},
		{"unknown email", LoginCommand{Email: "nobody@example.com", Password: "gulab-jamun"}, errs.Authentication},
		{"email is case sensitive", LoginCommand{Email: "ASHA@example.com", Password: "gulab-jamun"}, errs.Authentication},
		{"missing password", LoginCommand{Email: "asha@example.com"}, errs.Validation},
		{"missing email", LoginCommand{Password: "gulab-jamun"}, errs.Validation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Login(context.Background(), tt.cmd)
			require.Error(t, err)
			assert.Equal(t, tt.kind, errs.KindOf(err))
			if tt.kind == errs.Authentication {
				assert.Equal(t, "email or password incorrect", errs.ClientMessage(err))
			}
		})
	}
}

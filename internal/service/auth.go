package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"hospital-management-api/internal/auth"
	"hospital-management-api/internal/model"
	"hospital-management-api/internal/store"
)

// Auth handles signup, login and bearer token resolution.
type Auth struct {
	store  store.Store
	tokens *auth.Tokens
	cost   int
	log    *zap.Logger
}

func NewAuth(st store.Store, tokens *auth.Tokens, bcryptCost int, log *zap.Logger) *Auth {
	return &Auth{store: st, tokens: tokens, cost: bcryptCost, log: log}
}

func (s *Auth) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error) {
	if err := check(req); err != nil {
		return nil, err
	}
	if len(req.Password) > auth.MaxPasswordBytes {
		return nil, invalid(map[string]string{
			"password": fmt.Sprintf("must be at most %d bytes", auth.MaxPasswordBytes),
		})
	}

	role := model.Role(req.Role)
	if role == "" {
		role = model.RolePatient
	}

	hash, err := auth.HashPassword(req.Password, s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{Username: req.Username, PasswordHash: hash, Role: role}
	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, fail(ErrDuplicateIdentity, "username already registered")
		}
		return nil, err
	}

	s.log.Info("user signed up", zap.Int64("user_id", u.ID), zap.String("role", string(u.Role)))
	return &SignupResponse{Message: "user created", User: userView(u)}, nil
}

func (s *Auth) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := check(req); err != nil {
		return nil, err
	}

	u, err := s.store.UserByUsername(ctx, req.Username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fail(ErrUnauthorized, "invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, fail(ErrUnauthorized, "invalid credentials")
	}

	tok, err := s.tokens.Issue(u)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResponse{
		AccessToken: tok,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.Expiry().Seconds()),
		User:        userView(u),
	}, nil
}

// Authenticate resolves a raw bearer token to its user. The user must still
// exist.
func (s *Auth) Authenticate(ctx context.Context, raw string) (*model.User, error) {
	if raw == "" {
		return nil, fail(ErrUnauthorized, "missing token")
	}

	c, err := s.tokens.Verify(raw)
	if errors.Is(err, auth.ErrTokenExpired) {
		return nil, fail(ErrUnauthorized, "token expired")
	}
	if err != nil {
		return nil, fail(ErrUnauthorized, "invalid token")
	}

	u, err := s.store.UserByID(ctx, c.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fail(ErrUnauthorized, "user not found")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

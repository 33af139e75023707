package service

import (
	"context"
	"fmt"

	"github.com/movielog/movielog/internal/model"
	"github.com/movielog/movielog/internal/repository"
	"github.com/movielog/movielog/internal/utils"
)

// AuthService handles registration and login. It produces signed
// access tokens; verifying them on later requests is the HTTP
// middleware's job, after which services only ever see a Principal.
type AuthService struct {
	users      *repository.UserRepo
	jwtSecret  string
	ttlMin     int
	bcryptCost int
}

func NewAuthService(users *repository.UserRepo, jwtSecret string, accessTTLMin, bcryptCost int) *AuthService {
	return &AuthService{users: users, jwtSecret: jwtSecret, ttlMin: accessTTLMin, bcryptCost: bcryptCost}
}

// ErrInvalidCredentials hides whether the username or the password
// was wrong.
var ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", repository.ErrForbidden)

// Register creates a regular user account and returns it with a
// fresh access token. Taken usernames fail with ErrConflict.
func (s *AuthService) Register(ctx context.Context, username, password string) (model.User, utils.AccessToken, error) {
	u, err := s.users.Create(ctx, username, password, model.RoleUser, s.bcryptCost)
	if err != nil {
		return model.User{}, utils.AccessToken{}, err
	}
	tok, err := utils.NewAccessToken(s.jwtSecret, u.ID, u.Role, s.ttlMin)
	if err != nil {
		return model.User{}, utils.AccessToken{}, err
	}
	return u, tok, nil
}

// Login verifies the credentials and returns the account with a
// fresh access token. Deactivated accounts cannot log in.
func (s *AuthService) Login(ctx context.Context, username, password string) (model.User, utils.AccessToken, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return model.User{}, utils.AccessToken{}, ErrInvalidCredentials
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, utils.AccessToken{}, ErrInvalidCredentials
	}
	if !u.Active {
		return model.User{}, utils.AccessToken{}, fmt.Errorf("account deactivated: %w", repository.ErrForbidden)
	}
	tok, err := utils.NewAccessToken(s.jwtSecret, u.ID, u.Role, s.ttlMin)
	if err != nil {
		return model.User{}, utils.AccessToken{}, err
	}
	return u, tok, nil
}

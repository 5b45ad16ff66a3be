package services

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/raulgonca/projectsync/errs"
	"github.com/raulgonca/projectsync/logging"
	"github.com/raulgonca/projectsync/models"
	"github.com/raulgonca/projectsync/repositories"
	"github.com/raulgonca/projectsync/utils"
)

type AuthService struct {
	Users repositories.UserRepository
}

func NewAuthService(users repositories.UserRepository) *AuthService {
	return &AuthService{Users: users}
}

// Register creates a new account with the default role and a bcrypt hash.
func (s *AuthService) Register(email, username, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	if email == "" || username == "" || password == "" {
		return nil, errs.Validation("missing required fields (email, username, password)")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, errs.Validation("invalid email format")
	}

	if _, err := s.Users.FindByEmail(email); err == nil {
		return nil, errs.Conflict("email already in use")
	} else if !errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.Users.FindByUsername(username); err == nil {
		return nil, errs.Conflict("username already in use")
	} else if !errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    email,
		Username: username,
		Password: hashed,
		Roles:    models.NormalizeRoles(nil),
	}
	if err := s.Users.Create(user); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: New account %s (%s)", user.Username, user.Email)
	return user, nil
}

// Login verifies the credentials and issues a signed token.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", errs.Validation("email and password are required")
	}

	user, err := s.Users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, "", errs.Unauthorized("invalid credentials")
		}
		return nil, "", err
	}
	if !utils.CheckPassword(user.Password, password) {
		logging.Logger.Warnf("Event ID: LOGIN_FAILED, Description: Bad password for %s", email)
		return nil, "", errs.Unauthorized("invalid credentials")
	}

	user.Roles = models.NormalizeRoles(user.Roles)
	token, err := utils.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

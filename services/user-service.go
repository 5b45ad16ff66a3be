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

type UserService struct {
	Users    repositories.UserRepository
	Projects repositories.ProjectRepository
}

func NewUserService(users repositories.UserRepository, projects repositories.ProjectRepository) *UserService {
	return &UserService{Users: users, Projects: projects}
}

func (s *UserService) GetUser(id uint) (*models.User, error) {
	user, err := s.Users.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, errs.NotFound("user not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers(page, limit int) ([]models.User, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 100
	}
	return s.Users.List((page-1)*limit, limit)
}

// CreateUser is the admin-side create; it accepts explicit roles.
func (s *UserService) CreateUser(email, username, password string, roles []string) (*models.User, error) {
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
		Roles:    models.NormalizeRoles(roles),
	}
	if err := s.Users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser applies a partial update of email, username and roles,
// rejecting values already taken by another account.
func (s *UserService) UpdateUser(id uint, email, username *string, roles []string) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if email != nil {
		if _, err := mail.ParseAddress(*email); err != nil {
			return nil, errs.Validation("invalid email format")
		}
		existing, err := s.Users.FindByEmail(*email)
		if err == nil && existing.ID != user.ID {
			return nil, errs.Conflict("email already in use")
		} else if err != nil && !errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = *email
	}

	if username != nil {
		existing, err := s.Users.FindByUsername(*username)
		if err == nil && existing.ID != user.ID {
			return nil, errs.Conflict("username already in use")
		} else if err != nil && !errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, err
		}
		user.Username = *username
	}

	if roles != nil {
		user.Roles = models.NormalizeRoles(roles)
	}

	if err := s.Users.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateEmail changes only the email, with the same uniqueness guard as
// UpdateUser.
func (s *UserService) UpdateEmail(id uint, email string) (*models.User, error) {
	return s.UpdateUser(id, &email, nil, nil)
}

// UpdatePassword verifies the current password before storing the new one.
func (s *UserService) UpdatePassword(id uint, currentPassword, newPassword string) error {
	user, err := s.GetUser(id)
	if err != nil {
		return err
	}
	if currentPassword == "" || newPassword == "" {
		return errs.Validation("incomplete data")
	}
	if !utils.CheckPassword(user.Password, currentPassword) {
		return errs.Forbidden("current password is not correct")
	}
	if len(newPassword) < 6 {
		return errs.Validation("new password must be at least 6 characters long")
	}
	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	return s.Users.Save(user)
}

// DeleteUser removes an account. Accounts that still own projects are not
// deletable; ownership has to be transferred or the projects removed
// first. Collaborator memberships carry no ownership and are dropped.
func (s *UserService) DeleteUser(id uint) error {
	user, err := s.GetUser(id)
	if err != nil {
		return err
	}
	owned, err := s.Projects.CountByOwner(user.ID)
	if err != nil {
		return err
	}
	if owned > 0 {
		return errs.Conflict("user still owns projects")
	}
	if err := s.Projects.RemoveCollaboratorFromAll(user.ID); err != nil {
		return err
	}
	if err := s.Users.Delete(user.ID); err != nil {
		return err
	}
	logging.Logger.Infof("Event ID: USER_DELETED, Description: Account %d removed", id)
	return nil
}

package service

import (
	"errors"
	"strings"

	"github.com/lederhaus/lederhaus-backend/internal/app/model"
	"github.com/lederhaus/lederhaus-backend/internal/app/repository"
	apperrors "github.com/lederhaus/lederhaus-backend/internal/errors"
	"github.com/lederhaus/lederhaus-backend/pkg/util"
	"gorm.io/gorm"
)

var ErrInvalidRole = errors.New("invalid user role")

// UserInput carries the fields an admin may set on an account. Password is
// optional on update; empty means keep the current hash.
type UserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type UserService interface {
	Create(input UserInput) (*model.User, error)
	List() ([]model.User, error)
	GetByID(id uint) (*model.User, error)
	Update(id uint, input UserInput) (*model.User, error)
	Delete(id uint) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func normalizeRole(role string) (model.UserRole, error) {
	if role == "" {
		return model.RoleUser, nil
	}
	r := model.UserRole(role)
	if r != model.RoleUser && r != model.RoleAdmin {
		return "", ErrInvalidRole
	}
	return r, nil
}

func (s *userService) Create(input UserInput) (*model.User, error) {
	role, err := normalizeRole(input.Role)
	if err != nil {
		return nil, err
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		Role:         role,
	}

	if err := s.userRepo.Create(user); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) List() ([]model.User, error) {
	return s.userRepo.FindAll()
}

func (s *userService) GetByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Update(id uint, input UserInput) (*model.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = strings.TrimSpace(input.Name)
	}
	if input.Email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(input.Email))
	}
	if input.Role != "" {
		role, err := normalizeRole(input.Role)
		if err != nil {
			return nil, err
		}
		user.Role = role
	}
	if input.Password != "" {
		hash, err := util.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(user); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Delete(id uint) error {
	if err := s.userRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

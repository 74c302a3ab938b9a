package service

import (
	"errors"
	"fmt"
	"strings"

	"chatapp/internal/config"
	"chatapp/internal/model"
	"chatapp/internal/repository"
	"chatapp/internal/util"

	"gorm.io/gorm"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	User        model.PublicProfile `json:"user"`
	AccessToken string              `json:"access_token"`
}

type AuthService interface {
	Register(req RegisterRequest) (*AuthResponse, error)
	Login(req LoginRequest) (*AuthResponse, error)
	GetMe(userID string) (*model.PublicProfile, error)
	SearchUsers(keyword string, limit, offset int) ([]model.PublicProfile, error)
	UpdateAvatar(userID, avatarURL string) error
	UpdateStatus(userID, status string) error
}

type authService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{userRepo: userRepo, cfg: cfg}
}

// Register creates a new account and returns it with a fresh access token
func (s *authService) Register(req RegisterRequest) (*AuthResponse, error) {
	if _, err := s.userRepo.FindByUsername(req.Username); err == nil {
		return nil, fmt.Errorf("%w: username already taken", util.ErrConflict)
	}
	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", util.ErrConflict)
	}

	hash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	fullName := req.FullName
	if fullName == "" {
		fullName = req.Username
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     fullName,
	}

	if err := s.userRepo.Create(user); err != nil {
		// The unique indexes catch concurrent registrations that slipped
		// past the pre-checks
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: username or email already taken", util.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := util.GenerateToken(user.ID, user.Username, s.cfg.JWTSecret, s.cfg.JWTExpiry())
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResponse{User: user.Public(), AccessToken: token}, nil
}

// Login verifies credentials and issues an access token. Any failure is
// reported as a generic unauthorized error so callers cannot probe which
// usernames exist.
func (s *authService) Login(req LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindByUsername(req.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid username or password", util.ErrUnauthorized)
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid username or password", util.ErrUnauthorized)
	}

	token, err := util.GenerateToken(user.ID, user.Username, s.cfg.JWTSecret, s.cfg.JWTExpiry())
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResponse{User: user.Public(), AccessToken: token}, nil
}

func (s *authService) GetMe(userID string) (*model.PublicProfile, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", util.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	profile := user.Public()
	return &profile, nil
}

func (s *authService) SearchUsers(keyword string, limit, offset int) ([]model.PublicProfile, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.userRepo.SearchUsers(keyword, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	profiles := make([]model.PublicProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Public())
	}
	return profiles, nil
}

func (s *authService) UpdateAvatar(userID, avatarURL string) error {
	if strings.TrimSpace(avatarURL) == "" {
		return fmt.Errorf("%w: avatar URL is required", util.ErrInvalidInput)
	}
	if err := s.userRepo.UpdateAvatar(userID, avatarURL); err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}
	return nil
}

func (s *authService) UpdateStatus(userID, status string) error {
	status = strings.TrimSpace(status)
	if status == "" {
		return fmt.Errorf("%w: status is required", util.ErrInvalidInput)
	}
	if len(status) > 120 {
		return fmt.Errorf("%w: status must be at most 120 characters", util.ErrInvalidInput)
	}
	if err := s.userRepo.UpdateStatus(userID, status); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	return nil
}

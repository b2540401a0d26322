package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xaenox/eldric/internal/models"
	"github.com/xaenox/eldric/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrMissingCredentials = errors.New("auth: user_id and password are required")
)

type Service struct {
	store  storage.UserStorage
	cost   int
	logger *zap.Logger
}

func NewService(store storage.UserStorage, logger *zap.Logger) *Service {
	return &Service{store: store, cost: bcrypt.DefaultCost, logger: logger}
}

// WithCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func (s *Service) WithCost(cost int) *Service {
	s.cost = cost
	return s
}

// Register stores a new user. Duplicate ids surface as storage errors.
func (s *Service) Register(ctx context.Context, userID, password string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" || password == "" {
		return ErrMissingCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	if err := s.store.CreateUser(ctx, &models.User{ID: userID, PasswordHash: string(hash)}); err != nil {
		s.logger.Error("Failed to register user",
			zap.Error(err),
			zap.String("user_id", userID))
		return err
	}
	return nil
}

// Login checks the password of an existing user.
func (s *Service) Login(ctx context.Context, userID, password string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" || password == "" {
		return ErrMissingCredentials
	}

	user, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/arwisata/oratorio/internal/domain"
)

// userRepository is the subset of store.UserStore that AccountService
// requires.
type userRepository interface {
	Create(ctx context.Context, name, email, passwordHash, role string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// RolePolicy decides the effective role returned at login. Emails in the
// configured admin set always resolve to "admin", whatever the stored role
// column says.
type RolePolicy struct {
	adminEmails map[string]struct{}
}

func NewRolePolicy(adminEmails []string) RolePolicy {
	set := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		if email = strings.TrimSpace(email); email != "" {
			set[email] = struct{}{}
		}
	}
	return RolePolicy{adminEmails: set}
}

func (p RolePolicy) RoleFor(email, storedRole string) string {
	if _, ok := p.adminEmails[email]; ok {
		return "admin"
	}
	if storedRole == "" {
		return "user"
	}
	return storedRole
}

type AccountService struct {
	users  userRepository
	policy RolePolicy
	logger *slog.Logger
}

func NewAccountService(users userRepository, policy RolePolicy, logger *slog.Logger) *AccountService {
	return &AccountService{users: users, policy: policy, logger: logger}
}

// Register creates an account with a bcrypt-hashed password. The display name
// defaults to the local part of the email.
func (s *AccountService) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", domain.ErrValidation)
	}
	if name == "" {
		name = localPart(email)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email %s is already registered: %w", email, domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Create(ctx, name, email, string(hash), "user")
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.UserID, "email", user.Email)
	return user, nil
}

// Login verifies the credentials and returns the session info, with the role
// resolved through the policy. No token is issued.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("email not found: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("wrong password: %w", domain.ErrUnauthorized)
	}

	username := user.Name
	if username == "" {
		username = localPart(user.Email)
	}

	return &domain.Session{
		UserID:   user.UserID,
		Email:    user.Email,
		Username: username,
		Role:     s.policy.RoleFor(user.Email, user.Role),
	}, nil
}

func localPart(email string) string {
	return strings.SplitN(email, "@", 2)[0]
}

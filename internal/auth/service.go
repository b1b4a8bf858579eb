package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/EmpoweredVote/booth-results/internal/config"
	"github.com/EmpoweredVote/booth-results/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// Service holds the account rules: normalization, hashing before persistence,
// credential checks, sessions and role assignment.
type Service struct {
	repo  Repository
	roles *config.Roles
	cost  int
	now   func() time.Time
}

func NewService(repo Repository, roles *config.Roles) *Service {
	return &Service{
		repo:  repo,
		roles: roles,
		cost:  bcrypt.DefaultCost,
		now:   time.Now,
	}
}

func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	password, err := NormalizePassword(password)
	if err != nil {
		return nil, err
	}

	hashed, err := HashPassword(password, s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	u := &User{
		UserID:         uuid.NewString(),
		Email:          email,
		HashedPassword: hashed,
		Roles:          pq.StringArray{config.RoleUser},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate never says whether the email or the password was wrong. The
// candidate is compared as sent; only stored passwords are trimmed.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.UserByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := ComparePassword(u.HashedPassword, password)
	if err != nil {
		return nil, fmt.Errorf("compare password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Login authenticates and opens a fresh session, replacing any previous one.
func (s *Service) Login(ctx context.Context, email, password string) (*User, Session, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, Session{}, err
	}

	sess := Session{
		SessionID: uuid.NewString(),
		UserID:    u.UserID,
		ExpiresAt: s.now().Add(SessionTTL),
	}
	if err := s.repo.UpsertSession(ctx, sess); err != nil {
		return nil, Session{}, err
	}
	return u, sess, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.repo.DeleteSession(ctx, sessionID)
}

func (s *Service) User(ctx context.Context, userID string) (*User, error) {
	return s.repo.UserByID(ctx, userID)
}

func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	u, err := s.repo.UserByID(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := ComparePassword(u.HashedPassword, current)
	if err != nil {
		return fmt.Errorf("compare password: %w", err)
	}
	if !ok {
		return ErrInvalidCredentials
	}

	next, err = NormalizePassword(next)
	if err != nil {
		return err
	}
	hashed, err := HashPassword(next, s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, userID, hashed)
}

// SetRoles replaces a user's roles. Every entry must be in the enumeration;
// duplicates collapse and first-seen order is kept.
func (s *Service) SetRoles(ctx context.Context, userID string, roles []string) (*User, error) {
	if len(roles) == 0 {
		return nil, invalid("roles", "must not be empty")
	}

	seen := make(map[string]struct{}, len(roles))
	cleaned := make([]string, 0, len(roles))
	for _, r := range roles {
		if !s.roles.Contains(r) {
			return nil, invalid("roles", fmt.Sprintf("unknown role %q", r))
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		cleaned = append(cleaned, r)
	}

	if err := s.repo.UpdateRoles(ctx, userID, cleaned); err != nil {
		return nil, err
	}
	return s.repo.UserByID(ctx, userID)
}

// UserHasRole backs the admin gate.
func (s *Service) UserHasRole(ctx context.Context, userID, role string) (bool, error) {
	u, err := s.repo.UserByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return u.HasRole(role), nil
}

func (s *Service) Roles() []string {
	return s.roles.All()
}

func (s *Service) FindSessionByID(id string) (utils.SessionData, error) {
	return s.repo.FindSessionByID(id)
}

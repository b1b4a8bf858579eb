package auth

import (
	"context"
	"errors"

	"github.com/EmpoweredVote/booth-results/internal/utils"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const uniqueViolation = "23505"

type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	UserByEmail(ctx context.Context, email string) (*User, error)
	UserByID(ctx context.Context, id string) (*User, error)
	UpdatePassword(ctx context.Context, id, hashed string) error
	UpdateRoles(ctx context.Context, id string, roles []string) error
	UpsertSession(ctx context.Context, s Session) error
	DeleteSession(ctx context.Context, sessionID string) error
	FindSessionByID(id string) (utils.SessionData, error)
}

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateUser(ctx context.Context, u *User) error {
	err := s.db.WithContext(ctx).Create(u).Error
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) UserByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).First(&u, "user_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) UpdatePassword(ctx context.Context, id, hashed string) error {
	res := s.db.WithContext(ctx).Model(&User{}).
		Where("user_id = ?", id).
		Update("hashed_password", hashed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *Store) UpdateRoles(ctx context.Context, id string, roles []string) error {
	res := s.db.WithContext(ctx).Model(&User{}).
		Where("user_id = ?", id).
		Update("roles", pq.StringArray(roles))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpsertSession keeps one live session per user; a new login replaces the old one.
func (s *Store) UpsertSession(ctx context.Context, sess Session) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"session_id", "expires_at"}),
	}).Create(&sess).Error
}

func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	res := s.db.WithContext(ctx).Delete(&Session{}, "session_id = ?", sessionID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *Store) FindSessionByID(id string) (utils.SessionData, error) {
	var session Session

	err := s.db.First(&session, "session_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.SessionData{}, ErrSessionNotFound
	}
	if err != nil {
		return utils.SessionData{}, err
	}

	return utils.SessionData{
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

var _ Repository = (*Store)(nil)

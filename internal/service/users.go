package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vaughan-dsouza/usermgmt/internal/models"
	"github.com/vaughan-dsouza/usermgmt/internal/utils"
)

// uniqueViolation is the Postgres SQLSTATE for a UNIQUE constraint failure.
const uniqueViolation = "23505"

// Store is the persistence surface the service needs. *db.Gateway
// implements it.
type Store interface {
	FetchOne(ctx context.Context, dest any, query string, args ...any) (bool, error)
	FetchAll(ctx context.Context, dest any, query string, args ...any) error
	Execute(ctx context.Context, query string, args ...any) (int64, error)
}

// UserService implements the user use cases on top of a Store.
type UserService struct {
	store Store
	codec utils.PasswordCodec
}

func NewUserService(store Store, codec utils.PasswordCodec) *UserService {
	return &UserService{store: store, codec: codec}
}

func (s *UserService) ListAll(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	if err := s.store.FetchAll(ctx, &users, `SELECT id, name, email FROM users ORDER BY id`); err != nil {
		return nil, err
	}
	return users, nil
}

// Get returns the user with the given id, or nil when there is none.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	found, err := s.store.FetchOne(ctx, &u, `SELECT id, name, email FROM users WHERE id = $1`, id)
	if err != nil || !found {
		return nil, err
	}
	return &u, nil
}

func (s *UserService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var id int64
	return s.store.FetchOne(ctx, &id, `SELECT id FROM users WHERE email = $1`, email)
}

// Create hashes password and inserts the user. Email uniqueness is expected
// to be checked by the caller; a collision that still reaches the store is
// reported as models.ErrEmailExists.
func (s *UserService) Create(ctx context.Context, name, email, password string) (int64, error) {
	hash, err := s.codec.Hash(password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	n, err := s.store.Execute(ctx,
		`INSERT INTO users (name, email, password) VALUES ($1, $2, $3)`,
		name, email, hash,
	)
	return n, translate(err)
}

// Update changes name and email only. It returns 0 when no user has id.
func (s *UserService) Update(ctx context.Context, id int64, name, email string) (int64, error) {
	n, err := s.store.Execute(ctx,
		`UPDATE users SET name = $1, email = $2 WHERE id = $3`,
		name, email, id,
	)
	return n, translate(err)
}

func (s *UserService) Delete(ctx context.Context, id int64) (int64, error) {
	return s.store.Execute(ctx, `DELETE FROM users WHERE id = $1`, id)
}

// SearchByName returns users whose name contains fragment. LIKE wildcards in
// fragment keep their meaning; backslash is an ordinary character.
func (s *UserService) SearchByName(ctx context.Context, fragment string) ([]models.User, error) {
	users := make([]models.User, 0)
	err := s.store.FetchAll(ctx, &users,
		`SELECT id, name, email FROM users WHERE name LIKE $1 ESCAPE '' ORDER BY id`,
		"%"+fragment+"%",
	)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Login checks credentials. Unknown email and wrong password produce the
// same failed result.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	var u models.User
	found, err := s.store.FetchOne(ctx, &u, `SELECT id, name, password FROM users WHERE email = $1`, email)
	if err != nil {
		return nil, err
	}
	if !found || !s.codec.Verify(u.Password, password) {
		return &models.LoginResult{Status: models.LoginFailed}, nil
	}

	return &models.LoginResult{
		Status:         models.LoginSuccess,
		UserID:         u.ID,
		WelcomeMessage: "Welcome " + u.Name,
		EmailMessage:   "You are logged in with " + email,
	}, nil
}

func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		if pgErr.ConstraintName == "" {
			return models.ErrEmailExists
		}
		return fmt.Errorf("%w: %s", models.ErrEmailExists, pgErr.ConstraintName)
	}
	return err
}

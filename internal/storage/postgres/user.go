package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"news_feed/internal/domain"
)

const uniqueViolation = "23505"

const userColumns = `id, name, email, password_hash, preferences, created_at`

type userRow struct {
	ID           int64          `db:"id"`
	Name         string         `db:"name"`
	Email        string         `db:"email"`
	PasswordHash string         `db:"password_hash"`
	Preferences  pq.StringArray `db:"preferences"`
	CreatedAt    time.Time      `db:"created_at"`
}

func (r *userRow) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Preferences:  domain.ClonePreferences(r.Preferences),
		CreatedAt:    r.CreatedAt,
	}
}

type UserStore struct {
	db        *sqlx.DB
	txManager *TransactionManager
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db, txManager: NewTransactionManager(db)}
}

func (s *UserStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, preferences)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	var row userRow
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		pq.StringArray(domain.ClonePreferences(user.Preferences)),
	)
	if isUniqueViolation(err) {
		return nil, domain.ErrUserExists
	}
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return row.toDomain(), nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (s *UserStore) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// Update locks the row, merges upd in memory and writes the result back.
func (s *UserStore) Update(ctx context.Context, id int64, upd domain.UserUpdate) (*domain.User, error) {
	var updated *domain.User

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.findOne(txCtx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
		if err != nil {
			return err
		}

		upd.Apply(current)

		query := `
			UPDATE users SET name = $2, email = $3, preferences = $4
			WHERE id = $1
			RETURNING ` + userColumns

		var row userRow
		err = sqlx.GetContext(txCtx, GetExecutor(txCtx, s.db), &row, query,
			id,
			current.Name,
			current.Email,
			pq.StringArray(domain.ClonePreferences(current.Preferences)),
		)
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		if err != nil {
			return fmt.Errorf("update user: %w", err)
		}

		updated = row.toDomain()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *UserStore) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *UserStore) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var row userRow
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return row.toDomain(), nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

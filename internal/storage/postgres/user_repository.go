package postgres

import (
	"context"
	"fmt"

	"github.com/cimillas/ticketline/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) CreateUser(ctx context.Context, user domain.User) error {
	const stmt = `INSERT INTO users (user_id, password_hash) VALUES ($1, $2)`

	_, err := r.pool.Exec(ctx, stmt, user.ID, user.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetUser(ctx context.Context, userID string) (domain.User, error) {
	const query = `SELECT user_id, password_hash FROM users WHERE user_id = $1`

	var u domain.User
	err := r.pool.QueryRow(ctx, query, userID).Scan(&u.ID, &u.PasswordHash)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

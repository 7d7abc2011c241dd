package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vidhub/internal/common"
	"github.com/dmitrijs2005/vidhub/internal/dbx"
	"github.com/dmitrijs2005/vidhub/internal/server/models"
)

// PostgresRepository keeps the token in users.refresh_token and
// users.refresh_token_expires_at.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.RefreshToken, error) {
	query := `
		SELECT refresh_token, refresh_token_expires_at
		FROM users
		WHERE id = $1
	`
	var token sql.NullString
	var expires sql.NullTime
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&token, &expires); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if !token.Valid {
		return nil, nil
	}
	return &models.RefreshToken{Token: token.String, ExpiresAt: expires.Time}, nil
}

func (r *PostgresRepository) Set(ctx context.Context, userID string, token *models.RefreshToken) error {
	query := `
		UPDATE users
		SET refresh_token = $2, refresh_token_expires_at = $3
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, userID, token.Token, token.ExpiresAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *PostgresRepository) Replace(ctx context.Context, userID, current string, next *models.RefreshToken) error {
	query := `
		UPDATE users
		SET refresh_token = $3, refresh_token_expires_at = $4
		WHERE id = $1 AND refresh_token = $2
	`
	res, err := r.db.ExecContext(ctx, query, userID, current, next.Token, next.ExpiresAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if err := dbx.ExpectAffected(res); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrRefreshTokenMismatch
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) Clear(ctx context.Context, userID string) error {
	query := `
		UPDATE users
		SET refresh_token = NULL, refresh_token_expires_at = NULL
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

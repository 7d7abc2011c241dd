package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/vidhub/internal/common"
	"github.com/dmitrijs2005/vidhub/internal/dbx"
	"github.com/dmitrijs2005/vidhub/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const publicColumns = `u.id, u.username, u.email, u.full_name, u.avatar_url, u.cover_image_url,
	COALESCE((SELECT string_agg(w.video_id, ',' ORDER BY w.position) FROM watch_history w WHERE w.user_id = u.id), ''),
	u.created_at, u.updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanPublic(row scanner) (*models.User, error) {
	u := &models.User{}
	var history string
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.AvatarURL, &u.CoverImageURL,
		&history, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.WatchHistory = splitIDs(history)
	return u, nil
}

func splitIDs(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (username, email, full_name, avatar_url, cover_image_url, password_hash)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.FullName, user.AvatarURL, user.CoverImageURL, user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + publicColumns + ` FROM users u WHERE u.id = $1`

	u, err := scanPublic(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (r *PostgresRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	if len(ids) == 0 {
		return []*models.User{}, nil
	}

	placeholders, args := dbx.InList(ids)
	query := `SELECT ` + publicColumns + ` FROM users u WHERE u.id IN (` + placeholders + `)`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.User, 0, len(ids))
	for rows.Next() {
		u, err := scanPublic(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + publicColumns + ` FROM users u WHERE u.username = $1`

	u, err := scanPublic(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

const credentialColumns = `id, username, email, full_name, avatar_url, cover_image_url, password_hash, created_at, updated_at`

func scanCredentials(row scanner) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.AvatarURL, &u.CoverImageURL,
		&u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *PostgresRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	query :=
		`SELECT ` + credentialColumns + ` FROM users
		 WHERE ($1 <> '' AND username = $1) OR ($2 <> '' AND email = $2)
		 LIMIT 1`

	u, err := scanCredentials(r.db.QueryRowContext(ctx, query, username, email))
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (r *PostgresRepository) GetWithPassword(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + credentialColumns + ` FROM users WHERE id = $1`

	u, err := scanCredentials(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (r *PostgresRepository) updateReturning(ctx context.Context, set string, args ...any) (*models.User, error) {
	query := `UPDATE users u SET ` + set + `, updated_at = now() WHERE u.id = $1 RETURNING ` + publicColumns

	u, err := scanPublic(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id, fullName, email string) (*models.User, error) {
	return r.updateReturning(ctx, `full_name = $2, email = $3`, id, fullName, email)
}

func (r *PostgresRepository) UpdateAvatar(ctx context.Context, id, avatarURL string) (*models.User, error) {
	return r.updateReturning(ctx, `avatar_url = $2`, id, avatarURL)
}

func (r *PostgresRepository) UpdateCoverImage(ctx context.Context, id, coverImageURL string) (*models.User, error) {
	return r.updateReturning(ctx, `cover_image_url = $2`, id, coverImageURL)
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *PostgresRepository) WatchHistory(ctx context.Context, id string) ([]string, error) {
	query :=
		`SELECT w.video_id FROM users u
		 LEFT JOIN watch_history w ON w.user_id = u.id
		 WHERE u.id = $1
		 ORDER BY w.position`

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	found := false
	ids := []string{}
	for rows.Next() {
		found = true
		var videoID sql.NullString
		if err := rows.Scan(&videoID); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if videoID.Valid {
			ids = append(ids, videoID.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if !found {
		return nil, common.ErrorNotFound
	}

	return ids, nil
}

func translate(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	if dbx.IsUniqueViolation(err) {
		return common.ErrorAlreadyExists
	}
	return fmt.Errorf("db error: %w", err)
}

package subscriptions

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/vidhub/internal/dbx"
	"github.com/dmitrijs2005/vidhub/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Stats(ctx context.Context, channelID, viewerID string) (*models.SubscriptionStats, error) {
	query := `
		SELECT
			(SELECT count(*) FROM subscriptions WHERE channel_id = $1),
			(SELECT count(*) FROM subscriptions WHERE subscriber_id = $1),
			EXISTS (SELECT 1 FROM subscriptions WHERE channel_id = $1 AND subscriber_id = $2)
	`
	s := &models.SubscriptionStats{}
	if err := r.db.QueryRowContext(ctx, query, channelID, viewerID).
		Scan(&s.Subscribers, &s.SubscribedTo, &s.IsSubscribed); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

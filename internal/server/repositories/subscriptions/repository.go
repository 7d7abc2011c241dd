// Package subscriptions aggregates the subscriber graph between channels.
package subscriptions

import (
	"context"

	"github.com/dmitrijs2005/vidhub/internal/server/models"
)

type Repository interface {
	// Stats counts the subscribers of channelID and the channels it is
	// subscribed to, and reports whether viewerID subscribes to channelID.
	// An empty viewerID is never subscribed.
	Stats(ctx context.Context, channelID, viewerID string) (*models.SubscriptionStats, error)
}

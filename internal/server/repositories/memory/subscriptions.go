package memory

import (
	"context"

	"github.com/dmitrijs2005/vidhub/internal/server/models"
)

// SubscriptionRepository implements subscriptions.Repository on a Store.
type SubscriptionRepository struct {
	s *Store
}

func (r *SubscriptionRepository) Stats(_ context.Context, channelID, viewerID string) (*models.SubscriptionStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	st := &models.SubscriptionStats{}
	for _, sub := range r.s.subscriptions {
		if sub.Channel == channelID {
			st.Subscribers++
			if viewerID != "" && sub.Subscriber == viewerID {
				st.IsSubscribed = true
			}
		}
		if sub.Subscriber == channelID {
			st.SubscribedTo++
		}
	}
	return st, nil
}

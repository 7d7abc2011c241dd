package memory

import (
	"context"

	"github.com/dmitrijs2005/vidhub/internal/server/models"
)

// VideoRepository implements videos.Repository on a Store.
type VideoRepository struct {
	s *Store
}

func (r *VideoRepository) GetByIDs(_ context.Context, ids []string) ([]*models.Video, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*models.Video, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if v, ok := r.s.videos[id]; ok {
			c := *v
			result = append(result, &c)
		}
	}
	return result, nil
}

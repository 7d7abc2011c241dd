package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/vidhub/internal/common"
	"github.com/dmitrijs2005/vidhub/internal/server/apierr"
	"github.com/dmitrijs2005/vidhub/internal/server/models"
	"github.com/dmitrijs2005/vidhub/internal/server/readmodel"
	"github.com/dmitrijs2005/vidhub/internal/server/repositories/subscriptions"
	"github.com/dmitrijs2005/vidhub/internal/server/repositories/users"
	"github.com/dmitrijs2005/vidhub/internal/server/repositories/videos"
)

// ChannelService serves the derived channel views: fetch rows from the
// repositories, then join and project them with the readmodel stages.
type ChannelService struct {
	users         users.Repository
	videos        videos.Repository
	subscriptions subscriptions.Repository
}

func NewChannelService(u users.Repository, v videos.Repository, s subscriptions.Repository) *ChannelService {
	return &ChannelService{users: u, videos: v, subscriptions: s}
}

// ChannelProfile returns the channel named username as seen by viewerID.
func (s *ChannelService) ChannelProfile(ctx context.Context, viewerID, username string) (*models.ChannelProfile, error) {
	username = normalize(username)
	if username == "" {
		return nil, apierr.BadRequest("username is missing")
	}

	channel, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, apierr.NotFound("channel does not exist")
		}
		return nil, internalErr(err)
	}

	stats, err := s.subscriptions.Stats(ctx, channel.ID, viewerID)
	if err != nil {
		return nil, internalErr(err)
	}

	return readmodel.ChannelProfileStage(channel, stats), nil
}

// WatchHistory returns the videos userID has watched in stored order, each
// with its owner as a single object.
func (s *ChannelService) WatchHistory(ctx context.Context, userID string) ([]models.WatchedVideo, error) {
	history, err := s.users.WatchHistory(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, apierr.NotFound("User does not exist")
		}
		return nil, internalErr(err)
	}
	if len(history) == 0 {
		return []models.WatchedVideo{}, nil
	}

	vids, err := s.videos.GetByIDs(ctx, history)
	if err != nil {
		return nil, internalErr(err)
	}

	owners, err := s.users.GetByIDs(ctx, readmodel.OwnerIDs(vids))
	if err != nil {
		return nil, internalErr(err)
	}

	return readmodel.JoinWatchHistory(history, vids, owners), nil
}

// Package readmodel builds the derived channel and watch-history views from
// plain rows. Every stage is a pure function; fetching the rows is the
// caller's job, so the same stages serve every storage driver.
package readmodel

import "github.com/dmitrijs2005/vidhub/internal/server/models"

// ChannelProfileStage projects the public subset of a channel together with
// its subscription aggregates. A nil stats value counts as zero.
func ChannelProfileStage(channel *models.User, stats *models.SubscriptionStats) *models.ChannelProfile {
	if channel == nil {
		return nil
	}
	if stats == nil {
		stats = &models.SubscriptionStats{}
	}
	return &models.ChannelProfile{
		ID:                        channel.ID,
		FullName:                  channel.FullName,
		Username:                  channel.Username,
		SubscribersCount:          stats.Subscribers,
		ChannelsSubscribedToCount: stats.SubscribedTo,
		IsSubscribed:              stats.IsSubscribed,
		AvatarURL:                 channel.AvatarURL,
		CoverImageURL:             channel.CoverImageURL,
		Email:                     channel.Email,
	}
}

// ProjectOwner reduces a user to the fields shown next to a video.
func ProjectOwner(u *models.User) *models.VideoOwner {
	if u == nil {
		return nil
	}
	return &models.VideoOwner{
		FullName:  u.FullName,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
	}
}

// OwnerIDs returns the distinct owner ids of videos, in first-seen order.
func OwnerIDs(videos []*models.Video) []string {
	seen := make(map[string]bool, len(videos))
	ids := make([]string, 0, len(videos))
	for _, v := range videos {
		if v == nil || seen[v.Owner] {
			continue
		}
		seen[v.Owner] = true
		ids = append(ids, v.Owner)
	}
	return ids
}

// JoinWatchHistory walks history in stored order and joins each id to its
// video and the video's owner. Ids without a video are skipped; a video
// whose owner is missing keeps a nil Owner. Repeated ids repeat the entry.
func JoinWatchHistory(history []string, videos []*models.Video, owners []*models.User) []models.WatchedVideo {
	videoByID := make(map[string]*models.Video, len(videos))
	for _, v := range videos {
		if v != nil {
			videoByID[v.ID] = v
		}
	}
	ownerByID := make(map[string]*models.VideoOwner, len(owners))
	for _, u := range owners {
		if u != nil {
			ownerByID[u.ID] = ProjectOwner(u)
		}
	}

	result := make([]models.WatchedVideo, 0, len(history))
	for _, id := range history {
		v, ok := videoByID[id]
		if !ok {
			continue
		}
		var owner *models.VideoOwner
		if o, ok := ownerByID[v.Owner]; ok {
			c := *o
			owner = &c
		}
		result = append(result, models.WatchedVideo{
			ID:          v.ID,
			VideoFile:   v.VideoFile,
			Thumbnail:   v.Thumbnail,
			Title:       v.Title,
			Description: v.Description,
			Duration:    v.Duration,
			Views:       v.Views,
			IsPublished: v.IsPublished,
			Owner:       owner,
			CreatedAt:   v.CreatedAt,
			UpdatedAt:   v.UpdatedAt,
		})
	}
	return result
}

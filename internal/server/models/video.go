package models

import "time"

// Video is an uploaded clip owned by a User.
type Video struct {
	ID          string    `json:"_id" bson:"_id"`
	VideoFile   string    `json:"videoFile" bson:"videoFile"`
	Thumbnail   string    `json:"thumbnail" bson:"thumbnail"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Duration    float64   `json:"duration" bson:"duration"`
	Views       int64     `json:"views" bson:"views"`
	IsPublished bool      `json:"isPublished" bson:"isPublished"`
	Owner       string    `json:"owner" bson:"owner"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

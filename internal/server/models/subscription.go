package models

import "time"

// Subscription records that Subscriber follows Channel (both user ids).
type Subscription struct {
	ID         string    `bson:"_id"`
	Subscriber string    `bson:"subscriber"`
	Channel    string    `bson:"channel"`
	CreatedAt  time.Time `bson:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt"`
}

// SubscriptionStats is the aggregate view of subscriptions around one
// channel, as seen by one viewer.
type SubscriptionStats struct {
	Subscribers  int64
	SubscribedTo int64
	IsSubscribed bool
}

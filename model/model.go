package model

import "time"

// ChannelStats holds the statistics returned for a channel.
type ChannelStats struct {
	ChannelID             string `json:"channelId"`
	Title                 string `json:"title,omitempty"`
	SubscriberCount       uint64 `json:"subscriberCount"`
	ViewCount             uint64 `json:"viewCount"`
	VideoCount            uint64 `json:"videoCount"`
	HiddenSubscriberCount bool   `json:"hiddenSubscriberCount,omitempty"`
}

// VideoStats holds the statistics returned for a single video plus the
// subscriber count of the channel that owns it.
type VideoStats struct {
	VideoID         string `json:"videoId"`
	ChannelID       string `json:"channelId"`
	Title           string `json:"title,omitempty"`
	ViewCount       uint64 `json:"viewCount"`
	LikeCount       uint64 `json:"likeCount"`
	CommentCount    uint64 `json:"commentCount"`
	SubscriberCount uint64 `json:"subscriberCount"`
}

// Snapshot is a point-in-time copy of a channel's statistics stored in MongoDB.
type Snapshot struct {
	ChannelID       string    `json:"channelId" bson:"channelId"`
	Title           string    `json:"title,omitempty" bson:"title,omitempty"`
	SubscriberCount uint64    `json:"subscriberCount" bson:"subscriberCount"`
	ViewCount       uint64    `json:"viewCount" bson:"viewCount"`
	VideoCount      uint64    `json:"videoCount" bson:"videoCount"`
	FetchedAt       time.Time `json:"fetchedAt" bson:"fetchedAt"`
}

// FetchRequest is a snapshot request published over NATS.
type FetchRequest struct {
	ChannelID string `json:"channelId"`
	Priority  string `json:"priority"` // "high", "normal", "low"
	RequestID string `json:"requestId"`
}

// FetchResult is published after a snapshot request has been processed.
type FetchResult struct {
	ChannelID       string    `json:"channelId"`
	SubscriberCount uint64    `json:"subscriberCount,omitempty"`
	ViewCount       uint64    `json:"viewCount,omitempty"`
	Success         bool      `json:"success"`
	Error           string    `json:"error,omitempty"`
	RequestID       string    `json:"requestId"`
	ProcessedAt     time.Time `json:"processedAt"`
}

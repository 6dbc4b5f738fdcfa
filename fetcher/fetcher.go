package fetcher

import (
	"context"
	"fmt"
	"log"
	"time"

	"channel-stats-service/metrics"
	"channel-stats-service/model"
	"channel-stats-service/youtube"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher pulls channel statistics from the YouTube Data API and records
// snapshots in MongoDB.
type Fetcher struct {
	yt *youtube.Client
	db *mongo.Database
}

func NewFetcher(yt *youtube.Client, db *mongo.Database) *Fetcher {
	f := &Fetcher{
		yt: yt,
		db: db,
	}

	// Ensure optimal indexes for read performance
	f.ensureIndexes()
	return f
}

func (f *Fetcher) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	snapshots := f.db.Collection("snapshots")

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "channelId", Value: 1},
				{Key: "fetchedAt", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "fetchedAt", Value: -1}},
		},
	}

	for _, index := range indexes {
		_, err := snapshots.Indexes().CreateOne(ctx, index)
		if err != nil {
			log.Printf("Warning: Failed to create index: %v", err)
		}
	}

	channels := f.db.Collection("channels")
	_, err := channels.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "channelId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Printf("Warning: Failed to create index: %v", err)
	}
}

// FetchChannel processes a single snapshot request.
func (f *Fetcher) FetchChannel(ctx context.Context, req model.FetchRequest) (model.FetchResult, error) {
	result := model.FetchResult{
		ChannelID:   req.ChannelID,
		RequestID:   req.RequestID,
		ProcessedAt: time.Now(),
	}

	log.Printf("Fetching channel stats for channelId=%s, requestID=%s", req.ChannelID, req.RequestID)

	stats, err := f.yt.ChannelStatistics(ctx, req.ChannelID)
	if err != nil {
		result.Error = err.Error()
		metrics.ChannelSnapshotsStored.WithLabelValues(req.ChannelID, "error").Inc()
		return result, err
	}

	if err := f.storeSnapshot(ctx, stats); err != nil {
		result.Error = err.Error()
		metrics.ChannelSnapshotsStored.WithLabelValues(req.ChannelID, "error").Inc()
		return result, err
	}

	metrics.ChannelSnapshotsStored.WithLabelValues(req.ChannelID, "success").Inc()

	result.Success = true
	result.SubscriberCount = stats.SubscriberCount
	result.ViewCount = stats.ViewCount
	log.Printf("Successfully stored snapshot for channelId=%s, requestID=%s", req.ChannelID, req.RequestID)

	return result, nil
}

func (f *Fetcher) storeSnapshot(ctx context.Context, stats *model.ChannelStats) error {
	now := time.Now()

	snapshot := model.Snapshot{
		ChannelID:       stats.ChannelID,
		Title:           stats.Title,
		SubscriberCount: stats.SubscriberCount,
		ViewCount:       stats.ViewCount,
		VideoCount:      stats.VideoCount,
		FetchedAt:       now,
	}

	snapshots := f.db.Collection("snapshots")
	if _, err := snapshots.InsertOne(ctx, snapshot); err != nil {
		metrics.MongoOperationsTotal.WithLabelValues("insert", "snapshots", "error").Inc()
		return fmt.Errorf("failed to insert snapshot: %v", err)
	}
	metrics.MongoOperationsTotal.WithLabelValues("insert", "snapshots", "success").Inc()

	// Upsert the latest counts into the channel summary document
	channels := f.db.Collection("channels")
	filter := bson.M{"channelId": stats.ChannelID}
	update := bson.M{
		"$set": bson.M{
			"channelId":       stats.ChannelID,
			"title":           stats.Title,
			"subscriberCount": stats.SubscriberCount,
			"viewCount":       stats.ViewCount,
			"videoCount":      stats.VideoCount,
			"fetchedAt":       now,
		},
	}

	_, err := channels.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		metrics.MongoOperationsTotal.WithLabelValues("upsert", "channels", "error").Inc()
		return fmt.Errorf("failed to upsert channel summary: %v", err)
	}
	metrics.MongoOperationsTotal.WithLabelValues("upsert", "channels", "success").Inc()

	return nil
}

// History returns the most recent snapshots for a channel, newest first.
func (f *Fetcher) History(ctx context.Context, channelID string, limit int) ([]model.Snapshot, error) {
	snapshots := f.db.Collection("snapshots")

	opts := options.Find().
		SetSort(bson.D{{Key: "fetchedAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := snapshots.Find(ctx, bson.M{"channelId": channelID}, opts)
	if err != nil {
		metrics.MongoOperationsTotal.WithLabelValues("find", "snapshots", "error").Inc()
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []model.Snapshot
	if err := cursor.All(ctx, &results); err != nil {
		metrics.MongoOperationsTotal.WithLabelValues("find", "snapshots", "error").Inc()
		return nil, err
	}
	metrics.MongoOperationsTotal.WithLabelValues("find", "snapshots", "success").Inc()

	return results, nil
}

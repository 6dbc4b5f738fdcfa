package handler

import (
	"context"

	"channel-stats-service/config"
	"channel-stats-service/model"

	"github.com/gin-gonic/gin"
)

// StatsProvider fetches statistics from the YouTube Data API.
type StatsProvider interface {
	ChannelStatistics(ctx context.Context, channelID string) (*model.ChannelStats, error)
	VideoStatistics(ctx context.Context, videoID string) (*model.VideoStats, error)
}

// HistoryProvider reads stored snapshots.
type HistoryProvider interface {
	History(ctx context.Context, channelID string, limit int) ([]model.Snapshot, error)
}

// Publisher publishes snapshot requests. *nats.Conn satisfies this.
type Publisher interface {
	Publish(subject string, data []byte) error
}

type StatsHandler struct {
	cfg     *config.Config
	stats   StatsProvider
	history HistoryProvider
	pub     Publisher
}

func NewStatsHandler(cfg *config.Config, stats StatsProvider, history HistoryProvider, pub Publisher) *StatsHandler {
	return &StatsHandler{
		cfg:     cfg,
		stats:   stats,
		history: history,
		pub:     pub,
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{"status": "healthy", "service": "channel-stats-service"})
}

package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"channel-stats-service/youtube"

	"github.com/gin-gonic/gin"
)

// GetChannelStats returns the current statistics for a channel. Responses
// carry a Cache-Control header so a CDN can serve them for the configured
// duration and refresh in the background.
func (h *StatsHandler) GetChannelStats(c *gin.Context) {
	channelID := c.Query("channelId")
	if channelID == "" && len(h.cfg.ChannelIDs) > 0 {
		channelID = h.cfg.ChannelIDs[0]
	}

	log.Printf("[INFO] GetChannelStats called with channelId: %s", channelID)

	if channelID == "" {
		log.Printf("[WARN] Missing channelId parameter and no default channel configured")
		c.JSON(http.StatusBadRequest, gin.H{"error": "channelId is required"})
		return
	}

	stats, err := h.stats.ChannelStatistics(c.Request.Context(), channelID)
	if err != nil {
		if errors.Is(err, youtube.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no channel found for ID %s", channelID)})
			return
		}
		log.Printf("[ERROR] ChannelStatistics failed for channelId=%s: %v", channelID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	log.Printf("[INFO] Successfully fetched stats for channelId=%s: Subscribers=%d, Views=%d",
		channelID, stats.SubscriberCount, stats.ViewCount)

	h.setCacheHeader(c)
	c.JSON(http.StatusOK, stats)
}

// GetVideoStats returns the statistics for a video plus the subscriber count
// of the channel that owns it.
func (h *StatsHandler) GetVideoStats(c *gin.Context) {
	videoID := c.Query("videoId")
	log.Printf("[INFO] GetVideoStats called with videoId: %s", videoID)

	if videoID == "" {
		log.Printf("[WARN] Missing videoId parameter in GetVideoStats request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "videoId is required"})
		return
	}

	stats, err := h.stats.VideoStatistics(c.Request.Context(), videoID)
	if err != nil {
		if errors.Is(err, youtube.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no video found for ID %s", videoID)})
			return
		}
		log.Printf("[ERROR] VideoStatistics failed for videoId=%s: %v", videoID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	log.Printf("[INFO] Successfully fetched stats for videoId=%s: Views=%d, Likes=%d, Comments=%d, Subscribers=%d",
		videoID, stats.ViewCount, stats.LikeCount, stats.CommentCount, stats.SubscriberCount)

	h.setCacheHeader(c)
	c.JSON(http.StatusOK, stats)
}

func (h *StatsHandler) setCacheHeader(c *gin.Context) {
	c.Header("Cache-Control", fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate=%d",
		h.cfg.CacheMaxAge, h.cfg.CacheStaleWhileRevalidate))
}

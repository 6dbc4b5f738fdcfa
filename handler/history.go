package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"channel-stats-service/model"
	"channel-stats-service/worker"

	"github.com/gin-gonic/gin"
)

// GetHistory returns stored snapshots for a channel, newest first.
func (h *StatsHandler) GetHistory(c *gin.Context) {
	channelID := c.Query("channelId")
	limitStr := c.DefaultQuery("limit", "30")

	log.Printf("[INFO] GetHistory called with channelId: %s, limit: %s", channelID, limitStr)

	if channelID == "" {
		log.Printf("[WARN] Missing channelId parameter in GetHistory request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "channelId is required"})
		return
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 || limit > 500 {
		log.Printf("[WARN] Invalid limit: %s", limitStr)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit, must be between 1 and 500"})
		return
	}

	snapshots, err := h.history.History(c.Request.Context(), channelID, limit)
	if err != nil {
		log.Printf("[ERROR] History failed for channelId=%s: %v", channelID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Printf("[INFO] Retrieved %d snapshots for channelId=%s", len(snapshots), channelID)
	c.JSON(http.StatusOK, gin.H{
		"channelId": channelID,
		"count":     len(snapshots),
		"snapshots": snapshots,
	})
}

// TriggerFetch publishes a snapshot request for a channel.
func (h *StatsHandler) TriggerFetch(c *gin.Context) {
	channelID := c.Param("channelId")
	priority := c.DefaultQuery("priority", "normal")

	log.Printf("[INFO] Manual snapshot triggered for channelId=%s, priority=%s", channelID, priority)

	req := model.FetchRequest{
		ChannelID: channelID,
		Priority:  priority,
		RequestID: channelID + "-" + time.Now().Format("20060102-150405"),
	}

	data, err := json.Marshal(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.pub.Publish(worker.FetchSubject, data); err != nil {
		log.Printf("Failed to trigger snapshot for channelId %s: %v", channelID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to trigger snapshot", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Snapshot triggered successfully", "channelId": channelID, "priority": priority})
}

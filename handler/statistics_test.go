package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"channel-stats-service/config"
	"channel-stats-service/model"
	"channel-stats-service/worker"
	"channel-stats-service/youtube"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStatsProvider struct {
	channelStats *model.ChannelStats
	videoStats   *model.VideoStats
	err          error
}

func (s *stubStatsProvider) ChannelStatistics(ctx context.Context, channelID string) (*model.ChannelStats, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.channelStats, nil
}

func (s *stubStatsProvider) VideoStatistics(ctx context.Context, videoID string) (*model.VideoStats, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.videoStats, nil
}

type stubHistoryProvider struct {
	snapshots []model.Snapshot
	err       error
}

func (s *stubHistoryProvider) History(ctx context.Context, channelID string, limit int) ([]model.Snapshot, error) {
	return s.snapshots, s.err
}

type stubPublisher struct {
	subject string
	data    []byte
	err     error
}

func (s *stubPublisher) Publish(subject string, data []byte) error {
	s.subject = subject
	s.data = data
	return s.err
}

func testConfig() *config.Config {
	return &config.Config{
		ChannelIDs:                []string{"UCdefault"},
		CacheMaxAge:               86400,
		CacheStaleWhileRevalidate: 59,
	}
}

func newTestRouter(h *StatsHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/channel-stats", h.GetChannelStats)
	r.GET("/api/video-stats", h.GetVideoStats)
	r.GET("/api/channel-stats/history", h.GetHistory)
	r.POST("/api/fetch/:channelId", h.TriggerFetch)
	return r
}

func TestGetChannelStats(t *testing.T) {
	stats := &stubStatsProvider{
		channelStats: &model.ChannelStats{
			ChannelID:       "UCsZxrHqLHPJcrkcgIGRG-cQ",
			Title:           "Report Portal",
			SubscriberCount: 12345,
			ViewCount:       987654,
			VideoCount:      42,
		},
	}
	h := NewStatsHandler(testConfig(), stats, &stubHistoryProvider{}, &stubPublisher{})
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/channel-stats?channelId=UCsZxrHqLHPJcrkcgIGRG-cQ", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "public, s-maxage=86400, stale-while-revalidate=59", w.Header().Get("Cache-Control"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(12345), body["subscriberCount"])
	assert.Equal(t, float64(987654), body["viewCount"])
	assert.Equal(t, "UCsZxrHqLHPJcrkcgIGRG-cQ", body["channelId"])
}

func TestGetChannelStatsDefaultsToConfiguredChannel(t *testing.T) {
	stats := &stubStatsProvider{
		channelStats: &model.ChannelStats{ChannelID: "UCdefault", SubscriberCount: 1, ViewCount: 2},
	}
	h := NewStatsHandler(testConfig(), stats, &stubHistoryProvider{}, &stubPublisher{})
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/channel-stats", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetChannelStatsNoChannel(t *testing.T) {
	cfg := testConfig()
	cfg.ChannelIDs = nil
	h := NewStatsHandler(cfg, &stubStatsProvider{}, &stubHistoryProvider{}, &stubPublisher{})
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/channel-stats", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetChannelStatsNotFound(t *testing.T) {
	h := NewStatsHandler(testConfig(), &stubStatsProvider{err: youtube.ErrNotFound}, &stubHistoryProvider{}, &stubPublisher{})
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/channel-stats?channelId=UCmissing", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetChannelStatsUpstreamError(t *testing.T) {
	h := NewStatsHandler(testConfig(), &stubStatsProvider{err: errors.New("YouTube API error: quota exceeded")}, &stubHistoryProvider{}, &stubPublisher{})
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/channel-stats?channelId=UCx", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestGetVideoStats(t *testing.T) {
	stats := &stubStatsProvider{
		videoStats: &model.VideoStats{
			VideoID:         "BaW_jenozKc",
			ChannelID:       "UCowner",
			ViewCount:       100,
			LikeCount:       10,
			CommentCount:    5,
			SubscriberCount: 1000,
		},
	}
	h := NewStatsHandler(testConfig(), stats, &stubHistoryProvider{}, &stubPublisher{})
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/video-stats?videoId=BaW_jenozKc", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "public, s-maxage=86400, stale-while-revalidate=59", w.Header().Get("Cache-Control"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(1000), body["subscriberCount"])
	assert.Equal(t, float64(100), body["viewCount"])
}

func TestGetVideoStatsMissingID(t *testing.T) {
	h := NewStatsHandler(testConfig(), &stubStatsProvider{}, &stubHistoryProvider{}, &stubPublisher{})
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/video-stats", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetHistory(t *testing.T) {
	history := &stubHistoryProvider{
		snapshots: []model.Snapshot{
			{ChannelID: "UCx", SubscriberCount: 20, ViewCount: 200, FetchedAt: time.Now()},
			{ChannelID: "UCx", SubscriberCount: 10, ViewCount: 100, FetchedAt: time.Now().Add(-time.Hour)},
		},
	}
	h := NewStatsHandler(testConfig(), &stubStatsProvider{}, history, &stubPublisher{})
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/channel-stats/history?channelId=UCx&limit=2", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		ChannelID string           `json:"channelId"`
		Count     int              `json:"count"`
		Snapshots []model.Snapshot `json:"snapshots"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "UCx", body.ChannelID)
	assert.Equal(t, 2, body.Count)
	assert.Len(t, body.Snapshots, 2)
}

func TestGetHistoryInvalidLimit(t *testing.T) {
	h := NewStatsHandler(testConfig(), &stubStatsProvider{}, &stubHistoryProvider{}, &stubPublisher{})
	r := newTestRouter(h)

	for _, limit := range []string{"0", "-1", "abc", "501"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/channel-stats/history?channelId=UCx&limit="+limit, nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "limit=%s", limit)
	}
}

func TestTriggerFetch(t *testing.T) {
	pub := &stubPublisher{}
	h := NewStatsHandler(testConfig(), &stubStatsProvider{}, &stubHistoryProvider{}, pub)
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/fetch/UCsZxrHqLHPJcrkcgIGRG-cQ?priority=high", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, worker.FetchSubject, pub.subject)

	var published model.FetchRequest
	require.NoError(t, json.Unmarshal(pub.data, &published))
	assert.Equal(t, "UCsZxrHqLHPJcrkcgIGRG-cQ", published.ChannelID)
	assert.Equal(t, "high", published.Priority)
	assert.NotEmpty(t, published.RequestID)
}

func TestTriggerFetchPublishFails(t *testing.T) {
	pub := &stubPublisher{err: errors.New("nats: connection closed")}
	h := NewStatsHandler(testConfig(), &stubStatsProvider{}, &stubHistoryProvider{}, pub)
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/fetch/UCx", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

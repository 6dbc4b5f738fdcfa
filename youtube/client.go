package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"channel-stats-service/config"
	"channel-stats-service/metrics"
	"channel-stats-service/model"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// serviceAccountKey mirrors the JSON key file Google issues for a service
// account. Only the private key and client email matter for signing; the
// rest lets JWTConfigFromJSON parse it like a real key file.
type serviceAccountKey struct {
	Type                    string `json:"type"`
	PrivateKey              string `json:"private_key"`
	ClientEmail             string `json:"client_email"`
	ClientID                string `json:"client_id"`
	AuthURI                 string `json:"auth_uri"`
	TokenURI                string `json:"token_uri"`
	AuthProviderX509CertURL string `json:"auth_provider_x509_cert_url"`
}

// Client wraps the YouTube Data API service authenticated as a service account.
type Client struct {
	service *youtube.Service
}

// NewClient builds a read-only YouTube Data API client from the service
// account credentials in cfg. Token acquisition and refresh are handled by
// the oauth2 transport.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	key := serviceAccountKey{
		Type:                    "service_account",
		PrivateKey:              cfg.GooglePrivateKey,
		ClientEmail:             cfg.GoogleClientEmail,
		ClientID:                cfg.GoogleClientID,
		AuthURI:                 "https://accounts.google.com/o/oauth2/auth",
		TokenURI:                "https://oauth2.googleapis.com/token",
		AuthProviderX509CertURL: "https://www.googleapis.com/oauth2/v1/certs",
	}

	keyJSON, err := json.Marshal(key)
	if err != nil {
		return nil, fmt.Errorf("failed to build service account key: %v", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(keyJSON, youtube.YoutubeReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %v", err)
	}

	// Domain-wide delegation: act on behalf of a user in the domain.
	if cfg.ImpersonateSubject != "" {
		jwtConfig.Subject = cfg.ImpersonateSubject
		log.Printf("[INFO] YouTube client impersonating %s", cfg.ImpersonateSubject)
	}

	service, err := youtube.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %v", err)
	}

	log.Printf("[INFO] YouTube client created for %s", cfg.GoogleClientEmail)
	return &Client{service: service}, nil
}

// ChannelStatistics fetches the statistics resource for a single channel.
func (c *Client) ChannelStatistics(ctx context.Context, channelID string) (*model.ChannelStats, error) {
	call := c.service.Channels.List([]string{"snippet", "statistics"}).Id(channelID)

	resp, err := call.Context(ctx).Do()
	if err != nil {
		metrics.YouTubeAPIRequests.WithLabelValues("channels", "error").Inc()
		log.Printf("[ERROR] Channels.List failed for channelId=%s: %v", channelID, err)
		return nil, fmt.Errorf("YouTube API error: %v", err)
	}
	metrics.YouTubeAPIRequests.WithLabelValues("channels", "success").Inc()

	if len(resp.Items) == 0 {
		log.Printf("[WARN] No channel found for ID: %s", channelID)
		return nil, ErrNotFound
	}

	item := resp.Items[0]
	stats := &model.ChannelStats{
		ChannelID:       item.Id,
		SubscriberCount: item.Statistics.SubscriberCount,
		ViewCount:       item.Statistics.ViewCount,
		VideoCount:      item.Statistics.VideoCount,
	}
	if item.Snippet != nil {
		stats.Title = item.Snippet.Title
	}
	if item.Statistics.HiddenSubscriberCount {
		stats.HiddenSubscriberCount = true
	}

	log.Printf("[INFO] Channel stats retrieved. ChannelID: %s | Subscribers: %d | Views: %d",
		stats.ChannelID, stats.SubscriberCount, stats.ViewCount)

	return stats, nil
}

// VideoStatistics fetches the statistics for a video and the subscriber count
// of its owning channel.
func (c *Client) VideoStatistics(ctx context.Context, videoID string) (*model.VideoStats, error) {
	call := c.service.Videos.List([]string{"snippet", "statistics"}).Id(videoID)

	resp, err := call.Context(ctx).Do()
	if err != nil {
		metrics.YouTubeAPIRequests.WithLabelValues("videos", "error").Inc()
		log.Printf("[ERROR] Videos.List failed for videoId=%s: %v", videoID, err)
		return nil, fmt.Errorf("YouTube API error: %v", err)
	}
	metrics.YouTubeAPIRequests.WithLabelValues("videos", "success").Inc()

	if len(resp.Items) == 0 {
		log.Printf("[WARN] No video found for ID: %s", videoID)
		return nil, ErrNotFound
	}

	item := resp.Items[0]
	stats := &model.VideoStats{
		VideoID:      item.Id,
		ViewCount:    item.Statistics.ViewCount,
		LikeCount:    item.Statistics.LikeCount,
		CommentCount: item.Statistics.CommentCount,
	}
	if item.Snippet != nil {
		stats.Title = item.Snippet.Title
		stats.ChannelID = item.Snippet.ChannelId
	}

	if stats.ChannelID != "" {
		channel, err := c.ChannelStatistics(ctx, stats.ChannelID)
		if err != nil {
			log.Printf("[WARN] Failed to fetch channel stats for videoId=%s: %v", videoID, err)
		} else {
			stats.SubscriberCount = channel.SubscriberCount
		}
	}

	log.Printf("[INFO] Video stats retrieved. VideoID: %s | Views: %d | Likes: %d | Comments: %d | Subscribers: %d",
		stats.VideoID, stats.ViewCount, stats.LikeCount, stats.CommentCount, stats.SubscriberCount)

	return stats, nil
}

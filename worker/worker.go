package worker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"channel-stats-service/config"
	"channel-stats-service/fetcher"
	"channel-stats-service/model"

	"github.com/nats-io/nats.go"
)

const (
	FetchSubject  = "fetch.channelstats"
	ResultSubject = "fetch.channelstats.result"
)

type Worker struct {
	config     *config.Config
	natsConn   *nats.Conn
	fetcher    *fetcher.Fetcher
	cancelFunc context.CancelFunc
}

func NewWorker(cfg *config.Config, f *fetcher.Fetcher) (*Worker, error) {
	// Connect to NATS
	nc, err := nats.Connect(cfg.NATSUrl)
	if err != nil {
		return nil, err
	}

	return &Worker{
		config:   cfg,
		natsConn: nc,
		fetcher:  f,
	}, nil
}

// Conn exposes the NATS connection for publishers outside the worker.
func (w *Worker) Conn() *nats.Conn {
	return w.natsConn
}

func (w *Worker) Start(ctx context.Context) error {
	log.Println("Starting channel stats worker...")

	// Create cancellable context
	workerCtx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel

	// Subscribe to snapshot requests
	_, err := w.natsConn.Subscribe(FetchSubject, func(msg *nats.Msg) {
		w.handleFetchRequest(workerCtx, msg)
	})
	if err != nil {
		return err
	}

	log.Printf("Successfully subscribed to %s", FetchSubject)

	// Start scheduler for periodic snapshots
	go w.startScheduler(workerCtx)

	log.Println("Workers started successfully")
	return nil
}

func (w *Worker) Stop() {
	log.Println("Stopping channel stats worker...")
	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	if w.natsConn != nil {
		w.natsConn.Close()
	}
}

func (w *Worker) handleFetchRequest(ctx context.Context, msg *nats.Msg) {
	var req model.FetchRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		log.Printf("Failed to unmarshal fetch request: %v", err)
		return
	}

	log.Printf("Processing fetch request: %+v", req)

	result, err := w.fetcher.FetchChannel(ctx, req)
	if err != nil {
		log.Printf("Failed to fetch channel stats: %v", err)
	}

	// Publish result for monitoring
	resultData, _ := json.Marshal(result)
	w.natsConn.Publish(ResultSubject, resultData)

	log.Printf("Completed fetch request: %s", req.RequestID)
}

func (w *Worker) startScheduler(ctx context.Context) {
	if len(w.config.ChannelIDs) == 0 {
		log.Println("No channels configured, scheduler disabled")
		return
	}

	log.Println("Scheduler started on this instance")
	log.Printf("Scheduling periodic snapshots for %d channels", len(w.config.ChannelIDs))

	ticker := time.NewTicker(w.config.FetchInterval)
	defer ticker.Stop()

	// Initial round
	w.scheduleSnapshots()

	for {
		select {
		case <-ctx.Done():
			log.Println("Scheduler stopped")
			return
		case <-ticker.C:
			log.Println("Triggering scheduled channel snapshots")
			w.scheduleSnapshots()
		}
	}
}

func (w *Worker) scheduleSnapshots() {
	for _, channelID := range w.config.ChannelIDs {
		req := model.FetchRequest{
			ChannelID: channelID,
			Priority:  "normal",
			RequestID: generateRequestID(channelID),
		}

		data, _ := json.Marshal(req)
		if err := w.natsConn.Publish(FetchSubject, data); err != nil {
			log.Printf("Failed to publish fetch request: %v", err)
		} else {
			log.Printf("Scheduled snapshot for channel %s", channelID)
		}
	}
}

func generateRequestID(channelID string) string {
	timestamp := time.Now().Format("20060102-150405")
	return channelID + "-" + timestamp
}

// Package feed owns the periodic poll of the upstream predictions feed
// and the latest ranked snapshot derived from it.
package feed

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/awaikar-syr/departby/internal/clock"
	"github.com/awaikar-syr/departby/internal/logging"
	"github.com/awaikar-syr/departby/internal/mbta"
	"github.com/awaikar-syr/departby/internal/metrics"
	"github.com/awaikar-syr/departby/internal/models"
	"github.com/awaikar-syr/departby/internal/pipeline"
	"github.com/awaikar-syr/departby/internal/settings"
)

const fetchTimeout = 15 * time.Second

// Snapshot is the result of one successfully applied poll.
type Snapshot struct {
	Predictions      []models.Prediction
	Settings         models.Settings
	FetchedAt        time.Time
	SettingsRevision int64
}

// Manager polls the feed on a fixed cadence, runs the prediction pipeline
// over each response, and keeps the latest result set. A failed poll
// leaves the previous snapshot in place; consumers keep serving
// last-known-good data until the next successful poll.
type Manager struct {
	client   *mbta.Client
	store    *settings.Store
	clock    clock.Clock
	logger   *slog.Logger
	metrics  *metrics.Metrics
	interval time.Duration

	// onUpdate, when set, is invoked after each applied snapshot with the
	// new predictions. Used to retarget the countdown engine.
	onUpdate func([]models.Prediction)

	mu       sync.RWMutex
	snapshot *Snapshot
	lastErr  error
	// applied is the generation of the most recently applied fetch;
	// completions with an older generation are discarded so a slow fetch
	// can never overwrite a newer one (last-fetch-wins by completion).
	applied int64

	generation atomic.Int64

	shutdownChan chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

// NewManager creates a feed manager. metrics may be nil.
func NewManager(client *mbta.Client, store *settings.Store, c clock.Clock, logger *slog.Logger, m *metrics.Metrics, interval time.Duration) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		client:       client,
		store:        store,
		clock:        c,
		logger:       logger.With(slog.String("component", "feed_manager")),
		metrics:      m,
		interval:     interval,
		shutdownChan: make(chan struct{}),
	}
}

// OnUpdate registers a callback invoked after each applied poll. Must be
// called before Start.
func (m *Manager) OnUpdate(fn func([]models.Prediction)) {
	m.onUpdate = fn
}

// Start launches the poll loop and performs an immediate first refresh.
func (m *Manager) Start() {
	m.wg.Add(1)
	go m.pollPeriodically()
}

func (m *Manager) pollPeriodically() {
	defer m.wg.Done()

	m.refreshOnce()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.refreshOnce()
		case <-m.shutdownChan:
			logging.LogOperation(m.logger, "shutting_down_feed_polls")
			return
		}
	}
}

func (m *Manager) refreshOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()
	ctx = logging.WithLogger(ctx, m.logger)

	logging.LogOperation(m.logger, "refreshing_predictions")
	if err := m.Refresh(ctx); err != nil {
		logging.LogError(m.logger, "feed poll failed", err)
	}
}

// Refresh performs one poll: read current settings, fetch, run the
// pipeline, and apply the result. The response is discarded without
// effect when a newer fetch completed first or when settings changed
// while the fetch was in flight.
func (m *Manager) Refresh(ctx context.Context) error {
	generation := m.generation.Add(1)

	cfg, err := m.store.Get(ctx)
	if err != nil {
		m.recordError(err)
		return err
	}
	revision := m.store.Revision()

	resp, err := m.client.GetPredictions(ctx, cfg)
	if err != nil {
		m.countPoll(metrics.PollError)
		m.recordError(err)
		return err
	}

	now := m.clock.Now()
	ranked := pipeline.Run(resp, cfg.WalkTimeMinutes, now)

	m.mu.Lock()
	if generation <= m.applied {
		m.mu.Unlock()
		m.countPoll(metrics.PollStale)
		m.logger.Debug("discarding out-of-order feed response",
			slog.Int64("generation", generation), slog.Int64("applied", m.applied))
		return nil
	}
	if revision != m.store.Revision() {
		m.mu.Unlock()
		m.countPoll(metrics.PollStale)
		m.logger.Debug("discarding feed response fetched under stale settings",
			slog.Int64("revision", revision))
		return nil
	}
	m.applied = generation
	m.snapshot = &Snapshot{
		Predictions:      ranked,
		Settings:         cfg,
		FetchedAt:        now,
		SettingsRevision: revision,
	}
	m.lastErr = nil
	m.mu.Unlock()

	m.countPoll(metrics.PollSuccess)
	if m.metrics != nil {
		m.metrics.FeedLastSuccessTimestamp.Set(float64(now.Unix()))
		m.metrics.PredictionsCurrent.Set(float64(len(ranked)))
	}

	if m.onUpdate != nil {
		m.onUpdate(ranked)
	}
	return nil
}

func (m *Manager) recordError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}

func (m *Manager) countPoll(result string) {
	if m.metrics != nil {
		m.metrics.FeedPollsTotal.WithLabelValues(result).Inc()
	}
}

// Snapshot returns the latest applied snapshot (nil before the first
// successful poll) and the most recent poll error, if the last poll
// failed.
func (m *Manager) Snapshot() (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot, m.lastErr
}

// Predictions returns the current ranked list, empty before the first
// successful poll.
func (m *Manager) Predictions() []models.Prediction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snapshot == nil {
		return nil
	}
	return m.snapshot.Predictions
}

// Shutdown stops the poll loop and waits for it to exit.
func (m *Manager) Shutdown() {
	m.shutdownOnce.Do(func() {
		close(m.shutdownChan)
	})
	m.wg.Wait()
}

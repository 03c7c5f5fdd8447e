// Package server provides the local browser API for fincoach.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/theirongolddev/fincoach/internal/session"
)

// Config controls the server runtime behavior.
type Config struct {
	Addr         string
	ExportDir    string
	SessionTTL   time.Duration
	SweepEvery   time.Duration
	EventsBuffer int
}

// Event records one state change made through the API.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Status is served at /api/status.
type Status struct {
	StartedAt   time.Time `json:"started_at"`
	LastSweepAt time.Time `json:"last_sweep_at"`
	SweepCount  int64     `json:"sweep_count"`
	Expired     int64     `json:"expired"`
	Sessions    int       `json:"sessions"`
	EventCount  int       `json:"event_count"`
	AIEnabled   bool      `json:"ai_enabled"`
}

// Service provides the HTTP API over a session manager.
type Service struct {
	cfg       Config
	sessions  *session.Manager
	log       *zap.Logger
	aiEnabled bool
	nowFn     func() time.Time

	mu          sync.RWMutex
	startedAt   time.Time
	lastSweepAt time.Time
	sweepCount  int64
	expired     int64
	nextEventID int64
	events      []Event
}

// New returns a service with the provided config.
func New(cfg Config, sessions *session.Manager, log *zap.Logger, aiEnabled bool) *Service {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8484"
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 2 * time.Hour
	}
	if cfg.SweepEvery < time.Second {
		cfg.SweepEvery = time.Minute
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "."
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		cfg:       cfg,
		sessions:  sessions,
		log:       log,
		aiEnabled: aiEnabled,
		nowFn:     time.Now,
		startedAt: time.Now(),
	}
}

// Run serves HTTP and expires idle sessions until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("server listening", zap.String("addr", s.cfg.Addr))

	ticker := time.NewTicker(s.cfg.SweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.sweepOnce()
		case err := <-errCh:
			return fmt.Errorf("http server: %w", err)
		}
	}
}

func (s *Service) sweepOnce() {
	now := s.nowFn()
	n := s.sessions.Expire(s.cfg.SessionTTL, now)

	s.mu.Lock()
	s.lastSweepAt = now
	s.sweepCount++
	s.expired += int64(n)
	s.mu.Unlock()

	if n > 0 {
		s.log.Info("expired idle sessions", zap.Int("count", n))
	}
}

func (s *Service) publishEvent(kind, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextEventID++
	s.events = append(s.events, Event{
		ID:        s.nextEventID,
		Type:      kind,
		SessionID: sessionID,
		Timestamp: s.nowFn(),
	})
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}
}

// eventsFor returns the buffered events of one session.
func (s *Service) eventsFor(sessionID string) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Event{}
	for _, ev := range s.events {
		if ev.SessionID == sessionID {
			out = append(out, ev)
		}
	}
	return out
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:   s.startedAt,
		LastSweepAt: s.lastSweepAt,
		SweepCount:  s.sweepCount,
		Expired:     s.expired,
		Sessions:    s.sessions.Len(),
		EventCount:  len(s.events),
		AIEnabled:   s.aiEnabled,
	}
}

// Handler builds the gin router.
func (s *Service) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok\n")
	})

	api := r.Group("/api")
	api.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.snapshotStatus())
	})
	api.POST("/projection", s.handleProjection)

	sess := api.Group("", s.sessionMiddleware())
	{
		sess.GET("/profile", s.handleGetProfile)
		sess.PUT("/profile", s.handlePutProfile)
		sess.GET("/expenses", s.handleGetExpenses)
		sess.PUT("/expenses", s.handlePutExpenses)
		sess.GET("/budget", s.handleBudget)

		sess.GET("/chat", s.handleHistory)
		sess.POST("/chat", s.handleChat)
		sess.GET("/ws", s.handleWebSocket)

		sess.GET("/goals", s.handleListGoals)
		sess.POST("/goals", s.handleAddGoal)
		sess.GET("/goals/:id", s.handleGetGoal)
		sess.POST("/goals/:id/progress", s.handleGoalProgress)
		sess.DELETE("/goals/:id", s.handleDeleteGoal)

		sess.POST("/import", s.handleImport)
		sess.POST("/export", s.handleExport)
		sess.GET("/events", s.handleEvents)
	}
	return r
}

func (s *Service) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

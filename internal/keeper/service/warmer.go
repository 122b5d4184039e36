package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/tokenkeeper/pkg/authsdk"
)

// DefaultWarmInterval is used when NewTokenWarmer is given a non-positive interval.
const DefaultWarmInterval = 30 * time.Second

// warmBudget bounds one warm cycle: a refresh followed by a login, each with
// their own request timeout.
const warmBudget = 15 * time.Second

// TokenSource is the slice of *authsdk.Manager the warmer drives.
type TokenSource interface {
	AccessToken(ctx context.Context, forceValidate bool) (string, error)
}

// TokenWarmer periodically asks for a validated access token so the refresh
// happens in the background instead of on a caller's request path.
type TokenWarmer struct {
	Source   TokenSource
	Logger   *slog.Logger
	Interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	doneCh chan struct{}
}

// NewTokenWarmer creates a warmer with the given interval.
// If interval is 0 or negative, defaults to DefaultWarmInterval.
func NewTokenWarmer(source TokenSource, logger *slog.Logger, interval time.Duration) *TokenWarmer {
	if interval <= 0 {
		interval = DefaultWarmInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &TokenWarmer{
		Source:   source,
		Logger:   logger,
		Interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Call Stop to shut it down.
func (s *TokenWarmer) Start() {
	go s.run()
	s.Logger.Info("token warmer started", "interval", s.Interval)
}

// Stop cancels any in-flight warm and blocks until the worker exits.
func (s *TokenWarmer) Stop() {
	s.cancel()
	<-s.doneCh
	s.Logger.Info("token warmer stopped")
}

func (s *TokenWarmer) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Warm immediately on startup
	s.warm()

	for {
		select {
		case <-ticker.C:
			s.warm()
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *TokenWarmer) warm() {
	ctx, cancel := context.WithTimeout(s.ctx, warmBudget)
	defer cancel()

	token, err := s.Source.AccessToken(ctx, true)
	switch {
	case err == nil && token == "":
		s.Logger.Debug("no session to warm")
	case err == nil:
		s.Logger.Debug("access token is fresh")
	case errors.Is(err, authsdk.ErrCredentialsMissing), errors.Is(err, authsdk.ErrRefreshInProgress):
		// Nothing to do until someone logs in, or the other refresh finishes
		s.Logger.Debug("token warm skipped", "reason", err)
	default:
		s.Logger.Warn("token warm failed", "error", err)
	}
}

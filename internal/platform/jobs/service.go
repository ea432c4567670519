package jobs

import (
	"context"
	"log/slog"
	"time"

	"pointage/internal/domain/notifications"
	"pointage/internal/platform/config"
)

// Service runs periodic maintenance off the request path. Currently a single
// job: the notification retention sweep.
type Service struct {
	Notifications *notifications.Service
	Cfg           config.Config
}

func New(notificationsSvc *notifications.Service, cfg config.Config) *Service {
	return &Service{Notifications: notificationsSvc, Cfg: cfg}
}

func (s *Service) Start(ctx context.Context) {
	if s.Cfg.RetentionInterval > 0 {
		go s.scheduleRetention(ctx, s.Cfg.RetentionInterval)
	}
}

func (s *Service) scheduleRetention(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runRetention(ctx)
		}
	}
}

func (s *Service) runRetention(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	deleted, err := s.Notifications.Sweep(runCtx, time.Now())
	if err != nil {
		slog.Warn("notification retention sweep failed", "err", err)
		return
	}
	if deleted > 0 {
		slog.Info("notification retention sweep completed", "deleted", deleted)
	}
}

package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ViewPruner удаляет устаревшие настройки таблиц
type ViewPruner interface {
	PruneStale(ctx context.Context) (int64, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	pruner   ViewPruner
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	done     chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(pruner ViewPruner, interval time.Duration, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Scheduler{
		pruner:   pruner,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("interval", s.interval))

	go s.runPruneTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт их завершения
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
	<-s.done
}

// runPruneTask периодически чистит настройки таблиц, которыми давно не пользовались
func (s *Scheduler) runPruneTask(ctx context.Context) {
	defer close(s.done)

	// Первый запуск сразу при старте
	s.prune(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.prune(ctx)
		case <-s.stopChan:
			s.logger.Info("View prune task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("View prune task cancelled")
			return
		}
	}
}

func (s *Scheduler) prune(ctx context.Context) {
	removed, err := s.pruner.PruneStale(ctx)
	if err != nil {
		s.logger.Error("Failed to prune table views", zap.Error(err))
		return
	}

	s.logger.Info("Table views pruned", zap.Int64("removed", removed))
}

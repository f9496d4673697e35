package scheduler

import (
	"context"
	"time"

	"github.com/ikkim/stores-rest-api/internal/app/repository"
	"github.com/ikkim/stores-rest-api/internal/metrics"
	"github.com/ikkim/stores-rest-api/pkg/logger"
	"github.com/robfig/cron/v3"
)

const pruneTimeout = 30 * time.Second

// BlocklistPruneScheduler 만료된 토큰 차단 목록 정리 스케줄러
type BlocklistPruneScheduler struct {
	cron      *cron.Cron
	schedule  string
	blocklist repository.TokenBlocklist
}

// NewBlocklistPruneScheduler creates a scheduler that runs on schedule, a
// standard five-field cron expression.
func NewBlocklistPruneScheduler(blocklist repository.TokenBlocklist, schedule string) *BlocklistPruneScheduler {
	return &BlocklistPruneScheduler{
		cron:      cron.New(),
		schedule:  schedule,
		blocklist: blocklist,
	}
}

// Start 스케줄러 시작
func (s *BlocklistPruneScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		logger.Error("Failed to add cron job for blocklist pruning", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Blocklist prune scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

// RunOnce removes revocation entries whose token has already expired
func (s *BlocklistPruneScheduler) RunOnce(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, pruneTimeout)
	defer cancel()

	removed, err := s.blocklist.PruneExpired(ctx, time.Now())
	if err != nil {
		logger.Error("Failed to prune token blocklist", err)
		return 0
	}
	metrics.RecordBlocklistPruned(removed)

	logger.Info("Pruned token blocklist", map[string]interface{}{
		"removed": removed,
	})
	return removed
}

// Stop 스케줄러 중지
func (s *BlocklistPruneScheduler) Stop() {
	logger.Info("Stopping blocklist prune scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Blocklist prune scheduler stopped")
}

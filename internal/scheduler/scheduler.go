package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/segmenta/internal/clock"
	customerdomain "github.com/smallbiznis/segmenta/internal/customer/domain"
	notificationdomain "github.com/smallbiznis/segmenta/internal/notification/domain"
	obsmetrics "github.com/smallbiznis/segmenta/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrInvalidConfig = errors.New("invalid_scheduler_config")

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Clock        clock.Clock
	CustomerRepo customerdomain.Repository
	Alerts       notificationdomain.Runner
	Config       Config `optional:"true"`
}

// Scheduler sweeps every owner on an interval and re-evaluates their
// alerts. One owner failing never stops the sweep for the rest.
type Scheduler struct {
	db           *gorm.DB
	log          *zap.Logger
	cfg          Config
	clock        clock.Clock
	customerRepo customerdomain.Repository
	alerts       notificationdomain.Runner
}

func New(p Params) (*Scheduler, error) {
	if p.DB == nil || p.Log == nil || p.Clock == nil || p.CustomerRepo == nil || p.Alerts == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		db:           p.DB,
		log:          p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:          p.Config.withDefaults(),
		clock:        p.Clock,
		customerRepo: p.CustomerRepo,
		alerts:       p.Alerts,
	}, nil
}

// RunOnce performs one full sweep over all owners.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	start := s.clock.Now()
	sweepMetrics := obsmetrics.Alerts()

	owners, err := s.customerRepo.DistinctOwners(ctx, s.db)
	if err != nil {
		return fmt.Errorf("list owners: %w", err)
	}

	var sweepErr error
	for _, ownerID := range owners {
		if ctx.Err() != nil {
			sweepErr = errors.Join(sweepErr, ctx.Err())
			break
		}
		if err := s.runOwner(ctx, ownerID); err != nil {
			sweepMetrics.IncOwnerFailure()
			sweepErr = errors.Join(sweepErr, fmt.Errorf("owner %s: %w", ownerID, err))
			s.log.Warn("owner sweep failed",
				zap.String("owner_id", ownerID.String()),
				zap.Error(err),
			)
		}
	}

	sweepMetrics.IncSweepRun()
	sweepMetrics.ObserveSweepDuration(time.Since(start))
	return sweepErr
}

func (s *Scheduler) runOwner(parent context.Context, ownerID snowflake.ID) (err error) {
	ctx, cancel := context.WithTimeout(parent, s.cfg.OwnerTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("owner evaluation panicked: %v", r)
		}
	}()

	return s.alerts.RunForOwner(ctx, ownerID)
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("sweep run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

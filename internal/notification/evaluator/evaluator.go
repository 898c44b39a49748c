package evaluator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/segmenta/internal/clock"
	"github.com/smallbiznis/segmenta/internal/config"
	"github.com/smallbiznis/segmenta/internal/notification"
	"github.com/smallbiznis/segmenta/internal/notification/domain"
	obsmetrics "github.com/smallbiznis/segmenta/internal/observability/metrics"
	"github.com/smallbiznis/segmenta/internal/providers/telegram"
	segmentationdomain "github.com/smallbiznis/segmenta/internal/segmentation/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const ownerLockTTL = 2 * time.Minute

// alertPolicy describes one alert stream: who is eligible, how long the
// cooldown runs, and how the consolidated message reads.
type alertPolicy struct {
	alertType    domain.AlertType
	cooldownDays int
	headline     string
	footer       string
	eligible     func(segmentationdomain.SegmentedCustomer) bool
	line         func(segmentationdomain.SegmentedCustomer) string
}

type Params struct {
	fx.In

	Log       *zap.Logger
	Clock     clock.Clock
	Cfg       config.Config
	Segments  segmentationdomain.Service
	Store     domain.Store
	Messenger telegram.Provider
	Locks     *notification.OwnerLocks
	Locker    *notification.Locker `optional:"true"`
}

// Runner evaluates the VIP and At-Risk alert streams for one owner at a
// time. The whole check-cooldown, deliver, record-sent sequence runs under
// the owner's lock so concurrent triggers cannot double-send.
type Runner struct {
	log       *zap.Logger
	clock     clock.Clock
	segments  segmentationdomain.Service
	store     domain.Store
	messenger telegram.Provider
	locks     *notification.OwnerLocks
	locker    *notification.Locker
	policies  []alertPolicy
}

func New(p Params) domain.Runner {
	vipCooldown := p.Cfg.VIPCooldownDays
	if vipCooldown <= 0 {
		vipCooldown = 90
	}
	atRiskCooldown := p.Cfg.AtRiskCooldownDays
	if atRiskCooldown <= 0 {
		atRiskCooldown = 15
	}

	return &Runner{
		log:       p.Log.Named("notification.evaluator"),
		clock:     p.Clock,
		segments:  p.Segments,
		store:     p.Store,
		messenger: p.Messenger,
		locks:     p.Locks,
		locker:    p.Locker,
		policies:  []alertPolicy{
			{
				alertType:    domain.AlertTypeVIP,
				cooldownDays: vipCooldown,
				headline:     "New VIP customers identified:",
				footer:       "Keep these high-value customers close.",
				eligible: func(c segmentationdomain.SegmentedCustomer) bool {
					return c.Segment == segmentationdomain.SegmentChampion
				},
				line: func(c segmentationdomain.SegmentedCustomer) string {
					return fmt.Sprintf("- %s", c.Name)
				},
			},
			{
				alertType:    domain.AlertTypeAtRisk,
				cooldownDays: atRiskCooldown,
				headline:     "Customers at risk of churning:",
				footer:       "A reminder or a limited offer can bring them back.",
				eligible: func(c segmentationdomain.SegmentedCustomer) bool {
					if c.Segment != segmentationdomain.SegmentAtRisk || c.RecencyDays == nil {
						return false
					}
					// Narrower than the At Risk TAM bracket on purpose: only
					// the recency sub-range worth a reminder.
					return *c.RecencyDays > 30 && *c.RecencyDays <= 90
				},
				line: func(c segmentationdomain.SegmentedCustomer) string {
					return fmt.Sprintf("- %s (last purchase %d days ago)", c.Name, *c.RecencyDays)
				},
			},
		},
	}
}

// RunForOwner evaluates both alert streams for the owner and emits at most
// one consolidated message per stream.
func (r *Runner) RunForOwner(ctx context.Context, ownerID snowflake.ID) error {
	if ownerID == 0 {
		return domain.ErrInvalidOwner
	}

	unlock := r.locks.Lock(ownerID)
	defer unlock()

	if r.locker != nil {
		key := "segmenta:alerts:" + ownerID.String()
		token, acquired, err := r.locker.TryLock(ctx, key, ownerLockTTL)
		if err != nil {
			r.log.Warn("owner lock unavailable, falling back to process-local lock",
				zap.String("owner_id", ownerID.String()),
				zap.Error(err),
			)
		} else if !acquired {
			// Another replica is already evaluating this owner.
			return nil
		} else {
			defer func() {
				_ = r.locker.Release(ctx, key, token)
			}()
		}
	}

	table, err := r.segments.BuildSegments(ctx, segmentationdomain.BuildSegmentsRequest{OwnerID: ownerID})
	if err != nil {
		return err
	}

	var runErr error
	for _, policy := range r.policies {
		if err := r.evaluate(ctx, ownerID, table.Customers, policy); err != nil {
			runErr = errors.Join(runErr, err)
		}
	}
	return runErr
}

func (r *Runner) evaluate(ctx context.Context, ownerID snowflake.ID, customers []segmentationdomain.SegmentedCustomer, policy alertPolicy) error {
	now := r.clock.Now()

	pending := make([]segmentationdomain.SegmentedCustomer, 0)
	for _, customer := range customers {
		if !policy.eligible(customer) {
			continue
		}
		notified, err := r.store.WasRecentlyNotified(ctx, ownerID, customer.CustomerID, policy.alertType, policy.cooldownDays, now)
		if err != nil {
			return err
		}
		if notified {
			continue
		}
		pending = append(pending, customer)
	}

	if len(pending) == 0 {
		return nil
	}

	message := r.compose(policy, pending)
	if err := r.messenger.PostMessage(ctx, ownerID.String(), message); err != nil {
		// Delivery failure is non-fatal and nothing is marked: the same
		// customers stay eligible for the next run.
		obsmetrics.Alerts().IncDeliveryFailure(string(policy.alertType))
		r.log.Warn("alert delivery failed",
			zap.String("owner_id", ownerID.String()),
			zap.String("alert_type", string(policy.alertType)),
			zap.Int("customers", len(pending)),
			zap.Error(err),
		)
		return nil
	}

	obsmetrics.Alerts().IncAlertSent(string(policy.alertType), len(pending))

	var markErr error
	for _, customer := range pending {
		if err := r.store.RecordSent(ctx, ownerID, customer.CustomerID, policy.alertType, now); err != nil {
			markErr = errors.Join(markErr, err)
		}
	}
	if markErr != nil {
		r.log.Error("delivered alert could not be fully recorded, duplicates possible within cooldown",
			zap.String("owner_id", ownerID.String()),
			zap.String("alert_type", string(policy.alertType)),
			zap.Error(markErr),
		)
	}
	return markErr
}

func (r *Runner) compose(policy alertPolicy, customers []segmentationdomain.SegmentedCustomer) string {
	var b strings.Builder
	b.WriteString(policy.headline)
	for _, customer := range customers {
		b.WriteString("\n")
		b.WriteString(policy.line(customer))
	}
	b.WriteString("\n")
	b.WriteString(policy.footer)
	return b.String()
}

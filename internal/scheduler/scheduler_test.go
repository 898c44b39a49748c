package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/segmenta/internal/clock"
	customerdomain "github.com/smallbiznis/segmenta/internal/customer/domain"
	customerrepo "github.com/smallbiznis/segmenta/internal/customer/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fakeRunner struct {
	mu      sync.Mutex
	seen    []snowflake.ID
	failFor map[snowflake.ID]error
	panicOn snowflake.ID
}

func (r *fakeRunner) RunForOwner(ctx context.Context, ownerID snowflake.ID) error {
	r.mu.Lock()
	r.seen = append(r.seen, ownerID)
	r.mu.Unlock()

	if r.panicOn != 0 && ownerID == r.panicOn {
		panic("evaluator blew up")
	}
	if err, ok := r.failFor[ownerID]; ok {
		return err
	}
	return nil
}

func setupSweep(t *testing.T, runner *fakeRunner, owners ...snowflake.ID) *Scheduler {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&customerdomain.Customer{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	for _, ownerID := range owners {
		customer := customerdomain.Customer{
			ID:               node.Generate(),
			OwnerID:          ownerID,
			Name:             "seeded",
			RegistrationDate: time.Now().UTC(),
			Metadata:         datatypes.JSONMap{},
		}
		require.NoError(t, db.Create(&customer).Error)
	}

	sched, err := New(Params{
		DB:           db,
		Log:          zap.NewNop(),
		Clock:        clock.NewFakeClock(time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)),
		CustomerRepo: customerrepo.Provide(),
		Alerts:       runner,
	})
	require.NoError(t, err)
	return sched
}

func TestRunOnce_SweepsAllOwners(t *testing.T) {
	runner := &fakeRunner{}
	sched := setupSweep(t, runner, 10, 20, 30)

	require.NoError(t, sched.RunOnce(context.Background()))
	assert.ElementsMatch(t, []snowflake.ID{10, 20, 30}, runner.seen)
}

func TestRunOnce_OwnerFailureDoesNotStopSweep(t *testing.T) {
	boom := errors.New("boom")
	runner := &fakeRunner{failFor: map[snowflake.ID]error{20: boom}}
	sched := setupSweep(t, runner, 10, 20, 30)

	err := sched.RunOnce(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ElementsMatch(t, []snowflake.ID{10, 20, 30}, runner.seen)
}

func TestRunOnce_PanicIsContained(t *testing.T) {
	runner := &fakeRunner{panicOn: 20}
	sched := setupSweep(t, runner, 10, 20, 30)

	err := sched.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
	assert.ElementsMatch(t, []snowflake.ID{10, 20, 30}, runner.seen)
}

func TestRunOnce_NoOwners(t *testing.T) {
	runner := &fakeRunner{}
	sched := setupSweep(t, runner)

	require.NoError(t, sched.RunOnce(context.Background()))
	assert.Empty(t, runner.seen)
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Params{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, time.Hour, cfg.RunInterval)
	assert.Equal(t, 30*time.Second, cfg.OwnerTimeout)

	custom := Config{RunInterval: 5 * time.Minute}.withDefaults()
	assert.Equal(t, 5*time.Minute, custom.RunInterval)
}

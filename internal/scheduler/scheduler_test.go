package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"Vaultium/internal/collector"
	"Vaultium/internal/metrics"
	"Vaultium/internal/mockdata"
	"Vaultium/internal/model"
	"Vaultium/internal/notifier"
	"Vaultium/internal/wallet"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	sched   *Scheduler
	wallet  *wallet.Manager
	metrics *metrics.Metrics

	mu      sync.Mutex
	sent    []string
	notices []model.Notice
	ticks   int
}

func newFixture(t *testing.T, rnd func() float64, interval time.Duration) *fixture {
	t.Helper()
	gen := mockdata.New(mockdata.WithSeed(3))
	w := wallet.NewManager(gen)
	w.Load(collector.DefaultSnapshot(), gen.Generate(5))

	f := &fixture{wallet: w, metrics: metrics.NewMetrics("test")}
	n := notifier.Func(func(_ context.Context, text string) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.sent = append(f.sent, text)
		return nil
	})
	f.sched = NewScheduler(context.Background(), w, nil, n, Options{
		RateInterval:    interval,
		TrackerInterval: interval,
		Random:          rnd,
		Metrics:         f.metrics,
		OnRates: func([]model.Rate) {
			f.mu.Lock()
			f.ticks++
			f.mu.Unlock()
		},
		OnNotice: func(n model.Notice) {
			f.mu.Lock()
			f.notices = append(f.notices, n)
			f.mu.Unlock()
		},
	})
	t.Cleanup(f.sched.Stop)
	return f
}

func (f *fixture) pending(t *testing.T) model.Transaction {
	t.Helper()
	tx, err := f.wallet.Send(wallet.SendRequest{To: "0xfeed", Amount: decimal.NewFromInt(1), Asset: "BTC"})
	require.NoError(t, err)
	return tx
}

func TestEvery(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, base.Add(2200*time.Millisecond), Every(DefaultRateInterval).Next(base))
}

func TestTrack_Idempotent(t *testing.T) {
	f := newFixture(t, func() float64 { return 0.5 }, time.Hour)
	tx := f.pending(t)

	t1, err := f.sched.TrackTask(tx.ID)
	require.NoError(t, err)
	t2, err := f.sched.TrackTask(tx.ID)
	require.NoError(t, err)

	assert.Same(t, t1, t2)
	assert.Equal(t, 1, f.sched.ActiveTrackers())
	assert.Len(t, f.wallet.View().Trackers, 1)
	assert.Len(t, f.sched.Cron.Entries(), 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.TrackersStarted))
}

func TestTrack_UnknownTx(t *testing.T) {
	f := newFixture(t, func() float64 { return 0.5 }, time.Hour)
	assert.ErrorIs(t, f.sched.Track("0xmissing"), wallet.ErrTxNotFound)
	assert.Equal(t, 0, f.sched.ActiveTrackers())
}

func TestTrackerTick_CompletesAndCleansUp(t *testing.T) {
	// 0.9 × 30 = 27% per tick, done on the 4th tick
	f := newFixture(t, func() float64 { return 0.9 }, time.Hour)
	tx := f.pending(t)
	require.NoError(t, f.sched.Track(tx.ID))

	for i := 0; i < 3; i++ {
		f.sched.TrackerTick(tx.ID)
		assert.Equal(t, 1, f.sched.ActiveTrackers(), "tick %d", i)
	}
	f.sched.TrackerTick(tx.ID)

	assert.Equal(t, 0, f.sched.ActiveTrackers())
	assert.Empty(t, f.sched.Cron.Entries())
	v := f.wallet.View()
	assert.Empty(t, v.Trackers)
	got, ok := v.FindTx(tx.ID)
	require.True(t, ok)
	assert.Equal(t, model.StatusConfirmed, got.Status)

	require.Len(t, f.notices, 1)
	assert.Equal(t, model.NoticeSuccess, f.notices[0].Kind)
	assert.Equal(t, []string{notifier.FormatConfirmed(tx.ID)}, f.sent)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.TrackersCompleted))
	assert.Equal(t, 0.0, testutil.ToFloat64(f.metrics.ActiveTrackers))

	// a late tick after completion is harmless
	f.sched.TrackerTick(tx.ID)
	assert.Len(t, f.notices, 1)
}

// restore reloads the wallet from its own snapshot with a tracker for txID
// that has no task behind it.
func (f *fixture) restore(t *testing.T, txID string, progress float64) {
	t.Helper()
	snap := f.wallet.Snapshot()
	snap.Trackers = map[string]model.Tracker{
		txID:     {TxID: txID, Status: model.StatusPending, Progress: progress},
		"0xgone": {TxID: "0xgone", Status: model.StatusPending, Progress: 10},
	}
	f.wallet.Load(&snap, nil)
	require.Equal(t, []string{txID}, f.wallet.TrackerIDs())
}

func TestTrackTask_AdoptsRestoredTracker(t *testing.T) {
	f := newFixture(t, func() float64 { return 0.9 }, time.Hour)
	tx := f.pending(t)
	f.restore(t, tx.ID, 40)

	task, err := f.sched.TrackTask(tx.ID)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, 1, f.sched.ActiveTrackers())
	assert.Len(t, f.sched.Cron.Entries(), 1)
	assert.Equal(t, 40.0, f.wallet.View().Trackers[tx.ID].Progress)

	again, err := f.sched.TrackTask(tx.ID)
	require.NoError(t, err)
	assert.Same(t, task, again)
	assert.Equal(t, 0, f.sched.Resume())

	// 40 + 27 + 27 = 94, then done
	for i := 0; i < 3; i++ {
		f.sched.TrackerTick(tx.ID)
	}
	got, _ := f.wallet.View().FindTx(tx.ID)
	assert.Equal(t, model.StatusConfirmed, got.Status)
	assert.True(t, task.Stopped())
	assert.Equal(t, 0, f.sched.ActiveTrackers())
}

func TestResume_DrivesRestoredTrackers(t *testing.T) {
	f := newFixture(t, func() float64 { return 0.99 }, 5*time.Millisecond)
	tx := f.pending(t)
	f.restore(t, tx.ID, 40)

	assert.Equal(t, 1, f.sched.Resume())
	assert.Equal(t, 0, f.sched.Resume())
	f.sched.Start()

	require.Eventually(t, func() bool {
		got, _ := f.wallet.View().FindTx(tx.ID)
		return got.Status == model.StatusConfirmed && f.sched.ActiveTrackers() == 0
	}, 2*time.Second, 5*time.Millisecond)
	assert.Empty(t, f.wallet.View().Trackers)
}

func TestTrackTask_StopCancels(t *testing.T) {
	f := newFixture(t, func() float64 { return 0.1 }, time.Hour)
	tx := f.pending(t)
	task, err := f.sched.TrackTask(tx.ID)
	require.NoError(t, err)

	task.Stop()
	task.Stop()
	assert.True(t, task.Stopped())
	assert.Equal(t, 0, f.sched.ActiveTrackers())
	assert.Empty(t, f.wallet.View().Trackers)

	got, _ := f.wallet.View().FindTx(tx.ID)
	assert.Equal(t, model.StatusPending, got.Status)
}

func TestStopTrackers(t *testing.T) {
	f := newFixture(t, func() float64 { return 0.1 }, time.Hour)
	for i := 0; i < 3; i++ {
		require.NoError(t, f.sched.Track(f.pending(t).ID))
	}
	require.Equal(t, 3, f.sched.ActiveTrackers())

	f.sched.StopTrackers()
	assert.Equal(t, 0, f.sched.ActiveTrackers())
	assert.Empty(t, f.sched.Cron.Entries())
}

func TestStartRates_IdempotentAndStoppable(t *testing.T) {
	f := newFixture(t, func() float64 { return 0.5 }, time.Hour)
	a := f.sched.StartRates()
	b := f.sched.StartRates()
	assert.Same(t, a, b)
	assert.True(t, f.sched.RatesRunning())
	assert.Len(t, f.sched.Cron.Entries(), 1)

	a.Stop()
	assert.False(t, f.sched.RatesRunning())
	assert.Empty(t, f.sched.Cron.Entries())

	c := f.sched.StartRates()
	assert.NotSame(t, a, c)
}

func TestDriftTick_Publishes(t *testing.T) {
	f := newFixture(t, func() float64 { return 0.48 }, time.Hour)
	before := f.wallet.View().RateMap["BTC"].Rate

	rates := f.sched.DriftTick()
	require.Len(t, rates, 5)
	assert.InDelta(t, before, rates[0].Rate, 1e-9)
	assert.Equal(t, 1, f.ticks)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RateTicks))
}

func TestScheduler_RunsOnCron(t *testing.T) {
	f := newFixture(t, func() float64 { return 0.99 }, 5*time.Millisecond)
	tx := f.pending(t)
	f.sched.Start()
	f.sched.StartRates()
	require.NoError(t, f.sched.Track(tx.ID))

	require.Eventually(t, func() bool {
		got, _ := f.wallet.View().FindTx(tx.ID)
		return got.Status == model.StatusConfirmed && f.sched.ActiveTrackers() == 0
	}, 2*time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.ticks >= 2
	}, 2*time.Second, 5*time.Millisecond)
}

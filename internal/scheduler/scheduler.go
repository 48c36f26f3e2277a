package scheduler

import (
	"context"
	"log"
	"os"
	"sync"
	"time"

	"Vaultium/internal/metrics"
	"Vaultium/internal/model"
	"Vaultium/internal/notifier"
	"Vaultium/internal/recorder"
	"Vaultium/internal/wallet"

	"github.com/robfig/cron/v3"
)

const (
	DefaultRateInterval    = 2200 * time.Millisecond
	DefaultTrackerInterval = 1500 * time.Millisecond
)

// Every is a fixed-interval cron schedule with sub-second precision.
type Every time.Duration

func (e Every) Next(t time.Time) time.Time { return t.Add(time.Duration(e)) }

// Options tunes the simulation.
type Options struct {
	RateInterval    time.Duration
	TrackerInterval time.Duration
	Random          func() float64 // uniform in [0, 1)
	Metrics         *metrics.Metrics
	OnRates         func([]model.Rate)
	OnNotice        func(model.Notice)
}

// Scheduler runs the rate-drift task and the per-transaction trackers.
type Scheduler struct {
	Cron     *cron.Cron
	Wallet   *wallet.Manager
	Recorder recorder.Recorder
	Notifier notifier.Notifier
	Ctx      context.Context

	opts Options

	mu       sync.Mutex
	rates    *Task
	trackers map[string]*Task
}

// NewScheduler creates a new Scheduler. Jobs only fire after Start.
func NewScheduler(ctx context.Context, w *wallet.Manager, rec recorder.Recorder, n notifier.Notifier, opts Options) *Scheduler {
	if opts.RateInterval <= 0 {
		opts.RateInterval = DefaultRateInterval
	}
	if opts.TrackerInterval <= 0 {
		opts.TrackerInterval = DefaultTrackerInterval
	}
	if opts.Random == nil {
		panic("scheduler: Options.Random is required")
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if n == nil {
		n = notifier.LogNotifier{}
	}
	logger := cron.PrintfLogger(log.New(os.Stdout, "[cron] ", log.LstdFlags))
	return &Scheduler{
		Cron:     cron.New(cron.WithChain(cron.Recover(logger))),
		Wallet:   w,
		Recorder: rec,
		Notifier: n,
		Ctx:      ctx,
		opts:     opts,
		trackers: make(map[string]*Task),
	}
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops every task and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// StartRates starts the rate-drift task. Calling it again while the task
// runs returns the existing handle.
func (s *Scheduler) StartRates() *Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rates != nil && !s.rates.Stopped() {
		return s.rates
	}
	t := &Task{name: "rates"}
	t.id = s.Cron.Schedule(Every(s.opts.RateInterval), cron.FuncJob(func() { s.DriftTick() }))
	t.stop = func() {
		s.Cron.Remove(t.id)
		s.mu.Lock()
		if s.rates == t {
			s.rates = nil
		}
		s.mu.Unlock()
	}
	s.rates = t
	log.Printf("[INFO] rate simulation started (every %v)", s.opts.RateInterval)
	return t
}

// RatesRunning reports whether the rate-drift task is active.
func (s *Scheduler) RatesRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rates != nil && !s.rates.Stopped()
}

// DriftTick applies one rate-drift step and publishes the result.
func (s *Scheduler) DriftTick() []model.Rate {
	rates := s.Wallet.DriftRates(s.opts.Random)
	if m := s.opts.Metrics; m != nil {
		m.RateTicks.Inc()
	}
	if s.opts.OnRates != nil {
		s.opts.OnRates(rates)
	}
	return rates
}

// Track starts a confirmation tracker for a pending transaction. A second
// call for the same transaction while its tracker runs is ignored.
func (s *Scheduler) Track(txID string) error {
	_, err := s.TrackTask(txID)
	return err
}

// TrackTask is Track returning the tracker's handle. A tracker restored
// from a snapshot without a running task is picked up and scheduled.
func (s *Scheduler) TrackTask(txID string) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	started, err := s.Wallet.StartTracker(txID)
	if err != nil {
		return nil, err
	}
	if !started {
		if t := s.trackers[txID]; t != nil {
			return t, nil
		}
	}
	return s.schedule(txID), nil
}

// Resume schedules a task for every wallet tracker that has none, e.g. after
// loading a snapshot that carried in-flight trackers. It returns how many
// trackers were resumed.
func (s *Scheduler) Resume() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, id := range s.Wallet.TrackerIDs() {
		if _, ok := s.trackers[id]; ok {
			continue
		}
		s.schedule(id)
		n++
	}
	return n
}

// schedule creates the cron task for a tracker already present in the
// wallet. s.mu must be held.
func (s *Scheduler) schedule(txID string) *Task {
	t := &Task{name: "tracker " + txID}
	t.id = s.Cron.Schedule(Every(s.opts.TrackerInterval), cron.FuncJob(func() { s.TrackerTick(txID) }))
	t.stop = func() {
		s.Cron.Remove(t.id)
		s.Wallet.DropTracker(txID)
		s.forget(txID, t)
	}
	s.trackers[txID] = t

	if m := s.opts.Metrics; m != nil {
		m.TrackersStarted.Inc()
		m.ActiveTrackers.Set(float64(len(s.trackers)))
	}
	if tx, ok := s.Wallet.View().FindTx(txID); ok {
		s.record(&recorder.TxEvent{TxID: txID, EventType: "TRACK_START", Coin: tx.Coin, Amount: tx.Amount.String(), Status: string(tx.Status)})
	}
	log.Printf("[INFO] tracking %s", txID)
	return t
}

// TrackerTick advances one tracker by a random increment of up to 30%.
func (s *Scheduler) TrackerTick(txID string) {
	tr, done, err := s.Wallet.AdvanceTracker(txID, s.opts.Random()*30)
	if err != nil {
		// state was reloaded underneath the tracker
		s.retire(txID)
		return
	}
	if !done {
		log.Printf("[INFO] tracking %s %.0f%%", txID, tr.Progress)
		return
	}

	s.retire(txID)
	if m := s.opts.Metrics; m != nil {
		m.TrackersCompleted.Inc()
	}
	if tx, ok := s.Wallet.View().FindTx(txID); ok {
		s.record(&recorder.TxEvent{TxID: txID, EventType: "CONFIRMED", Coin: tx.Coin, Amount: tx.Amount.String(), Status: string(tx.Status)})
	}

	text := notifier.FormatConfirmed(txID)
	notice := s.Wallet.AddNotice(model.NoticeSuccess, text)
	if s.opts.OnNotice != nil {
		s.opts.OnNotice(notice)
	}
	if err := s.Notifier.Notify(s.Ctx, text); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}

// ActiveTrackers returns the number of running tracker tasks.
func (s *Scheduler) ActiveTrackers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.trackers)
}

// StopTrackers cancels every tracker task, e.g. before the state is reloaded.
func (s *Scheduler) StopTrackers() {
	s.mu.Lock()
	tasks := make([]*Task, 0, len(s.trackers))
	for _, t := range s.trackers {
		tasks = append(tasks, t)
	}
	s.mu.Unlock()

	for _, t := range tasks {
		t.Stop()
	}
}

func (s *Scheduler) retire(txID string) {
	s.mu.Lock()
	t := s.trackers[txID]
	s.mu.Unlock()
	if t == nil {
		return
	}
	t.once.Do(func() {
		s.Cron.Remove(t.id)
		s.forget(txID, t)
		t.setStopped()
	})
}

func (s *Scheduler) forget(txID string, t *Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.trackers[txID] == t {
		delete(s.trackers, txID)
	}
	if m := s.opts.Metrics; m != nil {
		m.ActiveTrackers.Set(float64(len(s.trackers)))
	}
}

func (s *Scheduler) record(evt *recorder.TxEvent) {
	if err := s.Recorder.RecordTx(evt); err != nil {
		log.Printf("[ERROR] record tx event: %v", err)
	}
}

// Package server exposes the wallet over HTTP: server-rendered pages, the
// JSON API, CSV export, the live websocket feed and metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"Vaultium/internal/collector"
	"Vaultium/internal/metrics"
	"Vaultium/internal/mockdata"
	"Vaultium/internal/model"
	"Vaultium/internal/recorder"
	"Vaultium/internal/scheduler"
	"Vaultium/internal/view"
	"Vaultium/internal/wallet"
)

// Deps are the components the server drives.
type Deps struct {
	Wallet      *wallet.Manager
	Scheduler   *scheduler.Scheduler
	Collector   *collector.Collector
	Recorder    recorder.Recorder
	Metrics     *metrics.Metrics
	Generator   *mockdata.Generator
	Hub         *Hub
	MockTxCount int
}

// Server serves the wallet UI and API.
type Server struct {
	Deps

	renderer *view.Renderer
	router   *Router

	mu   sync.Mutex
	load view.LoadState
}

// New creates a Server. The state starts in the loading status until Load
// completes.
func New(d Deps) (*Server, error) {
	if d.Wallet == nil || d.Scheduler == nil || d.Collector == nil || d.Generator == nil {
		return nil, errors.New("server: wallet, scheduler, collector and generator are required")
	}
	if d.Recorder == nil {
		d.Recorder = recorder.NewNoopRecorder()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.NewMetrics("")
	}
	if d.Hub == nil {
		d.Hub = NewHub(d.Metrics)
	}
	if d.MockTxCount <= 0 {
		d.MockTxCount = 18
	}
	r, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}
	s := &Server{
		Deps:     d,
		renderer: r,
		load:     view.LoadState{Status: view.LoadLoading},
	}
	s.router = s.routes()
	return s, nil
}

// LoadState returns the current load status.
func (s *Server) LoadState() view.LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load
}

func (s *Server) setLoad(ls view.LoadState) {
	s.mu.Lock()
	s.load = ls
	s.mu.Unlock()
}

// Load fetches the baseline snapshot and replaces the wallet state with it.
// A snapshot without transactions gets a fresh batch of mock ones. On
// failure the server keeps its previous state and reports the failed status
// until a reload succeeds.
func (s *Server) Load(ctx context.Context) error {
	s.setLoad(view.LoadState{Status: view.LoadLoading})
	source := s.Collector.Fetcher.Name()

	snap, err := s.Collector.Load(ctx)
	if err != nil {
		s.setLoad(view.LoadState{Status: view.LoadFailed, Error: err.Error(), Attempts: s.Collector.Retries + 1})
		s.Metrics.StateLoads.WithLabelValues("failed").Inc()
		s.recordLoad(&recorder.LoadEvent{Source: source, Error: err.Error()})
		return err
	}

	// a saved session keeps its transactions and in-flight trackers
	var txs []model.Transaction
	if len(snap.Txs) == 0 {
		txs = s.Generator.Generate(s.MockTxCount)
	}
	s.Wallet.Load(snap, txs)
	resumed := s.Scheduler.Resume()
	count := len(s.Wallet.View().Txs)

	s.setLoad(view.LoadState{Status: view.LoadReady})
	s.Metrics.StateLoads.WithLabelValues("ok").Inc()
	s.Metrics.WatchlistSize.Set(float64(len(snap.Watchlists)))
	s.recordLoad(&recorder.LoadEvent{Source: source, Success: true, TxCount: count})
	log.Printf("[INFO] state loaded from %s (%d transactions, %d trackers resumed)", source, count, resumed)
	return nil
}

// Reload cancels running trackers, whose transactions are about to be
// replaced, and loads the state again.
func (s *Server) Reload(ctx context.Context) error {
	s.Scheduler.StopTrackers()
	return s.Load(ctx)
}

// PublishRates pushes a rate tick to live clients.
func (s *Server) PublishRates(rates []model.Rate) {
	frame := RatesFrame{Type: "rates", Rates: make(map[string]model.Rate, len(rates)), USD: s.Wallet.View().PrimaryUSD()}
	for _, r := range rates {
		frame.Rates[r.Symbol] = r
	}
	s.Hub.Broadcast(frame)
}

// PublishNotice pushes a notice to live clients.
func (s *Server) PublishNotice(n model.Notice) {
	s.Hub.Broadcast(NoticeFrame{Type: "notice", Notice: n})
}

// Handler returns the HTTP handler with every route registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/state", s.apiState)
	mux.HandleFunc("GET /api/transactions", s.apiTransactions)
	mux.HandleFunc("POST /api/send", s.apiSend)
	mux.HandleFunc("POST /api/add_contract", s.apiAddContract)
	mux.HandleFunc("POST /api/remove_contract/{addr}", s.apiRemoveContract)
	mux.HandleFunc("POST /api/add_asset", s.apiAddAsset)
	mux.HandleFunc("POST /api/holdings/move", s.apiMoveHolding)
	mux.HandleFunc("POST /api/track/{id}", s.apiTrack)
	mux.HandleFunc("POST /api/reload", s.apiReload)
	mux.HandleFunc("GET /api/tx/{id}/history", s.apiTxHistory)
	mux.HandleFunc("GET /api/journal", s.apiJournal)

	mux.HandleFunc("GET /transactions/export.csv", s.exportCSV)
	mux.HandleFunc("GET /search", s.search)
	mux.HandleFunc("POST /send", s.postSend)
	mux.HandleFunc("POST /smart/add", s.postAddContract)
	mux.HandleFunc("POST /smart/remove", s.postRemoveContract)
	mux.HandleFunc("POST /portfolio/add", s.postAddAsset)
	mux.HandleFunc("POST /portfolio/move", s.postMoveHolding)
	mux.HandleFunc("POST /track/{id}", s.postTrack)
	mux.HandleFunc("POST /settings/save", s.flashRedirect("/settings", "saved"))
	mux.HandleFunc("POST /settings/theme", s.flashRedirect("/settings", "theme"))
	mux.HandleFunc("POST /dev", s.flashRedirect("/", "dev"))
	mux.HandleFunc("POST /reload", s.postReload)

	mux.HandleFunc("GET /ws", s.serveWS)
	mux.Handle("GET /metrics", s.Metrics.Handler())
	mux.HandleFunc("GET /healthz", s.healthz)
	mux.HandleFunc("GET /", s.servePage)

	return s.instrument(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.Hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if s.LoadState().Status == view.LoadFailed {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("state load failed"))
		return
	}
	w.Write([]byte("ok"))
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	v := s.Wallet.View()
	first := RatesFrame{Type: "rates", Rates: v.RateMap, USD: v.PrimaryUSD()}
	s.Hub.ServeWS(w, r, first)
}

func (s *Server) recordLoad(evt *recorder.LoadEvent) {
	if err := s.Recorder.RecordLoad(evt); err != nil {
		log.Printf("[ERROR] record load: %v", err)
	}
}

func (s *Server) recordTx(evt *recorder.TxEvent) {
	if err := s.Recorder.RecordTx(evt); err != nil {
		log.Printf("[ERROR] record tx event: %v", err)
	}
}

func (s *Server) recordWatch(evt *recorder.WatchEvent) {
	if err := s.Recorder.RecordWatch(evt); err != nil {
		log.Printf("[ERROR] record watch event: %v", err)
	}
}

func (s *Server) recordHolding(evt *recorder.HoldingEvent) {
	if err := s.Recorder.RecordHolding(evt); err != nil {
		log.Printf("[ERROR] record holding event: %v", err)
	}
}

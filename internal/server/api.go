package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"Vaultium/internal/model"
	"Vaultium/internal/recorder"
	"Vaultium/internal/view"
	"Vaultium/internal/wallet"

	"github.com/shopspring/decimal"
)

type apiError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}

func writeOK(w http.ResponseWriter, extra map[string]any) {
	body := map[string]any{"status": "success"}
	for k, v := range extra {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, apiError{Status: "error", Message: msg})
}

// errorCode maps wallet errors to HTTP status codes.
func errorCode(err error) int {
	switch {
	case isValidation(err), errors.Is(err, wallet.ErrNotPending):
		return http.StatusBadRequest
	case errors.Is(err, wallet.ErrTxNotFound), errors.Is(err, wallet.ErrWatchNotFound),
		errors.Is(err, wallet.ErrHoldingNotFound), errors.Is(err, wallet.ErrTrackerNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(v); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (s *Server) apiState(w http.ResponseWriter, r *http.Request) {
	if s.LoadState().Status == view.LoadFailed {
		writeErr(w, http.StatusServiceUnavailable, s.LoadState().Error)
		return
	}
	writeJSON(w, http.StatusOK, s.Wallet.Snapshot())
}

func (s *Server) apiTransactions(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("status")
	if filter == "" {
		filter = "all"
	}
	if _, _, ok := model.ParseStatusFilter(filter); !ok {
		writeErr(w, http.StatusBadRequest, "unknown status filter")
		return
	}
	writeOK(w, map[string]any{"txs": s.Wallet.View().Filter(filter)})
}

type sendBody struct {
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
	Asset  string          `json:"asset"`
	Note   string          `json:"note"`
}

func (s *Server) apiSend(w http.ResponseWriter, r *http.Request) {
	var body sendBody
	if !decodeJSON(w, r, &body) {
		return
	}
	tx, err := s.Wallet.Send(wallet.SendRequest{To: body.To, Amount: body.Amount, Asset: body.Asset, Note: body.Note})
	if err != nil {
		s.Metrics.ValidationErrs.WithLabelValues("send").Inc()
		writeErr(w, errorCode(err), "Invalid recipient or amount")
		return
	}
	s.afterSend(tx)
	writeOK(w, map[string]any{"tx": tx})
}

type contractBody struct {
	Address string `json:"address"`
	Label   string `json:"label"`
}

func (s *Server) apiAddContract(w http.ResponseWriter, r *http.Request) {
	var body contractBody
	if !decodeJSON(w, r, &body) {
		return
	}
	e, err := s.addWatch(body.Address, body.Label)
	if err != nil {
		writeErr(w, errorCode(err), "Invalid address")
		return
	}
	writeOK(w, map[string]any{"entry": e})
}

func (s *Server) apiRemoveContract(w http.ResponseWriter, r *http.Request) {
	if err := s.removeWatch(r.PathValue("addr")); err != nil {
		writeErr(w, errorCode(err), err.Error())
		return
	}
	writeOK(w, nil)
}

type assetBody struct {
	Symbol string          `json:"symbol"`
	Amount decimal.Decimal `json:"amount"`
}

func (s *Server) apiAddAsset(w http.ResponseWriter, r *http.Request) {
	var body assetBody
	if !decodeJSON(w, r, &body) {
		return
	}
	h, err := s.addHolding(body.Symbol, body.Amount)
	if err != nil {
		writeErr(w, errorCode(err), "Invalid asset or amount")
		return
	}
	writeOK(w, map[string]any{"holding": h})
}

func (s *Server) apiMoveHolding(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Symbol string `json:"symbol"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if err := s.moveHolding(body.Symbol); err != nil {
		writeErr(w, errorCode(err), err.Error())
		return
	}
	writeOK(w, map[string]any{"holdings": s.Wallet.View().Holdings})
}

func (s *Server) apiTrack(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.Scheduler.Track(id); err != nil {
		writeErr(w, errorCode(err), err.Error())
		return
	}
	writeOK(w, map[string]any{"tracker": s.Wallet.View().Trackers[id]})
}

func (s *Server) apiReload(w http.ResponseWriter, r *http.Request) {
	if err := s.Reload(r.Context()); err != nil {
		writeErr(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeOK(w, nil)
}

// apiTxHistory lists the journaled lifecycle events of one transaction.
func (s *Server) apiTxHistory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.Wallet.View().FindTx(id); !ok {
		writeErr(w, http.StatusNotFound, wallet.ErrTxNotFound.Error())
		return
	}
	events, err := s.Recorder.TxHistory(id)
	if err != nil {
		log.Printf("[ERROR] tx history %s: %v", id, err)
		writeErr(w, http.StatusInternalServerError, "journal unavailable")
		return
	}
	if events == nil {
		events = []recorder.TxEvent{}
	}
	writeOK(w, map[string]any{"events": events})
}

// apiJournal reports the row count of every journal table.
func (s *Server) apiJournal(w http.ResponseWriter, r *http.Request) {
	counts := make(map[string]int, len(recorder.Tables))
	for _, table := range recorder.Tables {
		n, err := s.Recorder.Count(table)
		if err != nil {
			log.Printf("[ERROR] count %s: %v", table, err)
			writeErr(w, http.StatusInternalServerError, "journal unavailable")
			return
		}
		counts[table] = n
	}
	writeOK(w, map[string]any{"counts": counts})
}

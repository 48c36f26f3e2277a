package server

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"Vaultium/internal/model"
	"Vaultium/internal/notifier"
	"Vaultium/internal/recorder"
	"Vaultium/internal/view"
	"Vaultium/internal/wallet"

	"github.com/shopspring/decimal"
)

// Flash messages shown after a redirect, keyed by the flash query parameter.
var flashes = map[string]string{
	"queued":        "Transaction queued (simulated). It will appear in Transactions.",
	"saved":         "Saved (demo)",
	"theme":         "Theme toggle (demo)",
	"dev":           "Dev toggles (demo). You can wire this up to enable real API keys.",
	"watch-added":   "Contract added to the watchlist.",
	"watch-removed": "Contract removed from the watchlist.",
	"asset-added":   "Asset added.",
	"tracking":      "Tracking transaction (simulated).",
	"reloaded":      "Wallet state reloaded.",
}

// Flash errors, rendered with the error style.
var flashErrors = map[string]string{
	"watch-missing": "That contract is not on the watchlist.",
	"track-failed":  "Only pending transactions can be tracked.",
	"reload-failed": "Reload failed. See the banner for details.",
}

const (
	msgInvalidSend    = "Invalid recipient or amount."
	msgInvalidAddress = "Enter address"
	msgInvalidAsset   = "Invalid asset or amount"
)

func (s *Server) routes() *Router {
	rt := NewRouter()
	rt.Handle("dashboard", s.buildDashboard, "/", "/dashboard")
	rt.Handle("transactions", s.buildTransactions, "/transactions")
	rt.Handle("send", s.buildSend, "/send")
	rt.Handle("smart", s.buildSmart, "/smart")
	rt.Handle("portfolio", s.buildPortfolio, "/portfolio")
	rt.Handle("history", nil, "/history")
	rt.Handle("settings", nil, "/settings")
	return rt
}

// servePage renders the page routed at the request path. Unknown paths get
// a 404 with an empty body.
func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	route, ok := s.router.Lookup(r.URL.Path)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	p := s.basePage(r, route.Name)
	code := http.StatusOK
	if route.Build != nil {
		if c := route.Build(r, &p); c != 0 {
			code = c
		}
	}
	s.render(w, code, p)
}

// basePage fills the parts shared by every page: state view, load banner,
// flash message and the overlay requested by the modal query parameter.
func (s *Server) basePage(r *http.Request, name string) view.Page {
	q := r.URL.Query()
	v := s.Wallet.View()
	p := view.Page{
		Name:  name,
		Path:  r.URL.Path,
		View:  v,
		Load:  s.LoadState(),
		Query: q.Get("q"),
	}
	if msg, ok := flashes[q.Get("flash")]; ok {
		p.Flash = msg
	} else if msg, ok := flashErrors[q.Get("flash")]; ok {
		p.Flash, p.FlashErr = msg, true
	}

	var host view.ModalHost
	switch view.ModalKind(q.Get("modal")) {
	case view.ModalTx:
		if tx, ok := v.FindTx(q.Get("id")); ok {
			m := view.Modal{Kind: view.ModalTx, Tx: tx}
			if tr, ok := v.Trackers[tx.ID]; ok {
				m.Tracker = &tr
			}
			host.Open(m)
		}
	case view.ModalAddContract:
		host.Open(view.Modal{Kind: view.ModalAddContract})
	case view.ModalContract:
		if in, err := s.Wallet.InspectWatch(q.Get("addr")); err == nil {
			host.Open(view.Modal{Kind: view.ModalContract, Insight: in, Entry: in.Entry})
		}
	case view.ModalRemoveContract:
		if e, ok := v.FindWatch(q.Get("addr")); ok {
			host.Open(view.Modal{Kind: view.ModalRemoveContract, Entry: e})
		}
	case view.ModalAddAsset:
		host.Open(view.Modal{Kind: view.ModalAddAsset})
	}
	host.Click(q.Get("click"))
	p.Modal = host.Active()

	closeQ := url.Values{}
	for k, vals := range q {
		closeQ[k] = vals
	}
	closeQ.Set("click", view.Backdrop)
	p.CloseHref = r.URL.Path + "?" + closeQ.Encode()
	return p
}

func (s *Server) render(w http.ResponseWriter, code int, p view.Page) {
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, p); err != nil {
		log.Printf("[ERROR] render %s: %v", p.Name, err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	w.Write(buf.Bytes())
}

func (s *Server) buildDashboard(r *http.Request, p *view.Page) int {
	if p.Load.Status == view.LoadReady {
		s.Scheduler.StartRates()
	}
	p.Data = view.Dashboard(p.View)
	return 0
}

func (s *Server) buildTransactions(r *http.Request, p *view.Page) int {
	p.Data = view.Transactions(p.View, r.URL.Query().Get("status"))
	return 0
}

func (s *Server) buildSend(r *http.Request, p *view.Page) int {
	p.Data = view.NewSendData()
	return 0
}

func (s *Server) buildSmart(r *http.Request, p *view.Page) int {
	p.Data = view.SmartData{Entries: p.View.Watchlists}
	return 0
}

func (s *Server) buildPortfolio(r *http.Request, p *view.Page) int {
	p.Data = view.Portfolio(p.View, s.Generator.Float64)
	return 0
}

// search opens the first matching transaction, or reports no match.
func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if tx, ok := s.Wallet.View().Search(q); ok {
		http.Redirect(w, r, "/transactions?modal=tx&id="+url.QueryEscape(tx.ID), http.StatusFound)
		return
	}
	p := s.basePage(r, "search")
	p.Data = view.SearchData{Query: q}
	s.render(w, http.StatusOK, p)
}

func (s *Server) postSend(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	action := r.PostForm.Get("action")
	if action == "cancel" {
		http.Redirect(w, r, "/send", http.StatusSeeOther)
		return
	}

	data := view.NewSendData()
	data.To = strings.TrimSpace(r.PostForm.Get("to"))
	data.Amount = strings.TrimSpace(r.PostForm.Get("amount"))
	data.Note = r.PostForm.Get("note")
	if a := r.PostForm.Get("asset"); a != "" {
		data.Asset = a
	}
	req := wallet.SendRequest{To: data.To, Amount: parseAmount(data.Amount), Asset: data.Asset, Note: data.Note}

	p := s.basePage(r, "send")
	p.Path = "/send"
	switch action {
	case "edit":
		p.Data = data
		s.render(w, http.StatusOK, p)
		return
	case "confirm":
		tx, err := s.Wallet.Send(req)
		if err != nil {
			s.Metrics.ValidationErrs.WithLabelValues("send").Inc()
			data.Error = msgInvalidSend
			p.Data = data
			s.render(w, http.StatusBadRequest, p)
			return
		}
		s.afterSend(tx)
		http.Redirect(w, r, "/transactions?flash=queued", http.StatusSeeOther)
		return
	}

	preview, err := wallet.PreviewSend(req)
	if err != nil {
		s.Metrics.ValidationErrs.WithLabelValues("send").Inc()
		data.Error = msgInvalidSend
		p.Data = data
		s.render(w, http.StatusBadRequest, p)
		return
	}
	data.Preview = &preview
	p.Data = data
	s.render(w, http.StatusOK, p)
}

func (s *Server) afterSend(tx model.Transaction) {
	s.Metrics.TxSent.Inc()
	s.recordTx(&recorder.TxEvent{TxID: tx.ID, EventType: "SENT", Coin: tx.Coin, Amount: tx.Amount.String(), Status: string(tx.Status)})
	s.Wallet.AddNotice(model.NoticeInfo, notifier.QueuedNotice(tx))
	go func() {
		if err := s.Scheduler.Notifier.Notify(s.Scheduler.Ctx, notifier.FormatQueued(tx)); err != nil {
			log.Printf("[ERROR] send notification: %v", err)
		}
	}()
	log.Printf("[INFO] queued %s %s %s", tx.ID, tx.Amount, tx.Coin)
}

func (s *Server) postAddContract(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	address := r.PostForm.Get("address")
	label := r.PostForm.Get("label")
	if _, err := s.addWatch(address, label); err != nil {
		p := s.basePage(r, "smart")
		p.Path = "/smart"
		p.Data = view.SmartData{Entries: p.View.Watchlists}
		p.Modal = &view.Modal{Kind: view.ModalAddContract, Address: address, Label: label, Error: msgInvalidAddress}
		p.CloseHref = "/smart"
		s.render(w, http.StatusBadRequest, p)
		return
	}
	http.Redirect(w, r, "/smart?flash=watch-added", http.StatusSeeOther)
}

func (s *Server) addWatch(address, label string) (model.WatchEntry, error) {
	e, err := s.Wallet.AddWatch(address, label)
	if err != nil {
		s.Metrics.ValidationErrs.WithLabelValues("watch").Inc()
		return e, err
	}
	s.Metrics.WatchlistSize.Set(float64(len(s.Wallet.View().Watchlists)))
	s.recordWatch(&recorder.WatchEvent{Action: "ADD", Address: e.Address, Label: e.Label, Chain: e.Chain})
	return e, nil
}

// postRemoveContract deletes a watched contract once the confirmation step
// has been answered with confirm=yes.
func (s *Server) postRemoveContract(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	address := r.PostForm.Get("address")
	if r.PostForm.Get("confirm") != "yes" {
		http.Redirect(w, r, "/smart?modal=remove-contract&addr="+url.QueryEscape(address), http.StatusSeeOther)
		return
	}
	if err := s.removeWatch(address); err != nil {
		http.Redirect(w, r, "/smart?flash=watch-missing", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/smart?flash=watch-removed", http.StatusSeeOther)
}

func (s *Server) removeWatch(address string) error {
	if err := s.Wallet.RemoveWatch(address); err != nil {
		return err
	}
	s.Metrics.WatchlistSize.Set(float64(len(s.Wallet.View().Watchlists)))
	s.recordWatch(&recorder.WatchEvent{Action: "REMOVE", Address: address})
	return nil
}

func (s *Server) postAddAsset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	symbol := r.PostForm.Get("symbol")
	amount := strings.TrimSpace(r.PostForm.Get("amount"))
	if _, err := s.addHolding(symbol, parseAmount(amount)); err != nil {
		p := s.basePage(r, "portfolio")
		p.Path = "/portfolio"
		p.Data = view.Portfolio(p.View, s.Generator.Float64)
		p.Modal = &view.Modal{Kind: view.ModalAddAsset, Symbol: symbol, Amount: amount, Error: msgInvalidAsset}
		p.CloseHref = "/portfolio"
		s.render(w, http.StatusBadRequest, p)
		return
	}
	http.Redirect(w, r, "/portfolio?flash=asset-added", http.StatusSeeOther)
}

func (s *Server) addHolding(symbol string, amount decimal.Decimal) (model.Holding, error) {
	h, err := s.Wallet.AddHolding(symbol, amount)
	if err != nil {
		s.Metrics.ValidationErrs.WithLabelValues("asset").Inc()
		return h, err
	}
	s.Metrics.HoldingsAdded.Inc()
	s.recordHolding(&recorder.HoldingEvent{Action: "ADD", Symbol: h.Symbol, Amount: h.Amount.String()})
	return h, nil
}

func (s *Server) postMoveHolding(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.moveHolding(r.PostForm.Get("symbol")); err != nil {
		log.Printf("[WARN] move holding: %v", err)
	}
	http.Redirect(w, r, "/portfolio", http.StatusSeeOther)
}

func (s *Server) moveHolding(symbol string) error {
	if err := s.Wallet.MoveHoldingToFront(symbol); err != nil {
		return err
	}
	s.recordHolding(&recorder.HoldingEvent{Action: "MOVE_FRONT", Symbol: symbol})
	return nil
}

func (s *Server) postTrack(w http.ResponseWriter, r *http.Request) {
	if err := s.Scheduler.Track(r.PathValue("id")); err != nil {
		log.Printf("[WARN] track %s: %v", r.PathValue("id"), err)
		http.Redirect(w, r, "/transactions?flash=track-failed", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/transactions?flash=tracking", http.StatusSeeOther)
}

func (s *Server) postReload(w http.ResponseWriter, r *http.Request) {
	if err := s.Reload(r.Context()); err != nil {
		log.Printf("[ERROR] reload: %v", err)
		http.Redirect(w, r, "/?flash=reload-failed", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/?flash=reloaded", http.StatusSeeOther)
}

func (s *Server) flashRedirect(target, flash string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target+"?flash="+flash, http.StatusSeeOther)
	}
}

// parseAmount reads a form amount; anything unparsable counts as zero.
func parseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func isValidation(err error) bool {
	return errors.Is(err, wallet.ErrInvalidRecipient) ||
		errors.Is(err, wallet.ErrInvalidAmount) ||
		errors.Is(err, wallet.ErrInvalidAddress) ||
		errors.Is(err, wallet.ErrInvalidSymbol)
}

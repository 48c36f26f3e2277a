package view

import (
	"Vaultium/internal/model"
	"Vaultium/internal/wallet"
)

// ModalKind selects the overlay content.
type ModalKind string

const (
	ModalTx             ModalKind = "tx"
	ModalAddContract    ModalKind = "add-contract"
	ModalContract       ModalKind = "contract"
	ModalRemoveContract ModalKind = "remove-contract"
	ModalAddAsset       ModalKind = "add-asset"
)

// Backdrop is the click target outside the overlay card.
const Backdrop = "backdrop"

// Modal is the content of the active overlay. Only the fields of its Kind are set.
type Modal struct {
	Kind ModalKind

	Tx      model.Transaction
	Tracker *model.Tracker

	Entry   model.WatchEntry
	Insight wallet.ContractInsight

	// retained form input
	Address string
	Label   string
	Symbol  string
	Amount  string
	Error   string
}

// Pending reports whether the transaction in a tx modal can be tracked.
func (m *Modal) Pending() bool {
	return m.Kind == ModalTx && m.Tx.Status == model.StatusPending && m.Tracker == nil
}

// ModalHost holds at most one active overlay.
type ModalHost struct {
	active *Modal
}

// Open shows m, replacing any overlay already open.
func (h *ModalHost) Open(m Modal) {
	h.active = &m
}

// Close removes the overlay. No-op when none is open.
func (h *ModalHost) Close() {
	h.active = nil
}

// Click closes the overlay only when the click landed on the backdrop.
func (h *ModalHost) Click(target string) {
	if target == Backdrop {
		h.Close()
	}
}

// Active returns the open overlay or nil.
func (h *ModalHost) Active() *Modal {
	return h.active
}

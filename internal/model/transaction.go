package model

import "github.com/shopspring/decimal"

// TxType is the kind of a transaction.
type TxType string

const (
	TxSend     TxType = "send"
	TxReceive  TxType = "receive"
	TxContract TxType = "contract"
	TxSwap     TxType = "swap"
)

// TxTypes lists every transaction kind.
var TxTypes = []TxType{TxSend, TxReceive, TxContract, TxSwap}

// TxStatus is the confirmation state of a transaction.
type TxStatus string

const (
	StatusPending   TxStatus = "pending"
	StatusConfirmed TxStatus = "confirmed"
	StatusFailed    TxStatus = "failed"
)

// ParseStatusFilter maps a filter value to a status. "all" and "" match every status.
func ParseStatusFilter(s string) (status TxStatus, all bool, ok bool) {
	switch s {
	case "", "all":
		return "", true, true
	case string(StatusPending), string(StatusConfirmed), string(StatusFailed):
		return TxStatus(s), false, true
	default:
		return "", false, false
	}
}

// Transaction is a single wallet transaction record.
type Transaction struct {
	ID       string          `json:"id"`
	Time     int64           `json:"time"` // epoch milliseconds
	Type     TxType          `json:"type"`
	Coin     string          `json:"coin"`
	Amount   decimal.Decimal `json:"amount"`
	Status   TxStatus        `json:"status"`
	Fee      decimal.Decimal `json:"fee"`
	To       string          `json:"to,omitempty"`
	From     string          `json:"from,omitempty"`
	Explorer string          `json:"explorer,omitempty"`
}

// HasFee reports whether a fee was recorded for the transaction.
func (t Transaction) HasFee() bool { return !t.Fee.IsZero() }

// Tracker follows a pending transaction until its simulated confirmation.
type Tracker struct {
	TxID     string   `json:"tx_id"`
	Status   TxStatus `json:"status"`
	Progress float64  `json:"progress"` // 0 ~ 100
}

// Done reports whether the tracker has reached completion.
func (t Tracker) Done() bool { return t.Progress >= 100 }

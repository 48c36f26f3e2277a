package model

import "github.com/shopspring/decimal"

// WatchEntry is a contract address on the user's watchlist.
type WatchEntry struct {
	Address string `json:"address"`
	Label   string `json:"label"`
	Chain   string `json:"chain"`
	Added   int64  `json:"added"` // epoch milliseconds
}

// Holding is a user-declared asset amount.
type Holding struct {
	Symbol string          `json:"symbol"`
	Amount decimal.Decimal `json:"amount"`
}

// NoticeKind classifies a user-facing notice.
type NoticeKind string

const (
	NoticeInfo    NoticeKind = "info"
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a message surfaced to the user, e.g. a tracker completion.
type Notice struct {
	Time int64      `json:"time"`
	Kind NoticeKind `json:"kind"`
	Text string     `json:"text"`
}

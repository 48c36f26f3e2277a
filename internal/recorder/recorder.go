package recorder

// TxEvent records a transaction lifecycle step.
type TxEvent struct {
	TxID      string `json:"tx_id"`
	EventType string `json:"event"` // "SENT", "TRACK_START", "CONFIRMED"
	Coin      string `json:"coin"`
	Amount    string `json:"amount"`
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"` // unix seconds, filled on read
}

// WatchEvent records a watchlist change.
type WatchEvent struct {
	Action  string // "ADD" or "REMOVE"
	Address string
	Label   string
	Chain   string
}

// HoldingEvent records a portfolio change.
type HoldingEvent struct {
	Action string // "ADD" or "MOVE_FRONT"
	Symbol string
	Amount string
}

// LoadEvent records a state load attempt.
type LoadEvent struct {
	Source  string
	Success bool
	Error   string
	TxCount int
}

// Tables are the journal tables, in the order they are reported.
var Tables = []string{"tx_events", "watch_events", "holding_events", "load_events"}

// Recorder journals wallet activity for later analysis.
type Recorder interface {
	RecordTx(evt *TxEvent) error
	RecordWatch(evt *WatchEvent) error
	RecordHolding(evt *HoldingEvent) error
	RecordLoad(evt *LoadEvent) error
	TxHistory(txID string) ([]TxEvent, error)
	Count(table string) (int, error)
	Close() error
}

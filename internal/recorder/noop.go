package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordTx(_ *TxEvent) error             { return nil }
func (n *NoopRecorder) RecordWatch(_ *WatchEvent) error       { return nil }
func (n *NoopRecorder) RecordHolding(_ *HoldingEvent) error   { return nil }
func (n *NoopRecorder) RecordLoad(_ *LoadEvent) error         { return nil }
func (n *NoopRecorder) TxHistory(_ string) ([]TxEvent, error) { return nil, nil }
func (n *NoopRecorder) Count(_ string) (int, error)           { return 0, nil }
func (n *NoopRecorder) Close() error                          { return nil }

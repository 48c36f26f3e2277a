package recorder

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRecorder_TxHistory(t *testing.T) {
	r := openTestDB(t)

	require.NoError(t, r.RecordTx(&TxEvent{TxID: "0xa", EventType: "SENT", Coin: "BTC", Amount: "1.5", Status: "pending"}))
	require.NoError(t, r.RecordTx(&TxEvent{TxID: "0xb", EventType: "SENT", Coin: "ETH", Amount: "2", Status: "pending"}))
	require.NoError(t, r.RecordTx(&TxEvent{TxID: "0xa", EventType: "CONFIRMED", Coin: "BTC", Amount: "1.5", Status: "confirmed"}))

	events, err := r.TxHistory("0xa")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "SENT", events[0].EventType)
	assert.Equal(t, "CONFIRMED", events[1].EventType)
	assert.Equal(t, "1.5", events[1].Amount)
	assert.NotZero(t, events[0].Timestamp)
}

func TestSQLiteRecorder_Counts(t *testing.T) {
	r := openTestDB(t)

	require.NoError(t, r.RecordWatch(&WatchEvent{Action: "ADD", Address: "0x1", Label: "x", Chain: "EVM"}))
	require.NoError(t, r.RecordWatch(&WatchEvent{Action: "REMOVE", Address: "0x1"}))
	require.NoError(t, r.RecordHolding(&HoldingEvent{Action: "ADD", Symbol: "SOL", Amount: "3"}))
	require.NoError(t, r.RecordLoad(&LoadEvent{Source: "seed", Success: true, TxCount: 18}))

	for table, want := range map[string]int{
		"watch_events":   2,
		"holding_events": 1,
		"load_events":    1,
		"tx_events":      0,
	} {
		n, err := r.Count(table)
		require.NoError(t, err)
		assert.Equal(t, want, n, table)
	}

	_, err := r.Count("sqlite_master; DROP TABLE tx_events")
	assert.Error(t, err)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordTx(&TxEvent{}))
	assert.NoError(t, r.Close())
}

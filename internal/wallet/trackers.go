package wallet

import (
	"sort"

	"Vaultium/internal/model"
)

// StartTracker registers a tracker for a pending transaction. It returns
// false without error when a tracker is already active for txID.
func (m *Manager) StartTracker(txID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.txIndex(txID)
	if idx < 0 {
		return false, ErrTxNotFound
	}
	if _, ok := m.trackers[txID]; ok {
		return false, nil
	}
	if m.txs[idx].Status != model.StatusPending {
		return false, ErrNotPending
	}
	m.trackers[txID] = model.Tracker{TxID: txID, Status: m.txs[idx].Status}
	return true, nil
}

// AdvanceTracker adds delta to the tracker's progress. On reaching 100 the
// tracker is removed and the transaction marked confirmed; done is then true.
func (m *Manager) AdvanceTracker(txID string, delta float64) (tr model.Tracker, done bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tr, ok := m.trackers[txID]
	if !ok {
		return model.Tracker{}, false, ErrTrackerNotFound
	}
	tr.Progress += delta
	if !tr.Done() {
		m.trackers[txID] = tr
		return tr, false, nil
	}

	tr.Status = model.StatusConfirmed
	if idx := m.txIndex(txID); idx >= 0 {
		m.txs[idx].Status = model.StatusConfirmed
	}
	delete(m.trackers, txID)
	return tr, true, nil
}

// DropTracker removes a tracker without touching its transaction.
func (m *Manager) DropTracker(txID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.trackers, txID)
}

// TrackerIDs returns the transaction ids with an active tracker, sorted.
func (m *Manager) TrackerIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.trackers))
	for id := range m.trackers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// pruneTrackers drops trackers whose transaction is missing or no longer
// pending. m.mu must be held.
func (m *Manager) pruneTrackers() {
	for id, tr := range m.trackers {
		idx := m.txIndex(id)
		if idx < 0 || m.txs[idx].Status != model.StatusPending {
			delete(m.trackers, id)
			continue
		}
		tr.TxID = id
		tr.Status = model.StatusPending
		m.trackers[id] = tr
	}
}

func (m *Manager) txIndex(id string) int {
	for i, tx := range m.txs {
		if tx.ID == id {
			return i
		}
	}
	return -1
}

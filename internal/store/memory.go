package store

import (
	"sync"
	"time"
)

// PushRecord is one handled push's observability record.
type PushRecord struct {
	DeliveryID string    `json:"deliveryId"`
	Repo       string    `json:"repo"`
	HeadSHA    string    `json:"headSha"`
	Created    int       `json:"created"`
	Reopened   int       `json:"reopened"`
	Skipped    int       `json:"skipped"`
	Outcome    string    `json:"outcome"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// MemoryStore keeps the most recent push records in memory, newest first.
type MemoryStore struct {
	mu      sync.RWMutex
	limit   int
	records []PushRecord
}

func NewMemoryStore(limit int) *MemoryStore {
	if limit <= 0 {
		limit = 100
	}
	return &MemoryStore{limit: limit}
}

// Add prepends a record, dropping the oldest beyond the limit.
func (m *MemoryStore) Add(rec PushRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append([]PushRecord{rec}, m.records...)
	if len(m.records) > m.limit {
		m.records = m.records[:m.limit]
	}
}

// Recent returns up to n records, newest first.
func (m *MemoryStore) Recent(n int) []PushRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if n <= 0 || n > len(m.records) {
		n = len(m.records)
	}
	out := make([]PushRecord, n)
	copy(out, m.records[:n])
	return out
}

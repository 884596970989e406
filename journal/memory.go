package journal

import "sync"

// Memory keeps records in process. It is the default journal and the
// one tests inspect.
type Memory struct {
	mu       sync.Mutex
	trades   []TradeRecord
	balances []BalanceSnapshot
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) RecordTrade(rec TradeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trades = append(m.trades, rec)
	return nil
}

func (m *Memory) RecordBalance(rec BalanceSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances = append(m.balances, rec)
	return nil
}

// Trades returns a copy of all recorded fills, oldest first.
func (m *Memory) Trades() []TradeRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TradeRecord, len(m.trades))
	copy(out, m.trades)
	return out
}

// Balances returns a copy of all recorded snapshots, oldest first.
func (m *Memory) Balances() []BalanceSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]BalanceSnapshot, len(m.balances))
	copy(out, m.balances)
	return out
}

func (m *Memory) Close() error { return nil }

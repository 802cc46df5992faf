package sdk

import (
	"context"
	"errors"

	"github.com/holiman/uint256"
	"github.com/sasha-s/go-deadlock"
)

// ErrTransferRejected is returned by MockLedger while FailTransfers is set.
var ErrTransferRejected = errors.New("mock ledger rejected transfer")

// TransferRecord is one transfer the mock ledger accepted.
type TransferRecord struct {
	To     Address
	Amount *uint256.Int
	Memo   string
}

// MockLedger is an in-memory Host for tests and dry runs.
// It records every log line and accepted transfer.
type MockLedger struct {
	mu            deadlock.Mutex
	logs          []string
	transfers     []TransferRecord
	FailTransfers bool
}

func NewMockLedger() *MockLedger {
	return &MockLedger{}
}

func (m *MockLedger) Log(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, s)
}

func (m *MockLedger) Transfer(ctx context.Context, to Address, amount *uint256.Int, memo string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailTransfers {
		return ErrTransferRejected
	}
	m.transfers = append(m.transfers, TransferRecord{To: to, Amount: new(uint256.Int).Set(amount), Memo: memo})
	return nil
}

// Logs returns a copy of all lines logged so far.
func (m *MockLedger) Logs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.logs))
	copy(out, m.logs)
	return out
}

// Transfers returns a copy of all accepted transfers.
func (m *MockLedger) Transfers() []TransferRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TransferRecord, len(m.transfers))
	copy(out, m.transfers)
	return out
}

// Reset drops recorded logs and transfers but keeps FailTransfers.
func (m *MockLedger) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = nil
	m.transfers = nil
}

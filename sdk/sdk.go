package sdk

import (
	"context"

	"github.com/holiman/uint256"
)

// Env is what the host tells us about the current invocation.
type Env struct {
	Sender    Address `json:"sender"`
	Timestamp uint64  `json:"timestamp"` // nanoseconds
	TxID      string  `json:"tx_id"`
}

// Logger receives contract event lines. Hosts usually forward them to their receipt log.
// Example payload: ledger.Log("Proposal submitted! proposal_index: 0")
type Logger interface {
	Log(s string)
}

// Transferer moves approved tokens out of the contract account.
// A returned error means the transfer did not happen.
type Transferer interface {
	Transfer(ctx context.Context, to Address, amount *uint256.Int, memo string) error
}

// Host bundles both capabilities, most hosts implement them on one type.
type Host interface {
	Logger
	Transferer
}

// LoggerFunc adapts a plain function to Logger.
type LoggerFunc func(s string)

func (f LoggerFunc) Log(s string) { f(s) }

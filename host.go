package main

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/holiman/uint256"
	jsoniter "github.com/json-iterator/go"
	"github.com/mborders/logmatic"

	"moloch_dao/contract"
	"moloch_dao/sdk"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// logHost prints contract events and acknowledges transfers without moving
// funds, a replay has no ledger to settle against.
type logHost struct {
	log *logmatic.Logger
}

func newLogHost(log *logmatic.Logger) *logHost {
	return &logHost{log: log}
}

func (h *logHost) Log(line string) {
	h.log.Debug("event %s", line)
}

func (h *logHost) Transfer(ctx context.Context, to sdk.Address, amount *uint256.Int, memo string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.log.Info("transfer %s to %s (%s)", humanize.BigComma(amount.ToBig()), to, memo)
	return nil
}

// replayTx is one line of the input stream. Timestamp is nanoseconds, zero means now.
type replayTx struct {
	ID        string `json:"id"`
	Action    string `json:"action"`
	Sender    string `json:"sender"`
	Timestamp uint64 `json:"timestamp"`
	Payload   string `json:"payload"`
}

type replayStats struct {
	ok     int
	failed int
}

// replay dispatches every tx read from r. Failing txs are logged and skipped,
// only a broken stream or a canceled context stops the loop.
func replay(ctx context.Context, r io.Reader, engine *contract.Engine, log *logmatic.Logger) (replayStats, error) {
	var stats replayStats
	dec := json.NewDecoder(r)
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		var tx replayTx
		if err := dec.Decode(&tx); err != nil {
			if errors.Is(err, io.EOF) {
				return stats, nil
			}
			return stats, err
		}
		if tx.ID == "" {
			tx.ID = uuid.NewString()
		}
		if tx.Timestamp == 0 {
			tx.Timestamp = uint64(time.Now().UnixNano())
		}
		env := sdk.Env{Sender: sdk.Address(tx.Sender), Timestamp: tx.Timestamp, TxID: tx.ID}

		rcpt, out, err := contract.Dispatch(ctx, engine, env, tx.Action, tx.Payload)
		if err != nil {
			stats.failed++
			log.Warn("tx %s %s by %s failed [%s]: %v", tx.ID, tx.Action, tx.Sender, contract.KindOf(err), err)
			continue
		}
		stats.ok++
		if rcpt == nil {
			log.Info("tx %s %s = %s", tx.ID, tx.Action, out)
			continue
		}
		log.Info("tx %s %s by %s ok, %s events, %s transfers, return %q",
			tx.ID, tx.Action, tx.Sender, humanize.Comma(int64(len(rcpt.Logs))), humanize.Comma(int64(len(rcpt.Transfers))), out)
	}
}

package main

import (
	"context"
	"strings"
	"testing"

	"github.com/mborders/logmatic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moloch_dao/config"
	"moloch_dao/contract"
	"moloch_dao/contract/dao"
	"moloch_dao/sdk"
)

const genesis = uint64(1_700_000_000_000_000_000)

func testEngine(t *testing.T) (*contract.Engine, *logmatic.Logger) {
	t.Helper()
	log := logmatic.NewLogger()
	log.SetLevel(logmatic.ERROR)
	e := contract.NewEngine(contract.NewMockState(), newLogHost(log))
	_, err := e.Summon(context.Background(), sdk.Env{Sender: "alice.near", Timestamp: genesis}, dao.Params{
		Summoner: "alice.near", Token: "fdai.near", PeriodDuration: 1_000_000_000,
		VotingPeriodLength: 3, GracePeriodLength: 1, AbortWindow: 2,
		ProposalDeposit: dao.NewU128(10), DilutionBound: dao.NewU128(2), ProcessingReward: dao.NewU128(1),
	})
	require.NoError(t, err)
	return e, log
}

func TestReplayStream(t *testing.T) {
	e, log := testEngine(t)
	stream := strings.Join([]string{
		`{"id":"1","action":"ft_on_transfer","sender":"fdai.near","timestamp":1700000000000000000,"payload":"alice.near|10"}`,
		`{"action":"submit_proposal","sender":"alice.near","timestamp":1700000000000000000,"payload":"bob.near|0|5|hi"}`,
		`{"action":"submit_vote","sender":"carol.near","timestamp":1700000001000000000,"payload":"0|1"}`,
		`{"action":"submit_vote","sender":"alice.near","timestamp":1700000001000000000,"payload":"0|1"}`,
		`{"action":"process_proposal","sender":"dave.near","timestamp":1700000005000000000,"payload":"0"}`,
		`{"action":"get_member","timestamp":1700000005000000000,"payload":"bob.near"}`,
	}, "\n")

	stats, err := replay(context.Background(), strings.NewReader(stream), e, log)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.ok)
	assert.Equal(t, 1, stats.failed)

	m, err := e.Member("bob.near")
	require.NoError(t, err)
	assert.Equal(t, "5", m.Shares.String())
}

func TestReplayBrokenStream(t *testing.T) {
	e, log := testEngine(t)
	stats, err := replay(context.Background(), strings.NewReader(`{"action":"get_bank_balance"}`+"\n{oops"), e, log)
	assert.Error(t, err)
	assert.Equal(t, 1, stats.ok)
}

func TestReplayCanceled(t *testing.T) {
	e, log := testEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := replay(ctx, strings.NewReader(`{"action":"get_bank_balance"}`), e, log)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenStore(t *testing.T) {
	st, closeFn, err := openStore(context.Background(), &config.Config{StoreDriver: config.StoreMemory})
	require.NoError(t, err)
	assert.IsType(t, &contract.MockState{}, st)
	closeFn()

	st, closeFn, err = openStore(context.Background(), &config.Config{StoreDriver: config.StoreFile, StoreDSN: t.TempDir() + "/state.json"})
	require.NoError(t, err)
	assert.IsType(t, &contract.FileState{}, st)
	closeFn()

	st, closeFn, err = openStore(context.Background(), &config.Config{StoreDriver: config.StoreSQLite, StoreDSN: ":memory:"})
	require.NoError(t, err)
	assert.IsType(t, &contract.SQLState{}, st)
	closeFn()
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, logmatic.LogLevel(logmatic.DEBUG), logLevel("debug"))
	assert.Equal(t, logmatic.LogLevel(logmatic.INFO), logLevel("whatever"))
}

package contract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moloch_dao/contract"
	"moloch_dao/contract/dao"
)

// =============================================================================
// Rage quit
// =============================================================================

// TestRageQuitPaysProportionalShare checks the payout floor and the burn.
func TestRageQuitPaysProportionalShare(t *testing.T) {
	f := newDAOFixture(t)
	f.admit(applicant, 100, 10)
	require.Equal(t, "100", f.totals().BankBalance.String())

	f.ledger.Reset()
	rcpt, err := f.engine.RageQuit(f.ctx, f.env(applicant), u(3))
	require.NoError(t, err)
	// floor(100 * 3 / 11)
	assert.Equal(t, "27", rcpt.Return)

	totals := f.totals()
	assert.Equal(t, "8", totals.TotalShares.String())
	assert.Equal(t, "73", totals.BankBalance.String())
	m := f.member(applicant)
	assert.Equal(t, "7", m.Shares.String())
	assert.True(t, m.Exists)

	require.Len(t, f.ledger.Transfers(), 1)
	tr := f.ledger.Transfers()[0]
	assert.Equal(t, applicant, tr.To)
	assert.Equal(t, uint64(27), tr.Amount.Uint64())
	assert.Equal(t, contract.MemoBankWithdraw, tr.Memo)

	logs := f.ledger.Logs()
	require.Len(t, logs, 4)
	assert.Equal(t, "Rage quit! account: bob.near, shares_burned: 3", logs[0])
	assert.Equal(t, "Withdraw: receiver: bob.near, amount: 27", logs[2])
}

// TestRageQuitAll checks a member can burn everything and stays registered with zero shares.
func TestRageQuitAll(t *testing.T) {
	f := newDAOFixture(t)
	f.admit(applicant, 100, 10)
	_, err := f.engine.RageQuit(f.ctx, f.env(applicant), u(10))
	require.NoError(t, err)
	m := f.member(applicant)
	assert.True(t, m.Shares.IsZero())
	assert.True(t, m.Exists)
	assert.Equal(t, "1", f.totals().TotalShares.String())
	assert.Equal(t, "10", f.totals().BankBalance.String())
}

func TestRageQuitRejects(t *testing.T) {
	f := newDAOFixture(t)
	_, err := f.engine.RageQuit(f.ctx, f.env(outsider), u(1))
	assert.ErrorIs(t, err, contract.ErrNotMember)

	_, err = f.engine.RageQuit(f.ctx, f.env(summoner), u(2))
	assert.ErrorIs(t, err, contract.ErrInsufficientShares)
	assert.Equal(t, contract.KindInsufficientFunds, contract.KindOf(err))

	// a yes vote on an unprocessed proposal locks the shares
	index := f.submit(summoner, applicant, 0, 1)
	f.toPeriod(1)
	f.vote(summoner, index, dao.VoteCodeYes)
	_, err = f.engine.RageQuit(f.ctx, f.env(summoner), u(1))
	assert.ErrorIs(t, err, contract.ErrPendingYesVote)

	f.toPeriod(f.processableAt(index))
	f.process(index)
	_, err = f.engine.RageQuit(f.ctx, f.env(applicant), u(1))
	require.NoError(t, err)
}

// TestRageQuitTransferFailure checks the burn is rolled back when the payout cannot be sent.
func TestRageQuitTransferFailure(t *testing.T) {
	f := newDAOFixture(t)
	f.admit(applicant, 100, 10)
	f.ledger.FailTransfers = true
	_, err := f.engine.RageQuit(f.ctx, f.env(applicant), u(5))
	assert.ErrorIs(t, err, contract.ErrTransferFailed)
	assert.Equal(t, "10", f.member(applicant).Shares.String())
	assert.Equal(t, "100", f.totals().BankBalance.String())
}

// TestCanRageQuitView checks the empty queue and out of range rules.
func TestCanRageQuitView(t *testing.T) {
	f := newDAOFixture(t)
	ok, err := f.engine.CanRageQuit(5)
	require.NoError(t, err)
	assert.True(t, ok)

	index := f.submit(summoner, applicant, 0, 1)
	ok, err = f.engine.CanRageQuit(index)
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = f.engine.CanRageQuit(5)
	assert.ErrorIs(t, err, contract.ErrProposalMissing)
}

// =============================================================================
// Delegation
// =============================================================================

func TestUpdateDelegateKey(t *testing.T) {
	f := newDAOFixture(t)
	_, err := f.engine.UpdateDelegateKey(f.ctx, f.env(summoner), outsider)
	require.NoError(t, err)
	assert.Equal(t, outsider, f.member(summoner).DelegateKey)
	_, ok, err := f.engine.MemberForDelegate(summoner)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, f.ledger.Logs(), "Updated delegate key! sender: alice.near, new_delegate_key: carol.near")

	// setting the same key again is a no-op
	_, err = f.engine.UpdateDelegateKey(f.ctx, f.env(summoner), outsider)
	require.NoError(t, err)

	// the delegate cannot move the key, only the member can
	_, err = f.engine.UpdateDelegateKey(f.ctx, f.env(outsider), processor)
	assert.ErrorIs(t, err, contract.ErrNotMember)

	// resetting to self always works
	_, err = f.engine.UpdateDelegateKey(f.ctx, f.env(summoner), summoner)
	require.NoError(t, err)
	holder, ok, err := f.engine.MemberForDelegate(summoner)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, summoner, holder)
	_, ok, err = f.engine.MemberForDelegate(outsider)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateDelegateKeyRejects(t *testing.T) {
	f := newDAOFixture(t)
	f.admit(applicant, 0, 1)

	_, err := f.engine.UpdateDelegateKey(f.ctx, f.env(summoner), "")
	assert.ErrorIs(t, err, contract.ErrInvalidDelegateKey)

	_, err = f.engine.UpdateDelegateKey(f.ctx, f.env(summoner), applicant)
	assert.ErrorIs(t, err, contract.ErrOverwriteMember)

	_, err = f.engine.UpdateDelegateKey(f.ctx, f.env(applicant), outsider)
	require.NoError(t, err)
	_, err = f.engine.UpdateDelegateKey(f.ctx, f.env(summoner), outsider)
	assert.ErrorIs(t, err, contract.ErrOverwriteDelegate)
	assert.Equal(t, summoner, f.member(summoner).DelegateKey)
}

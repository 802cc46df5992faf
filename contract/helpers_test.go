package contract_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"moloch_dao/contract"
	"moloch_dao/contract/dao"
	"moloch_dao/sdk"
)

const (
	summoner  = sdk.Address("alice.near")
	applicant = sdk.Address("bob.near")
	outsider  = sdk.Address("carol.near")
	processor = sdk.Address("dave.near")
	tokenID   = sdk.Asset("fdai.near")

	periodNS  = uint64(1_000_000_000)
	genesisNS = uint64(1_700_000_000_000_000_000)
)

func u(x uint64) dao.U128 { return dao.NewU128(x) }

// defaultParams mirrors the genesis used throughout the original test suite.
func defaultParams() dao.Params {
	return dao.Params{
		Summoner:           summoner,
		Token:              tokenID,
		PeriodDuration:     periodNS,
		VotingPeriodLength: 3,
		GracePeriodLength:  2,
		AbortWindow:        1,
		ProposalDeposit:    u(100),
		DilutionBound:      u(10),
		ProcessingReward:   u(10),
	}
}

// daoFixture is a summoned engine on a memory store with a recording ledger.
type daoFixture struct {
	t      *testing.T
	ctx    context.Context
	store  *contract.MockState
	ledger *sdk.MockLedger
	engine *contract.Engine
	params dao.Params
	now    uint64
	txSeq  int
}

func newDAOFixture(t *testing.T, opts ...func(*dao.Params)) *daoFixture {
	t.Helper()
	p := defaultParams()
	for _, opt := range opts {
		opt(&p)
	}
	f := &daoFixture{
		t:      t,
		ctx:    context.Background(),
		store:  contract.NewMockState(),
		ledger: sdk.NewMockLedger(),
		params: p,
		now:    genesisNS,
	}
	f.engine = contract.NewEngine(f.store, f.ledger)
	_, err := f.engine.Summon(f.ctx, f.env(summoner), p)
	require.NoError(t, err)
	f.ledger.Reset()
	return f
}

func (f *daoFixture) env(sender sdk.Address) sdk.Env {
	f.txSeq++
	return sdk.Env{Sender: sender, Timestamp: f.now, TxID: fmt.Sprintf("tx-%d", f.txSeq)}
}

// toPeriod moves the clock to the first nanosecond of period p.
func (f *daoFixture) toPeriod(p uint64) {
	f.now = genesisNS + p*f.params.PeriodDuration
}

func (f *daoFixture) period() uint64 {
	n, err := f.engine.CurrentPeriod(f.now)
	require.NoError(f.t, err)
	return n
}

// fund lands amount in the escrow of from through the token receive hook.
func (f *daoFixture) fund(from sdk.Address, amount uint64) {
	f.t.Helper()
	rcpt, err := f.engine.OnTransfer(f.ctx, f.env(sdk.Address(tokenID)), from, u(amount), "")
	require.NoError(f.t, err)
	require.Equal(f.t, "0", rcpt.Return)
}

// submit funds deposit and tribute and queues the proposal.
func (f *daoFixture) submit(proposer, who sdk.Address, tribute, shares uint64) uint64 {
	f.t.Helper()
	f.fund(proposer, f.params.ProposalDeposit.Uint64())
	if tribute > 0 {
		f.fund(who, tribute)
	}
	rcpt, err := f.engine.SubmitProposal(f.ctx, f.env(proposer), who, u(tribute), u(shares), "membership")
	require.NoError(f.t, err)
	var index uint64
	_, err = fmt.Sscan(rcpt.Return, &index)
	require.NoError(f.t, err)
	return index
}

func (f *daoFixture) vote(voter sdk.Address, index uint64, code uint8) {
	f.t.Helper()
	_, err := f.engine.SubmitVote(f.ctx, f.env(voter), index, code)
	require.NoError(f.t, err)
}

func (f *daoFixture) process(index uint64) *dao.Proposal {
	f.t.Helper()
	_, err := f.engine.ProcessProposal(f.ctx, f.env(processor), index)
	require.NoError(f.t, err)
	return f.proposal(index)
}

// processableAt is the first period the proposal at index may be processed in.
func (f *daoFixture) processableAt(index uint64) uint64 {
	p := f.proposal(index)
	return p.StartingPeriod + f.params.VotingPeriodLength + f.params.GracePeriodLength
}

func (f *daoFixture) proposal(index uint64) *dao.Proposal {
	f.t.Helper()
	p, err := f.engine.Proposal(index)
	require.NoError(f.t, err)
	return p
}

func (f *daoFixture) member(addr sdk.Address) *dao.Member {
	f.t.Helper()
	m, err := f.engine.Member(addr)
	require.NoError(f.t, err)
	return m
}

func (f *daoFixture) escrow(addr sdk.Address) dao.U128 {
	f.t.Helper()
	v, err := f.engine.EscrowBalance(addr)
	require.NoError(f.t, err)
	return v
}

func (f *daoFixture) totals() dao.Totals {
	f.t.Helper()
	v, err := f.engine.Totals(f.now)
	require.NoError(f.t, err)
	return v
}

// admit runs a full passing proposal so who becomes a member holding shares.
func (f *daoFixture) admit(who sdk.Address, tribute, shares uint64) {
	f.t.Helper()
	index := f.submit(summoner, who, tribute, shares)
	f.toPeriod(f.proposal(index).StartingPeriod)
	f.vote(summoner, index, dao.VoteCodeYes)
	f.toPeriod(f.processableAt(index))
	require.True(f.t, f.process(index).DidPass)
}

// memberFixture is a bare record with the defaults of the original mocks.
func memberFixture(addr sdk.Address, shares uint64) *dao.Member {
	return dao.NewMember(addr, u(shares))
}

// proposalFixture is an unvoted proposal starting at period 1.
func proposalFixture(opts ...func(*dao.Proposal)) *dao.Proposal {
	p := &dao.Proposal{
		Proposer:        summoner,
		Applicant:       applicant,
		SharesRequested: u(10),
		StartingPeriod:  1,
		TokenTribute:    u(12),
		Details:         "membership",
		Votes:           map[sdk.Address]dao.Vote{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

package dao

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moloch_dao/sdk"
)

func sampleProposal() *Proposal {
	p := &Proposal{
		Proposer:                "bob.near",
		Applicant:               "robert.testnet",
		SharesRequested:         NewU128(10),
		StartingPeriod:          1,
		YesVotes:                NewU128(30),
		NoVotes:                 NewU128(10),
		Processed:               true,
		DidPass:                 true,
		TokenTribute:            MustU128("1000000000000000000000000"),
		Details:                 "fund the bridge audit",
		MaxTotalSharesAtYesVote: NewU128(41),
	}
	p.RecordVote("alice.testnet", VoteNo)
	p.RecordVote("bob.near", VoteYes)
	return p
}

func TestProposalCodec(t *testing.T) {
	p := sampleProposal()
	raw := EncodeProposal(p)
	assert.Equal(t, raw, EncodeProposal(p), "encoding is deterministic")

	back, err := DecodeProposal(raw)
	require.NoError(t, err)
	assert.Equal(t, p, back)

	_, err = DecodeProposal(raw[:len(raw)-1])
	assert.Error(t, err)
	_, err = DecodeProposal(append(raw, 0))
	assert.Error(t, err)
}

func TestMemberAndParamsCodec(t *testing.T) {
	m := NewMember("robert.testnet", NewU128(10))
	m.DelegateKey = "alice.testnet"
	m.HighestIndexYesVote = 7
	back, err := DecodeMember(EncodeMember(m))
	require.NoError(t, err)
	assert.Equal(t, m, back)

	params := &Params{
		Summoner:           "bob.near",
		Token:              sdk.Asset("fdai.testnet"),
		PeriodDuration:     1_000_000_000,
		VotingPeriodLength: 3,
		GracePeriodLength:  2,
		AbortWindow:        1,
		ProposalDeposit:    NewU128(100),
		DilutionBound:      NewU128(10),
		ProcessingReward:   NewU128(10),
		SummoningTime:      42,
	}
	gotParams, err := DecodeParams(EncodeParams(params))
	require.NoError(t, err)
	assert.Equal(t, params, gotParams)

	_, err = DecodeU128([]byte{1, 2})
	assert.Error(t, err)
}

func TestVoteFromCode(t *testing.T) {
	for code, want := range map[uint8]Vote{1: VoteYes, 2: VoteNo, 3: VoteNull} {
		got, ok := VoteFromCode(code)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
	for _, code := range []uint8{0, 4, 255} {
		_, ok := VoteFromCode(code)
		assert.False(t, ok, code)
	}
}

package dao

import "moloch_dao/sdk"

// Vote is a member's recorded choice on one proposal.
type Vote uint8

const (
	VoteNull Vote = 0
	VoteYes  Vote = 1
	VoteNo   Vote = 2
)

// Wire codes accepted by submit_vote.
const (
	VoteCodeYes  uint8 = 1
	VoteCodeNo   uint8 = 2
	VoteCodeNull uint8 = 3
)

// VoteFromCode maps a wire code to a Vote. ok is false for unknown codes.
// Example payload: dao.VoteFromCode(1)
func VoteFromCode(code uint8) (Vote, bool) {
	switch code {
	case VoteCodeYes:
		return VoteYes, true
	case VoteCodeNo:
		return VoteNo, true
	case VoteCodeNull:
		return VoteNull, true
	default:
		return VoteNull, false
	}
}

// String prints the vote the way view callers expect it.
// Example payload: dao.VoteYes.String()
func (v Vote) String() string {
	switch v {
	case VoteYes:
		return "Yes"
	case VoteNo:
		return "No"
	default:
		return "Null"
	}
}

// Member is the registry record. Records are never deleted, a drained
// member keeps Exists=true with zero shares.
type Member struct {
	Address             sdk.Address
	DelegateKey         sdk.Address
	Shares              U128
	Exists              bool
	HighestIndexYesVote uint64
}

// NewMember returns a member acting as its own delegate.
func NewMember(addr sdk.Address, shares U128) *Member {
	return &Member{
		Address:     addr,
		DelegateKey: addr,
		Shares:      shares,
		Exists:      true,
	}
}

// Proposal is one queue entry. Only Processed, DidPass and Aborted are
// persisted phase markers, everything else about the phase is derived from periods.
type Proposal struct {
	Proposer                sdk.Address
	Applicant               sdk.Address
	SharesRequested         U128
	StartingPeriod          uint64
	YesVotes                U128
	NoVotes                 U128
	Processed               bool
	DidPass                 bool
	Aborted                 bool
	TokenTribute            U128
	Details                 string
	MaxTotalSharesAtYesVote U128
	Votes                   map[sdk.Address]Vote
}

// VoteOf returns Null together with false when the member has not voted.
func (p *Proposal) VoteOf(addr sdk.Address) (Vote, bool) {
	if p.Votes == nil {
		return VoteNull, false
	}
	v, ok := p.Votes[addr]
	return v, ok
}

// RecordVote lazily allocates the vote map.
func (p *Proposal) RecordVote(addr sdk.Address, v Vote) {
	if p.Votes == nil {
		p.Votes = make(map[sdk.Address]Vote)
	}
	p.Votes[addr] = v
}

// Phase is the derived lifecycle stage of a proposal at some period.
type Phase uint8

const (
	PhaseSubmitted Phase = iota
	PhaseVotable
	PhaseGrace
	PhaseProcessable
	PhasePassed
	PhaseFailed
	PhaseAborted
)

func (ph Phase) String() string {
	switch ph {
	case PhaseSubmitted:
		return "submitted"
	case PhaseVotable:
		return "votable"
	case PhaseGrace:
		return "grace"
	case PhaseProcessable:
		return "processable"
	case PhasePassed:
		return "passed"
	case PhaseFailed:
		return "failed"
	case PhaseAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// PhaseAt derives the stage from persisted markers plus the current period.
// Aborted only wins while the proposal is unprocessed.
func (p *Proposal) PhaseAt(current uint64, votingLen, graceLen uint64) Phase {
	if p.Processed {
		if p.DidPass {
			return PhasePassed
		}
		return PhaseFailed
	}
	if p.Aborted {
		return PhaseAborted
	}
	votingEnd := SaturatingAddU64(p.StartingPeriod, votingLen)
	switch {
	case current < p.StartingPeriod:
		return PhaseSubmitted
	case current < votingEnd:
		return PhaseVotable
	case current < SaturatingAddU64(votingEnd, graceLen):
		return PhaseGrace
	default:
		return PhaseProcessable
	}
}

// Params are the genesis parameters, fixed for the lifetime of a DAO.
type Params struct {
	Summoner           sdk.Address
	Token              sdk.Asset
	PeriodDuration     uint64
	VotingPeriodLength uint64
	GracePeriodLength  uint64
	AbortWindow        uint64
	ProposalDeposit    U128
	DilutionBound      U128
	ProcessingReward   U128
	SummoningTime      uint64
}

// Transfer is an outgoing token movement produced by an operation.
type Transfer struct {
	To     sdk.Address
	Amount U128
	Memo   string
}

// Totals is the aggregate governance state.
type Totals struct {
	TotalShares          U128
	TotalSharesRequested U128
	BankBalance          U128
	QueueLength          uint64
	CurrentPeriod        uint64
}

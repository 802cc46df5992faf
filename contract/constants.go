package contract

import "moloch_dao/contract/dao"

// -----------------------------------------------------------------------------
// Genesis Limits
// -----------------------------------------------------------------------------

const (
	// MaxVotingPeriodLength caps voting_period_length (in periods).
	MaxVotingPeriodLength uint64 = 10_000_000_000_000_000_000
	// MaxGracePeriodLength caps grace_period_length (in periods).
	MaxGracePeriodLength uint64 = 10_000_000_000_000_000_000
)

// MaxDilutionBound caps the dilution multiplier.
var MaxDilutionBound = dao.NewU128(10_000_000_000_000_000_000)

// SummonerShares is what the summoner starts with.
var SummonerShares = dao.NewU128(1)

// -----------------------------------------------------------------------------
// Transfer Memos
// -----------------------------------------------------------------------------

const (
	MemoProcessingReward = "pay out processing reward for processing proposal"
	MemoBankWithdraw     = "Withdraw from guild bank"
)

// -----------------------------------------------------------------------------
// Singleton Keys
// -----------------------------------------------------------------------------

const (
	// ContractConfigKey holds the encoded genesis Params.
	ContractConfigKey = "cfg"
	// ProposalsCount holds the proposal queue length as decimal text.
	ProposalsCount = "count:props"
	// TotalSharesKey holds total_shares.
	TotalSharesKey = "tot:shares"
	// TotalRequestedKey holds total_shares_requested.
	TotalRequestedKey = "tot:req"
	// BankBalanceKey holds the guild treasury balance.
	BankBalanceKey = "bank"
)

// -----------------------------------------------------------------------------
// Storage Key Prefixes
// -----------------------------------------------------------------------------

const (
	// kMember houses encoded Member structs keyed by member address.
	kMember byte = 0x04
	// kDelegate maps a delegate key to the member it acts for.
	kDelegate byte = 0x05
	// kEscrow stores per-identity escrow balances.
	kEscrow byte = 0x07
	// kProposalMeta contains encoded Proposal records by queue index.
	kProposalMeta byte = 0x10
)

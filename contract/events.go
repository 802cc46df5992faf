package contract

import (
	"fmt"

	"moloch_dao/contract/dao"
	"moloch_dao/sdk"
)

// Every emit writes the readable line first and then a terse pipe line for indexers.
// Lines are buffered on the call and only reach the host after commit.

func (c *call) log(readable, terse string) {
	c.logs = append(c.logs, readable, terse)
}

// emitSummoned marks genesis.
func (c *call) emitSummoned(summoner sdk.Address) {
	c.log(
		fmt.Sprintf("Summon complete by %s with 1 share!", summoner),
		fmt.Sprintf("sm|by:%s|tk:%s", summoner, c.params.Token),
	)
}

// emitProposalSubmitted carries everything needed to rebuild the queue from logs.
func (c *call) emitProposalSubmitted(index uint64, sender sdk.Address, p *dao.Proposal) {
	c.log(
		fmt.Sprintf(
			"Proposal submitted! proposal_index: %d, sender: %s, member_address: %s, applicant: %s, token_tribute: %s, shares_requested: %s",
			index, sender, p.Proposer, p.Applicant, p.TokenTribute, p.SharesRequested,
		),
		fmt.Sprintf("pc|id:%d|by:%s|ap:%s|tr:%s|sh:%s|sp:%d",
			index, p.Proposer, p.Applicant, p.TokenTribute, p.SharesRequested, p.StartingPeriod),
	)
}

// emitVoteSubmitted includes the voter weight so tallies can be replayed.
func (c *call) emitVoteSubmitted(index uint64, sender sdk.Address, member *dao.Member, code uint8, vote dao.Vote) {
	c.log(
		fmt.Sprintf(
			"Submitted vote! proposal_index: %d, sender: %s, delegate_key: %s, uint_vote: P%d",
			index, sender, member.DelegateKey, code,
		),
		fmt.Sprintf("v|id:%d|by:%s|c:%s|w:%s", index, member.Address, vote, member.Shares),
	)
}

// emitProposalProcessed summarizes the outcome of one processing step.
func (c *call) emitProposalProcessed(index uint64, p *dao.Proposal) {
	c.log(
		fmt.Sprintf(
			"Proposal Processed! proposal_index: %d, proposal_applicant: %s, proposal_proposer: %s, proposal_token_tribute: %s, proposal_shares_requested: %s, passed: %t",
			index, p.Applicant, p.Proposer, p.TokenTribute, p.SharesRequested, p.DidPass,
		),
		fmt.Sprintf("ps|id:%d|s:%s|by:%s", index, outcome(p), c.env.Sender),
	)
}

func outcome(p *dao.Proposal) string {
	if p.DidPass {
		return dao.PhasePassed.String()
	}
	return dao.PhaseFailed.String()
}

// emitRageQuit fires before the matching withdraw line.
func (c *call) emitRageQuit(member sdk.Address, burned dao.U128) {
	c.log(
		fmt.Sprintf("Rage quit! account: %s, shares_burned: %s", member, burned),
		fmt.Sprintf("rq|by:%s|sh:%s", member, burned),
	)
}

// emitWithdraw logs a treasury payout.
func (c *call) emitWithdraw(receiver sdk.Address, amount dao.U128) {
	c.log(
		fmt.Sprintf("Withdraw: receiver: %s, amount: %s", receiver, amount),
		fmt.Sprintf("rf|to:%s|am:%s", receiver, amount),
	)
}

func (c *call) emitAborted(index uint64, by sdk.Address) {
	c.log(
		fmt.Sprintf("Proposal was aborted by %s", by),
		fmt.Sprintf("pa|id:%d|by:%s", index, by),
	)
}

func (c *call) emitDelegateUpdated(member, delegate sdk.Address) {
	c.log(
		fmt.Sprintf("Updated delegate key! sender: %s, new_delegate_key: %s", member, delegate),
		fmt.Sprintf("dk|by:%s|to:%s", member, delegate),
	)
}

// emitDelegateReclaimed is logged when an applicant takes its own key back from another member.
func (c *call) emitDelegateReclaimed(member, applicant sdk.Address) {
	c.log(
		fmt.Sprintf("Delegate key reset! member: %s, released_delegate_key: %s", member, applicant),
		fmt.Sprintf("dr|by:%s|rel:%s", member, applicant),
	)
}

// emitEscrowDeposit tells watchers which pledge landed.
func (c *call) emitEscrowDeposit(from sdk.Address, amount, balance dao.U128) {
	c.log(
		fmt.Sprintf("Escrow deposit! account: %s, amount: %s, balance: %s", from, amount, balance),
		fmt.Sprintf("af|by:%s|am:%s|bal:%s", from, amount, balance),
	)
}

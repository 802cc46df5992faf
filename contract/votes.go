package contract

import (
	"context"

	"moloch_dao/contract/dao"
	"moloch_dao/sdk"
)

// SubmitVote records the represented member's vote on the proposal at index.
// code is 1 for yes, 2 for no and 3 for null. Votes are final.
func (e *Engine) SubmitVote(ctx context.Context, env sdk.Env, index uint64, code uint8) (*Receipt, error) {
	return e.exec(ctx, env, ActionSubmitVote, func(c *call) error {
		return c.submitVote(index, code)
	})
}

func (c *call) submitVote(index uint64, code uint8) error {
	member, err := c.onlyDelegate(c.env.Sender)
	if err != nil {
		return err
	}
	p, err := c.getProposal(index)
	if err != nil {
		return err
	}
	vote, ok := dao.VoteFromCode(code)
	if !ok {
		return ErrInvalidVoteCode.withDetail("got %d", code)
	}
	if c.currentPeriod() < p.StartingPeriod {
		return ErrVotingNotStarted
	}
	if c.clock.HasVotingPeriodExpired(c.env.Timestamp, p.StartingPeriod, c.params.VotingPeriodLength) {
		return ErrVotingExpired
	}
	if _, voted := p.VoteOf(member.Address); voted {
		return ErrAlreadyVoted
	}
	if p.Aborted {
		return ErrProposalAborted
	}

	p.RecordVote(member.Address, vote)
	switch vote {
	case dao.VoteYes:
		p.YesVotes = p.YesVotes.SaturatingAdd(member.Shares)
		if index > member.HighestIndexYesVote {
			member.HighestIndexYesVote = index
			c.saveMember(member)
		}
		total, err := c.totalShares()
		if err != nil {
			return err
		}
		p.MaxTotalSharesAtYesVote = p.MaxTotalSharesAtYesVote.Max(total)
	case dao.VoteNo:
		p.NoVotes = p.NoVotes.SaturatingAdd(member.Shares)
	}

	if err := c.replaceProposal(index, p); err != nil {
		return err
	}
	c.emitVoteSubmitted(index, c.env.Sender, member, code, vote)
	return nil
}

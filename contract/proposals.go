package contract

import (
	"context"
	"strconv"

	"moloch_dao/contract/dao"
	"moloch_dao/sdk"
)

// -----------------------------------------------------------------------------
// Submit
// -----------------------------------------------------------------------------

// SubmitProposal queues a membership proposal for applicant. The caller must be
// a delegate; the deposit comes out of the represented member's escrow and the
// tribute out of the applicant's. Receipt.Return carries the queue index.
func (e *Engine) SubmitProposal(ctx context.Context, env sdk.Env, applicant sdk.Address, tribute, shares dao.U128, details string) (*Receipt, error) {
	return e.exec(ctx, env, ActionSubmitProposal, func(c *call) error {
		index, err := c.submitProposal(applicant, tribute, shares, details)
		if err != nil {
			return err
		}
		c.ret = strconv.FormatUint(index, 10)
		return nil
	})
}

func (c *call) submitProposal(applicant sdk.Address, tribute, shares dao.U128, details string) (uint64, error) {
	member, err := c.onlyDelegate(c.env.Sender)
	if err != nil {
		return 0, err
	}
	if !applicant.IsValid() {
		return 0, ErrInvalidApplicant.withDetail("%q", applicant)
	}

	total, err := c.totalShares()
	if err != nil {
		return 0, err
	}
	requested, err := c.totalSharesRequested()
	if err != nil {
		return 0, err
	}
	withShares, ok := total.CheckedAdd(shares)
	if !ok {
		return 0, ErrTooManyShares
	}
	if _, ok := withShares.CheckedAdd(requested); !ok {
		return 0, ErrTooManyOutstanding
	}
	c.setTotalSharesRequested(requested.SaturatingAdd(shares))

	if _, err := c.escrowWithdraw(member.Address, c.params.ProposalDeposit); err != nil {
		return 0, err
	}
	if _, err := c.escrowWithdraw(applicant, tribute); err != nil {
		return 0, err
	}

	// periods start strictly after the current one and never before the previous proposal
	base := c.currentPeriod()
	last, err := c.lastProposal()
	if err != nil {
		return 0, err
	}
	if last != nil && last.StartingPeriod > base {
		base = last.StartingPeriod
	}

	p := &dao.Proposal{
		Proposer:        member.Address,
		Applicant:       applicant,
		SharesRequested: shares,
		StartingPeriod:  dao.SaturatingAddU64(base, 1),
		TokenTribute:    tribute,
		Details:         details,
		Votes:           map[sdk.Address]dao.Vote{},
	}
	index, err := c.pushProposal(p)
	if err != nil {
		return 0, err
	}
	c.emitProposalSubmitted(index, c.env.Sender, p)
	return index, nil
}

// -----------------------------------------------------------------------------
// Process
// -----------------------------------------------------------------------------

// ProcessProposal finalizes the proposal at index once its grace period ended.
// Anyone may call it and earns the processing reward.
func (e *Engine) ProcessProposal(ctx context.Context, env sdk.Env, index uint64) (*Receipt, error) {
	return e.exec(ctx, env, ActionProcessProposal, func(c *call) error {
		p, err := c.processProposal(index)
		if err != nil {
			return err
		}
		c.ret = outcome(p)
		passed := p.DidPass
		c.afterCommit(func() { e.metrics.observeProcessed(passed) })
		return nil
	})
}

// dilutionExceeded compares the shares still requested by the queue, scaled by
// the bound, against the largest total seen at a yes vote.
func dilutionExceeded(requestedAfter, bound, maxAtYes dao.U128) bool {
	return requestedAfter.SaturatingMul(bound).Gt(maxAtYes)
}

func (c *call) processProposal(index uint64) (*dao.Proposal, error) {
	p, err := c.getProposal(index)
	if err != nil {
		return nil, err
	}
	processable := dao.SaturatingAddU64(p.StartingPeriod,
		dao.SaturatingAddU64(c.params.VotingPeriodLength, c.params.GracePeriodLength))
	if c.currentPeriod() < processable {
		return nil, ErrNotReadyToProcess.withDetail("processable from period %d", processable)
	}
	if p.Processed {
		return nil, ErrAlreadyProcessed
	}
	if index > 0 {
		prev, err := c.getProposal(index - 1)
		if err != nil {
			return nil, err
		}
		if !prev.Processed {
			return nil, ErrPreviousNotProcessed
		}
	}

	p.Processed = true
	requested, err := c.totalSharesRequested()
	if err != nil {
		return nil, err
	}
	requestedAfter := requested.SaturatingSub(p.SharesRequested)
	c.setTotalSharesRequested(requestedAfter)

	total, err := c.totalShares()
	if err != nil {
		return nil, err
	}
	passed := p.YesVotes.Gt(p.NoVotes)
	if passed && dilutionExceeded(requestedAfter, c.params.DilutionBound, p.MaxTotalSharesAtYesVote) {
		passed = false
	}

	if passed && !p.Aborted {
		p.DidPass = true
		if err := c.admitApplicant(p); err != nil {
			return nil, err
		}
		c.setTotalShares(total.SaturatingAdd(p.SharesRequested))
		if _, err := c.bankDeposit(p.TokenTribute); err != nil {
			return nil, err
		}
	} else if _, err := c.escrowDeposit(p.Applicant, p.TokenTribute); err != nil {
		return nil, err
	}

	// the deposit is split the same way whatever the outcome
	reward := c.params.ProcessingReward
	if _, err := c.escrowDeposit(p.Proposer, c.params.ProposalDeposit.SaturatingSub(reward)); err != nil {
		return nil, err
	}
	c.queueTransfer(c.env.Sender, reward, MemoProcessingReward)

	if err := c.replaceProposal(index, p); err != nil {
		return nil, err
	}
	c.emitProposalProcessed(index, p)
	return p, nil
}

// admitApplicant grants the requested shares, creating the member when needed.
// A new member whose address is currently someone else's delegate key takes it
// back and that member falls back to delegating to itself.
func (c *call) admitApplicant(p *dao.Proposal) error {
	existing, ok, err := c.loadExistingMember(p.Applicant)
	if err != nil {
		return err
	}
	if ok {
		existing.Shares = existing.Shares.SaturatingAdd(p.SharesRequested)
		c.saveMember(existing)
		return nil
	}

	if holderAddr, held := c.memberForDelegate(p.Applicant); held {
		holder, ok, err := c.loadExistingMember(holderAddr)
		if err != nil {
			return err
		}
		if ok {
			holder.DelegateKey = holder.Address
			c.saveMember(holder)
			c.setDelegate(holder.Address, holder.Address)
			c.emitDelegateReclaimed(holder.Address, p.Applicant)
		}
	}
	c.saveMember(dao.NewMember(p.Applicant, p.SharesRequested))
	c.setDelegate(p.Applicant, p.Applicant)
	return nil
}

// -----------------------------------------------------------------------------
// Abort
// -----------------------------------------------------------------------------

// Abort lets the applicant withdraw from its own proposal during the abort window.
// The tribute is forfeited and the processing reward goes back to the proposer's escrow.
func (e *Engine) Abort(ctx context.Context, env sdk.Env, index uint64) (*Receipt, error) {
	return e.exec(ctx, env, ActionAbort, func(c *call) error {
		return c.abort(index)
	})
}

func (c *call) abort(index uint64) error {
	p, err := c.getProposal(index)
	if err != nil {
		return err
	}
	if c.env.Sender != p.Applicant {
		return ErrNotApplicant
	}
	closes := dao.SaturatingAddU64(p.StartingPeriod, c.params.AbortWindow)
	if c.currentPeriod() >= closes {
		return ErrAbortWindowClosed
	}
	if p.Aborted {
		return ErrAlreadyAborted
	}
	p.Aborted = true
	p.TokenTribute = dao.U128{}
	if err := c.replaceProposal(index, p); err != nil {
		return err
	}
	if _, err := c.escrowDeposit(p.Proposer, c.params.ProcessingReward); err != nil {
		return err
	}
	c.emitAborted(index, c.env.Sender)
	return nil
}

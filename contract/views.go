package contract

import (
	"context"

	"moloch_dao/contract/dao"
	"moloch_dao/sdk"
)

// Views read committed state only. now is a nanosecond timestamp used to
// derive the current period.

func (e *Engine) CurrentPeriod(now uint64) (uint64, error) {
	var out uint64
	err := e.read(now, func(c *call) error {
		out = c.currentPeriod()
		return nil
	})
	return out, err
}

func (e *Engine) ProposalQueueLength() (uint64, error) {
	var out uint64
	err := e.read(0, func(c *call) (err error) {
		out, err = c.queueLen()
		return err
	})
	return out, err
}

// CanRageQuit reports whether the proposal at index is processed. An index past
// the end of the queue only counts as processed while the queue is empty.
func (e *Engine) CanRageQuit(index uint64) (bool, error) {
	var out bool
	err := e.read(0, func(c *call) (err error) {
		out, err = c.canRageQuit(index)
		return err
	})
	return out, err
}

func (e *Engine) HasVotingPeriodExpired(now, startingPeriod uint64) (bool, error) {
	var out bool
	err := e.read(now, func(c *call) error {
		out = c.clock.HasVotingPeriodExpired(now, startingPeriod, c.params.VotingPeriodLength)
		return nil
	})
	return out, err
}

// MemberProposalVote is Null both for members who did not vote and for null votes.
func (e *Engine) MemberProposalVote(member sdk.Address, index uint64) (dao.Vote, error) {
	var out dao.Vote
	err := e.read(0, func(c *call) error {
		if _, ok, err := c.loadExistingMember(member); err != nil {
			return err
		} else if !ok {
			return ErrMemberNotExists
		}
		p, err := c.getProposal(index)
		if err != nil {
			return err
		}
		out, _ = p.VoteOf(member)
		return nil
	})
	return out, err
}

func (e *Engine) EscrowBalance(addr sdk.Address) (dao.U128, error) {
	var out dao.U128
	err := e.read(0, func(c *call) (err error) {
		out, err = c.escrowBalance(addr)
		return err
	})
	return out, err
}

func (e *Engine) BankBalance() (dao.U128, error) {
	var out dao.U128
	err := e.read(0, func(c *call) (err error) {
		out, err = c.bankBalance()
		return err
	})
	return out, err
}

// Member returns the registry record, ErrMemberNotExists when there is none.
func (e *Engine) Member(addr sdk.Address) (*dao.Member, error) {
	var out *dao.Member
	err := e.read(0, func(c *call) error {
		m, ok, err := c.loadMember(addr)
		if err != nil {
			return err
		}
		if !ok {
			return ErrMemberNotExists
		}
		out = m
		return nil
	})
	return out, err
}

// MemberForDelegate resolves a delegate key to the member it votes for.
func (e *Engine) MemberForDelegate(delegate sdk.Address) (sdk.Address, bool, error) {
	var (
		out sdk.Address
		ok  bool
	)
	err := e.read(0, func(c *call) error {
		out, ok = c.memberForDelegate(delegate)
		return nil
	})
	return out, ok, err
}

func (e *Engine) Proposal(index uint64) (*dao.Proposal, error) {
	var out *dao.Proposal
	err := e.read(0, func(c *call) (err error) {
		out, err = c.getProposal(index)
		return err
	})
	return out, err
}

// ProposalPhase derives the lifecycle phase of the proposal at index for time now.
func (e *Engine) ProposalPhase(now, index uint64) (dao.Phase, error) {
	var out dao.Phase
	err := e.read(now, func(c *call) error {
		p, err := c.getProposal(index)
		if err != nil {
			return err
		}
		out = p.PhaseAt(c.currentPeriod(), c.params.VotingPeriodLength, c.params.GracePeriodLength)
		return nil
	})
	return out, err
}

// Totals is a snapshot of the guild wide counters.
func (e *Engine) Totals(now uint64) (dao.Totals, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalsLocked(now)
}

func (e *Engine) totalsLocked(now uint64) (dao.Totals, error) {
	var t dao.Totals
	c, err := e.begin(context.Background(), sdk.Env{Timestamp: now})
	if err != nil {
		return t, err
	}
	if t.TotalShares, err = c.totalShares(); err != nil {
		return t, err
	}
	if t.TotalSharesRequested, err = c.totalSharesRequested(); err != nil {
		return t, err
	}
	if t.BankBalance, err = c.bankBalance(); err != nil {
		return t, err
	}
	if t.QueueLength, err = c.queueLen(); err != nil {
		return t, err
	}
	t.CurrentPeriod = c.currentPeriod()
	return t, nil
}

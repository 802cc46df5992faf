package contract

import (
	"context"

	"moloch_dao/contract/dao"
	"moloch_dao/sdk"
)

// -----------------------------------------------------------------------------
// Rage quit
// -----------------------------------------------------------------------------

// RageQuit burns shares of the calling member and pays out the matching
// fraction of the guild bank. Receipt.Return carries the payout.
func (e *Engine) RageQuit(ctx context.Context, env sdk.Env, shares dao.U128) (*Receipt, error) {
	return e.exec(ctx, env, ActionRageQuit, func(c *call) error {
		amount, err := c.rageQuit(shares)
		if err != nil {
			return err
		}
		c.ret = amount.String()
		return nil
	})
}

func (c *call) rageQuit(shares dao.U128) (dao.U128, error) {
	member, err := c.onlyMember(c.env.Sender)
	if err != nil {
		return dao.U128{}, err
	}
	if member.Shares.Lt(shares) {
		return dao.U128{}, ErrInsufficientShares.withDetail("has %s, burning %s", member.Shares, shares)
	}
	ok, err := c.canRageQuit(member.HighestIndexYesVote)
	if err != nil {
		return dao.U128{}, err
	}
	if !ok {
		return dao.U128{}, ErrPendingYesVote
	}

	totalBefore, err := c.totalShares()
	if err != nil {
		return dao.U128{}, err
	}
	member.Shares = member.Shares.SaturatingSub(shares)
	c.saveMember(member)
	c.setTotalShares(totalBefore.SaturatingSub(shares))
	c.emitRageQuit(member.Address, shares)

	// the payout fraction uses the total before the burn
	return c.bankWithdraw(member.Address, shares, totalBefore)
}

// canRageQuit is true when the queue is empty or the given proposal was processed.
func (c *call) canRageQuit(highestIndexYesVote uint64) (bool, error) {
	n, err := c.queueLen()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return true, nil
	}
	p, err := c.getProposal(highestIndexYesVote)
	if err != nil {
		return false, err
	}
	return p.Processed, nil
}

// -----------------------------------------------------------------------------
// Delegation
// -----------------------------------------------------------------------------

// UpdateDelegateKey points the caller's voting and proposing rights at key.
// Only the member itself may change it, delegates cannot.
func (e *Engine) UpdateDelegateKey(ctx context.Context, env sdk.Env, key sdk.Address) (*Receipt, error) {
	return e.exec(ctx, env, ActionUpdateDelegateKey, func(c *call) error {
		return c.updateDelegateKey(key)
	})
}

func (c *call) updateDelegateKey(key sdk.Address) error {
	member, err := c.onlyMember(c.env.Sender)
	if err != nil {
		return err
	}
	if !key.IsValid() {
		return ErrInvalidDelegateKey.withDetail("%q", key)
	}
	if key != member.Address {
		if _, taken, err := c.loadExistingMember(key); err != nil {
			return err
		} else if taken {
			return ErrOverwriteMember
		}
		if holderAddr, held := c.memberForDelegate(key); held && holderAddr != member.Address {
			if _, exists, err := c.loadExistingMember(holderAddr); err != nil {
				return err
			} else if exists {
				return ErrOverwriteDelegate
			}
		}
	}

	c.clearDelegate(member.DelegateKey)
	c.setDelegate(key, member.Address)
	member.DelegateKey = key
	c.saveMember(member)
	c.emitDelegateUpdated(member.Address, key)
	return nil
}

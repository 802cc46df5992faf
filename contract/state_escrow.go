package contract

import (
	"moloch_dao/contract/dao"
	"moloch_dao/sdk"
)

// escrowBalance returns what addr has pledged but not yet committed.
func (c *call) escrowBalance(addr sdk.Address) (dao.U128, error) {
	return loadAmount(c.state, escrowKey(addr))
}

// setEscrowBalance drops zero balances instead of storing them.
func (c *call) setEscrowBalance(addr sdk.Address, v dao.U128) {
	if v.IsZero() {
		c.state.Delete(escrowKey(addr))
		return
	}
	saveAmount(c.state, escrowKey(addr), v)
}

// escrowDeposit credits addr and returns the new balance.
func (c *call) escrowDeposit(addr sdk.Address, amount dao.U128) (dao.U128, error) {
	current, err := c.escrowBalance(addr)
	if err != nil {
		return dao.U128{}, err
	}
	next, ok := current.CheckedAdd(amount)
	if !ok {
		return dao.U128{}, ErrBalanceOverflow.withDetail("escrow of %s", addr)
	}
	c.setEscrowBalance(addr, next)
	return next, nil
}

// escrowWithdraw debits addr and leaves the balance untouched on shortfall.
func (c *call) escrowWithdraw(addr sdk.Address, amount dao.U128) (dao.U128, error) {
	current, err := c.escrowBalance(addr)
	if err != nil {
		return dao.U128{}, err
	}
	next, ok := current.CheckedSub(amount)
	if !ok {
		return dao.U128{}, ErrInsufficientEscrow.withDetail("%s has %s, needs %s", addr, current, amount)
	}
	c.setEscrowBalance(addr, next)
	return next, nil
}

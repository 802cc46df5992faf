package contract

import (
	"moloch_dao/contract/dao"
	"moloch_dao/sdk"
)

// bankBalance is the guild treasury.
func (c *call) bankBalance() (dao.U128, error) {
	return loadAmount(c.state, BankBalanceKey)
}

// bankDeposit moves already held tokens into the treasury.
func (c *call) bankDeposit(amount dao.U128) (dao.U128, error) {
	current, err := c.bankBalance()
	if err != nil {
		return dao.U128{}, err
	}
	next, ok := current.CheckedAdd(amount)
	if !ok {
		return dao.U128{}, ErrBalanceOverflow.withDetail("guild bank")
	}
	saveAmount(c.state, BankBalanceKey, next)
	return next, nil
}

// bankWithdraw pays receiver floor(balance*shares/totalShares). The balance is
// reduced by exactly that amount before the transfer is queued.
func (c *call) bankWithdraw(receiver sdk.Address, shares, totalShares dao.U128) (dao.U128, error) {
	if totalShares.IsZero() {
		return dao.U128{}, ErrZeroTotalShares
	}
	balance, err := c.bankBalance()
	if err != nil {
		return dao.U128{}, err
	}
	amount, ok := dao.MulDiv(balance, shares, totalShares)
	if !ok {
		return dao.U128{}, ErrBalanceOverflow.withDetail("withdraw share %s/%s", shares, totalShares)
	}
	next, ok := balance.CheckedSub(amount)
	if !ok {
		return dao.U128{}, ErrInsufficientBank.withDetail("has %s, needs %s", balance, amount)
	}
	saveAmount(c.state, BankBalanceKey, next)
	c.emitWithdraw(receiver, amount)
	c.queueTransfer(receiver, amount, MemoBankWithdraw)
	return amount, nil
}

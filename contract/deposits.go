package contract

import (
	"context"

	"moloch_dao/contract/dao"
	"moloch_dao/sdk"
)

// OnTransfer is the fungible-token receive hook. env.Sender must be the
// approved token contract, sender is the account that sent the tokens and is
// credited in escrow. Receipt.Return is the amount the token contract should
// refund: everything for a foreign token, zero otherwise.
func (e *Engine) OnTransfer(ctx context.Context, env sdk.Env, sender sdk.Address, amount dao.U128, msg string) (*Receipt, error) {
	return e.exec(ctx, env, ActionOnTransfer, func(c *call) error {
		unused, err := c.onTransfer(sender, amount)
		if err != nil {
			return err
		}
		c.ret = unused.String()
		return nil
	})
}

func (c *call) onTransfer(sender sdk.Address, amount dao.U128) (dao.U128, error) {
	if !c.params.Token.Matches(c.env.Sender.String()) {
		return amount, nil
	}
	if !sender.IsValid() {
		return dao.U128{}, ErrInvalidSender.withDetail("%q", sender)
	}
	balance, err := c.escrowDeposit(sender, amount)
	if err != nil {
		return dao.U128{}, err
	}
	c.emitEscrowDeposit(sender, amount, balance)
	return dao.U128{}, nil
}

package contract

import (
	"context"

	"github.com/CosmWasm/tinyjson"
	"github.com/CosmWasm/tinyjson/jwriter"

	"moloch_dao/contract/dao"
	"moloch_dao/sdk"
)

// -----------------------------------------------------------------------------
// Actions
// -----------------------------------------------------------------------------

const (
	ActionSummon            = "summon"
	ActionSubmitProposal    = "submit_proposal"
	ActionSubmitVote        = "submit_vote"
	ActionProcessProposal   = "process_proposal"
	ActionRageQuit          = "rage_quit"
	ActionAbort             = "abort"
	ActionUpdateDelegateKey = "update_delegate_key"
	ActionOnTransfer        = "ft_on_transfer"
)

const (
	ViewCurrentPeriod          = "get_current_period"
	ViewProposalQueueLength    = "get_proposal_queue_length"
	ViewCanRageQuit            = "can_rage_quit"
	ViewHasVotingPeriodExpired = "has_voting_period_expired"
	ViewMemberProposalVote     = "get_member_proposal_vote"
	ViewEscrowBalance          = "get_escrow_user_balance"
	ViewBankBalance            = "get_bank_balance"
	ViewMember                 = "get_member"
	ViewProposal               = "get_proposal"
	ViewProposalPhase          = "get_proposal_phase"
	ViewTotals                 = "get_totals"
)

// IsView reports whether action only reads state.
func IsView(action string) bool {
	switch action {
	case ViewCurrentPeriod, ViewProposalQueueLength, ViewCanRageQuit, ViewHasVotingPeriodExpired,
		ViewMemberProposalVote, ViewEscrowBalance, ViewBankBalance, ViewMember, ViewProposal,
		ViewProposalPhase, ViewTotals:
		return true
	}
	return false
}

// Dispatch routes a string action with a pipe-delimited payload. Mutating
// actions return their receipt and Receipt.Return, views return a nil receipt
// and a JSON encoded result.
func Dispatch(ctx context.Context, e *Engine, env sdk.Env, action, payload string) (*Receipt, string, error) {
	if IsView(action) {
		out, err := dispatchView(e, env, action, payload)
		return nil, out, err
	}
	rcpt, err := dispatchCall(ctx, e, env, action, payload)
	if err != nil {
		return nil, "", err
	}
	return rcpt, rcpt.Return, nil
}

func dispatchCall(ctx context.Context, e *Engine, env sdk.Env, action, payload string) (*Receipt, error) {
	switch action {
	case ActionSubmitProposal:
		args, err := decodeSubmitProposalArgs(payload)
		if err != nil {
			return nil, err
		}
		return e.SubmitProposal(ctx, env, args.Applicant, args.Tribute, args.Shares, args.Details)
	case ActionSubmitVote:
		args, err := decodeSubmitVoteArgs(payload)
		if err != nil {
			return nil, err
		}
		return e.SubmitVote(ctx, env, args.Index, args.Code)
	case ActionProcessProposal:
		index, err := decodeIndexArg(payload)
		if err != nil {
			return nil, err
		}
		return e.ProcessProposal(ctx, env, index)
	case ActionRageQuit:
		shares, err := decodeAmountArg(payload, "shares")
		if err != nil {
			return nil, err
		}
		return e.RageQuit(ctx, env, shares)
	case ActionAbort:
		index, err := decodeIndexArg(payload)
		if err != nil {
			return nil, err
		}
		return e.Abort(ctx, env, index)
	case ActionUpdateDelegateKey:
		key, err := decodeAddressArg(payload, "delegate key")
		if err != nil {
			return nil, err
		}
		return e.UpdateDelegateKey(ctx, env, key)
	case ActionOnTransfer:
		args, err := decodeOnTransferArgs(payload)
		if err != nil {
			return nil, err
		}
		return e.OnTransfer(ctx, env, args.Sender, args.Amount, args.Msg)
	}
	return nil, ErrUnknownAction.withDetail("%q", action)
}

func dispatchView(e *Engine, env sdk.Env, action, payload string) (string, error) {
	now := env.Timestamp
	switch action {
	case ViewCurrentPeriod:
		n, err := e.CurrentPeriod(now)
		return encodeUint(n), err
	case ViewProposalQueueLength:
		n, err := e.ProposalQueueLength()
		return encodeUint(n), err
	case ViewCanRageQuit:
		index, err := decodeIndexArg(payload)
		if err != nil {
			return "", err
		}
		ok, err := e.CanRageQuit(index)
		return encodeBool(ok), err
	case ViewHasVotingPeriodExpired:
		start, err := decodeIndexArg(payload)
		if err != nil {
			return "", err
		}
		ok, err := e.HasVotingPeriodExpired(now, start)
		return encodeBool(ok), err
	case ViewMemberProposalVote:
		member, index, err := decodeMemberIndexArgs(payload)
		if err != nil {
			return "", err
		}
		v, err := e.MemberProposalVote(member, index)
		if err != nil {
			return "", err
		}
		return encode(v)
	case ViewEscrowBalance:
		addr, err := decodeAddressArg(payload, "account id")
		if err != nil {
			return "", err
		}
		v, err := e.EscrowBalance(addr)
		if err != nil {
			return "", err
		}
		return encode(dao.U128JSON(v))
	case ViewBankBalance:
		v, err := e.BankBalance()
		if err != nil {
			return "", err
		}
		return encode(dao.U128JSON(v))
	case ViewMember:
		addr, err := decodeAddressArg(payload, "account id")
		if err != nil {
			return "", err
		}
		m, err := e.Member(addr)
		if err != nil {
			return "", err
		}
		return encode(m)
	case ViewProposal:
		index, err := decodeIndexArg(payload)
		if err != nil {
			return "", err
		}
		p, err := e.Proposal(index)
		if err != nil {
			return "", err
		}
		return encode(p)
	case ViewProposalPhase:
		index, err := decodeIndexArg(payload)
		if err != nil {
			return "", err
		}
		phase, err := e.ProposalPhase(now, index)
		if err != nil {
			return "", err
		}
		return encodeString(phase.String()), nil
	case ViewTotals:
		t, err := e.Totals(now)
		if err != nil {
			return "", err
		}
		return encode(&t)
	}
	return "", ErrUnknownAction.withDetail("%q", action)
}

func encode(v tinyjson.Marshaler) (string, error) {
	b, err := tinyjson.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func encodeUint(n uint64) string {
	w := jwriter.Writer{}
	w.Uint64(n)
	return string(w.Buffer.BuildBytes())
}

func encodeBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func encodeString(s string) string {
	w := jwriter.Writer{}
	w.String(s)
	return string(w.Buffer.BuildBytes())
}

package contract

import (
	"errors"
	"fmt"
)

// Kind groups failures so callers can react without matching on text.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindUnauthorized
	KindNotFound
	KindInvalidInput
	KindStateConflict
	KindArithmeticOverflow
	KindInsufficientFunds
	KindConfiguration
	KindTransferFailed
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindInvalidInput:
		return "invalid_input"
	case KindStateConflict:
		return "state_conflict"
	case KindArithmeticOverflow:
		return "arithmetic_overflow"
	case KindInsufficientFunds:
		return "insufficient_funds"
	case KindConfiguration:
		return "configuration"
	case KindTransferFailed:
		return "transfer_failed"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Error is returned by every engine operation. Msg names the violated rule,
// Detail optionally carries call specific values.
type Error struct {
	Kind   Kind
	Msg    string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	s := e.Msg
	if e.Detail != "" {
		s += ": " + e.Detail
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on kind and message so detailed copies still match their sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Msg == e.Msg
}

func (e *Error) withDetail(format string, args ...any) *Error {
	return &Error{Kind: e.Kind, Msg: e.Msg, Detail: fmt.Sprintf(format, args...)}
}

func (e *Error) wrap(err error) *Error {
	return &Error{Kind: e.Kind, Msg: e.Msg, Err: err}
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// KindOf returns KindUnknown for errors that did not come from the engine.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// -----------------------------------------------------------------------------
// Authorization
// -----------------------------------------------------------------------------

var (
	ErrNotDelegate     = newError(KindUnauthorized, "Account is not a delegate")
	ErrNotMember       = newError(KindUnauthorized, "Account is not a member")
	ErrNotApplicant    = newError(KindUnauthorized, "Calling account is not the proposal applicant")
	ErrMemberNotExists = newError(KindNotFound, "Member does not exist")
	ErrProposalMissing = newError(KindNotFound, "Proposal does not exist")
)

// -----------------------------------------------------------------------------
// Input validation
// -----------------------------------------------------------------------------

var (
	ErrInvalidApplicant   = newError(KindInvalidInput, "applicant must be a valid account id")
	ErrInvalidVoteCode    = newError(KindInvalidInput, "vote code must be 1 (yes), 2 (no) or 3 (abstain)")
	ErrInvalidDelegateKey = newError(KindInvalidInput, "Delegate key cannot be an empty string")
	ErrInvalidSender      = newError(KindInvalidInput, "sender_id must be a valid account id")
	ErrInvalidPayload     = newError(KindInvalidInput, "invalid payload")
	ErrUnknownAction      = newError(KindInvalidInput, "unknown action")
)

// -----------------------------------------------------------------------------
// Lifecycle conflicts
// -----------------------------------------------------------------------------

var (
	ErrAlreadyInitialized   = newError(KindStateConflict, "contract already initialized")
	ErrVotingNotStarted     = newError(KindStateConflict, "Voting period has not begun")
	ErrVotingExpired        = newError(KindStateConflict, "Proposal voting period has expired")
	ErrAlreadyVoted         = newError(KindStateConflict, "Member has already voted")
	ErrProposalAborted      = newError(KindStateConflict, "Proposal has been aborted")
	ErrNotReadyToProcess    = newError(KindStateConflict, "Proposal is not ready to be processed")
	ErrAlreadyProcessed     = newError(KindStateConflict, "Proposal has already been processed")
	ErrPreviousNotProcessed = newError(KindStateConflict, "Previous proposal must be processed")
	ErrPendingYesVote       = newError(KindStateConflict, "Can't rage quit until the highest index proposal member voted YES is processed")
	ErrAbortWindowClosed    = newError(KindStateConflict, "Abort window has passed!")
	ErrAlreadyAborted       = newError(KindStateConflict, "Proposal has already been aborted")
	ErrOverwriteMember      = newError(KindStateConflict, "Can't overwrite an existing members delegate_key")
	ErrOverwriteDelegate    = newError(KindStateConflict, "Can't overwrite existing delegate keys")
)

// -----------------------------------------------------------------------------
// Arithmetic and funds
// -----------------------------------------------------------------------------

var (
	ErrTooManyShares      = newError(KindArithmeticOverflow, "Too many shares were requested")
	ErrTooManyOutstanding = newError(KindArithmeticOverflow, "Too many shares were requested: due to outstanding shares requested")
	ErrBalanceOverflow    = newError(KindArithmeticOverflow, "balance overflow")
	ErrInsufficientEscrow = newError(KindInsufficientFunds, "Insufficient balance to withdraw requested amount")
	ErrInsufficientShares = newError(KindInsufficientFunds, "Not enough shares to be burned")
	ErrZeroTotalShares    = newError(KindInsufficientFunds, "Total shares is 0 a withdrawl cannot be calculated")
	ErrInsufficientBank   = newError(KindInsufficientFunds, "guild bank balance is too low")
	ErrTransferFailed     = newError(KindTransferFailed, "token transfer failed")
	ErrStorage            = newError(KindStorage, "storage failure")
)

// -----------------------------------------------------------------------------
// Genesis configuration
// -----------------------------------------------------------------------------

var (
	ErrNotInitialized        = newError(KindConfiguration, "contract not initialized")
	ErrInvalidSummoner       = newError(KindConfiguration, "Summoner must be a valid account")
	ErrInvalidToken          = newError(KindConfiguration, "Approved token must have a valid address")
	ErrZeroPeriodDuration    = newError(KindConfiguration, "period_duration must be greater than 0")
	ErrZeroVotingPeriod      = newError(KindConfiguration, "voting_period_length must be greater than 0")
	ErrVotingPeriodTooLong   = newError(KindConfiguration, "voting_period_length must be less than the max voting period")
	ErrGracePeriodTooLong    = newError(KindConfiguration, "grace_period exceeds max grace period")
	ErrZeroAbortWindow       = newError(KindConfiguration, "Abort window cannot be 0")
	ErrAbortWindowTooLong    = newError(KindConfiguration, "abort_window must be smaller than the voting_period_length")
	ErrZeroDilutionBound     = newError(KindConfiguration, "dilution_bound cannot be 0")
	ErrDilutionBoundTooLarge = newError(KindConfiguration, "dilution_bound exceeds max dilution bound")
	ErrDepositBelowReward    = newError(KindConfiguration, "proposal_deposit cannot be smaller than processing reward")
)

package contract

import (
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"moloch_dao/contract/dao"
	"moloch_dao/sdk"
)

type SubmitProposalArgs struct {
	Applicant sdk.Address
	Tribute   dao.U128
	Shares    dao.U128
	Details   string
}

type SubmitVoteArgs struct {
	Index uint64
	Code  uint8
}

type OnTransferArgs struct {
	Sender sdk.Address
	Amount dao.U128
	Msg    string
}

// decodeSubmitProposalArgs expects `applicant|tribute|shares|details`. Details
// is the remainder and may itself contain pipes.
func decodeSubmitProposalArgs(payload string) (*SubmitProposalArgs, error) {
	raw, err := unwrapPayload(payload, "proposal payload missing")
	if err != nil {
		return nil, err
	}
	parts := strings.SplitN(raw, "|", 4)
	if len(parts) < 3 {
		return nil, ErrInvalidPayload.withDetail("proposal payload requires applicant|tribute|shares|details")
	}
	tribute, err := parseAmountField(parts[1], "token tribute")
	if err != nil {
		return nil, err
	}
	shares, err := parseAmountField(parts[2], "shares requested")
	if err != nil {
		return nil, err
	}
	args := &SubmitProposalArgs{
		Applicant: sdk.Address(strings.TrimSpace(parts[0])),
		Tribute:   tribute,
		Shares:    shares,
	}
	if len(parts) == 4 {
		args.Details = strings.TrimSpace(parts[3])
	}
	return args, nil
}

// decodeSubmitVoteArgs expects `index|code`.
func decodeSubmitVoteArgs(payload string) (*SubmitVoteArgs, error) {
	raw, err := unwrapPayload(payload, "vote payload missing")
	if err != nil {
		return nil, err
	}
	parts := strings.Split(raw, "|")
	if len(parts) != 2 {
		return nil, ErrInvalidPayload.withDetail("vote payload requires index|code")
	}
	index, err := parseUintField(parts[0], "proposal index")
	if err != nil {
		return nil, err
	}
	code, err := parseUintField(parts[1], "vote code")
	if err != nil {
		return nil, err
	}
	if code > 255 {
		return nil, ErrInvalidVoteCode.withDetail("got %d", code)
	}
	return &SubmitVoteArgs{Index: index, Code: cast.ToUint8(code)}, nil
}

// decodeOnTransferArgs expects `sender_id|amount|msg`, msg is optional.
func decodeOnTransferArgs(payload string) (*OnTransferArgs, error) {
	raw, err := unwrapPayload(payload, "transfer payload missing")
	if err != nil {
		return nil, err
	}
	parts := strings.SplitN(raw, "|", 3)
	if len(parts) < 2 {
		return nil, ErrInvalidPayload.withDetail("transfer payload requires sender_id|amount|msg")
	}
	amount, err := parseAmountField(parts[1], "amount")
	if err != nil {
		return nil, err
	}
	args := &OnTransferArgs{
		Sender: sdk.Address(strings.TrimSpace(parts[0])),
		Amount: amount,
	}
	if len(parts) == 3 {
		args.Msg = parts[2]
	}
	return args, nil
}

// decodeIndexArg handles the single index payloads of process, abort and the views.
func decodeIndexArg(payload string) (uint64, error) {
	raw, err := unwrapPayload(payload, "index payload missing")
	if err != nil {
		return 0, err
	}
	return parseUintField(raw, "proposal index")
}

func decodeAmountArg(payload, field string) (dao.U128, error) {
	raw, err := unwrapPayload(payload, field+" payload missing")
	if err != nil {
		return dao.U128{}, err
	}
	return parseAmountField(raw, field)
}

func decodeAddressArg(payload, field string) (sdk.Address, error) {
	raw, err := unwrapPayload(payload, field+" payload missing")
	if err != nil {
		return "", err
	}
	return sdk.Address(raw), nil
}

// decodeMemberIndexArgs expects `member|index`.
func decodeMemberIndexArgs(payload string) (sdk.Address, uint64, error) {
	raw, err := unwrapPayload(payload, "member vote payload missing")
	if err != nil {
		return "", 0, err
	}
	parts := strings.Split(raw, "|")
	if len(parts) != 2 {
		return "", 0, ErrInvalidPayload.withDetail("payload requires member|index")
	}
	index, err := parseUintField(parts[1], "proposal index")
	if err != nil {
		return "", 0, err
	}
	return sdk.Address(strings.TrimSpace(parts[0])), index, nil
}

// unwrapPayload trims quotes and whitespace, failing if the payload is empty.
func unwrapPayload(payload string, errMsg string) (string, error) {
	raw := strings.TrimSpace(payload)
	if raw == "" {
		return "", ErrInvalidPayload.withDetail("%s", errMsg)
	}
	if len(raw) >= 2 {
		first := raw[0]
		last := raw[len(raw)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			if unquoted, err := strconv.Unquote(raw); err == nil {
				return strings.TrimSpace(unquoted), nil
			}
			raw = strings.TrimSpace(raw[1 : len(raw)-1])
		}
	}
	if raw == "" {
		return "", ErrInvalidPayload.withDetail("%s", errMsg)
	}
	return raw, nil
}

// parseUintField takes plain decimal digits only, up to the full u64 range.
func parseUintField(val string, field string) (uint64, error) {
	val = strings.TrimSpace(val)
	if !isDigits(val) {
		return 0, ErrInvalidPayload.withDetail("invalid %s %q", field, val)
	}
	trimmed := strings.TrimLeft(val, "0")
	if trimmed == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return 0, ErrInvalidPayload.withDetail("invalid %s %q", field, val)
	}
	return n, nil
}

// parseAmountField reads a u128 decimal, empty means zero.
func parseAmountField(val string, field string) (dao.U128, error) {
	val = strings.TrimSpace(val)
	if val == "" {
		return dao.U128{}, nil
	}
	v, err := dao.U128FromDecimal(val)
	if err != nil {
		return dao.U128{}, ErrInvalidPayload.withDetail("invalid %s: %v", field, err)
	}
	return v, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

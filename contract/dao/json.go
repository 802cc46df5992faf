package dao

import (
	"sort"

	"github.com/CosmWasm/tinyjson"
	"github.com/CosmWasm/tinyjson/jlexer"
	"github.com/CosmWasm/tinyjson/jwriter"

	"moloch_dao/sdk"
)

// View encodings. Amounts travel as decimal strings, 128 bit values do not
// survive float64 based JSON readers.

func writeU128Field(out *jwriter.Writer, name string, v U128, first bool) {
	if !first {
		out.RawByte(',')
	}
	out.String(name)
	out.RawByte(':')
	out.String(v.String())
}

func writeStringField(out *jwriter.Writer, name, v string, first bool) {
	if !first {
		out.RawByte(',')
	}
	out.String(name)
	out.RawByte(':')
	out.String(v)
}

func writeUint64Field(out *jwriter.Writer, name string, v uint64) {
	out.RawByte(',')
	out.String(name)
	out.RawByte(':')
	out.Uint64(v)
}

func writeBoolField(out *jwriter.Writer, name string, v bool) {
	out.RawByte(',')
	out.String(name)
	out.RawByte(':')
	out.Bool(v)
}

func readU128(in *jlexer.Lexer) U128 {
	u, err := U128FromDecimal(in.String())
	if err != nil {
		in.AddError(err)
	}
	return u
}

func (v Vote) MarshalTinyJSON(out *jwriter.Writer) {
	out.String(v.String())
}

func (v *Vote) UnmarshalTinyJSON(in *jlexer.Lexer) {
	switch s := in.String(); s {
	case "Yes":
		*v = VoteYes
	case "No":
		*v = VoteNo
	case "Null":
		*v = VoteNull
	default:
		in.AddError(&jlexer.LexerError{Reason: "unknown vote " + s, Data: s})
	}
}

func (m *Member) MarshalTinyJSON(out *jwriter.Writer) {
	out.RawByte('{')
	writeStringField(out, "account_id", m.Address.String(), true)
	writeStringField(out, "delegate_key", m.DelegateKey.String(), false)
	writeU128Field(out, "shares", m.Shares, false)
	writeBoolField(out, "exists", m.Exists)
	writeUint64Field(out, "highest_index_yes_vote", m.HighestIndexYesVote)
	out.RawByte('}')
}

func (m *Member) UnmarshalTinyJSON(in *jlexer.Lexer) {
	if in.IsNull() {
		in.Skip()
		return
	}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		switch key {
		case "account_id":
			m.Address = sdk.Address(in.String())
		case "delegate_key":
			m.DelegateKey = sdk.Address(in.String())
		case "shares":
			m.Shares = readU128(in)
		case "exists":
			m.Exists = in.Bool()
		case "highest_index_yes_vote":
			m.HighestIndexYesVote = in.Uint64()
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}

func (p *Proposal) MarshalTinyJSON(out *jwriter.Writer) {
	out.RawByte('{')
	writeStringField(out, "proposer", p.Proposer.String(), true)
	writeStringField(out, "applicant", p.Applicant.String(), false)
	writeU128Field(out, "shares_requested", p.SharesRequested, false)
	writeUint64Field(out, "starting_period", p.StartingPeriod)
	writeU128Field(out, "yes_votes", p.YesVotes, false)
	writeU128Field(out, "no_votes", p.NoVotes, false)
	writeBoolField(out, "processed", p.Processed)
	writeBoolField(out, "did_pass", p.DidPass)
	writeBoolField(out, "aborted", p.Aborted)
	writeU128Field(out, "token_tribute", p.TokenTribute, false)
	writeStringField(out, "details", p.Details, false)
	writeU128Field(out, "max_total_shares_at_yes_vote", p.MaxTotalSharesAtYesVote, false)
	out.RawString(`,"votes_by_member":{`)
	voters := make([]string, 0, len(p.Votes))
	for addr := range p.Votes {
		voters = append(voters, addr.String())
	}
	sort.Strings(voters)
	for i, voter := range voters {
		if i > 0 {
			out.RawByte(',')
		}
		out.String(voter)
		out.RawByte(':')
		p.Votes[sdk.Address(voter)].MarshalTinyJSON(out)
	}
	out.RawString("}}")
}

func (p *Proposal) UnmarshalTinyJSON(in *jlexer.Lexer) {
	if in.IsNull() {
		in.Skip()
		return
	}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		switch key {
		case "proposer":
			p.Proposer = sdk.Address(in.String())
		case "applicant":
			p.Applicant = sdk.Address(in.String())
		case "shares_requested":
			p.SharesRequested = readU128(in)
		case "starting_period":
			p.StartingPeriod = in.Uint64()
		case "yes_votes":
			p.YesVotes = readU128(in)
		case "no_votes":
			p.NoVotes = readU128(in)
		case "processed":
			p.Processed = in.Bool()
		case "did_pass":
			p.DidPass = in.Bool()
		case "aborted":
			p.Aborted = in.Bool()
		case "token_tribute":
			p.TokenTribute = readU128(in)
		case "details":
			p.Details = in.String()
		case "max_total_shares_at_yes_vote":
			p.MaxTotalSharesAtYesVote = readU128(in)
		case "votes_by_member":
			p.Votes = make(map[sdk.Address]Vote)
			in.Delim('{')
			for !in.IsDelim('}') {
				voter := sdk.Address(in.String())
				in.WantColon()
				var v Vote
				v.UnmarshalTinyJSON(in)
				p.Votes[voter] = v
				in.WantComma()
			}
			in.Delim('}')
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}

func (t *Totals) MarshalTinyJSON(out *jwriter.Writer) {
	out.RawByte('{')
	writeU128Field(out, "total_shares", t.TotalShares, true)
	writeU128Field(out, "total_shares_requested", t.TotalSharesRequested, false)
	writeU128Field(out, "bank_balance", t.BankBalance, false)
	writeUint64Field(out, "proposal_queue_length", t.QueueLength)
	writeUint64Field(out, "current_period", t.CurrentPeriod)
	out.RawByte('}')
}

// U128JSON wraps a bare amount so views can return it as a JSON string.
type U128JSON U128

func (u U128JSON) MarshalTinyJSON(out *jwriter.Writer) {
	out.String(U128(u).String())
}

func (u *U128JSON) UnmarshalTinyJSON(in *jlexer.Lexer) {
	*u = U128JSON(readU128(in))
}

var (
	_ tinyjson.Marshaler   = (*Member)(nil)
	_ tinyjson.Unmarshaler = (*Member)(nil)
	_ tinyjson.Marshaler   = (*Proposal)(nil)
	_ tinyjson.Unmarshaler = (*Proposal)(nil)
	_ tinyjson.Marshaler   = (*Totals)(nil)
	_ tinyjson.Marshaler   = Vote(0)
	_ tinyjson.Marshaler   = U128JSON{}
)

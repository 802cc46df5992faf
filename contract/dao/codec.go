package dao

import (
	"bytes"
	"encoding/binary"
	"errors"
	"sort"

	"moloch_dao/sdk"
)

var errUnexpectedEOF = errors.New("unexpected EOF")

type binWriter struct {
	buf bytes.Buffer
}

func newWriter() *binWriter { return &binWriter{} }

func (w *binWriter) bytes() []byte { return w.buf.Bytes() }

func (w *binWriter) writeBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

func (w *binWriter) writeUint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *binWriter) writeVarUint(v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	w.buf.Write(tmp[:n])
}

func (w *binWriter) writeU128(v U128) {
	b := v.Bytes16()
	w.buf.Write(b[:])
}

func (w *binWriter) writeString(s string) {
	w.writeVarUint(uint64(len(s)))
	w.buf.WriteString(s)
}

func (w *binWriter) writeAddress(a sdk.Address) {
	w.writeString(a.String())
}

// writeVotes sorts voters so equal proposals always encode to equal bytes.
func (w *binWriter) writeVotes(votes map[sdk.Address]Vote) {
	voters := make([]string, 0, len(votes))
	for addr := range votes {
		voters = append(voters, addr.String())
	}
	sort.Strings(voters)
	w.writeVarUint(uint64(len(voters)))
	for _, v := range voters {
		w.writeString(v)
		w.buf.WriteByte(byte(votes[sdk.Address(v)]))
	}
}

// EncodeMember packs a Member into bytes for the registry.
func EncodeMember(m *Member) []byte {
	w := newWriter()
	w.writeAddress(m.Address)
	w.writeAddress(m.DelegateKey)
	w.writeU128(m.Shares)
	w.writeBool(m.Exists)
	w.writeUint64(m.HighestIndexYesVote)
	return w.bytes()
}

// EncodeProposal serializes a proposal including its ballot map.
func EncodeProposal(p *Proposal) []byte {
	w := newWriter()
	w.writeAddress(p.Proposer)
	w.writeAddress(p.Applicant)
	w.writeU128(p.SharesRequested)
	w.writeUint64(p.StartingPeriod)
	w.writeU128(p.YesVotes)
	w.writeU128(p.NoVotes)
	w.writeBool(p.Processed)
	w.writeBool(p.DidPass)
	w.writeBool(p.Aborted)
	w.writeU128(p.TokenTribute)
	w.writeString(p.Details)
	w.writeU128(p.MaxTotalSharesAtYesVote)
	w.writeVotes(p.Votes)
	return w.bytes()
}

// EncodeParams stores the genesis parameters.
func EncodeParams(p *Params) []byte {
	w := newWriter()
	w.writeAddress(p.Summoner)
	w.writeString(p.Token.String())
	w.writeUint64(p.PeriodDuration)
	w.writeUint64(p.VotingPeriodLength)
	w.writeUint64(p.GracePeriodLength)
	w.writeUint64(p.AbortWindow)
	w.writeU128(p.ProposalDeposit)
	w.writeU128(p.DilutionBound)
	w.writeU128(p.ProcessingReward)
	w.writeUint64(p.SummoningTime)
	return w.bytes()
}

// EncodeU128 is the storage form of balances and counters.
func EncodeU128(v U128) []byte {
	b := v.Bytes16()
	return b[:]
}

// ------------------------------------------------------------------
// Decoder helpers
// ------------------------------------------------------------------

type binReader struct {
	data []byte
	pos  int
}

func newReader(data []byte) *binReader {
	return &binReader{data: data}
}

func (r *binReader) readByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, errUnexpectedEOF
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *binReader) readBool() (bool, error) {
	b, err := r.readByte()
	if err != nil {
		return false, err
	}
	return b == 1, nil
}

func (r *binReader) readUint64() (uint64, error) {
	if r.pos+8 > len(r.data) {
		return 0, errUnexpectedEOF
	}
	val := binary.BigEndian.Uint64(r.data[r.pos : r.pos+8])
	r.pos += 8
	return val, nil
}

func (r *binReader) readVarUint() (uint64, error) {
	val, n := binary.Uvarint(r.data[r.pos:])
	if n <= 0 {
		return 0, errors.New("invalid varuint")
	}
	r.pos += n
	return val, nil
}

func (r *binReader) readU128() (U128, error) {
	if r.pos+16 > len(r.data) {
		return U128{}, errUnexpectedEOF
	}
	var b [16]byte
	copy(b[:], r.data[r.pos:r.pos+16])
	r.pos += 16
	return U128FromBytes16(b), nil
}

func (r *binReader) readString() (string, error) {
	l, err := r.readVarUint()
	if err != nil {
		return "", err
	}
	if l > uint64(len(r.data)-r.pos) {
		return "", errUnexpectedEOF
	}
	s := string(r.data[r.pos : r.pos+int(l)])
	r.pos += int(l)
	return s, nil
}

func (r *binReader) readAddress() (sdk.Address, error) {
	s, err := r.readString()
	return sdk.Address(s), err
}

func (r *binReader) readVotes() (map[sdk.Address]Vote, error) {
	count, err := r.readVarUint()
	if err != nil {
		return nil, err
	}
	if count > uint64(len(r.data)-r.pos) {
		return nil, errUnexpectedEOF
	}
	votes := make(map[sdk.Address]Vote, count)
	for i := uint64(0); i < count; i++ {
		addr, err := r.readAddress()
		if err != nil {
			return nil, err
		}
		b, err := r.readByte()
		if err != nil {
			return nil, err
		}
		if Vote(b) > VoteNo {
			return nil, errors.New("invalid vote byte")
		}
		votes[addr] = Vote(b)
	}
	return votes, nil
}

func (r *binReader) done() error {
	if r.pos != len(r.data) {
		return errors.New("trailing bytes")
	}
	return nil
}

// DecodeMember is the inverse of EncodeMember.
func DecodeMember(data []byte) (*Member, error) {
	r := newReader(data)
	m := &Member{}
	var err error
	if m.Address, err = r.readAddress(); err != nil {
		return nil, err
	}
	if m.DelegateKey, err = r.readAddress(); err != nil {
		return nil, err
	}
	if m.Shares, err = r.readU128(); err != nil {
		return nil, err
	}
	if m.Exists, err = r.readBool(); err != nil {
		return nil, err
	}
	if m.HighestIndexYesVote, err = r.readUint64(); err != nil {
		return nil, err
	}
	return m, r.done()
}

// DecodeProposal is the inverse of EncodeProposal.
func DecodeProposal(data []byte) (*Proposal, error) {
	r := newReader(data)
	p := &Proposal{}
	var err error
	if p.Proposer, err = r.readAddress(); err != nil {
		return nil, err
	}
	if p.Applicant, err = r.readAddress(); err != nil {
		return nil, err
	}
	if p.SharesRequested, err = r.readU128(); err != nil {
		return nil, err
	}
	if p.StartingPeriod, err = r.readUint64(); err != nil {
		return nil, err
	}
	if p.YesVotes, err = r.readU128(); err != nil {
		return nil, err
	}
	if p.NoVotes, err = r.readU128(); err != nil {
		return nil, err
	}
	if p.Processed, err = r.readBool(); err != nil {
		return nil, err
	}
	if p.DidPass, err = r.readBool(); err != nil {
		return nil, err
	}
	if p.Aborted, err = r.readBool(); err != nil {
		return nil, err
	}
	if p.TokenTribute, err = r.readU128(); err != nil {
		return nil, err
	}
	if p.Details, err = r.readString(); err != nil {
		return nil, err
	}
	if p.MaxTotalSharesAtYesVote, err = r.readU128(); err != nil {
		return nil, err
	}
	if p.Votes, err = r.readVotes(); err != nil {
		return nil, err
	}
	return p, r.done()
}

// DecodeParams is the inverse of EncodeParams.
func DecodeParams(data []byte) (*Params, error) {
	r := newReader(data)
	p := &Params{}
	var err error
	if p.Summoner, err = r.readAddress(); err != nil {
		return nil, err
	}
	token, err := r.readString()
	if err != nil {
		return nil, err
	}
	p.Token = sdk.Asset(token)
	for _, dst := range []*uint64{&p.PeriodDuration, &p.VotingPeriodLength, &p.GracePeriodLength, &p.AbortWindow} {
		if *dst, err = r.readUint64(); err != nil {
			return nil, err
		}
	}
	for _, dst := range []*U128{&p.ProposalDeposit, &p.DilutionBound, &p.ProcessingReward} {
		if *dst, err = r.readU128(); err != nil {
			return nil, err
		}
	}
	if p.SummoningTime, err = r.readUint64(); err != nil {
		return nil, err
	}
	return p, r.done()
}

// DecodeU128 expects exactly 16 bytes.
func DecodeU128(data []byte) (U128, error) {
	if len(data) != 16 {
		return U128{}, errors.New("u128 needs 16 bytes")
	}
	var b [16]byte
	copy(b[:], data)
	return U128FromBytes16(b), nil
}

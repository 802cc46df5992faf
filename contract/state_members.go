package contract

import (
	"fmt"

	"moloch_dao/contract/dao"
	"moloch_dao/sdk"
)

// loadMember returns ok=false when no record exists. A record with
// Exists=false is reported as ok=true so callers must check Exists.
func (c *call) loadMember(addr sdk.Address) (*dao.Member, bool, error) {
	ptr := c.state.Get(memberKey(addr))
	if ptr == nil || *ptr == "" {
		return nil, false, nil
	}
	m, err := dao.DecodeMember([]byte(*ptr))
	if err != nil {
		return nil, false, ErrStorage.wrap(fmt.Errorf("decode member %s: %w", addr, err))
	}
	return m, true, nil
}

// loadExistingMember folds "no record" and "Exists=false" into one answer.
func (c *call) loadExistingMember(addr sdk.Address) (*dao.Member, bool, error) {
	m, ok, err := c.loadMember(addr)
	if err != nil || !ok || !m.Exists {
		return nil, false, err
	}
	return m, true, nil
}

// saveMember writes the registry record, the delegate index is maintained separately.
func (c *call) saveMember(m *dao.Member) {
	c.state.Set(memberKey(m.Address), string(dao.EncodeMember(m)))
}

// memberForDelegate resolves a delegate key to the member it acts for.
func (c *call) memberForDelegate(delegate sdk.Address) (sdk.Address, bool) {
	ptr := c.state.Get(delegateKey(delegate))
	if ptr == nil || *ptr == "" {
		return "", false
	}
	return sdk.Address(*ptr), true
}

func (c *call) setDelegate(delegate, member sdk.Address) {
	c.state.Set(delegateKey(delegate), member.String())
}

func (c *call) clearDelegate(delegate sdk.Address) {
	c.state.Delete(delegateKey(delegate))
}

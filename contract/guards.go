package contract

import (
	"moloch_dao/contract/dao"
	"moloch_dao/sdk"
)

// onlyDelegate resolves caller through the delegate index and returns the
// member it acts for.
func (c *call) onlyDelegate(caller sdk.Address) (*dao.Member, error) {
	memberAddr, ok := c.memberForDelegate(caller)
	if !ok {
		return nil, ErrNotDelegate
	}
	m, ok, err := c.loadExistingMember(memberAddr)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotDelegate
	}
	return m, nil
}

// onlyMember checks the caller identity itself, delegation does not count here.
func (c *call) onlyMember(caller sdk.Address) (*dao.Member, error) {
	m, ok, err := c.loadExistingMember(caller)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotMember
	}
	return m, nil
}

package contract

import (
	"fmt"

	"moloch_dao/contract/dao"
)

// queueLen is the number of proposals ever submitted.
func (c *call) queueLen() (uint64, error) {
	return getCount(c.state, ProposalsCount)
}

// getProposal fails with ErrProposalMissing for indexes past the end of the queue.
func (c *call) getProposal(index uint64) (*dao.Proposal, error) {
	n, err := c.queueLen()
	if err != nil {
		return nil, err
	}
	if index >= n {
		return nil, ErrProposalMissing.withDetail("index %d, queue length %d", index, n)
	}
	ptr := c.state.Get(proposalKey(index))
	if ptr == nil || *ptr == "" {
		return nil, ErrStorage.wrap(fmt.Errorf("proposal %d missing below queue length %d", index, n))
	}
	p, err := dao.DecodeProposal([]byte(*ptr))
	if err != nil {
		return nil, ErrStorage.wrap(fmt.Errorf("decode proposal %d: %w", index, err))
	}
	return p, nil
}

// lastProposal returns nil when the queue is empty.
func (c *call) lastProposal() (*dao.Proposal, error) {
	n, err := c.queueLen()
	if err != nil || n == 0 {
		return nil, err
	}
	return c.getProposal(n - 1)
}

// pushProposal appends and returns the new index.
func (c *call) pushProposal(p *dao.Proposal) (uint64, error) {
	n, err := c.queueLen()
	if err != nil {
		return 0, err
	}
	c.state.Set(proposalKey(n), string(dao.EncodeProposal(p)))
	setCount(c.state, ProposalsCount, n+1)
	return n, nil
}

// replaceProposal overwrites an existing entry, ErrProposalMissing past the end.
func (c *call) replaceProposal(index uint64, p *dao.Proposal) error {
	n, err := c.queueLen()
	if err != nil {
		return err
	}
	if index >= n {
		return ErrProposalMissing.withDetail("index %d, queue length %d", index, n)
	}
	c.state.Set(proposalKey(index), string(dao.EncodeProposal(p)))
	return nil
}

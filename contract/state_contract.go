package contract

import (
	"fmt"
	"strconv"

	"moloch_dao/contract/dao"
)

// -----------------------------------------------------------------------------
// Contract Configuration State
// -----------------------------------------------------------------------------

// isContractInitialized returns true once Summon has stored the params.
func isContractInitialized(st State) bool {
	ptr := st.Get(ContractConfigKey)
	return ptr != nil && *ptr != ""
}

// loadParams decodes the genesis params, ErrNotInitialized when missing.
func loadParams(st State) (*dao.Params, error) {
	ptr := st.Get(ContractConfigKey)
	if ptr == nil || *ptr == "" {
		return nil, ErrNotInitialized
	}
	p, err := dao.DecodeParams([]byte(*ptr))
	if err != nil {
		return nil, ErrStorage.wrap(fmt.Errorf("decode params: %w", err))
	}
	return p, nil
}

func saveParams(st State, p *dao.Params) {
	st.Set(ContractConfigKey, string(dao.EncodeParams(p)))
}

// -----------------------------------------------------------------------------
// Counters
// -----------------------------------------------------------------------------

// getCount reads the decimal counter under key and defaults to zero.
func getCount(st State, key string) (uint64, error) {
	ptr := st.Get(key)
	if ptr == nil || *ptr == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(*ptr, 10, 64)
	if err != nil {
		return 0, ErrStorage.wrap(fmt.Errorf("decode counter %s: %w", key, err))
	}
	return n, nil
}

func setCount(st State, key string, n uint64) {
	st.Set(key, strconv.FormatUint(n, 10))
}

// loadAmount reads a U128 singleton, zero when unset.
func loadAmount(st State, key string) (dao.U128, error) {
	ptr := st.Get(key)
	if ptr == nil || *ptr == "" {
		return dao.U128{}, nil
	}
	v, err := dao.DecodeU128([]byte(*ptr))
	if err != nil {
		return dao.U128{}, ErrStorage.wrap(fmt.Errorf("decode %s: %w", key, err))
	}
	return v, nil
}

func saveAmount(st State, key string, v dao.U128) {
	st.Set(key, string(dao.EncodeU128(v)))
}

func (c *call) totalShares() (dao.U128, error) {
	return loadAmount(c.state, TotalSharesKey)
}

func (c *call) setTotalShares(v dao.U128) {
	saveAmount(c.state, TotalSharesKey, v)
}

func (c *call) totalSharesRequested() (dao.U128, error) {
	return loadAmount(c.state, TotalRequestedKey)
}

func (c *call) setTotalSharesRequested(v dao.U128) {
	saveAmount(c.state, TotalRequestedKey, v)
}

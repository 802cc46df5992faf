package contract

import (
	"context"
	"fmt"
	"time"

	"github.com/sasha-s/go-deadlock"

	"moloch_dao/contract/dao"
	"moloch_dao/sdk"
)

// Engine runs governance calls one at a time against a State store.
//
// Every call works on a buffered overlay. When the operation succeeds its
// transfers are executed first and the overlay is committed second, so a
// rejected transfer leaves the store exactly as it was. Operations queue at
// most one transfer each.
type Engine struct {
	mu      deadlock.Mutex
	store   State
	host    sdk.Host
	metrics *Metrics

	params *dao.Params
	clock  dao.PeriodClock
}

type Option func(*Engine)

// WithMetrics records call outcomes and guild totals on m.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

func NewEngine(store State, host sdk.Host, opts ...Option) *Engine {
	e := &Engine{store: store, host: host}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Receipt describes a committed call.
type Receipt struct {
	TxID      string
	Action    string
	Return    string
	Transfers []dao.Transfer
	Logs      []string
}

// call is the per-invocation context every operation and accessor hangs off.
type call struct {
	ctx       context.Context
	env       sdk.Env
	state     *txState
	params    *dao.Params
	clock     dao.PeriodClock
	transfers []dao.Transfer
	logs      []string
	ret       string
	onCommit  []func()
}

func (c *call) currentPeriod() uint64 {
	return c.clock.CurrentPeriod(c.env.Timestamp)
}

// queueTransfer records an outgoing payment, zero amounts move nothing and are dropped.
func (c *call) queueTransfer(to sdk.Address, amount dao.U128, memo string) {
	if amount.IsZero() {
		return
	}
	c.transfers = append(c.transfers, dao.Transfer{To: to, Amount: amount, Memo: memo})
}

func (c *call) afterCommit(fn func()) {
	c.onCommit = append(c.onCommit, fn)
}

// IsInitialized reports whether Summon already ran against the store.
func (e *Engine) IsInitialized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return isContractInitialized(e.store)
}

// Params returns a copy of the genesis parameters.
func (e *Engine) Params() (dao.Params, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.loadParamsLocked(); err != nil {
		return dao.Params{}, err
	}
	return *e.params, nil
}

// -----------------------------------------------------------------------------
// Genesis
// -----------------------------------------------------------------------------

// validateParams checks genesis params in a fixed order, the first violation wins.
func validateParams(p *dao.Params) error {
	switch {
	case !p.Summoner.IsValid():
		return ErrInvalidSummoner.withDetail("%q", p.Summoner)
	case !sdk.Address(p.Token).IsValid():
		return ErrInvalidToken.withDetail("%q", p.Token)
	case p.PeriodDuration == 0:
		return ErrZeroPeriodDuration
	case p.VotingPeriodLength == 0:
		return ErrZeroVotingPeriod
	case p.VotingPeriodLength > MaxVotingPeriodLength:
		return ErrVotingPeriodTooLong
	case p.GracePeriodLength > MaxGracePeriodLength:
		return ErrGracePeriodTooLong
	case p.AbortWindow == 0:
		return ErrZeroAbortWindow
	case p.AbortWindow > p.VotingPeriodLength:
		return ErrAbortWindowTooLong
	case p.DilutionBound.IsZero():
		return ErrZeroDilutionBound
	case p.DilutionBound.Gt(MaxDilutionBound):
		return ErrDilutionBoundTooLarge
	case p.ProposalDeposit.Lt(p.ProcessingReward):
		return ErrDepositBelowReward
	}
	return nil
}

// Summon initializes the DAO. The summoner gets one share and acts as its own
// delegate, the summoning time is env.Timestamp. Any invalid parameter aborts
// without writing anything.
func (e *Engine) Summon(ctx context.Context, env sdk.Env, p dao.Params) (*Receipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	start := time.Now()
	rcpt, err := e.summonLocked(ctx, env, p)
	e.metrics.observeCall(ActionSummon, err, time.Since(start))
	return rcpt, err
}

func (e *Engine) summonLocked(ctx context.Context, env sdk.Env, p dao.Params) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if isContractInitialized(e.store) {
		return nil, ErrAlreadyInitialized
	}
	p.SummoningTime = env.Timestamp
	if err := validateParams(&p); err != nil {
		return nil, err
	}
	clock, err := dao.NewPeriodClock(p.SummoningTime, p.PeriodDuration)
	if err != nil {
		return nil, ErrZeroPeriodDuration
	}
	c := &call{ctx: ctx, env: env, state: newTxState(e.store), params: &p, clock: clock}
	saveParams(c.state, &p)
	c.saveMember(dao.NewMember(p.Summoner, SummonerShares))
	c.setDelegate(p.Summoner, p.Summoner)
	c.setTotalShares(SummonerShares)
	c.setTotalSharesRequested(dao.U128{})
	saveAmount(c.state, BankBalanceKey, dao.U128{})
	setCount(c.state, ProposalsCount, 0)
	c.emitSummoned(p.Summoner)

	rcpt, err := e.finish(c, ActionSummon)
	if err != nil {
		return nil, err
	}
	e.params = &p
	e.clock = clock
	return rcpt, nil
}

// -----------------------------------------------------------------------------
// Call plumbing
// -----------------------------------------------------------------------------

func (e *Engine) loadParamsLocked() error {
	if e.params != nil {
		return nil
	}
	p, err := loadParams(e.store)
	if err != nil {
		return err
	}
	clock, err := dao.NewPeriodClock(p.SummoningTime, p.PeriodDuration)
	if err != nil {
		return ErrZeroPeriodDuration
	}
	e.params = p
	e.clock = clock
	return nil
}

func (e *Engine) begin(ctx context.Context, env sdk.Env) (*call, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := e.loadParamsLocked(); err != nil {
		return nil, err
	}
	return &call{ctx: ctx, env: env, state: newTxState(e.store), params: e.params, clock: e.clock}, nil
}

// exec runs fn as one atomic call.
func (e *Engine) exec(ctx context.Context, env sdk.Env, action string, fn func(c *call) error) (*Receipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	start := time.Now()
	rcpt, err := e.execLocked(ctx, env, action, fn)
	e.metrics.observeCall(action, err, time.Since(start))
	return rcpt, err
}

func (e *Engine) execLocked(ctx context.Context, env sdk.Env, action string, fn func(c *call) error) (*Receipt, error) {
	c, err := e.begin(ctx, env)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	return e.finish(c, action)
}

// finish is transfer first, commit second. A storage failure after a
// successful transfer is reported as KindStorage, the transfer cannot be undone.
func (e *Engine) finish(c *call, action string) (*Receipt, error) {
	for _, t := range c.transfers {
		if err := e.host.Transfer(c.ctx, t.To, t.Amount.Int(), t.Memo); err != nil {
			return nil, ErrTransferFailed.wrap(fmt.Errorf("%s to %s: %w", t.Amount, t.To, err))
		}
		e.metrics.observeTransfer()
	}
	if err := c.state.commit(c.ctx); err != nil {
		return nil, ErrStorage.wrap(err)
	}
	for _, line := range c.logs {
		e.host.Log(line)
	}
	for _, fn := range c.onCommit {
		fn()
	}
	if e.metrics != nil {
		if totals, err := e.totalsLocked(c.env.Timestamp); err == nil {
			e.metrics.observeTotals(totals)
		}
	}
	return &Receipt{
		TxID:      c.env.TxID,
		Action:    action,
		Return:    c.ret,
		Transfers: c.transfers,
		Logs:      c.logs,
	}, nil
}

// read runs fn on a throwaway overlay, views never write.
func (e *Engine) read(now uint64, fn func(c *call) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.begin(context.Background(), sdk.Env{Timestamp: now})
	if err != nil {
		return err
	}
	return fn(c)
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package prover implements the prover manager: a continuous auction for the
// right to prove publications, the bonds that secure it, the fees that pay
// for it and the settlement of every proving period.
package prover

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/xiaodino/minimal-rollup/builtin/prover/ledger"
	"github.com/xiaodino/minimal-rollup/builtin/prover/period"
	"github.com/xiaodino/minimal-rollup/builtin/publication"
	"github.com/xiaodino/minimal-rollup/builtin/reverts"
	"github.com/xiaodino/minimal-rollup/builtin/solidity"
	"github.com/xiaodino/minimal-rollup/log"
	"github.com/xiaodino/minimal-rollup/rollup"
	"github.com/xiaodino/minimal-rollup/state"
)

var (
	logger = log.WithContext("pkg", "prover")

	slotBurned = rollup.BytesToBytes32([]byte("prover-burned-stake"))
)

// PublicationFeed validates publication headers against the canonical feed.
type PublicationFeed interface {
	ValidateHeader(header *publication.Header, id uint64) (bool, error)
}

// TransitionVerifier checks that the rollup moved from startCommitment to
// endCommitment over the publications from startPubHash to endPubHash.
type TransitionVerifier interface {
	Verify(startPubHash, endPubHash, startCommitment, endCommitment rollup.Bytes32, proof []byte) error
}

// Checkpoint is a rollup state commitment after a given publication.
type Checkpoint struct {
	PublicationID uint64         `json:"publicationId"`
	Commitment    rollup.Bytes32 `json:"commitment"`
}

// Manager binds the prover manager to a state. Every exported mutating
// operation is atomic: on error, all its state changes and events are discarded.
type Manager struct {
	addr     rollup.Address
	state    *state.State
	cfg      *Config
	ledger   *ledger.Service
	periods  *period.Registry
	burned   *solidity.Uint256
	feed     PublicationFeed
	verifier TransitionVerifier
	pending  []*Event
}

// New creates a manager living at addr. Escrowed funds are held as the
// native balance of addr.
func New(addr rollup.Address, st *state.State, cfg *Config, feed PublicationFeed, verifier TransitionVerifier) *Manager {
	sctx := solidity.NewContext(addr, st)
	return &Manager{
		addr:  addr,
		state: st,
		cfg:   cfg,
		ledger: ledger.New(sctx, func(to rollup.Address, amount *big.Int) error {
			return st.Transfer(addr, to, amount)
		}),
		periods:  period.New(sctx),
		burned:   solidity.NewUint256(sctx, slotBurned),
		feed:     feed,
		verifier: verifier,
	}
}

// Address returns the account holding the manager's escrow.
func (m *Manager) Address() rollup.Address { return m.addr }

// Config returns the parameters the manager was bound with.
func (m *Manager) Config() *Config { return m.cfg }

// atomic runs fn in a state checkpoint and rolls back state and events if it fails.
func (m *Manager) atomic(fn func() error) error {
	chk := m.state.NewCheckpoint()
	n := len(m.pending)
	if err := fn(); err != nil {
		m.state.RevertTo(chk)
		m.pending = m.pending[:n]
		return err
	}
	return nil
}

// Initialize seeds period 0 with the initial prover. The funding is credited
// to the initial prover and the liveness bond is locked from it as stake.
func (m *Manager) Initialize(initialProver rollup.Address, initialFee, funding *big.Int) error {
	return m.atomic(func() error {
		p, err := m.periods.Get(0)
		if err != nil {
			return err
		}
		if !p.IsVacant() {
			return ErrAlreadyInitialized
		}
		if initialProver.IsZero() {
			return errors.New("initial prover is required")
		}
		if initialFee.Sign() < 0 {
			return reverts.Errorf(ErrInvalidAmount, "negative initial fee")
		}
		if funding.Cmp(m.cfg.LivenessBond) < 0 {
			return reverts.Errorf(ErrInsufficientBond, "funding %v below bond %v", funding, m.cfg.LivenessBond)
		}
		if err := m.ledger.Deposit(initialProver, funding); err != nil {
			return err
		}
		if err := m.ledger.Debit(initialProver, m.cfg.LivenessBond); err != nil {
			return err
		}
		if err := m.periods.Set(0, &period.Period{
			Prover:     initialProver,
			Stake:      new(big.Int).Set(m.cfg.LivenessBond),
			Fee:        new(big.Int).Set(initialFee),
			DelayedFee: m.delayedFee(initialFee),
		}); err != nil {
			return err
		}
		m.emit(&Event{Name: EventDeposit, Account: initialProver, Amount: new(big.Int).Set(funding)})
		metricCurrentPeriod().Set(0)
		logger.Info("prover manager initialized", "prover", initialProver, "fee", initialFee)
		return nil
	})
}

func (m *Manager) delayedFee(fee *big.Int) *big.Int {
	return new(big.Int).Mul(fee, new(big.Int).SetUint64(m.cfg.DelayedFeeMultiplier))
}

// BalanceOf returns the withdrawable balance of account.
func (m *Manager) BalanceOf(account rollup.Address) (*big.Int, error) {
	return m.ledger.BalanceOf(account)
}

// TotalBalances returns the sum of all withdrawable balances.
func (m *Manager) TotalBalances() (*big.Int, error) {
	return m.ledger.Total()
}

// TotalBurned returns the stake burned by adverse settlements so far.
func (m *Manager) TotalBurned() (*big.Int, error) {
	return m.burned.Get()
}

// Period returns the period with the given id.
func (m *Manager) Period(id uint64) (*period.Period, error) {
	return m.periods.Get(id)
}

// CurrentPeriod returns the id and record of the period collecting fees.
func (m *Manager) CurrentPeriod() (uint64, *period.Period, error) {
	return m.periods.Current()
}

// Deposit credits amount to account. The caller has already moved the value
// into the manager's escrow.
func (m *Manager) Deposit(account rollup.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.Errorf(ErrInvalidAmount, "negative deposit %v", amount)
	}
	return m.atomic(func() error {
		if err := m.ledger.Deposit(account, amount); err != nil {
			return err
		}
		m.emit(&Event{Name: EventDeposit, Account: account, Amount: new(big.Int).Set(amount)})
		return nil
	})
}

// Withdraw pays amount out of the balance of account.
func (m *Manager) Withdraw(account rollup.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.Errorf(ErrInvalidAmount, "negative withdrawal %v", amount)
	}
	return m.atomic(func() error {
		if err := m.ledger.Withdraw(account, amount); err != nil {
			return err
		}
		m.emit(&Event{Name: EventWithdrawal, Account: account, Amount: new(big.Int).Set(amount)})
		return nil
	})
}

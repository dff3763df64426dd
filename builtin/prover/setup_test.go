// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package prover

import (
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaodino/minimal-rollup/builtin/prover/period"
	"github.com/xiaodino/minimal-rollup/builtin/publication"
	"github.com/xiaodino/minimal-rollup/builtin/solidity"
	"github.com/xiaodino/minimal-rollup/lvldb"
	"github.com/xiaodino/minimal-rollup/rollup"
	"github.com/xiaodino/minimal-rollup/state"
	"github.com/xiaodino/minimal-rollup/verifier"
)

const (
	genesisFee = 100
	bondAmount = 1000
)

var (
	managerAddr = rollup.BytesToAddress([]byte("ProverManager"))
	feedAddr    = rollup.BytesToAddress([]byte("PublicationFeed"))
	inboxAddr   = rollup.BytesToAddress([]byte("Inbox"))

	genesisProver = rollup.BytesToAddress([]byte("genesis-prover"))
	proposer      = rollup.BytesToAddress([]byte("proposer"))
	bidder1       = rollup.BytesToAddress([]byte("bidder1"))
	bidder2       = rollup.BytesToAddress([]byte("bidder2"))
	rescuer       = rollup.BytesToAddress([]byte("rescuer"))
	evictor       = rollup.BytesToAddress([]byte("evictor"))
)

func testConfig() *Config {
	return &Config{
		Inbox:                inboxAddr,
		MinUndercutBps:       500,
		LivenessWindow:       100,
		SuccessionDelay:      50,
		ExitDelay:            30,
		ProvingDeadline:      200,
		LivenessBond:         big.NewInt(bondAmount),
		EvictorIncentiveBps:  1000,
		BurnedStakeBps:       2000,
		DelayedFeeMultiplier: 2,
	}
}

type testEnv struct {
	state   *state.State
	feed    *publication.Feed
	manager *Manager

	verifyCalls int
	verifyErr   error
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithFee(t, genesisFee)
}

func newTestEnvWithFee(t *testing.T, fee int64) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := &testEnv{state: state.New(db)}
	env.feed = publication.New(solidity.NewContext(feedAddr, env.state))
	verify := verifier.Func(func(_, _, _, _ rollup.Bytes32, _ []byte) error {
		env.verifyCalls++
		return env.verifyErr
	})
	env.manager = New(managerAddr, env.state, testConfig(), env.feed, verify)

	require.NoError(t, env.state.SetBalance(managerAddr, big.NewInt(bondAmount)))
	require.NoError(t, env.manager.Initialize(genesisProver, big.NewInt(fee), big.NewInt(bondAmount)))
	env.manager.DrainEvents()
	return env
}

// fund mints native value to account and deposits it into the manager.
func (env *testEnv) fund(t *testing.T, account rollup.Address, amount int64) {
	native, err := env.state.GetBalance(account)
	require.NoError(t, err)
	require.NoError(t, env.state.SetBalance(account, native.Add(native, big.NewInt(amount))))
	require.NoError(t, env.state.Transfer(account, managerAddr, big.NewInt(amount)))
	require.NoError(t, env.manager.Deposit(account, big.NewInt(amount)))
}

// publish appends a publication and charges its fee the way the inbox does.
func (env *testEnv) publish(from rollup.Address, isDelayed bool, now uint64) (*publication.Header, error) {
	chk := env.state.NewCheckpoint()
	header, err := env.feed.Publish(from, [][]byte{big.NewInt(int64(now)).Bytes()}, now, now)
	if err != nil {
		env.state.RevertTo(chk)
		return nil, err
	}
	if err := env.manager.PayPublicationFee(inboxAddr, from, isDelayed, nil, now); err != nil {
		env.state.RevertTo(chk)
		return nil, err
	}
	return header, nil
}

func (env *testEnv) mustPublish(t *testing.T, now uint64) *publication.Header {
	header, err := env.publish(proposer, false, now)
	require.NoError(t, err)
	return header
}

func (env *testEnv) balance(t *testing.T, account rollup.Address) int64 {
	b, err := env.manager.BalanceOf(account)
	require.NoError(t, err)
	return b.Int64()
}

func (env *testEnv) period(t *testing.T, id uint64) *period.Period {
	p, err := env.manager.Period(id)
	require.NoError(t, err)
	return p
}

func (env *testEnv) currentID(t *testing.T) uint64 {
	id, _, err := env.manager.CurrentPeriod()
	require.NoError(t, err)
	return id
}

// assertConserved checks that the escrow equals balances, locked stakes,
// locked fees and burned stake combined.
func (env *testEnv) assertConserved(t *testing.T) {
	escrow, err := env.state.GetBalance(managerAddr)
	require.NoError(t, err)

	sum, err := env.manager.TotalBalances()
	require.NoError(t, err)
	burned, err := env.manager.TotalBurned()
	require.NoError(t, err)
	sum.Add(sum, burned)

	for id := uint64(0); id <= env.currentID(t)+1; id++ {
		p := env.period(t, id)
		sum.Add(sum, p.Stake)
		sum.Add(sum, p.AccumulatedFees)
	}
	assert.Equal(t, escrow.String(), sum.String(), "escrow must equal tracked value")
}

func checkpoint(id uint64) Checkpoint {
	return Checkpoint{PublicationID: id, Commitment: rollup.BytesToBytes32(big.NewInt(int64(id + 1)).Bytes())}
}

type TestFunc func(t *testing.T)

type TestSequence struct {
	env *testEnv

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(env *testEnv) *TestSequence {
	return &TestSequence{funcs: make([]TestFunc, 0), env: env}
}

func (ts *TestSequence) AddFunc(f TestFunc) *TestSequence {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	ts.funcs = append(ts.funcs, f)
	return ts
}

func (ts *TestSequence) Fund(account rollup.Address, amount int64) *TestSequence {
	return ts.AddFunc(func(t *testing.T) {
		ts.env.fund(t, account, amount)
	})
}

func (ts *TestSequence) Publish(now uint64) *TestSequence {
	return ts.AddFunc(func(t *testing.T) {
		h := ts.env.mustPublish(t, now)
		t.Logf("published %d at %d", h.ID, now)
	})
}

func (ts *TestSequence) Bid(bidder rollup.Address, fee int64, now uint64) *TestSequence {
	return ts.AddFunc(func(t *testing.T) {
		if err := ts.env.manager.Bid(bidder, big.NewInt(fee), now); err != nil {
			t.Fatalf("bid of %s failed: %v", bidder, err)
		}
		t.Logf("%s bid %d at %d", bidder, fee, now)
	})
}

func (ts *TestSequence) BidFails(bidder rollup.Address, fee int64, now uint64, expected error) *TestSequence {
	return ts.AddFunc(func(t *testing.T) {
		assert.ErrorIs(t, ts.env.manager.Bid(bidder, big.NewInt(fee), now), expected)
	})
}

func (ts *TestSequence) Exit(prover rollup.Address, now uint64) *TestSequence {
	return ts.AddFunc(func(t *testing.T) {
		if err := ts.env.manager.Exit(prover, now); err != nil {
			t.Fatalf("exit of %s failed: %v", prover, err)
		}
	})
}

func (ts *TestSequence) AssertBalance(account rollup.Address, expected int64) *TestSequence {
	return ts.AddFunc(func(t *testing.T) {
		assert.Equal(t, expected, ts.env.balance(t, account), "balance of %s", account)
	})
}

func (ts *TestSequence) AssertCurrent(expected uint64) *TestSequence {
	return ts.AddFunc(func(t *testing.T) {
		assert.Equal(t, expected, ts.env.currentID(t))
	})
}

func (ts *TestSequence) AssertConserved() *TestSequence {
	return ts.AddFunc(func(t *testing.T) {
		ts.env.assertConserved(t)
	})
}

func (ts *TestSequence) Run(t *testing.T) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	for _, f := range ts.funcs {
		f(t)
	}
}

type PeriodAssertions struct {
	env *testEnv
	id  uint64

	prover          *rollup.Address
	stake           *int64
	accumulatedFees *int64
	fee             *int64
	end             *uint64
	deadline        *uint64
	evicted         *bool
}

func AssertPeriod(env *testEnv, id uint64) *PeriodAssertions {
	return &PeriodAssertions{env: env, id: id}
}

func (pa *PeriodAssertions) Prover(expected rollup.Address) *PeriodAssertions {
	pa.prover = &expected
	return pa
}

func (pa *PeriodAssertions) Stake(expected int64) *PeriodAssertions {
	pa.stake = &expected
	return pa
}

func (pa *PeriodAssertions) AccumulatedFees(expected int64) *PeriodAssertions {
	pa.accumulatedFees = &expected
	return pa
}

func (pa *PeriodAssertions) Fee(expected int64) *PeriodAssertions {
	pa.fee = &expected
	return pa
}

func (pa *PeriodAssertions) End(expected uint64) *PeriodAssertions {
	pa.end = &expected
	return pa
}

func (pa *PeriodAssertions) Deadline(expected uint64) *PeriodAssertions {
	pa.deadline = &expected
	return pa
}

func (pa *PeriodAssertions) Evicted(expected bool) *PeriodAssertions {
	pa.evicted = &expected
	return pa
}

func (pa *PeriodAssertions) Assert(t *testing.T) {
	p := pa.env.period(t, pa.id)

	if pa.prover != nil {
		assert.Equal(t, *pa.prover, p.Prover, "period %d prover mismatch", pa.id)
	}
	if pa.stake != nil {
		assert.Equal(t, *pa.stake, p.Stake.Int64(), "period %d stake mismatch", pa.id)
	}
	if pa.accumulatedFees != nil {
		assert.Equal(t, *pa.accumulatedFees, p.AccumulatedFees.Int64(), "period %d accumulated fees mismatch", pa.id)
	}
	if pa.fee != nil {
		assert.Equal(t, *pa.fee, p.Fee.Int64(), "period %d fee mismatch", pa.id)
	}
	if pa.end != nil {
		assert.Equal(t, *pa.end, p.End, "period %d end mismatch", pa.id)
	}
	if pa.deadline != nil {
		assert.Equal(t, *pa.deadline, p.Deadline, "period %d deadline mismatch", pa.id)
	}
	if pa.evicted != nil {
		assert.Equal(t, *pa.evicted, p.Evicted, "period %d evicted mismatch", pa.id)
	}
}

func bigInt(v int64) *big.Int {
	return big.NewInt(v)
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package prover

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvictProver(t *testing.T) {
	env := newTestEnv(t)
	env.fund(t, proposer, 1000)
	header := env.mustPublish(t, 10)
	env.manager.DrainEvents()

	assert.ErrorIs(t, env.manager.EvictProver(evictor, 0, header, 110), ErrTooEarly)
	require.NoError(t, env.manager.EvictProver(evictor, 0, header, 111))

	AssertPeriod(env, 0).
		Evicted(true).
		End(141).
		Deadline(141).
		Stake(900).
		AccumulatedFees(100).
		Assert(t)
	assert.Equal(t, int64(100), env.balance(t, evictor))
	env.assertConserved(t)

	evs := env.manager.DrainEvents()
	require.Len(t, evs, 1)
	assert.Equal(t, EventProverEvicted, evs[0].Name)
	assert.Equal(t, genesisProver, evs[0].Account)
	assert.Equal(t, evictor, evs[0].Counterparty)
	assert.Equal(t, int64(100), evs[0].Amount.Int64())

	assert.ErrorIs(t, env.manager.EvictProver(evictor, 0, header, 200), ErrAlreadyClosing)
	assert.Equal(t, int64(100), env.balance(t, evictor))
}

func TestEvictProver_InvalidHeader(t *testing.T) {
	env := newTestEnv(t)
	env.fund(t, proposer, 1000)
	header := env.mustPublish(t, 10)

	forged := *header
	forged.Timestamp = 1
	assert.ErrorIs(t, env.manager.EvictProver(evictor, 0, &forged, 500), ErrInvalidPublication)
	assert.ErrorIs(t, env.manager.EvictProver(evictor, 5, header, 500), ErrInvalidPublication)
	assert.ErrorIs(t, env.manager.EvictProver(evictor, 0, nil, 500), ErrInvalidPublication)
	AssertPeriod(env, 0).Evicted(false).End(0).Assert(t)
}

func TestEvictProver_ClosingPeriod(t *testing.T) {
	env := newTestEnv(t)
	env.fund(t, proposer, 1000)
	header := env.mustPublish(t, 10)

	NewSequence(env).
		Fund(bidder1, bondAmount).
		Bid(bidder1, 90, 20).
		Run(t)

	assert.ErrorIs(t, env.manager.EvictProver(evictor, 0, header, 500), ErrAlreadyClosing)
}

func TestEvictProver_VacantPeriod(t *testing.T) {
	env := newTestEnv(t)
	env.fund(t, proposer, 1000)
	header := env.mustPublish(t, 10)

	NewSequence(env).
		Exit(genesisProver, 20).
		Publish(60).
		AssertCurrent(1).
		Run(t)

	assert.ErrorIs(t, env.manager.EvictProver(evictor, 0, header, 500), ErrNoProver)
}

func TestEvictProver_EarlierPeriodPublication(t *testing.T) {
	env := newTestEnv(t)
	env.fund(t, proposer, 1000)
	old := env.mustPublish(t, 10)

	NewSequence(env).
		Fund(bidder1, bondAmount).
		Bid(bidder1, 90, 20).
		Run(t)
	// charged to period 1, which ends period 0 at 70
	header := env.mustPublish(t, 71)
	AssertPeriod(env, 1).Prover(bidder1).Assert(t)

	assert.ErrorIs(t, env.manager.EvictProver(evictor, 0, old, 200), ErrInvalidPublication)
	AssertPeriod(env, 1).Evicted(false).Stake(bondAmount).Assert(t)
	assert.Equal(t, int64(0), env.balance(t, evictor))

	require.NoError(t, env.manager.EvictProver(evictor, 1, header, 200))
	AssertPeriod(env, 1).Evicted(true).End(230).Stake(900).Assert(t)
	env.assertConserved(t)
}

func TestExit(t *testing.T) {
	env := newTestEnv(t)

	assert.ErrorIs(t, env.manager.Exit(bidder1, 10), ErrUnauthorized)
	require.NoError(t, env.manager.Exit(genesisProver, 10))
	AssertPeriod(env, 0).End(40).Deadline(240).Evicted(false).Assert(t)
	assert.ErrorIs(t, env.manager.Exit(genesisProver, 11), ErrAlreadyClosing)

	evs := env.manager.DrainEvents()
	require.Len(t, evs, 1)
	assert.Equal(t, EventProverExited, evs[0].Name)
	assert.Equal(t, uint64(40), evs[0].End)
	assert.Equal(t, uint64(240), evs[0].Deadline)
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package inbox

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaodino/minimal-rollup/builtin/prover"
	"github.com/xiaodino/minimal-rollup/builtin/publication"
	"github.com/xiaodino/minimal-rollup/builtin/solidity"
	"github.com/xiaodino/minimal-rollup/lvldb"
	"github.com/xiaodino/minimal-rollup/rollup"
	"github.com/xiaodino/minimal-rollup/state"
	"github.com/xiaodino/minimal-rollup/verifier"
)

var (
	managerAddr   = rollup.BytesToAddress([]byte("ProverManager"))
	feedAddr      = rollup.BytesToAddress([]byte("PublicationFeed"))
	inboxAddr     = rollup.BytesToAddress([]byte("Inbox"))
	genesisProver = rollup.BytesToAddress([]byte("genesis-prover"))
	proposer      = rollup.BytesToAddress([]byte("proposer"))
)

func newTestInbox(t *testing.T) (*Inbox, *state.State) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	cfg := prover.DefaultConfig()
	cfg.Inbox = inboxAddr
	cfg.LivenessBond = big.NewInt(1000)

	feed := publication.New(solidity.NewContext(feedAddr, st))
	manager := prover.New(managerAddr, st, cfg, feed, verifier.NewSigned())
	require.NoError(t, st.SetBalance(managerAddr, big.NewInt(1000)))
	require.NoError(t, manager.Initialize(genesisProver, big.NewInt(100), big.NewInt(1000)))
	return New(inboxAddr, st, feed, manager), st
}

func TestPublish(t *testing.T) {
	inbox, st := newTestInbox(t)
	require.NoError(t, st.SetBalance(proposer, big.NewInt(500)))

	header, err := inbox.Publish(proposer, [][]byte{[]byte("blob")}, false, big.NewInt(300), 10, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), header.ID)
	assert.Equal(t, proposer, header.Publisher)

	balance, err := inbox.manager.BalanceOf(proposer)
	require.NoError(t, err)
	assert.Equal(t, int64(200), balance.Int64())

	native, err := st.GetBalance(proposer)
	require.NoError(t, err)
	assert.Equal(t, int64(200), native.Int64())

	p, err := inbox.manager.Period(0)
	require.NoError(t, err)
	assert.Equal(t, int64(100), p.AccumulatedFees.Int64())

	ok, err := inbox.feed.ValidateHeader(header, 0)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPublish_UnpaidIsNotRecorded(t *testing.T) {
	inbox, st := newTestInbox(t)
	require.NoError(t, st.SetBalance(proposer, big.NewInt(500)))

	_, err := inbox.Publish(proposer, [][]byte{[]byte("blob")}, true, big.NewInt(150), 10, 1)
	assert.ErrorIs(t, err, prover.ErrInsufficientFunds)

	next, err := inbox.feed.NextPublicationID()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), next)

	native, err := st.GetBalance(proposer)
	require.NoError(t, err)
	assert.Equal(t, int64(500), native.Int64())
	assert.Empty(t, inbox.manager.DrainEvents()[1:], "only the genesis deposit remains")
}

func TestPublish_Rejects(t *testing.T) {
	inbox, _ := newTestInbox(t)

	_, err := inbox.Publish(proposer, nil, false, nil, 10, 1)
	assert.ErrorIs(t, err, ErrNoAttributes)

	_, err = inbox.Publish(proposer, [][]byte{[]byte("blob")}, false, big.NewInt(1), 10, 1)
	assert.Error(t, err, "payment exceeds native balance")
}

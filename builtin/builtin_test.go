// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaodino/minimal-rollup/builtin/prover"
	"github.com/xiaodino/minimal-rollup/lvldb"
	"github.com/xiaodino/minimal-rollup/rollup"
	"github.com/xiaodino/minimal-rollup/state"
	"github.com/xiaodino/minimal-rollup/verifier"
)

func TestAddresses(t *testing.T) {
	assert.Equal(t, rollup.BytesToAddress([]byte("ProverManager")), Prover.Address)
	assert.Equal(t, "Inbox", Inbox.Name())
	assert.NotEqual(t, Feed.Address, Inbox.Address)
}

func TestBind(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	st := state.New(db)
	cfg := prover.DefaultConfig()
	cfg.Inbox = Inbox.Address
	cfg.LivenessBond = big.NewInt(1000)

	c := Bind(st, cfg, verifier.NewSigned())
	require.NoError(t, st.SetBalance(Prover.Address, big.NewInt(1000)))
	require.NoError(t, c.Manager.Initialize(rollup.BytesToAddress([]byte("p")), big.NewInt(0), big.NewInt(1000)))

	proposer := rollup.BytesToAddress([]byte("proposer"))
	header, err := c.Inbox.Publish(proposer, [][]byte{{1}}, false, nil, 1, 1)
	require.NoError(t, err)

	// a fresh binding over the same state sees the publication
	ok, err := Feed.WithState(st).ValidateHeader(header, 0)
	require.NoError(t, err)
	assert.True(t, ok)
}

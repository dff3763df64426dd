// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaodino/minimal-rollup/lvldb"
	"github.com/xiaodino/minimal-rollup/rollup"
	"github.com/xiaodino/minimal-rollup/state"
)

type testStruct struct {
	Field1 uint64
	Amount *big.Int
	Addr1  rollup.Address
	Bytes1 rollup.Bytes32
}

func newTestContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(rollup.Address{1}, state.New(db))
}

func TestMapping(t *testing.T) {
	ctx := newTestContext(t)
	mapping := NewMapping[Uint64Key, *testStruct](ctx, rollup.Bytes32{1})

	empty, err := mapping.Get(7)
	require.NoError(t, err)
	require.NotNil(t, empty)
	assert.Equal(t, uint64(0), empty.Field1)

	value := &testStruct{
		Field1: 100,
		Amount: big.NewInt(1000),
		Addr1:  rollup.BytesToAddress([]byte("prover")),
		Bytes1: rollup.Keccak256([]byte("commitment")),
	}
	require.NoError(t, mapping.Set(7, value))

	got, err := mapping.Get(7)
	require.NoError(t, err)
	assert.Equal(t, value, got)

	// distinct keys do not collide
	other, err := mapping.Get(8)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), other.Field1)

	mapping.Delete(7)
	got, err = mapping.Get(7)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got.Field1)
	assert.Nil(t, got.Amount)
}

func TestMappingDistinctBase(t *testing.T) {
	ctx := newTestContext(t)
	a := NewMapping[rollup.Address, *big.Int](ctx, rollup.BytesToBytes32([]byte("a")))
	b := NewMapping[rollup.Address, *big.Int](ctx, rollup.BytesToBytes32([]byte("b")))

	key := rollup.BytesToAddress([]byte("key"))
	require.NoError(t, a.Set(key, big.NewInt(5)))

	got, err := b.Get(key)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Sign())
}

func TestUint256(t *testing.T) {
	ctx := newTestContext(t)
	u := NewUint256(ctx, rollup.BytesToBytes32([]byte("counter")))

	v, err := u.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	require.NoError(t, u.Add(big.NewInt(10)))
	require.NoError(t, u.Sub(big.NewInt(3)))
	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(7), v)

	assert.Error(t, u.Sub(big.NewInt(8)), "underflow must not wrap")
	assert.Error(t, u.Set(new(big.Int).Lsh(big.NewInt(1), 256)))

	v, _ = u.Get()
	assert.Equal(t, big.NewInt(7), v)
}

func TestAddress(t *testing.T) {
	ctx := newTestContext(t)
	a := NewAddress(ctx, rollup.BytesToBytes32([]byte("inbox")))

	got, err := a.Get()
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	inbox := rollup.BytesToAddress([]byte("inbox"))
	a.Set(inbox)
	got, err = a.Get()
	require.NoError(t, err)
	assert.Equal(t, inbox, got)
}

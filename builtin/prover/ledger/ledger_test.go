// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaodino/minimal-rollup/builtin/solidity"
	"github.com/xiaodino/minimal-rollup/lvldb"
	"github.com/xiaodino/minimal-rollup/rollup"
	"github.com/xiaodino/minimal-rollup/state"
)

var (
	alice = rollup.BytesToAddress([]byte("alice"))
	bob   = rollup.BytesToAddress([]byte("bob"))
)

func newTestLedger(t *testing.T, transfer TransferFunc) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(solidity.NewContext(rollup.BytesToAddress([]byte("ledger")), state.New(db)), transfer)
}

func balanceOf(t *testing.T, s *Service, addr rollup.Address) int64 {
	b, err := s.BalanceOf(addr)
	require.NoError(t, err)
	return b.Int64()
}

func TestCreditDebit(t *testing.T) {
	s := newTestLedger(t, nil)

	require.NoError(t, s.Deposit(alice, big.NewInt(500)))
	require.NoError(t, s.Credit(bob, big.NewInt(20)))
	require.NoError(t, s.Debit(alice, big.NewInt(100)))

	assert.Equal(t, int64(400), balanceOf(t, s, alice))
	assert.Equal(t, int64(20), balanceOf(t, s, bob))

	total, err := s.Total()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(420), total)

	err = s.Debit(bob, big.NewInt(21))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, int64(20), balanceOf(t, s, bob), "failed debit must not wrap or change the balance")

	assert.Error(t, s.Credit(bob, big.NewInt(-1)))
	assert.Error(t, s.Debit(bob, big.NewInt(-1)))
}

func TestWithdraw(t *testing.T) {
	var paid []*big.Int
	s := newTestLedger(t, func(to rollup.Address, amount *big.Int) error {
		paid = append(paid, amount)
		return nil
	})

	require.NoError(t, s.Deposit(alice, big.NewInt(100)))

	assert.ErrorIs(t, s.Withdraw(alice, big.NewInt(101)), ErrInsufficientFunds)
	assert.Empty(t, paid)

	require.NoError(t, s.Withdraw(alice, big.NewInt(60)))
	assert.Equal(t, int64(40), balanceOf(t, s, alice))
	assert.Equal(t, []*big.Int{big.NewInt(60)}, paid)
}

func TestWithdrawRollsBackOnTransferFailure(t *testing.T) {
	s := newTestLedger(t, func(rollup.Address, *big.Int) error {
		return errors.New("recipient rejected funds")
	})

	require.NoError(t, s.Deposit(alice, big.NewInt(100)))

	err := s.Withdraw(alice, big.NewInt(60))
	assert.ErrorIs(t, err, ErrTransferFailed)
	assert.Equal(t, int64(100), balanceOf(t, s, alice))

	total, err := s.Total()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), total)
}

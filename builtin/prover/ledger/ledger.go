// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/xiaodino/minimal-rollup/builtin/reverts"
	"github.com/xiaodino/minimal-rollup/builtin/solidity"
	"github.com/xiaodino/minimal-rollup/rollup"
	"github.com/xiaodino/minimal-rollup/state"
)

var (
	slotBalances = rollup.BytesToBytes32([]byte("prover-balances"))
	slotTotal    = rollup.BytesToBytes32([]byte("prover-balances-total"))
)

var (
	ErrInsufficientFunds = reverts.New("insufficient funds")
	ErrTransferFailed    = reverts.New("transfer failed")
)

// TransferFunc pays out withdrawn funds to the account outside of the ledger.
type TransferFunc func(to rollup.Address, amount *big.Int) error

// Service keeps the withdrawable balance of every account.
type Service struct {
	state    *state.State
	balances *solidity.Mapping[rollup.Address, *big.Int]
	total    *solidity.Uint256
	transfer TransferFunc
}

func New(sctx *solidity.Context, transfer TransferFunc) *Service {
	return &Service{
		state:    sctx.State(),
		balances: solidity.NewMapping[rollup.Address, *big.Int](sctx, slotBalances),
		total:    solidity.NewUint256(sctx, slotTotal),
		transfer: transfer,
	}
}

// BalanceOf returns the withdrawable balance of account.
func (s *Service) BalanceOf(account rollup.Address) (*big.Int, error) {
	return s.balances.Get(account)
}

// Total returns the sum of all balances.
func (s *Service) Total() (*big.Int, error) {
	return s.total.Get()
}

// Credit increases the balance of account.
func (s *Service) Credit(account rollup.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.Errorf("negative credit %v", amount)
	}
	if amount.Sign() == 0 {
		return nil
	}
	balance, err := s.balances.Get(account)
	if err != nil {
		return err
	}
	if err := s.balances.Set(account, balance.Add(balance, amount)); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	return s.total.Add(amount)
}

// Debit decreases the balance of account, failing rather than going negative.
func (s *Service) Debit(account rollup.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.Errorf("negative debit %v", amount)
	}
	if amount.Sign() == 0 {
		return nil
	}
	balance, err := s.balances.Get(account)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return reverts.Errorf(ErrInsufficientFunds, "%v has %v, needs %v", account, balance, amount)
	}
	if err := s.balances.Set(account, balance.Sub(balance, amount)); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	return s.total.Sub(amount)
}

// Deposit credits account unconditionally.
func (s *Service) Deposit(account rollup.Address, amount *big.Int) error {
	return s.Credit(account, amount)
}

// Withdraw debits account and pays the amount out. If the payout fails the
// debit is rolled back together with it.
func (s *Service) Withdraw(account rollup.Address, amount *big.Int) error {
	chk := s.state.NewCheckpoint()
	if err := s.Debit(account, amount); err != nil {
		s.state.RevertTo(chk)
		return err
	}
	if err := s.transfer(account, amount); err != nil {
		s.state.RevertTo(chk)
		return reverts.Errorf(ErrTransferFailed, "%v", err)
	}
	return nil
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package prover

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/xiaodino/minimal-rollup/builtin/reverts"
)

const bpsDenominator = 10_000

// scaleBps returns amount*bps/10000, rounded down. A zero bps yields zero.
// Otherwise the product must reach the denominator, so a non-zero rate never
// silently truncates to nothing.
func scaleBps(amount *big.Int, bps uint16) (*big.Int, error) {
	if bps == 0 {
		return new(big.Int), nil
	}
	if amount.Sign() < 0 {
		return nil, reverts.Errorf(ErrInvalidAmount, "negative amount %v", amount)
	}
	a, overflow := uint256.FromBig(amount)
	if overflow {
		return nil, reverts.Errorf(ErrInvalidAmount, "amount %v exceeds 256 bits", amount)
	}
	res, overflow := new(uint256.Int).MulDivOverflow(a, uint256.NewInt(uint64(bps)), uint256.NewInt(bpsDenominator))
	if overflow {
		return nil, reverts.Errorf(ErrInvalidAmount, "%v * %d bps overflows", amount, bps)
	}
	if res.IsZero() {
		return nil, reverts.Errorf(ErrInvalidAmount, "%v too small for %d bps", amount, bps)
	}
	return res.ToBig(), nil
}

// undercutLimit returns the highest fee that beats fee by at least bps.
func undercutLimit(fee *big.Int, bps uint16) (*big.Int, error) {
	discount, err := scaleBps(fee, bps)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Sub(fee, discount), nil
}

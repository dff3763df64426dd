// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package period

import (
	"math/big"

	"github.com/xiaodino/minimal-rollup/rollup"
)

// Period is the interval during which a single prover is responsible for
// proving publications. A zero End means the period is open-ended.
type Period struct {
	Prover          rollup.Address
	Stake           *big.Int
	AccumulatedFees *big.Int
	Fee             *big.Int
	DelayedFee      *big.Int
	End             uint64
	Deadline        uint64
	Evicted         bool
}

func (p *Period) normalize() *Period {
	if p.Stake == nil {
		p.Stake = new(big.Int)
	}
	if p.AccumulatedFees == nil {
		p.AccumulatedFees = new(big.Int)
	}
	if p.Fee == nil {
		p.Fee = new(big.Int)
	}
	if p.DelayedFee == nil {
		p.DelayedFee = new(big.Int)
	}
	return p
}

// IsVacant reports whether no prover is assigned.
func (p *Period) IsVacant() bool {
	return p.Prover.IsZero()
}

// IsClosing reports whether an end timestamp has been fixed.
func (p *Period) IsClosing() bool {
	return p.End != 0
}

// PublicationFee returns the fee charged for a publication in this period.
func (p *Period) PublicationFee(isDelayed bool) *big.Int {
	if isDelayed {
		return new(big.Int).Set(p.DelayedFee)
	}
	return new(big.Int).Set(p.Fee)
}

func (p *Period) Clone() *Period {
	cpy := *p
	cpy.normalize()
	cpy.Stake = new(big.Int).Set(cpy.Stake)
	cpy.AccumulatedFees = new(big.Int).Set(cpy.AccumulatedFees)
	cpy.Fee = new(big.Int).Set(cpy.Fee)
	cpy.DelayedFee = new(big.Int).Set(cpy.DelayedFee)
	return &cpy
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package prover

import (
	"math"
	"math/big"

	"github.com/xiaodino/minimal-rollup/metrics"
)

var (
	metricBids            = metrics.LazyLoadCounterVec("prover_bids_count", []string{"case"})
	metricEvictions       = metrics.LazyLoadCounter("prover_evictions_count")
	metricExits           = metrics.LazyLoadCounter("prover_exits_count")
	metricSettlements     = metrics.LazyLoadCounterVec("prover_settlements_count", []string{"path"})
	metricFeesCollected   = metrics.LazyLoadCounterVec("prover_fees_collected_count", []string{"delayed"})
	metricCurrentPeriod   = metrics.LazyLoadGauge("prover_current_period")
	metricBurnedStakeGwei = metrics.LazyLoadCounter("prover_burned_stake_gwei")
)

var gwei = big.NewInt(1_000_000_000)

func toGwei(amount *big.Int) int64 {
	v := new(big.Int).Quo(amount, gwei)
	if !v.IsInt64() {
		return math.MaxInt64
	}
	return v.Int64()
}

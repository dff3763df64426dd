// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package prover

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	manager "github.com/xiaodino/minimal-rollup/builtin/prover"
	"github.com/xiaodino/minimal-rollup/builtin/prover/period"
	"github.com/xiaodino/minimal-rollup/rollup"
)

type Period struct {
	ID              uint64                `json:"id"`
	Prover          rollup.Address        `json:"prover"`
	Stake           *math.HexOrDecimal256 `json:"stake"`
	AccumulatedFees *math.HexOrDecimal256 `json:"accumulatedFees"`
	Fee             *math.HexOrDecimal256 `json:"fee"`
	DelayedFee      *math.HexOrDecimal256 `json:"delayedFee"`
	End             uint64                `json:"end"`
	Deadline        uint64                `json:"deadline"`
	Evicted         bool                  `json:"evicted"`
	Vacant          bool                  `json:"vacant"`
}

type Config struct {
	Inbox                rollup.Address        `json:"inbox"`
	MinUndercutBps       uint16                `json:"minUndercutBps"`
	LivenessWindow       uint64                `json:"livenessWindow"`
	SuccessionDelay      uint64                `json:"successionDelay"`
	ExitDelay            uint64                `json:"exitDelay"`
	ProvingDeadline      uint64                `json:"provingDeadline"`
	LivenessBond         *math.HexOrDecimal256 `json:"livenessBond"`
	EvictorIncentiveBps  uint16                `json:"evictorIncentiveBps"`
	BurnedStakeBps       uint16                `json:"burnedStakeBps"`
	DelayedFeeMultiplier uint64                `json:"delayedFeeMultiplier"`
}

// Totals are the aggregate amounts held by the prover manager.
type Totals struct {
	Balances *math.HexOrDecimal256 `json:"balances"`
	Burned   *math.HexOrDecimal256 `json:"burned"`
	Escrow   *math.HexOrDecimal256 `json:"escrow"`
}

type Caller struct {
	Caller rollup.Address `json:"caller"`
}

type Bid struct {
	Caller rollup.Address        `json:"caller"`
	Fee    *math.HexOrDecimal256 `json:"fee"`
}

type Eviction struct {
	Caller        rollup.Address `json:"caller"`
	PublicationID uint64         `json:"publicationId"`
}

// Proof submits a transition proof for a period. Headers are taken from the
// feed by publication id. Settle cites the publication after End to settle
// the period; Adverse proves on behalf of a failed prover.
type Proof struct {
	Caller   rollup.Address     `json:"caller"`
	PeriodID uint64             `json:"periodId"`
	Start    manager.Checkpoint `json:"start"`
	End      manager.Checkpoint `json:"end"`
	Settle   bool               `json:"settle"`
	Adverse  bool               `json:"adverse"`
	Proof    hexutil.Bytes      `json:"proof"`
}

func hex(v *big.Int) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}

func convertPeriod(id uint64, p *period.Period) *Period {
	return &Period{
		ID:              id,
		Prover:          p.Prover,
		Stake:           hex(p.Stake),
		AccumulatedFees: hex(p.AccumulatedFees),
		Fee:             hex(p.Fee),
		DelayedFee:      hex(p.DelayedFee),
		End:             p.End,
		Deadline:        p.Deadline,
		Evicted:         p.Evicted,
		Vacant:          p.IsVacant(),
	}
}

func convertConfig(cfg *manager.Config) *Config {
	return &Config{
		Inbox:                cfg.Inbox,
		MinUndercutBps:       cfg.MinUndercutBps,
		LivenessWindow:       cfg.LivenessWindow,
		SuccessionDelay:      cfg.SuccessionDelay,
		ExitDelay:            cfg.ExitDelay,
		ProvingDeadline:      cfg.ProvingDeadline,
		LivenessBond:         hex(cfg.LivenessBond),
		EvictorIncentiveBps:  cfg.EvictorIncentiveBps,
		BurnedStakeBps:       cfg.BurnedStakeBps,
		DelayedFeeMultiplier: cfg.DelayedFeeMultiplier,
	}
}

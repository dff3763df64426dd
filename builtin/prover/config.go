// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package prover

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/xiaodino/minimal-rollup/rollup"
)

// Config holds the parameters of the prover manager. All durations are in seconds.
type Config struct {
	Inbox                rollup.Address `json:"inbox"`
	MinUndercutBps       uint16         `json:"minUndercutBps"`
	LivenessWindow       uint64         `json:"livenessWindow"`
	SuccessionDelay      uint64         `json:"successionDelay"`
	ExitDelay            uint64         `json:"exitDelay"`
	ProvingDeadline      uint64         `json:"provingDeadline"`
	LivenessBond         *big.Int       `json:"livenessBond"`
	EvictorIncentiveBps  uint16         `json:"evictorIncentiveBps"`
	BurnedStakeBps       uint16         `json:"burnedStakeBps"`
	DelayedFeeMultiplier uint64         `json:"delayedFeeMultiplier"`
}

// DefaultConfig returns the parameters used by the dev network.
func DefaultConfig() *Config {
	return &Config{
		MinUndercutBps:       500,
		LivenessWindow:       3600,
		SuccessionDelay:      600,
		ExitDelay:            600,
		ProvingDeadline:      3600,
		LivenessBond:         new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil),
		EvictorIncentiveBps:  500,
		BurnedStakeBps:       1000,
		DelayedFeeMultiplier: 2,
	}
}

// Validate checks the parameters, including that every bps scaling applied
// to the bond during the life of a period keeps enough precision to succeed.
func (c *Config) Validate() error {
	if c.Inbox.IsZero() {
		return errors.New("inbox address is required")
	}
	for name, bps := range map[string]uint16{
		"minUndercutBps":      c.MinUndercutBps,
		"evictorIncentiveBps": c.EvictorIncentiveBps,
		"burnedStakeBps":      c.BurnedStakeBps,
	} {
		if bps > bpsDenominator {
			return errors.Errorf("%s %d exceeds %d", name, bps, bpsDenominator)
		}
	}
	if c.DelayedFeeMultiplier == 0 {
		return errors.New("delayedFeeMultiplier must be at least 1")
	}
	if c.LivenessBond == nil || c.LivenessBond.Sign() <= 0 {
		return errors.New("livenessBond must be positive")
	}

	incentive, err := scaleBps(c.LivenessBond, c.EvictorIncentiveBps)
	if err != nil {
		return errors.Wrap(err, "livenessBond too small for evictorIncentiveBps")
	}
	if _, err := scaleBps(c.LivenessBond, c.BurnedStakeBps); err != nil {
		return errors.Wrap(err, "livenessBond too small for burnedStakeBps")
	}
	remaining := new(big.Int).Sub(c.LivenessBond, incentive)
	if _, err := scaleBps(remaining, c.BurnedStakeBps); err != nil {
		return errors.Wrap(err, "evicted stake too small for burnedStakeBps")
	}
	return nil
}

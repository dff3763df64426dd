// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package prover

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xiaodino/minimal-rollup/rollup"
)

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, testConfig().Validate())

	dev := DefaultConfig()
	dev.Inbox = inboxAddr
	assert.NoError(t, dev.Validate())

	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"missing inbox", func(c *Config) { c.Inbox = rollup.Address{} }},
		{"bps above denominator", func(c *Config) { c.BurnedStakeBps = 10001 }},
		{"zero multiplier", func(c *Config) { c.DelayedFeeMultiplier = 0 }},
		{"missing bond", func(c *Config) { c.LivenessBond = nil }},
		{"zero bond", func(c *Config) { c.LivenessBond = big.NewInt(0) }},
		{"bond too small for incentive", func(c *Config) { c.LivenessBond = big.NewInt(9) }},
		{"evicted stake too small for burn", func(c *Config) {
			c.LivenessBond = big.NewInt(60)
			c.EvictorIncentiveBps = 9000
			c.BurnedStakeBps = 1000
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

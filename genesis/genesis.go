// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"bytes"
	"encoding/json"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/xiaodino/minimal-rollup/builtin"
	"github.com/xiaodino/minimal-rollup/builtin/prover"
	"github.com/xiaodino/minimal-rollup/rollup"
	"github.com/xiaodino/minimal-rollup/state"
	"github.com/xiaodino/minimal-rollup/verifier"
)

var slotGenesisID = rollup.BytesToBytes32([]byte("genesis-id"))

// Config describes the initial state of a rollup node.
type Config struct {
	LaunchTime uint64           `yaml:"launchTime" json:"launchTime"`
	Prover     ProverParams     `yaml:"prover" json:"prover"`
	Attesters  []rollup.Address `yaml:"attesters" json:"attesters"`
	Accounts   []Account        `yaml:"accounts" json:"accounts"`
}

// ProverParams are the prover manager parameters plus the occupant of period 0.
type ProverParams struct {
	MinUndercutBps       uint16                `yaml:"minUndercutBps" json:"minUndercutBps"`
	LivenessWindow       uint64                `yaml:"livenessWindow" json:"livenessWindow"`
	SuccessionDelay      uint64                `yaml:"successionDelay" json:"successionDelay"`
	ExitDelay            uint64                `yaml:"exitDelay" json:"exitDelay"`
	ProvingDeadline      uint64                `yaml:"provingDeadline" json:"provingDeadline"`
	LivenessBond         *math.HexOrDecimal256 `yaml:"livenessBond" json:"livenessBond"`
	EvictorIncentiveBps  uint16                `yaml:"evictorIncentiveBps" json:"evictorIncentiveBps"`
	BurnedStakeBps       uint16                `yaml:"burnedStakeBps" json:"burnedStakeBps"`
	DelayedFeeMultiplier uint64                `yaml:"delayedFeeMultiplier" json:"delayedFeeMultiplier"`
	InitialProver        rollup.Address        `yaml:"initialProver" json:"initialProver"`
	InitialFee           *math.HexOrDecimal256 `yaml:"initialFee" json:"initialFee"`
	Funding              *math.HexOrDecimal256 `yaml:"funding" json:"funding"`
}

// Account is a pre-funded native balance.
type Account struct {
	Address rollup.Address        `yaml:"address" json:"address"`
	Balance *math.HexOrDecimal256 `yaml:"balance" json:"balance"`
}

// Load reads a yaml genesis config. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return &cfg, nil
}

func toBig(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return (*big.Int)(v)
}

// ProverConfig returns the prover manager config, wired to the built-in inbox.
func (c *Config) ProverConfig() *prover.Config {
	p := c.Prover
	return &prover.Config{
		Inbox:                builtin.Inbox.Address,
		MinUndercutBps:       p.MinUndercutBps,
		LivenessWindow:       p.LivenessWindow,
		SuccessionDelay:      p.SuccessionDelay,
		ExitDelay:            p.ExitDelay,
		ProvingDeadline:      p.ProvingDeadline,
		LivenessBond:         new(big.Int).Set(toBig(p.LivenessBond)),
		EvictorIncentiveBps:  p.EvictorIncentiveBps,
		BurnedStakeBps:       p.BurnedStakeBps,
		DelayedFeeMultiplier: p.DelayedFeeMultiplier,
	}
}

// Verifier returns the transition verifier trusting the configured attesters.
func (c *Config) Verifier() prover.TransitionVerifier {
	return verifier.NewSigned(c.Attesters...)
}

// Validate checks the config without touching any state.
func (c *Config) Validate() error {
	if err := c.ProverConfig().Validate(); err != nil {
		return err
	}
	if c.Prover.InitialProver.IsZero() {
		return errors.New("initialProver is required")
	}
	if toBig(c.Prover.Funding).Cmp(toBig(c.Prover.LivenessBond)) < 0 {
		return errors.New("funding must cover livenessBond")
	}
	if len(c.Attesters) == 0 {
		return errors.New("at least one attester is required")
	}
	for _, a := range c.Accounts {
		if a.Balance == nil || toBig(a.Balance).Sign() < 1 {
			return errors.Errorf("%s: balance must be a positive integer", a.Address)
		}
	}
	return nil
}

// ID identifies the config. A node refuses to reopen its data with a different one.
func (c *Config) ID() (rollup.Bytes32, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return rollup.Bytes32{}, err
	}
	return rollup.Keccak256(data), nil
}

// Build writes the initial state: account balances, the prover manager's
// escrow and period 0. The returned components are bound to st.
func (c *Config) Build(st *state.State) (*builtin.Components, error) {
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid genesis")
	}
	id, err := c.ID()
	if err != nil {
		return nil, err
	}

	for _, a := range c.Accounts {
		if err := st.SetBalance(a.Address, new(big.Int).Set(toBig(a.Balance))); err != nil {
			return nil, err
		}
	}

	funding := new(big.Int).Set(toBig(c.Prover.Funding))
	if err := st.SetBalance(builtin.Prover.Address, funding); err != nil {
		return nil, err
	}
	comps := builtin.Bind(st, c.ProverConfig(), c.Verifier())
	if err := comps.Manager.Initialize(c.Prover.InitialProver, toBig(c.Prover.InitialFee), funding); err != nil {
		return nil, errors.Wrap(err, "initialize prover manager")
	}
	st.SetStorage(builtin.Prover.Address, slotGenesisID, id)
	return comps, nil
}

// StoredID returns the id of the genesis st was built from, zero if none.
func StoredID(st *state.State) (rollup.Bytes32, error) {
	return st.GetStorage(builtin.Prover.Address, slotGenesisID)
}

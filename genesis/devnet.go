// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/xiaodino/minimal-rollup/rollup"
)

// DevAccount is a well-known account for development.
type DevAccount struct {
	Address    rollup.Address
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts atomic.Value

// DevAccounts returns the accounts funded by the dev genesis. The first one
// is the initial prover and the second one the attester.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
	}
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		accs = append(accs, DevAccount{rollup.Address(crypto.PubkeyToAddress(pk.PublicKey)), pk})
	}
	devAccounts.Store(accs)
	return accs
}

func ether(n int64) *math.HexOrDecimal256 {
	v := new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
	return (*math.HexOrDecimal256)(v)
}

// NewDevConfig returns the genesis used in dev mode.
func NewDevConfig() *Config {
	accs := DevAccounts()

	cfg := &Config{
		LaunchTime: 1735689600,
		Prover: ProverParams{
			MinUndercutBps:       500,
			LivenessWindow:       3600,
			SuccessionDelay:      600,
			ExitDelay:            600,
			ProvingDeadline:      3600,
			LivenessBond:         ether(1),
			EvictorIncentiveBps:  500,
			BurnedStakeBps:       1000,
			DelayedFeeMultiplier: 2,
			InitialProver:        accs[0].Address,
			InitialFee:           (*math.HexOrDecimal256)(big.NewInt(1_000_000_000_000_000)),
			Funding:              ether(1),
		},
		Attesters: []rollup.Address{accs[1].Address},
	}
	for _, a := range accs {
		cfg.Accounts = append(cfg.Accounts, Account{Address: a.Address, Balance: ether(1000)})
	}
	return cfg
}

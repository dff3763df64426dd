// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package prover

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleBps(t *testing.T) {
	maxUint256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

	tests := []struct {
		name    string
		amount  *big.Int
		bps     uint16
		want    *big.Int
		wantErr error
	}{
		{"five percent", big.NewInt(100), 500, big.NewInt(5), nil},
		{"rounds down", big.NewInt(95), 500, big.NewInt(4), nil},
		{"exactly representable", big.NewInt(20), 500, big.NewInt(1), nil},
		{"too fine", big.NewInt(19), 500, nil, ErrInvalidAmount},
		{"zero bps", big.NewInt(1), 0, big.NewInt(0), nil},
		{"zero amount", big.NewInt(0), 500, nil, ErrInvalidAmount},
		{"full rate at max", maxUint256, 10000, maxUint256, nil},
		{"wide intermediate", maxUint256, 5000, new(big.Int).Rsh(maxUint256, 1), nil},
		{"beyond 256 bits", new(big.Int).Lsh(big.NewInt(1), 256), 1, nil, ErrInvalidAmount},
		{"negative", big.NewInt(-100), 500, nil, ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scaleBps(tt.amount, tt.bps)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.String(), got.String())
		})
	}
}

func TestUndercutLimit(t *testing.T) {
	limit, err := undercutLimit(big.NewInt(100), 500)
	require.NoError(t, err)
	assert.Equal(t, int64(95), limit.Int64())

	limit, err = undercutLimit(big.NewInt(100), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(100), limit.Int64())
}

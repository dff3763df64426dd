// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package publication

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/xiaodino/minimal-rollup/rollup"
)

// Header is the committed summary of one publication. Headers are hash linked:
// PrevHash is the hash of the header with ID-1 (zero for the first publication).
type Header struct {
	ID             uint64         `json:"id"`
	PrevHash       rollup.Bytes32 `json:"prevHash"`
	Publisher      rollup.Address `json:"publisher"`
	Timestamp      uint64         `json:"timestamp"`
	BlockNumber    uint64         `json:"blockNumber"`
	AttributesHash rollup.Bytes32 `json:"attributesHash"`
}

// Hash returns the keccak256 hash of the rlp encoded header.
func (h *Header) Hash() rollup.Bytes32 {
	data, err := rlp.EncodeToBytes(h)
	if err != nil {
		panic(err) // fixed-size fields only
	}
	return rollup.Keccak256(data)
}

// HashAttributes commits to the raw publication attributes.
func HashAttributes(attributes [][]byte) rollup.Bytes32 {
	data, err := rlp.EncodeToBytes(attributes)
	if err != nil {
		panic(err)
	}
	return rollup.Keccak256(data)
}

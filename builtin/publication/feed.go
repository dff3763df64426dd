// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package publication

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/xiaodino/minimal-rollup/builtin/solidity"
	"github.com/xiaodino/minimal-rollup/log"
	"github.com/xiaodino/minimal-rollup/rollup"
)

var (
	logger = log.WithContext("pkg", "publication")

	slotHashes  = rollup.BytesToBytes32([]byte("publication-hashes"))
	slotHeaders = rollup.BytesToBytes32([]byte("publication-headers"))
	slotCount   = rollup.BytesToBytes32([]byte("publication-count"))
)

// ErrTimestampRegression is returned when a publication is older than its predecessor.
var ErrTimestampRegression = errors.New("publication timestamp precedes previous publication")

// Feed is the append-only, hash-linked record of publications. It lives in component
// storage, so a publication appended by a call that later fails is reverted with it.
type Feed struct {
	hashes  *solidity.Mapping[solidity.Uint64Key, rollup.Bytes32]
	headers *solidity.Mapping[solidity.Uint64Key, *Header]
	count   *solidity.Uint256
}

func New(sctx *solidity.Context) *Feed {
	return &Feed{
		hashes:  solidity.NewMapping[solidity.Uint64Key, rollup.Bytes32](sctx, slotHashes),
		headers: solidity.NewMapping[solidity.Uint64Key, *Header](sctx, slotHeaders),
		count:   solidity.NewUint256(sctx, slotCount),
	}
}

// NextPublicationID returns the id the next publication will get, which is
// also the exclusive upper bound of valid ids.
func (f *Feed) NextPublicationID() (uint64, error) {
	count, err := f.count.Get()
	if err != nil {
		return 0, err
	}
	return count.Uint64(), nil
}

// Publish appends a publication and returns its header.
func (f *Feed) Publish(publisher rollup.Address, attributes [][]byte, timestamp, blockNumber uint64) (*Header, error) {
	id, err := f.NextPublicationID()
	if err != nil {
		return nil, err
	}

	header := &Header{
		ID:             id,
		Publisher:      publisher,
		Timestamp:      timestamp,
		BlockNumber:    blockNumber,
		AttributesHash: HashAttributes(attributes),
	}
	if id > 0 {
		prev, err := f.headers.Get(solidity.Uint64Key(id - 1))
		if err != nil {
			return nil, err
		}
		if timestamp < prev.Timestamp {
			return nil, ErrTimestampRegression
		}
		header.PrevHash = prev.Hash()
	}

	hash := header.Hash()
	if err := f.hashes.Set(solidity.Uint64Key(id), hash); err != nil {
		return nil, errors.Wrap(err, "failed to store publication hash")
	}
	if err := f.headers.Set(solidity.Uint64Key(id), header); err != nil {
		return nil, errors.Wrap(err, "failed to store publication header")
	}
	if err := f.count.Set(new(big.Int).SetUint64(id + 1)); err != nil {
		return nil, err
	}

	logger.Debug("publication appended", "id", id, "hash", hash.AbbrevString(), "publisher", publisher)
	return header, nil
}

// ValidateHeader reports whether header is the publication recorded under id.
func (f *Feed) ValidateHeader(header *Header, id uint64) (bool, error) {
	if header == nil || header.ID != id {
		return false, nil
	}
	next, err := f.NextPublicationID()
	if err != nil {
		return false, err
	}
	if id >= next {
		return false, nil
	}
	stored, err := f.hashes.Get(solidity.Uint64Key(id))
	if err != nil {
		return false, err
	}
	return stored == header.Hash(), nil
}

// GetPublicationHash returns the hash recorded under id, zero if absent.
func (f *Feed) GetPublicationHash(id uint64) (rollup.Bytes32, error) {
	return f.hashes.Get(solidity.Uint64Key(id))
}

// GetHeader returns the header recorded under id, nil if absent.
func (f *Feed) GetHeader(id uint64) (*Header, error) {
	next, err := f.NextPublicationID()
	if err != nil {
		return nil, err
	}
	if id >= next {
		return nil, nil
	}
	return f.headers.Get(solidity.Uint64Key(id))
}

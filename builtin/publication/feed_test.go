// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package publication

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaodino/minimal-rollup/builtin/solidity"
	"github.com/xiaodino/minimal-rollup/lvldb"
	"github.com/xiaodino/minimal-rollup/rollup"
	"github.com/xiaodino/minimal-rollup/state"
)

var publisher = rollup.BytesToAddress([]byte("publisher"))

func newTestFeed(t *testing.T) (*Feed, *state.State) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st := state.New(db)
	return New(solidity.NewContext(rollup.BytesToAddress([]byte("feed")), st)), st
}

func TestPublishLinksHeaders(t *testing.T) {
	feed, _ := newTestFeed(t)

	next, err := feed.NextPublicationID()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), next)

	h0, err := feed.Publish(publisher, [][]byte{[]byte("blob0")}, 100, 1)
	require.NoError(t, err)
	h1, err := feed.Publish(publisher, [][]byte{[]byte("blob1")}, 110, 2)
	require.NoError(t, err)

	assert.Equal(t, uint64(0), h0.ID)
	assert.True(t, h0.PrevHash.IsZero())
	assert.Equal(t, uint64(1), h1.ID)
	assert.Equal(t, h0.Hash(), h1.PrevHash)
	assert.Equal(t, HashAttributes([][]byte{[]byte("blob1")}), h1.AttributesHash)

	next, err = feed.NextPublicationID()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), next)

	stored, err := feed.GetHeader(1)
	require.NoError(t, err)
	assert.Equal(t, h1, stored)

	hash, err := feed.GetPublicationHash(1)
	require.NoError(t, err)
	assert.Equal(t, h1.Hash(), hash)

	absent, err := feed.GetHeader(2)
	require.NoError(t, err)
	assert.Nil(t, absent)
}

func TestPublishRejectsTimestampRegression(t *testing.T) {
	feed, _ := newTestFeed(t)

	_, err := feed.Publish(publisher, nil, 100, 1)
	require.NoError(t, err)
	_, err = feed.Publish(publisher, nil, 99, 2)
	assert.ErrorIs(t, err, ErrTimestampRegression)

	// equal timestamps are allowed, several publications can land in one block
	_, err = feed.Publish(publisher, nil, 100, 2)
	assert.NoError(t, err)
}

func TestValidateHeader(t *testing.T) {
	feed, _ := newTestFeed(t)

	h0, err := feed.Publish(publisher, [][]byte{[]byte("a")}, 100, 1)
	require.NoError(t, err)

	tampered := *h0
	tampered.Timestamp = 50

	tests := []struct {
		name   string
		header *Header
		id     uint64
		want   bool
	}{
		{"valid", h0, 0, true},
		{"wrong id", h0, 1, false},
		{"tampered", &tampered, 0, false},
		{"nil", nil, 0, false},
		{"future id", &Header{ID: 5}, 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := feed.ValidateHeader(tt.header, tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestPublishReverts(t *testing.T) {
	feed, st := newTestFeed(t)

	chk := st.NewCheckpoint()
	_, err := feed.Publish(publisher, nil, 100, 1)
	require.NoError(t, err)
	st.RevertTo(chk)

	next, err := feed.NextPublicationID()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), next)
}

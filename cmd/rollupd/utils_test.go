// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/xiaodino/minimal-rollup/genesis"
)

func TestMakeInstanceDir(t *testing.T) {
	id, err := genesis.NewDevConfig().ID()
	require.NoError(t, err)

	base := t.TempDir()
	dir, err := makeInstanceDir(base, id)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	again, err := makeInstanceDir(base, id)
	require.NoError(t, err)
	assert.Equal(t, dir, again)
}

func TestStartServer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)

	url, err := startServer(gctx, g, "localhost:0", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "ok")
	}))
	require.NoError(t, err)

	res, err := http.Get(url)
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))

	cancel()
	assert.NoError(t, g.Wait())
}

func TestNormalizeCacheSize(t *testing.T) {
	assert.Equal(t, 16, normalizeCacheSize(1))
	assert.LessOrEqual(t, normalizeCacheSize(1<<40), 1<<40)
	assert.Positive(t, suggestFDCache())
}

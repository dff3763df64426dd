// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api serves the rollup node over HTTP. Reads are always available;
// the endpoints that act on behalf of an account are only mounted in dev mode.
package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/xiaodino/minimal-rollup/api/accounts"
	"github.com/xiaodino/minimal-rollup/api/events"
	"github.com/xiaodino/minimal-rollup/api/prover"
	"github.com/xiaodino/minimal-rollup/api/publications"
	"github.com/xiaodino/minimal-rollup/log"
	"github.com/xiaodino/minimal-rollup/node"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	DevMode              bool
	EnableMetrics        bool
	EventsLimit          uint64
	PublicationCacheSize int
}

// DefaultOptions are the options used when a field is left zero.
var DefaultOptions = Options{
	AllowedOrigins:       "*",
	EventsLimit:          1000,
	PublicationCacheSize: 512,
}

// New return api router
func New(n *node.Node, opts Options) http.HandlerFunc {
	if opts.EventsLimit == 0 {
		opts.EventsLimit = DefaultOptions.EventsLimit
	}
	if opts.PublicationCacheSize == 0 {
		opts.PublicationCacheSize = DefaultOptions.PublicationCacheSize
	}
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	accounts.New(n, opts.DevMode).
		Mount(router, "/accounts")
	prover.New(n, opts.DevMode).
		Mount(router, "/prover")
	publications.New(n, opts.DevMode, opts.PublicationCacheSize).
		Mount(router, "/publications")
	if db := n.Events(); db != nil {
		events.New(db, opts.EventsLimit).
			Mount(router, "/events")
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)
	handler = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{}),
		handlers.PrintRecoveryStack(false),
	)(handler)

	logger.Debug("api router ready", "dev", opts.DevMode, "metrics", opts.EnableMetrics)
	return handler.ServeHTTP
}

type recoveryLogger struct{}

func (recoveryLogger) Println(args ...any) {
	logger.Error("api handler panicked", "panic", args)
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventlog

import (
	"github.com/xiaodino/minimal-rollup/builtin/prover"
	"github.com/xiaodino/minimal-rollup/rollup"
)

// Event is a prover manager event as stored, with the position and time of
// the call that emitted it.
type Event struct {
	Seq         uint64 `json:"seq"`
	BlockNumber uint64 `json:"blockNumber"`
	BlockTime   uint64 `json:"blockTime"`
	*prover.Event
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is an inclusive block number range. A To below From leaves the
// range open-ended.
type Range struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// Filter selects events. Nil fields match everything.
type Filter struct {
	Range    *Range          `json:"range"`
	Names    []string        `json:"names"`
	Account  *rollup.Address `json:"account"`
	PeriodID *uint64         `json:"periodId"`
	Order    Order           `json:"order"`
	Options  *Options        `json:"options"`
}

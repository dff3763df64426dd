// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package prover

import (
	"math/big"

	"github.com/xiaodino/minimal-rollup/rollup"
)

const (
	EventDeposit       = "Deposit"
	EventWithdrawal    = "Withdrawal"
	EventProverOffer   = "ProverOffer"
	EventProverEvicted = "ProverEvicted"
	EventProverExited  = "ProverExited"
	EventPeriodSettled = "PeriodSettled"
	EventProverSlashed = "ProverSlashed"
)

// Event records a successful state change of the manager.
//
// Account is the subject of the event: the depositor, the bidder or the
// period's prover. Counterparty is the evictor for ProverEvicted and the
// rescuing prover for ProverSlashed.
type Event struct {
	Name         string         `json:"name"`
	PeriodID     uint64         `json:"periodId"`
	Account      rollup.Address `json:"account"`
	Counterparty rollup.Address `json:"counterparty"`
	Amount       *big.Int       `json:"amount"`
	Fee          *big.Int       `json:"fee"`
	End          uint64         `json:"end"`
	Deadline     uint64         `json:"deadline"`
}

func (m *Manager) emit(ev *Event) {
	if ev.Amount == nil {
		ev.Amount = new(big.Int)
	}
	if ev.Fee == nil {
		ev.Fee = new(big.Int)
	}
	m.pending = append(m.pending, ev)
}

// DrainEvents returns the events emitted since the last call and clears the buffer.
func (m *Manager) DrainEvents() []*Event {
	evs := m.pending
	m.pending = nil
	return evs
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package prover

import (
	"github.com/xiaodino/minimal-rollup/builtin/publication"
	"github.com/xiaodino/minimal-rollup/builtin/reverts"
	"github.com/xiaodino/minimal-rollup/rollup"
)

// EvictProver removes the current prover after a publication went unproven
// for longer than the liveness window. The evictor is paid a share of the
// stake and the period can then only be settled by another prover.
func (m *Manager) EvictProver(caller rollup.Address, publicationID uint64, header *publication.Header, now uint64) error {
	return m.atomic(func() error {
		if err := m.validateHeader(header, publicationID); err != nil {
			return err
		}
		if header.Timestamp+m.cfg.LivenessWindow >= now {
			return reverts.Errorf(ErrTooEarly, "publication %d at %d is within the liveness window", publicationID, header.Timestamp)
		}

		curID, cur, err := m.periods.Current()
		if err != nil {
			return err
		}
		if cur.IsVacant() {
			return reverts.Errorf(ErrNoProver, "period %d", curID)
		}
		if cur.IsClosing() {
			return reverts.Errorf(ErrAlreadyClosing, "period %d ends at %d", curID, cur.End)
		}
		// only publications of the current period count against its prover
		if err := m.checkPeriodStart(curID, header); err != nil {
			return err
		}

		incentive, err := scaleBps(cur.Stake, m.cfg.EvictorIncentiveBps)
		if err != nil {
			return err
		}
		cur.Evicted = true
		cur.End = now + m.cfg.ExitDelay
		cur.Deadline = cur.End
		cur.Stake.Sub(cur.Stake, incentive)
		if err := m.periods.Set(curID, cur); err != nil {
			return err
		}
		if err := m.ledger.Credit(caller, incentive); err != nil {
			return err
		}

		m.emit(&Event{
			Name:         EventProverEvicted,
			PeriodID:     curID,
			Account:      cur.Prover,
			Counterparty: caller,
			Amount:       incentive,
			End:          cur.End,
			Deadline:     cur.Deadline,
		})
		metricEvictions().Add(1)
		logger.Info("prover evicted", "period", curID, "prover", cur.Prover, "evictor", caller, "end", cur.End)
		return nil
	})
}

func (m *Manager) validateHeader(header *publication.Header, id uint64) error {
	if header == nil {
		return reverts.Errorf(ErrInvalidPublication, "missing header for publication %d", id)
	}
	ok, err := m.feed.ValidateHeader(header, id)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.Errorf(ErrInvalidPublication, "header does not match publication %d", id)
	}
	return nil
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package prover

import (
	"github.com/xiaodino/minimal-rollup/builtin/reverts"
	"github.com/xiaodino/minimal-rollup/rollup"
)

// Exit lets the current prover end its period voluntarily after the exit delay.
func (m *Manager) Exit(caller rollup.Address, now uint64) error {
	return m.atomic(func() error {
		curID, cur, err := m.periods.Current()
		if err != nil {
			return err
		}
		if cur.IsVacant() || cur.Prover != caller {
			return reverts.Errorf(ErrUnauthorized, "%v is not the prover of period %d", caller, curID)
		}
		if cur.IsClosing() {
			return reverts.Errorf(ErrAlreadyClosing, "period %d ends at %d", curID, cur.End)
		}

		cur.End = now + m.cfg.ExitDelay
		cur.Deadline = cur.End + m.cfg.ProvingDeadline
		if err := m.periods.Set(curID, cur); err != nil {
			return err
		}

		m.emit(&Event{
			Name:     EventProverExited,
			PeriodID: curID,
			Account:  caller,
			End:      cur.End,
			Deadline: cur.Deadline,
		})
		metricExits().Add(1)
		logger.Info("prover exiting", "period", curID, "prover", caller, "end", cur.End)
		return nil
	})
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package prover

import (
	"math/big"
	"strconv"

	"github.com/xiaodino/minimal-rollup/builtin/reverts"
	"github.com/xiaodino/minimal-rollup/rollup"
)

// PayPublicationFee charges proposer for one publication. Only the inbox may
// call it. Any attached payment is deposited for the proposer first. If the
// current period ended before now, the pointer moves to the next period and
// its fee applies.
func (m *Manager) PayPublicationFee(caller, proposer rollup.Address, isDelayed bool, payment *big.Int, now uint64) error {
	if caller != m.cfg.Inbox {
		return reverts.Errorf(ErrUnauthorized, "%v is not the inbox", caller)
	}
	if payment == nil {
		payment = new(big.Int)
	}
	if payment.Sign() < 0 {
		return reverts.Errorf(ErrInvalidAmount, "negative payment %v", payment)
	}
	return m.atomic(func() error {
		if payment.Sign() > 0 {
			if err := m.ledger.Deposit(proposer, payment); err != nil {
				return err
			}
			m.emit(&Event{Name: EventDeposit, Account: proposer, Amount: new(big.Int).Set(payment)})
		}

		curID, cur, err := m.periods.Current()
		if err != nil {
			return err
		}
		advanced := false
		if cur.IsClosing() && now > cur.End {
			if curID, err = m.periods.Advance(); err != nil {
				return err
			}
			if cur, err = m.periods.Get(curID); err != nil {
				return err
			}
			advanced = true
		}

		fee := cur.PublicationFee(isDelayed)
		if err := m.ledger.Debit(proposer, fee); err != nil {
			return err
		}
		cur.AccumulatedFees.Add(cur.AccumulatedFees, fee)
		if err := m.periods.Set(curID, cur); err != nil {
			return err
		}

		metricFeesCollected().AddWithLabel(1, map[string]string{"delayed": strconv.FormatBool(isDelayed)})
		if advanced {
			metricCurrentPeriod().Set(int64(curID))
			logger.Info("period advanced", "period", curID, "prover", cur.Prover, "fee", cur.Fee)
		}
		return nil
	})
}

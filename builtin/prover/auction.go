// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package prover

import (
	"math/big"

	"github.com/xiaodino/minimal-rollup/builtin/prover/period"
	"github.com/xiaodino/minimal-rollup/builtin/reverts"
	"github.com/xiaodino/minimal-rollup/rollup"
)

// Bid offers to prove the period following the current one for offeredFee
// per publication, locking the liveness bond from the caller's balance.
//
// While the current period is open, the bid must undercut its fee and closes
// it after the succession delay. A vacant current period is closed
// immediately and any fee is accepted. Once the current period is closing,
// the bid must undercut the best pending bid, whose bond is refunded.
func (m *Manager) Bid(caller rollup.Address, offeredFee *big.Int, now uint64) error {
	if offeredFee.Sign() < 0 {
		return reverts.Errorf(ErrInvalidAmount, "negative fee %v", offeredFee)
	}
	return m.atomic(func() error {
		balance, err := m.ledger.BalanceOf(caller)
		if err != nil {
			return err
		}
		if balance.Cmp(m.cfg.LivenessBond) < 0 {
			return reverts.Errorf(ErrInsufficientBond, "balance %v below bond %v", balance, m.cfg.LivenessBond)
		}

		curID, cur, err := m.periods.Current()
		if err != nil {
			return err
		}
		nextID := curID + 1
		next, err := m.periods.Get(nextID)
		if err != nil {
			return err
		}

		var kind string
		switch {
		case !cur.IsClosing() && cur.IsVacant():
			kind = "vacant"
			cur.End = now
			cur.Deadline = now
			if err := m.periods.Set(curID, cur); err != nil {
				return err
			}
		case !cur.IsClosing():
			kind = "undercut"
			if err := m.checkUndercut(offeredFee, cur.Fee); err != nil {
				return err
			}
			cur.End = now + m.cfg.SuccessionDelay
			cur.Deadline = cur.End + m.cfg.ProvingDeadline
			if err := m.periods.Set(curID, cur); err != nil {
				return err
			}
		default:
			kind = "succession"
			if !next.IsVacant() {
				if err := m.checkUndercut(offeredFee, next.Fee); err != nil {
					return err
				}
			}
		}

		if !next.IsVacant() {
			if err := m.ledger.Credit(next.Prover, next.Stake); err != nil {
				return err
			}
		}
		if err := m.ledger.Debit(caller, m.cfg.LivenessBond); err != nil {
			return err
		}
		if err := m.periods.Set(nextID, &period.Period{
			Prover:     caller,
			Stake:      new(big.Int).Set(m.cfg.LivenessBond),
			Fee:        new(big.Int).Set(offeredFee),
			DelayedFee: m.delayedFee(offeredFee),
		}); err != nil {
			return err
		}

		m.emit(&Event{
			Name:     EventProverOffer,
			PeriodID: nextID,
			Account:  caller,
			Amount:   new(big.Int).Set(m.cfg.LivenessBond),
			Fee:      new(big.Int).Set(offeredFee),
		})
		metricBids().AddWithLabel(1, map[string]string{"case": kind})
		logger.Debug("bid accepted", "period", nextID, "prover", caller, "fee", offeredFee, "case", kind)
		return nil
	})
}

func (m *Manager) checkUndercut(offered, best *big.Int) error {
	limit, err := undercutLimit(best, m.cfg.MinUndercutBps)
	if err != nil {
		return err
	}
	if offered.Cmp(limit) > 0 {
		return reverts.Errorf(ErrInvalidAmount, "fee %v must not exceed %v", offered, limit)
	}
	return nil
}

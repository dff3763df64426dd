// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package prover

import (
	"math/big"

	"github.com/xiaodino/minimal-rollup/builtin/prover/period"
	"github.com/xiaodino/minimal-rollup/builtin/publication"
	"github.com/xiaodino/minimal-rollup/builtin/reverts"
	"github.com/xiaodino/minimal-rollup/rollup"
)

// Prove lets the prover of periodID prove the publications from start to end.
//
// The proof may be partial. When nextHeader is given, it must be the first
// publication after the period's end, which shows the proven range reaches
// the end of the period; the period is then settled and the prover receives
// its accumulated fees and stake.
func (m *Manager) Prove(
	caller rollup.Address,
	periodID uint64,
	start, end Checkpoint,
	startHeader, endHeader, nextHeader *publication.Header,
	proof []byte,
	now uint64,
) error {
	return m.atomic(func() error {
		p, err := m.livePeriod(periodID)
		if err != nil {
			return err
		}
		if p.Prover != caller {
			return reverts.Errorf(ErrUnauthorized, "%v is not the prover of period %d", caller, periodID)
		}
		if p.Evicted {
			return reverts.Errorf(ErrTooLate, "prover of period %d was evicted", periodID)
		}
		if p.Deadline != 0 && now > p.Deadline {
			return reverts.Errorf(ErrTooLate, "proving deadline %d of period %d has passed", p.Deadline, periodID)
		}

		if start.PublicationID > end.PublicationID {
			return reverts.Errorf(ErrInvalidPublication, "start %d after end %d", start.PublicationID, end.PublicationID)
		}
		if err := m.validateHeader(startHeader, start.PublicationID); err != nil {
			return err
		}
		if err := m.validateHeader(endHeader, end.PublicationID); err != nil {
			return err
		}
		if err := m.checkPeriodStart(periodID, startHeader); err != nil {
			return err
		}
		if p.IsClosing() && endHeader.Timestamp > p.End {
			return reverts.Errorf(ErrInvalidPublication, "publication %d is after the end of period %d", end.PublicationID, periodID)
		}
		if nextHeader != nil {
			if err := m.validateHeader(nextHeader, end.PublicationID+1); err != nil {
				return err
			}
			if !p.IsClosing() || nextHeader.Timestamp <= p.End {
				return reverts.Errorf(ErrInvalidPublication, "publication %d is not after the end of period %d", nextHeader.ID, periodID)
			}
		}

		if err := m.verify(startHeader, endHeader, start, end, proof); err != nil {
			return err
		}

		if nextHeader == nil {
			logger.Debug("period partially proven", "period", periodID, "end", end.PublicationID)
			return nil
		}

		payout := new(big.Int).Add(p.AccumulatedFees, p.Stake)
		if err := m.ledger.Credit(p.Prover, payout); err != nil {
			return err
		}
		m.periods.Delete(periodID)

		m.emit(&Event{
			Name:     EventPeriodSettled,
			PeriodID: periodID,
			Account:  p.Prover,
			Amount:   payout,
			Fee:      new(big.Int).Set(p.AccumulatedFees),
		})
		metricSettlements().AddWithLabel(1, map[string]string{"path": "prover"})
		logger.Info("period settled", "period", periodID, "prover", p.Prover, "payout", payout)
		return nil
	})
}

// ProveAdverse lets any prover settle a period whose prover was evicted or
// missed its proving deadline. The headers must be the full contiguous run
// of publications being proven, and nextHeader the first one after the
// period's end. The caller earns the period's fee for each proven publication
// plus the remaining stake, less the burned share. The incumbent keeps the
// rest of the accumulated fees.
func (m *Manager) ProveAdverse(
	caller rollup.Address,
	periodID uint64,
	start, end Checkpoint,
	headers []*publication.Header,
	nextHeader *publication.Header,
	proof []byte,
	now uint64,
) error {
	return m.atomic(func() error {
		p, err := m.livePeriod(periodID)
		if err != nil {
			return err
		}
		if !p.Evicted && (p.Deadline == 0 || now <= p.Deadline) {
			return reverts.Errorf(ErrTooEarly, "period %d is still reserved for its prover", periodID)
		}

		if err := checkChain(start, end, headers, nextHeader); err != nil {
			return err
		}
		for _, h := range headers {
			if err := m.validateHeader(h, h.ID); err != nil {
				return err
			}
		}
		if err := m.validateHeader(nextHeader, nextHeader.ID); err != nil {
			return err
		}

		first, last := headers[0], headers[len(headers)-1]
		if err := m.checkPeriodStart(periodID, first); err != nil {
			return err
		}
		if last.Timestamp > p.End {
			return reverts.Errorf(ErrInvalidPublication, "publication %d is after the end of period %d", last.ID, periodID)
		}
		if nextHeader.Timestamp <= p.End {
			return reverts.Errorf(ErrInvalidPublication, "publication %d is not after the end of period %d", nextHeader.ID, periodID)
		}

		if err := m.verify(first, last, start, end, proof); err != nil {
			return err
		}

		earned := new(big.Int).Mul(p.Fee, big.NewInt(int64(len(headers))))
		if earned.Cmp(p.AccumulatedFees) > 0 {
			return reverts.Errorf(ErrInvalidAmount, "earned fees %v exceed accumulated %v", earned, p.AccumulatedFees)
		}
		burned, err := scaleBps(p.Stake, m.cfg.BurnedStakeBps)
		if err != nil {
			return err
		}
		incumbentPay := new(big.Int).Sub(p.AccumulatedFees, earned)
		rescuerPay := new(big.Int).Add(earned, p.Stake)
		rescuerPay.Sub(rescuerPay, burned)

		if err := m.ledger.Credit(p.Prover, incumbentPay); err != nil {
			return err
		}
		if err := m.ledger.Credit(caller, rescuerPay); err != nil {
			return err
		}
		if err := m.burned.Add(burned); err != nil {
			return err
		}
		m.periods.Delete(periodID)

		m.emit(&Event{
			Name:         EventProverSlashed,
			PeriodID:     periodID,
			Account:      p.Prover,
			Counterparty: caller,
			Amount:       burned,
			Fee:          earned,
		})
		metricSettlements().AddWithLabel(1, map[string]string{"path": "adverse"})
		metricBurnedStakeGwei().Add(toGwei(burned))
		logger.Info("period settled by another prover", "period", periodID, "prover", p.Prover, "rescuer", caller, "burned", burned)
		return nil
	})
}

// livePeriod returns the period unless it has no prover, which is the case
// once it has been settled.
func (m *Manager) livePeriod(id uint64) (*period.Period, error) {
	p, err := m.periods.Get(id)
	if err != nil {
		return nil, err
	}
	if p.IsVacant() {
		return nil, reverts.Errorf(ErrAlreadyClaimed, "period %d", id)
	}
	return p, nil
}

// checkPeriodStart requires the first proven publication to come after the
// previous period ended.
func (m *Manager) checkPeriodStart(periodID uint64, first *publication.Header) error {
	if periodID == 0 {
		return nil
	}
	prevEnd, err := m.periods.PreviousEnd(periodID)
	if err != nil {
		return err
	}
	if first.Timestamp <= prevEnd {
		return reverts.Errorf(ErrInvalidPublication, "publication %d belongs to an earlier period", first.ID)
	}
	return nil
}

func (m *Manager) verify(first, last *publication.Header, start, end Checkpoint, proof []byte) error {
	if err := m.verifier.Verify(first.Hash(), last.Hash(), start.Commitment, end.Commitment, proof); err != nil {
		return reverts.Errorf(ErrInvalidTransition, "%v", err)
	}
	return nil
}

// checkChain checks that headers run contiguously from start to end, each
// linked to its predecessor by hash, and that nextHeader follows the last.
func checkChain(start, end Checkpoint, headers []*publication.Header, nextHeader *publication.Header) error {
	if len(headers) == 0 {
		return reverts.Errorf(ErrInvalidPublication, "no publications")
	}
	if nextHeader == nil {
		return reverts.Errorf(ErrInvalidPublication, "missing next publication")
	}
	if start.PublicationID+uint64(len(headers))-1 != end.PublicationID {
		return reverts.Errorf(ErrInvalidPublication, "%d headers do not span %d..%d", len(headers), start.PublicationID, end.PublicationID)
	}
	for i, h := range headers {
		if h == nil {
			return reverts.Errorf(ErrInvalidPublication, "missing header %d", i)
		}
		if h.ID != start.PublicationID+uint64(i) {
			return reverts.Errorf(ErrInvalidPublication, "header %d has id %d", i, h.ID)
		}
		if i > 0 && h.PrevHash != headers[i-1].Hash() {
			return reverts.Errorf(ErrInvalidPublication, "publication %d is not linked to %d", h.ID, headers[i-1].ID)
		}
	}
	last := headers[len(headers)-1]
	if nextHeader.ID != last.ID+1 || nextHeader.PrevHash != last.Hash() {
		return reverts.Errorf(ErrInvalidPublication, "publication %d does not follow %d", nextHeader.ID, last.ID)
	}
	return nil
}

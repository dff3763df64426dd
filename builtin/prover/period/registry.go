// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package period

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/xiaodino/minimal-rollup/builtin/solidity"
	"github.com/xiaodino/minimal-rollup/rollup"
)

var (
	slotPeriods = rollup.BytesToBytes32([]byte("prover-periods"))
	slotEnds    = rollup.BytesToBytes32([]byte("prover-period-ends"))
	slotCurrent = rollup.BytesToBytes32([]byte("prover-current-period"))
)

// Registry stores periods by id together with the current period pointer.
// The end timestamp of every closed period is kept separately so that it
// survives the period record being cleared on settlement.
type Registry struct {
	periods *solidity.Mapping[solidity.Uint64Key, *Period]
	ends    *solidity.Mapping[solidity.Uint64Key, uint64]
	current *solidity.Uint256
}

func New(sctx *solidity.Context) *Registry {
	return &Registry{
		periods: solidity.NewMapping[solidity.Uint64Key, *Period](sctx, slotPeriods),
		ends:    solidity.NewMapping[solidity.Uint64Key, uint64](sctx, slotEnds),
		current: solidity.NewUint256(sctx, slotCurrent),
	}
}

// Get returns the period with the given id. Unknown or cleared periods are
// returned with all fields at their zero value.
func (r *Registry) Get(id uint64) (*Period, error) {
	p, err := r.periods.Get(solidity.Uint64Key(id))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get period %d", id)
	}
	return p.normalize(), nil
}

func (r *Registry) Set(id uint64, p *Period) error {
	if err := r.periods.Set(solidity.Uint64Key(id), p.normalize()); err != nil {
		return errors.Wrapf(err, "failed to set period %d", id)
	}
	if p.End != 0 {
		return r.ends.Set(solidity.Uint64Key(id), p.End)
	}
	return nil
}

// Delete clears the period record. Its end timestamp is retained.
func (r *Registry) Delete(id uint64) {
	r.periods.Delete(solidity.Uint64Key(id))
}

// CurrentID returns the id of the period that currently collects fees.
func (r *Registry) CurrentID() (uint64, error) {
	id, err := r.current.Get()
	if err != nil {
		return 0, err
	}
	return id.Uint64(), nil
}

// Current returns the current period and its id.
func (r *Registry) Current() (uint64, *Period, error) {
	id, err := r.CurrentID()
	if err != nil {
		return 0, nil, err
	}
	p, err := r.Get(id)
	if err != nil {
		return 0, nil, err
	}
	return id, p, nil
}

// Advance moves the current period pointer forward by one and returns the new id.
func (r *Registry) Advance() (uint64, error) {
	if err := r.current.Add(big.NewInt(1)); err != nil {
		return 0, err
	}
	return r.CurrentID()
}

// PreviousEnd returns the end timestamp of the period preceding id. Period 0
// has no predecessor, so the bound is 0 and any publication qualifies.
func (r *Registry) PreviousEnd(id uint64) (uint64, error) {
	if id == 0 {
		return 0, nil
	}
	return r.ends.Get(solidity.Uint64Key(id - 1))
}

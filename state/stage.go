// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/pkg/errors"

	"github.com/xiaodino/minimal-rollup/kv"
)

// Stage abstracts the pending changes of a state.
type Stage struct {
	state   *State
	changes map[any][]byte
	order   []any
}

// Len returns the number of changed keys.
func (s *Stage) Len() int {
	return len(s.order)
}

// Commit writes the staged changes into a batch of the given store and
// clears the state's overlay on success, so later reads hit the store.
func (s *Stage) Commit(store kv.Store) error {
	batch := store.NewBatch()
	balances := balanceBucket.NewPutter(batch)
	storage := storageBucket.NewPutter(batch)

	for _, key := range s.order {
		var (
			putter kv.Putter
			k      []byte
		)
		switch key := key.(type) {
		case balanceKey:
			putter, k = balances, key[:]
		case storageKey:
			putter, k = storage, key.bytes()
		}

		val := s.changes[key]
		if len(val) == 0 {
			if err := putter.Delete(k); err != nil {
				return errors.Wrap(err, "stage delete")
			}
			continue
		}
		if err := putter.Put(k, val); err != nil {
			return errors.Wrap(err, "stage put")
		}
	}

	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "commit state")
	}
	s.state.reset()
	return nil
}

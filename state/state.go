// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/xiaodino/minimal-rollup/kv"
	"github.com/xiaodino/minimal-rollup/rollup"
	"github.com/xiaodino/minimal-rollup/stackedmap"
)

const (
	balanceBucket = kv.Bucket("b")
	storageBucket = kv.Bucket("s")
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type (
	balanceKey rollup.Address
	storageKey struct {
		addr rollup.Address
		key  rollup.Bytes32
	}
)

func (k storageKey) bytes() []byte {
	return append(append(make([]byte, 0, rollup.AddressLength+32), k.addr[:]...), k.key[:]...)
}

// State manages the native balances and storage slots of all accounts.
type State struct {
	db kv.Getter
	sm *stackedmap.StackedMap[any, []byte]
}

// New create state object on top of the committed kv store.
func New(db kv.Getter) *State {
	s := &State{db: db}
	s.sm = stackedmap.New(s.cacheGetter)
	return s
}

func (s *State) cacheGetter(key any) ([]byte, bool, error) {
	var (
		getter kv.Getter
		k      []byte
	)
	switch key := key.(type) {
	case balanceKey:
		getter, k = balanceBucket.NewGetter(s.db), key[:]
	case storageKey:
		getter, k = storageBucket.NewGetter(s.db), key.bytes()
	default:
		panic(fmt.Errorf("unexpected key type %T", key))
	}

	v, err := getter.Get(k)
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, true, nil
		}
		return nil, false, err
	}
	return v, true, nil
}

// GetBalance returns the native balance of the given address.
func (s *State) GetBalance(addr rollup.Address) (*big.Int, error) {
	v, _, err := s.sm.Get(balanceKey(addr))
	if err != nil {
		return nil, &Error{err}
	}
	return new(big.Int).SetBytes(v), nil
}

// SetBalance sets the native balance of the given address. Negative balances are rejected.
func (s *State) SetBalance(addr rollup.Address, balance *big.Int) error {
	if balance.Sign() < 0 {
		return &Error{fmt.Errorf("negative balance for %v", addr)}
	}
	s.sm.Put(balanceKey(addr), balance.Bytes())
	return nil
}

// Transfer moves native value between two accounts.
func (s *State) Transfer(from, to rollup.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	fromBalance, err := s.GetBalance(from)
	if err != nil {
		return err
	}
	if fromBalance.Cmp(amount) < 0 {
		return &Error{fmt.Errorf("insufficient native balance of %v", from)}
	}
	toBalance, err := s.GetBalance(to)
	if err != nil {
		return err
	}
	if err := s.SetBalance(from, fromBalance.Sub(fromBalance, amount)); err != nil {
		return err
	}
	return s.SetBalance(to, toBalance.Add(toBalance, amount))
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr rollup.Address, key rollup.Bytes32) (rollup.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return rollup.Bytes32{}, err
	}
	if len(raw) == 0 {
		return rollup.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return rollup.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// structured values are addressed by hash of their raw encoding
		return rollup.Keccak256(raw), nil
	}
	return rollup.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr rollup.Address, key, value rollup.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr rollup.Address, key rollup.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data, nil
}

// SetRawStorage set storage value in rlp raw. An empty value deletes the slot on commit.
func (s *State) SetRawStorage(addr rollup.Address, key rollup.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
func (s *State) EncodeStorage(addr rollup.Address, key rollup.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
func (s *State) DecodeStorage(addr rollup.Address, key rollup.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage collects all changes made since the state was created (or last committed).
func (s *State) Stage() *Stage {
	changes := make(map[any][]byte)
	var order []any
	for _, entry := range s.sm.Journal() {
		if _, ok := changes[entry.Key]; !ok {
			order = append(order, entry.Key)
		}
		changes[entry.Key] = entry.Value
	}
	return &Stage{state: s, changes: changes, order: order}
}

func (s *State) reset() {
	s.sm = stackedmap.New(s.cacheGetter)
}

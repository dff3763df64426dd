// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package node serializes every operation on the rollup state. Each call
// runs against a fresh view of the committed state and is committed, with
// its events, only if it succeeds.
package node

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/xiaodino/minimal-rollup/builtin"
	"github.com/xiaodino/minimal-rollup/builtin/prover"
	"github.com/xiaodino/minimal-rollup/builtin/solidity"
	"github.com/xiaodino/minimal-rollup/eventlog"
	"github.com/xiaodino/minimal-rollup/genesis"
	"github.com/xiaodino/minimal-rollup/kv"
	"github.com/xiaodino/minimal-rollup/log"
	"github.com/xiaodino/minimal-rollup/rollup"
	"github.com/xiaodino/minimal-rollup/state"
)

var (
	logger = log.WithContext("pkg", "node")

	nodeAddr   = rollup.BytesToAddress([]byte("Node"))
	slotHeight = rollup.BytesToBytes32([]byte("node-height"))
	slotTime   = rollup.BytesToBytes32([]byte("node-time"))
)

// Clock returns the current unix time in seconds.
type Clock func() uint64

// WallClock reads the system clock.
func WallClock() uint64 { return uint64(time.Now().Unix()) }

// Node is the single writer of the rollup state.
type Node struct {
	store    kv.Store
	events   *eventlog.EventLog
	cfg      *prover.Config
	verifier prover.TransitionVerifier
	clock    Clock

	mu sync.RWMutex
}

// New opens the node over store, writing the genesis state on first use.
func New(store kv.Store, events *eventlog.EventLog, gen *genesis.Config, clock Clock) (*Node, error) {
	if clock == nil {
		clock = WallClock
	}
	n := &Node{
		store:    store,
		events:   events,
		cfg:      gen.ProverConfig(),
		verifier: gen.Verifier(),
		clock:    clock,
	}
	if err := n.initGenesis(gen); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Node) initGenesis(gen *genesis.Config) error {
	id, err := gen.ID()
	if err != nil {
		return err
	}
	st := state.New(n.store)
	stored, err := genesis.StoredID(st)
	if err != nil {
		return err
	}
	if !stored.IsZero() {
		if stored != id {
			return errors.Errorf("genesis mismatch: database has %v, config is %v", stored, id)
		}
		return nil
	}

	comps, err := gen.Build(st)
	if err != nil {
		return err
	}
	if err := solidity.NewUint256(solidity.NewContext(nodeAddr, st), slotTime).Set(new(big.Int).SetUint64(gen.LaunchTime)); err != nil {
		return err
	}
	evs := comps.Manager.DrainEvents()
	if err := st.Stage().Commit(n.store); err != nil {
		return errors.Wrap(err, "commit genesis")
	}
	n.writeEvents(0, gen.LaunchTime, evs)
	logger.Info("genesis initialized", "id", id.AbbrevString(), "prover", gen.Prover.InitialProver)
	return nil
}

// Context is handed to every operation run by the node.
type Context struct {
	*builtin.Components
	State *state.State
	// Now is the time of the call, never earlier than the previous call.
	Now uint64
	// Height is the sequence number the call commits as.
	Height uint64
}

// Exec runs fn as one atomic call. Nothing fn changed is kept if it fails.
func (n *Node) Exec(ctx context.Context, fn func(*Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	c, err := n.newContext()
	if err != nil {
		return err
	}
	if now := n.clock(); now > c.Now {
		c.Now = now
	}
	c.Height++

	if err := fn(c); err != nil {
		metricCalls().AddWithLabel(1, map[string]string{"result": "failed"})
		return err
	}

	nctx := solidity.NewContext(nodeAddr, c.State)
	if err := solidity.NewUint256(nctx, slotHeight).Set(new(big.Int).SetUint64(c.Height)); err != nil {
		return err
	}
	if err := solidity.NewUint256(nctx, slotTime).Set(new(big.Int).SetUint64(c.Now)); err != nil {
		return err
	}
	evs := c.Manager.DrainEvents()
	if err := c.State.Stage().Commit(n.store); err != nil {
		return errors.Wrap(err, "commit state")
	}
	metricCalls().AddWithLabel(1, map[string]string{"result": "committed"})
	n.writeEvents(c.Height, c.Now, evs)
	return nil
}

// View runs fn over the committed state. Changes fn makes are discarded.
func (n *Node) View(fn func(*Context) error) error {
	n.mu.RLock()
	defer n.mu.RUnlock()

	c, err := n.newContext()
	if err != nil {
		return err
	}
	return fn(c)
}

func (n *Node) newContext() (*Context, error) {
	st := state.New(n.store)
	nctx := solidity.NewContext(nodeAddr, st)
	height, err := solidity.NewUint256(nctx, slotHeight).Get()
	if err != nil {
		return nil, err
	}
	now, err := solidity.NewUint256(nctx, slotTime).Get()
	if err != nil {
		return nil, err
	}
	return &Context{
		Components: builtin.Bind(st, n.cfg, n.verifier),
		State:      st,
		Now:        now.Uint64(),
		Height:     height.Uint64(),
	}, nil
}

func (n *Node) writeEvents(height, now uint64, evs []*prover.Event) {
	for _, ev := range evs {
		logger.Debug("event", "name", ev.Name, "period", ev.PeriodID, "account", ev.Account, "amount", ev.Amount)
	}
	if n.events == nil || len(evs) == 0 {
		return
	}
	if err := n.events.Write(height, now, evs); err != nil {
		logger.Error("failed to write events", "height", height, "err", err)
	}
}

// Events returns the event log, nil if the node runs without one.
func (n *Node) Events() *eventlog.EventLog {
	return n.events
}

// ProverConfig returns the prover manager parameters.
func (n *Node) ProverConfig() *prover.Config {
	return n.cfg
}

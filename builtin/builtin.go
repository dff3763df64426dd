// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/xiaodino/minimal-rollup/builtin/inbox"
	"github.com/xiaodino/minimal-rollup/builtin/prover"
	"github.com/xiaodino/minimal-rollup/builtin/publication"
	"github.com/xiaodino/minimal-rollup/builtin/solidity"
	"github.com/xiaodino/minimal-rollup/rollup"
	"github.com/xiaodino/minimal-rollup/state"
)

// Built-in components binding.
var (
	Feed   = &feedContract{newContract("PublicationFeed")}
	Prover = &proverContract{newContract("ProverManager")}
	Inbox  = &inboxContract{newContract("Inbox")}
)

type contract struct {
	name    string
	Address rollup.Address
}

func newContract(name string) *contract {
	return &contract{name, rollup.BytesToAddress([]byte(name))}
}

func (c *contract) Name() string { return c.name }

type (
	feedContract   struct{ *contract }
	proverContract struct{ *contract }
	inboxContract  struct{ *contract }
)

func (f *feedContract) WithState(state *state.State) *publication.Feed {
	return publication.New(solidity.NewContext(f.Address, state))
}

func (p *proverContract) WithState(state *state.State, cfg *prover.Config, verifier prover.TransitionVerifier) *prover.Manager {
	return prover.New(p.Address, state, cfg, Feed.WithState(state), verifier)
}

func (i *inboxContract) WithState(state *state.State, manager *prover.Manager) *inbox.Inbox {
	return inbox.New(i.Address, state, Feed.WithState(state), manager)
}

// Components are all built-in components bound to one state.
type Components struct {
	Feed    *publication.Feed
	Manager *prover.Manager
	Inbox   *inbox.Inbox
}

// Bind binds every built-in component to state. The config's inbox must be
// the built-in inbox address.
func Bind(state *state.State, cfg *prover.Config, verifier prover.TransitionVerifier) *Components {
	manager := Prover.WithState(state, cfg, verifier)
	return &Components{
		Feed:    Feed.WithState(state),
		Manager: manager,
		Inbox:   Inbox.WithState(state, manager),
	}
}

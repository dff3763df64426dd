// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/xiaodino/minimal-rollup/rollup"
	"github.com/xiaodino/minimal-rollup/state"
)

// Context binds storage primitives to the account that owns them.
type Context struct {
	address rollup.Address
	state   *state.State
}

func NewContext(address rollup.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() rollup.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

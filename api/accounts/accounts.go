// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/xiaodino/minimal-rollup/api/utils"
	"github.com/xiaodino/minimal-rollup/node"
	"github.com/xiaodino/minimal-rollup/rollup"
)

// Account is the native balance of an address and its balance held by the
// prover manager.
type Account struct {
	Balance       *math.HexOrDecimal256 `json:"balance"`
	ProverBalance *math.HexOrDecimal256 `json:"proverBalance"`
}

// Amount is the body of deposit and withdrawal requests.
type Amount struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type Accounts struct {
	node    *node.Node
	devMode bool
}

func New(n *node.Node, devMode bool) *Accounts {
	return &Accounts{
		n,
		devMode,
	}
}

func parseAddress(req *http.Request) (rollup.Address, error) {
	addr, err := rollup.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return rollup.Address{}, utils.BadRequest(errors.WithMessage(err, "address"))
	}
	return *addr, nil
}

func parseAmount(req *http.Request) (*big.Int, error) {
	var body Amount
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return nil, utils.BadRequest(errors.New("body: amount required"))
	}
	return (*big.Int)(body.Amount), nil
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	var acc Account
	if err := a.node.View(func(c *node.Context) error {
		native, err := c.State.GetBalance(addr)
		if err != nil {
			return err
		}
		held, err := c.Manager.BalanceOf(addr)
		if err != nil {
			return err
		}
		acc.Balance = (*math.HexOrDecimal256)(native)
		acc.ProverBalance = (*math.HexOrDecimal256)(held)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &acc)
}

func (a *Accounts) handleDeposit(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	amount, err := parseAmount(req)
	if err != nil {
		return err
	}
	if err := a.node.Deposit(req.Context(), addr, amount); err != nil {
		return err
	}
	return a.handleGetAccount(w, req)
}

func (a *Accounts) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	amount, err := parseAmount(req)
	if err != nil {
		return err
	}
	if err := a.node.Withdraw(req.Context(), addr, amount); err != nil {
		return err
	}
	return a.handleGetAccount(w, req)
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))

	if a.devMode {
		sub.Path("/{address}/deposits").
			Methods(http.MethodPost).
			Name("POST /accounts/{address}/deposits").
			HandlerFunc(utils.WrapHandlerFunc(a.handleDeposit))
		sub.Path("/{address}/withdrawals").
			Methods(http.MethodPost).
			Name("POST /accounts/{address}/withdrawals").
			HandlerFunc(utils.WrapHandlerFunc(a.handleWithdraw))
	}
}

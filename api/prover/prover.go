// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package prover

import (
	"math/big"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/xiaodino/minimal-rollup/api/utils"
	"github.com/xiaodino/minimal-rollup/node"
)

type Prover struct {
	node    *node.Node
	devMode bool
}

func New(n *node.Node, devMode bool) *Prover {
	return &Prover{
		n,
		devMode,
	}
}

func (p *Prover) handleGetConfig(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, convertConfig(p.node.ProverConfig()))
}

func (p *Prover) handleGetCurrent(w http.ResponseWriter, _ *http.Request) error {
	var out *Period
	if err := p.node.View(func(c *node.Context) error {
		id, current, err := c.Manager.CurrentPeriod()
		if err != nil {
			return err
		}
		out = convertPeriod(id, current)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (p *Prover) handleGetPeriod(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParseUint64(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	var out *Period
	if err := p.node.View(func(c *node.Context) error {
		pd, err := c.Manager.Period(id)
		if err != nil {
			return err
		}
		out = convertPeriod(id, pd)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (p *Prover) handleGetTotals(w http.ResponseWriter, _ *http.Request) error {
	var out Totals
	if err := p.node.View(func(c *node.Context) error {
		balances, err := c.Manager.TotalBalances()
		if err != nil {
			return err
		}
		burned, err := c.Manager.TotalBurned()
		if err != nil {
			return err
		}
		escrow, err := c.State.GetBalance(c.Manager.Address())
		if err != nil {
			return err
		}
		out = Totals{hex(balances), hex(burned), hex(escrow)}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &out)
}

func (p *Prover) handleBid(w http.ResponseWriter, req *http.Request) error {
	var body Bid
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Fee == nil {
		return utils.BadRequest(errors.New("body: fee required"))
	}
	if err := p.node.Bid(req.Context(), body.Caller, (*big.Int)(body.Fee)); err != nil {
		return err
	}
	return p.handleGetPeriods(w, req)
}

func (p *Prover) handleExit(w http.ResponseWriter, req *http.Request) error {
	var body Caller
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := p.node.Exit(req.Context(), body.Caller); err != nil {
		return err
	}
	return p.handleGetPeriods(w, req)
}

func (p *Prover) handleEvict(w http.ResponseWriter, req *http.Request) error {
	var body Eviction
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := p.node.EvictProver(req.Context(), body.Caller, body.PublicationID); err != nil {
		return err
	}
	return p.handleGetPeriods(w, req)
}

func (p *Prover) handleProve(w http.ResponseWriter, req *http.Request) error {
	var body Proof
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	var err error
	if body.Adverse {
		err = p.node.ProveAdverse(req.Context(), body.Caller, body.PeriodID, body.Start, body.End, body.Proof)
	} else {
		err = p.node.Prove(req.Context(), body.Caller, body.PeriodID, body.Start, body.End, body.Settle, body.Proof)
	}
	if err != nil {
		return err
	}
	return p.handleGetPeriods(w, req)
}

// handleGetPeriods responds with the current and next periods.
func (p *Prover) handleGetPeriods(w http.ResponseWriter, _ *http.Request) error {
	var out [2]*Period
	if err := p.node.View(func(c *node.Context) error {
		id, current, err := c.Manager.CurrentPeriod()
		if err != nil {
			return err
		}
		next, err := c.Manager.Period(id + 1)
		if err != nil {
			return err
		}
		out[0], out[1] = convertPeriod(id, current), convertPeriod(id+1, next)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (p *Prover) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/config").
		Methods(http.MethodGet).
		Name("GET /prover/config").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetConfig))
	sub.Path("/current").
		Methods(http.MethodGet).
		Name("GET /prover/current").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetCurrent))
	sub.Path("/periods").
		Methods(http.MethodGet).
		Name("GET /prover/periods").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPeriods))
	sub.Path("/periods/{id:[0-9]+}").
		Methods(http.MethodGet).
		Name("GET /prover/periods/{id}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPeriod))
	sub.Path("/totals").
		Methods(http.MethodGet).
		Name("GET /prover/totals").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetTotals))

	if p.devMode {
		sub.Path("/bids").
			Methods(http.MethodPost).
			Name("POST /prover/bids").
			HandlerFunc(utils.WrapHandlerFunc(p.handleBid))
		sub.Path("/exit").
			Methods(http.MethodPost).
			Name("POST /prover/exit").
			HandlerFunc(utils.WrapHandlerFunc(p.handleExit))
		sub.Path("/evictions").
			Methods(http.MethodPost).
			Name("POST /prover/evictions").
			HandlerFunc(utils.WrapHandlerFunc(p.handleEvict))
		sub.Path("/proofs").
			Methods(http.MethodPost).
			Name("POST /prover/proofs").
			HandlerFunc(utils.WrapHandlerFunc(p.handleProve))
	}
}

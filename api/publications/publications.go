// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package publications

import (
	"fmt"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/xiaodino/minimal-rollup/api/utils"
	"github.com/xiaodino/minimal-rollup/builtin/publication"
	"github.com/xiaodino/minimal-rollup/cache"
	"github.com/xiaodino/minimal-rollup/log"
	"github.com/xiaodino/minimal-rollup/node"
	"github.com/xiaodino/minimal-rollup/rollup"
)

// Publication is the body of a publish request.
type Publication struct {
	Proposer   rollup.Address        `json:"proposer"`
	Attributes []hexutil.Bytes       `json:"attributes"`
	Delayed    bool                  `json:"delayed"`
	Payment    *math.HexOrDecimal256 `json:"payment"`
}

// Header is a committed publication header with its hash.
type Header struct {
	*publication.Header
	Hash rollup.Bytes32 `json:"hash"`
}

var logger = log.WithContext("pkg", "publications")

type Publications struct {
	node    *node.Node
	devMode bool
	// committed headers never change, so they are cached by id
	headers *cache.LRU[uint64, *Header]
}

func New(n *node.Node, devMode bool, cacheSize int) *Publications {
	if cacheSize < 1 {
		cacheSize = 1
	}
	headers, err := cache.NewLRU[uint64, *Header](cacheSize)
	if err != nil {
		// NewLRU only throws an error if the number is less than 1
		panic(fmt.Errorf("failed to create header cache: %v", err))
	}
	return &Publications{
		n,
		devMode,
		headers,
	}
}

func (p *Publications) loadHeader(id uint64) (*Header, bool, error) {
	var header *publication.Header
	if err := p.node.View(func(c *node.Context) (err error) {
		header, err = c.Feed.GetHeader(id)
		return err
	}); err != nil {
		return nil, false, err
	}
	if header == nil {
		return nil, false, nil
	}
	return &Header{header, header.Hash()}, true, nil
}

func (p *Publications) getHeader(id uint64) (*Header, error) {
	h, err := p.headers.GetOrLoad(id, p.loadHeader)
	if changed, hit, miss := p.headers.Stats(); changed {
		logger.Debug("publication header cache stats", "hit", hit, "miss", miss)
	}
	return h, err
}

func (p *Publications) handleGetPublication(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParseUint64(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	h, err := p.getHeader(id)
	if err != nil {
		return err
	}
	if h == nil {
		return utils.NotFound(errors.Errorf("publication %d not found", id))
	}
	return utils.WriteJSON(w, h)
}

func (p *Publications) handlePublish(w http.ResponseWriter, req *http.Request) error {
	var body Publication
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	attributes := make([][]byte, len(body.Attributes))
	for i, a := range body.Attributes {
		attributes[i] = a
	}
	header, err := p.node.Publish(req.Context(), body.Proposer, attributes, body.Delayed, (*big.Int)(body.Payment))
	if err != nil {
		return err
	}
	h := &Header{header, header.Hash()}
	p.headers.Add(header.ID, h)
	return utils.WriteJSON(w, h)
}

func (p *Publications) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{id:[0-9]+}").
		Methods(http.MethodGet).
		Name("GET /publications/{id}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPublication))

	if p.devMode {
		sub.Path("").
			Methods(http.MethodPost).
			Name("POST /publications").
			HandlerFunc(utils.WrapHandlerFunc(p.handlePublish))
	}
}

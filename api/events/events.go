// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/xiaodino/minimal-rollup/api/utils"
	"github.com/xiaodino/minimal-rollup/eventlog"
)

type Events struct {
	db    *eventlog.EventLog
	limit uint64
}

func New(db *eventlog.EventLog, limit uint64) *Events {
	return &Events{
		db,
		limit,
	}
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter eventlog.Filter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if filter.Order != "" && filter.Order != eventlog.ASC && filter.Order != eventlog.DESC {
		return utils.BadRequest(fmt.Errorf("order: must be %q or %q", eventlog.ASC, eventlog.DESC))
	}
	if filter.Options != nil && filter.Options.Limit > e.limit {
		return utils.Forbidden(fmt.Errorf("options.limit exceeds the maximum allowed value of %d", e.limit))
	}
	if filter.Options == nil {
		// one over the limit to detect an oversized result
		filter.Options = &eventlog.Options{Limit: e.limit + 1}
	}

	events, err := e.db.Filter(req.Context(), &filter)
	if err != nil {
		return err
	}
	if uint64(len(events)) > e.limit {
		return utils.Forbidden(fmt.Errorf("the number of filtered events exceeds the maximum allowed value of %d, please use pagination", e.limit))
	}
	return utils.WriteJSON(w, events)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}

// Copyright (c) 2025 The StakeHive developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakehive/stakehive/api/utils"
	"github.com/stakehive/stakehive/auditdb"
)

// Events serves the persisted audit trail.
type Events struct {
	db    *auditdb.AuditDB
	limit uint32
}

func New(db *auditdb.AuditDB, limit uint32) *Events {
	return &Events{db, limit}
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter Filter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if filter.Options != nil && filter.Options.Limit > e.limit {
		return utils.Forbidden(fmt.Errorf("options.limit exceeds the maximum allowed value of %d", e.limit))
	}
	query := filter.toQuery(e.limit)
	recorded, err := e.db.Filter(req.Context(), query)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertEvents(recorded))
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}

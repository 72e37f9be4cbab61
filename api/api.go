// Copyright (c) 2025 The StakeHive developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/stakehive/stakehive/api/events"
	apistaking "github.com/stakehive/stakehive/api/staking"
	"github.com/stakehive/stakehive/auditdb"
	"github.com/stakehive/stakehive/log"
	"github.com/stakehive/stakehive/staking"
)

var logger = log.WithContext("pkg", "api")

// Options configures the HTTP surface.
type Options struct {
	AllowedOrigins string
	EventsLimit    uint32
	EnableMetrics  bool
	LogRequests    bool
}

// New assembles the read-only query API. The engine is not safe for
// concurrent use; handlers take mu for reading, and the host's tick
// loop must hold it for writing.
func New(engine *staking.Engine, mu *sync.RWMutex, db *auditdb.AuditDB, opts Options) http.Handler {
	router := mux.NewRouter()
	apistaking.New(engine, mu).Mount(router, "/staking")
	if db != nil {
		limit := opts.EventsLimit
		if limit == 0 {
			limit = 1000
		}
		events.New(db, limit).Mount(router, "/events")
	}

	handler := http.Handler(router)
	if opts.EnableMetrics {
		handler = metricsHandler(handler)
	}
	if opts.LogRequests {
		handler = requestLogger(handler)
	}
	handler = handlers.CompressHandler(handler)
	handler = handlers.CORS(
		handlers.AllowedOrigins(strings.Split(opts.AllowedOrigins, ",")),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)
	return handler
}

// requestLogger is a middleware that traces served requests.
func requestLogger(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		h.ServeHTTP(w, r)
		logger.Debug("served request",
			"method", r.Method,
			"uri", r.URL.String(),
			"elapsed", time.Since(started),
		)
	})
}

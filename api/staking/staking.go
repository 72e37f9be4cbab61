// Copyright (c) 2025 The StakeHive developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakehive/stakehive/api/utils"
	"github.com/stakehive/stakehive/stakehive"
	"github.com/stakehive/stakehive/staking"
)

// Staking exposes the engine's read-only queries over HTTP. The engine
// itself is not safe for concurrent use, so every handler takes the
// shared lock that the host's tick loop writes under.
type Staking struct {
	engine *staking.Engine
	mu     *sync.RWMutex
}

func New(engine *staking.Engine, mu *sync.RWMutex) *Staking {
	return &Staking{engine, mu}
}

func (s *Staking) parseEpochID(idParam string) (uint32, error) {
	if idParam == "current" {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.engine.CurrentEpoch().ID, nil
	}
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		return 0, errors.New("invalid epoch id")
	}
	return uint32(id), nil
}

func (s *Staking) handleGetEpoch(w http.ResponseWriter, req *http.Request) error {
	id, err := s.parseEpochID(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	s.mu.RLock()
	ep, ok := s.engine.GetEpoch(id)
	s.mu.RUnlock()
	if !ok {
		return utils.WriteJSON(w, nil)
	}
	return utils.WriteJSON(w, convertEpoch(&ep))
}

func (s *Staking) handleGetDeposit(w http.ResponseWriter, req *http.Request) error {
	id, err := stakehive.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	s.mu.RLock()
	d, ok := s.engine.GetDeposit(id)
	s.mu.RUnlock()
	if !ok {
		return utils.WriteJSON(w, nil)
	}
	return utils.WriteJSON(w, convertDeposit(&d))
}

func (s *Staking) handleGetDeposits(w http.ResponseWriter, req *http.Request) error {
	staker, err := stakehive.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	s.mu.RLock()
	deposits := s.engine.DepositsOf(*staker)
	s.mu.RUnlock()

	converted := make([]*JSONDeposit, 0, len(deposits))
	for i := range deposits {
		converted = append(converted, convertDeposit(&deposits[i]))
	}
	return utils.WriteJSON(w, converted)
}

func (s *Staking) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	staker, err := stakehive.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	epochID, err := s.epochQuery(req)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "epoch"))
	}
	s.mu.RLock()
	amount := s.engine.ActiveStake(*staker, epochID)
	s.mu.RUnlock()
	return utils.WriteJSON(w, &JSONStake{
		Staker: *staker,
		Epoch:  epochID,
		Amount: decimal(amount),
	})
}

func (s *Staking) handleGetTotalStake(w http.ResponseWriter, req *http.Request) error {
	epochID, err := s.epochQuery(req)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "epoch"))
	}
	s.mu.RLock()
	amount := s.engine.TotalActiveStake(epochID)
	s.mu.RUnlock()
	return utils.WriteJSON(w, &JSONTotalStake{
		Epoch:  epochID,
		Amount: decimal(amount),
	})
}

func (s *Staking) handleGetClaimable(w http.ResponseWriter, req *http.Request) error {
	staker, err := stakehive.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	s.mu.RLock()
	amount := s.engine.Claimable(*staker)
	s.mu.RUnlock()
	return utils.WriteJSON(w, &JSONClaimable{
		Staker: *staker,
		Amount: decimal(amount),
	})
}

func (s *Staking) handleGetAudit(w http.ResponseWriter, _ *http.Request) error {
	s.mu.RLock()
	totals := s.engine.Audit()
	s.mu.RUnlock()
	return utils.WriteJSON(w, convertAudit(totals))
}

// epochQuery reads the optional "epoch" query parameter, defaulting to
// the current epoch.
func (s *Staking) epochQuery(req *http.Request) (uint32, error) {
	param := req.URL.Query().Get("epoch")
	if param == "" {
		param = "current"
	}
	return s.parseEpochID(param)
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("/epochs/{id}").
		Methods(http.MethodGet).
		Name("GET /staking/epochs/{id}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetEpoch))
	sub.Path("/deposits/{id}").
		Methods(http.MethodGet).
		Name("GET /staking/deposits/{id}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetDeposit))
	sub.Path("/stakers/{address}/deposits").
		Methods(http.MethodGet).
		Name("GET /staking/stakers/{address}/deposits").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetDeposits))
	sub.Path("/stakers/{address}/stake").
		Methods(http.MethodGet).
		Name("GET /staking/stakers/{address}/stake").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetStake))
	sub.Path("/stakers/{address}/claimable").
		Methods(http.MethodGet).
		Name("GET /staking/stakers/{address}/claimable").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetClaimable))
	sub.Path("/stake").
		Methods(http.MethodGet).
		Name("GET /staking/stake").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetTotalStake))
	sub.Path("/audit").
		Methods(http.MethodGet).
		Name("GET /staking/audit").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetAudit))
}

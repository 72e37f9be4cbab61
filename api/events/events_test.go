// Copyright (c) 2025 The StakeHive developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakehive/stakehive/auditdb"
	"github.com/stakehive/stakehive/stakehive"
	"github.com/stakehive/stakehive/staking"
)

var alice = stakehive.BytesToAddress([]byte("alice"))

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := auditdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(db.Close)

	for _, ev := range []*staking.Event{
		{Type: staking.EventEpochStarted, Time: 1500, Epoch: 1},
		{Type: staking.EventDepositCreated, Time: 1500, Epoch: 1, Staker: &alice, Amount: big.NewInt(100)},
		{Type: staking.EventEpochEnded, Time: 2100, Epoch: 1},
	} {
		require.NoError(t, db.Record(ev))
	}

	router := mux.NewRouter()
	New(db, 1000).Mount(router, "/events")

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

func postFilter(t *testing.T, url string, filter *Filter) ([]byte, int) {
	t.Helper()
	body, err := json.Marshal(filter)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(body)) //#nosec G107
	require.NoError(t, err)
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.NoError(t, res.Body.Close())
	return raw, res.StatusCode
}

func TestFilterAll(t *testing.T) {
	ts := newServer(t)

	raw, status := postFilter(t, ts.URL+"/events", &Filter{})
	require.Equal(t, http.StatusOK, status)

	var events []*JSONEvent
	require.NoError(t, json.Unmarshal(raw, &events))
	require.Len(t, events, 3)
	assert.Equal(t, staking.EventEpochStarted, events[0].Type)
	assert.Equal(t, staking.EventEpochEnded, events[2].Type)
}

func TestFilterByStaker(t *testing.T) {
	ts := newServer(t)

	raw, status := postFilter(t, ts.URL+"/events", &Filter{Staker: &alice})
	require.Equal(t, http.StatusOK, status)

	var events []*JSONEvent
	require.NoError(t, json.Unmarshal(raw, &events))
	require.Len(t, events, 1)
	assert.Equal(t, staking.EventDepositCreated, events[0].Type)
	require.NotNil(t, events[0].Amount)
	assert.Equal(t, big.NewInt(100), (*big.Int)(events[0].Amount))
}

func TestFilterLimitEnforced(t *testing.T) {
	ts := newServer(t)

	_, status := postFilter(t, ts.URL+"/events", &Filter{Options: &Options{Limit: 100000}})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestFilterBadBody(t *testing.T) {
	ts := newServer(t)

	res, err := http.Post(ts.URL+"/events", "application/json", bytes.NewReader([]byte(`{"bogus": 1}`))) //#nosec G107
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

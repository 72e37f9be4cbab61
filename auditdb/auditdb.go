// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package auditdb persists the engine's event stream into sqlite for
// off-chain audit. Append-only; events are never updated or deleted.
package auditdb

import (
	"context"
	"database/sql"
	"math/big"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/stakehive/stakehive/stakehive"
	"github.com/stakehive/stakehive/staking"
)

const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	type TEXT NOT NULL,
	ts INTEGER NOT NULL,
	epoch INTEGER NOT NULL,
	staker BLOB,
	depositID BLOB,
	amount TEXT
);

CREATE INDEX IF NOT EXISTS event_i1 ON event(type);
CREATE INDEX IF NOT EXISTS event_i2 ON event(staker);
CREATE INDEX IF NOT EXISTS event_i3 ON event(epoch);`

// AuditDB is the sqlite-backed audit event store. It implements
// staking.Recorder.
type AuditDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

var _ staking.Recorder = (*AuditDB)(nil)

// New create or open audit db at given path.
func New(path string) (auditDB *AuditDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if auditDB == nil {
			db.Close()
		}
	}()
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &AuditDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create an audit db in ram.
func NewMem() (*AuditDB, error) {
	return New(":memory:")
}

// Close close the audit db.
func (db *AuditDB) Close() {
	db.db.Close()
}

func (db *AuditDB) Path() string {
	return db.path
}

// Record appends one engine event.
func (db *AuditDB) Record(ev *staking.Event) error {
	var (
		staker    []byte
		depositID []byte
		amount    sql.NullString
	)
	if ev.Staker != nil {
		staker = ev.Staker.Bytes()
	}
	if ev.DepositID != nil {
		depositID = ev.DepositID.Bytes()
	}
	if ev.Amount != nil {
		amount = sql.NullString{String: ev.Amount.String(), Valid: true}
	}

	_, err := db.db.Exec(
		"INSERT INTO event(type, ts, epoch, staker, depositID, amount) VALUES(?,?,?,?,?,?)",
		string(ev.Type), int64(ev.Time), int64(ev.Epoch), staker, depositID, amount,
	)
	if err != nil {
		return errors.Wrap(err, "failed to record event")
	}
	return nil
}

// RecordedEvent is one persisted event plus its sequence number.
type RecordedEvent struct {
	Seq       int64
	Type      staking.EventType
	Time      uint64
	Epoch     uint32
	Staker    *stakehive.Address
	DepositID *stakehive.Bytes32
	Amount    *big.Int
}

// EventFilter narrows a query; nil criteria match everything.
type EventFilter struct {
	Type   *staking.EventType
	Staker *stakehive.Address
	Epoch  *uint32
	Offset uint64
	Limit  uint32
}

// Filter queries recorded events in sequence order.
func (db *AuditDB) Filter(ctx context.Context, filter *EventFilter) ([]*RecordedEvent, error) {
	stmt := "SELECT seq, type, ts, epoch, staker, depositID, amount FROM event WHERE 1"
	var args []any
	if filter != nil {
		if filter.Type != nil {
			stmt += " AND type = ?"
			args = append(args, string(*filter.Type))
		}
		if filter.Staker != nil {
			stmt += " AND staker = ?"
			args = append(args, filter.Staker.Bytes())
		}
		if filter.Epoch != nil {
			stmt += " AND epoch = ?"
			args = append(args, int64(*filter.Epoch))
		}
	}
	stmt += " ORDER BY seq"
	if filter != nil && filter.Limit > 0 {
		stmt += " LIMIT ? OFFSET ?"
		args = append(args, int64(filter.Limit), int64(filter.Offset)) //#nosec G115
	}

	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query events")
	}
	defer rows.Close()

	var events []*RecordedEvent
	for rows.Next() {
		var (
			ev        RecordedEvent
			evType    string
			ts        int64
			epochID   int64
			staker    []byte
			depositID []byte
			amount    sql.NullString
		)
		if err := rows.Scan(&ev.Seq, &evType, &ts, &epochID, &staker, &depositID, &amount); err != nil {
			return nil, errors.Wrap(err, "failed to scan event")
		}
		ev.Type = staking.EventType(evType)
		ev.Time = uint64(ts)    //#nosec G115
		ev.Epoch = uint32(epochID) //#nosec G115
		if len(staker) > 0 {
			addr := stakehive.BytesToAddress(staker)
			ev.Staker = &addr
		}
		if len(depositID) > 0 {
			id := stakehive.BytesToBytes32(depositID)
			ev.DepositID = &id
		}
		if amount.Valid {
			ev.Amount, _ = new(big.Int).SetString(amount.String, 10)
		}
		events = append(events, &ev)
	}
	return events, rows.Err()
}

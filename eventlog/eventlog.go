// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventlog persists prover manager events in sqlite for querying.
package eventlog

import (
	"context"
	"database/sql"
	"math/big"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/xiaodino/minimal-rollup/builtin/prover"
	"github.com/xiaodino/minimal-rollup/rollup"
)

type EventLog struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New creates or opens the event log at the given path.
func New(path string) (el *EventLog, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if el == nil {
			db.Close()
		}
	}()
	// a single connection keeps in-memory databases shared
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	driverVer, _, _ := sqlite3.Version()
	return &EventLog{path, db, driverVer}, nil
}

// NewMem creates an event log in memory.
func NewMem() (*EventLog, error) {
	return New(":memory:")
}

func (el *EventLog) Close() error {
	return el.db.Close()
}

func (el *EventLog) Path() string {
	return el.path
}

// Write stores the events emitted by one call in a single transaction.
func (el *EventLog) Write(blockNumber, blockTime uint64, events []*prover.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := el.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO event(blockNumber, blockTime, name, periodID, account, counterparty, amount, fee, endTime, deadlineTime)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.Exec(
			blockNumber,
			blockTime,
			ev.Name,
			ev.PeriodID,
			ev.Account.Bytes(),
			ev.Counterparty.Bytes(),
			amountValue(ev.Amount),
			amountValue(ev.Fee),
			ev.End,
			ev.Deadline,
		); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "insert %s", ev.Name)
		}
	}
	return tx.Commit()
}

// Filter returns the events matching filter, ordered by their sequence.
func (el *EventLog) Filter(ctx context.Context, filter *Filter) ([]*Event, error) {
	const query = "SELECT seq, blockNumber, blockTime, name, periodID, account, counterparty, amount, fee, endTime, deadlineTime FROM event"
	if filter == nil {
		return el.query(ctx, query+" ORDER BY seq ASC")
	}

	var (
		args []any
		cond []string
	)
	if filter.Range != nil {
		cond = append(cond, "blockNumber >= ?")
		args = append(args, filter.Range.From)
		if filter.Range.To >= filter.Range.From {
			cond = append(cond, "blockNumber <= ?")
			args = append(args, filter.Range.To)
		}
	}
	if len(filter.Names) > 0 {
		cond = append(cond, "name IN (?"+strings.Repeat(",?", len(filter.Names)-1)+")")
		for _, name := range filter.Names {
			args = append(args, name)
		}
	}
	if filter.Account != nil {
		cond = append(cond, "(account = ? OR counterparty = ?)")
		args = append(args, filter.Account.Bytes(), filter.Account.Bytes())
	}
	if filter.PeriodID != nil {
		cond = append(cond, "periodID = ?")
		args = append(args, *filter.PeriodID)
	}

	stmt := query
	if len(cond) > 0 {
		stmt += " WHERE " + strings.Join(cond, " AND ")
	}
	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}
	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	metricQueries().AddWithLabel(1, map[string]string{"order": string(orderOrDefault(filter.Order))})
	return el.query(ctx, stmt, args...)
}

func (el *EventLog) query(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := el.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			ev           = &Event{Event: &prover.Event{}}
			account      []byte
			counterparty []byte
			amount       []byte
			fee          []byte
		)
		if err := rows.Scan(
			&ev.Seq,
			&ev.BlockNumber,
			&ev.BlockTime,
			&ev.Name,
			&ev.PeriodID,
			&account,
			&counterparty,
			&amount,
			&fee,
			&ev.End,
			&ev.Deadline,
		); err != nil {
			return nil, err
		}
		ev.Account = rollup.BytesToAddress(account)
		ev.Counterparty = rollup.BytesToAddress(counterparty)
		ev.Amount = new(big.Int).SetBytes(amount)
		ev.Fee = new(big.Int).SetBytes(fee)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func amountValue(v *big.Int) []byte {
	if v == nil {
		return []byte{}
	}
	return v.Bytes()
}

func orderOrDefault(o Order) Order {
	if o == DESC {
		return DESC
	}
	return ASC
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventlog

const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	blockNumber INTEGER NOT NULL,
	blockTime INTEGER NOT NULL,
	name TEXT NOT NULL,
	periodID INTEGER NOT NULL,
	account BLOB(20) NOT NULL,
	counterparty BLOB(20) NOT NULL,
	amount BLOB,
	fee BLOB,
	endTime INTEGER NOT NULL,
	deadlineTime INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS event_i0 ON event(blockNumber);
CREATE INDEX IF NOT EXISTS event_i1 ON event(name);
CREATE INDEX IF NOT EXISTS event_i2 ON event(account);
CREATE INDEX IF NOT EXISTS event_i3 ON event(periodID);
`

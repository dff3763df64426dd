// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages native balances and component storage.
// It follows the flow as bellow:
//
//	         o
//	         |
//	[ revertable state ]
//	         |
//	  [ stacked map ] -> [ journal ] -> [ playback(staging) ] -> [ kv batch ]
//	         |
//	  [ kv buckets ]
//
// Every mutating call runs between NewCheckpoint and either RevertTo or a Stage commit,
// so a failed call never leaves partial writes behind.
package state

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package prover

import (
	"github.com/xiaodino/minimal-rollup/builtin/prover/ledger"
	"github.com/xiaodino/minimal-rollup/builtin/reverts"
)

var (
	ErrInsufficientFunds  = ledger.ErrInsufficientFunds
	ErrTransferFailed     = ledger.ErrTransferFailed
	ErrInsufficientBond   = reverts.New("insufficient balance for liveness bond")
	ErrInvalidAmount      = reverts.New("invalid amount")
	ErrInvalidPublication = reverts.New("invalid publication")
	ErrTooEarly           = reverts.New("too early")
	ErrTooLate            = reverts.New("too late")
	ErrUnauthorized       = reverts.New("unauthorized")
	ErrAlreadyClosing     = reverts.New("period already closing")
	ErrAlreadyClaimed     = reverts.New("period already claimed")
	ErrInvalidTransition  = reverts.New("invalid state transition")
	ErrNoProver           = reverts.New("period has no prover")
	ErrAlreadyInitialized = reverts.New("already initialized")
)

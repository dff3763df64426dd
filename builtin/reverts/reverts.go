// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts defines the errors which abort a call as a whole.
// A revert is an expected, caller-facing failure; any other error returned
// from a built-in component indicates a storage or programming fault.
package reverts

import (
	"errors"
	"fmt"
)

type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

type detailed struct {
	revert *ErrRevert
	detail string
}

func (d *detailed) Error() string {
	return d.revert.message + ": " + d.detail
}

func (d *detailed) Unwrap() error {
	return d.revert
}

// Errorf annotates a revert with call specific details. The result still matches
// the revert with errors.Is.
func Errorf(revert *ErrRevert, format string, args ...any) error {
	return &detailed{revert: revert, detail: fmt.Sprintf(format, args...)}
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

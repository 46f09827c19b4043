// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package jsonrpc

import "fmt"

const (
	codeInvalidParams = -32602
	codeServerError   = -32000
	codeTxRejected    = -32010
)

// Error is a json-rpc error carrying its error code.
type Error struct {
	code int
	msg  string
}

func (e *Error) Error() string  { return e.msg }
func (e *Error) ErrorCode() int { return e.code }

func invalidParams(format string, args ...any) error {
	return &Error{codeInvalidParams, fmt.Sprintf(format, args...)}
}

func serverError(err error) error {
	return &Error{codeServerError, err.Error()}
}

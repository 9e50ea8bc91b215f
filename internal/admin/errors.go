// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package admin

import "errors"

var (
	// ErrSelfTarget indicates a staff member aimed a protected action at
	// their own record.
	ErrSelfTarget = errors.New("cannot target your own account")

	// ErrZeroDelta indicates a currency adjustment of zero.
	ErrZeroDelta = errors.New("currency adjustment cannot be zero")
)

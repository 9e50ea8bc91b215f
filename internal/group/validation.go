// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package group

import (
	"strings"

	"github.com/samber/oops"
)

// Wall post body length bounds, applied after trimming surrounding
// whitespace. Both bounds are inclusive and counted in bytes.
const (
	MinWallPostLen = 3
	MaxWallPostLen = 150
)

// ValidateWallPostBody trims the submitted body and checks its length.
// It returns the trimmed body that should be stored.
func ValidateWallPostBody(body string) (string, error) {
	trimmed := strings.TrimSpace(body)
	if len(trimmed) < MinWallPostLen || len(trimmed) > MaxWallPostLen {
		return "", oops.Code("WALL_POST_INVALID_BODY").
			With("length", len(trimmed)).
			With("min", MinWallPostLen).
			With("max", MaxWallPostLen).
			Wrap(ErrInvalidBody)
	}
	return trimmed, nil
}

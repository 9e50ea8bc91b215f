// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

// Package htmltext shapes user-submitted text for HTML presentation.
//
// Fields destined for HTML output are escaped and have line breaks
// normalized to <br /> tags; fields destined for JSON pass through the
// shaping layer untouched.
package htmltext

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// FormatBody escapes the text for HTML and converts line breaks to <br />
// tags. CRLF and lone CR are normalized to LF before conversion so the
// output is identical regardless of the submitting client.
func FormatBody(s string) string {
	escaped := html.EscapeString(s)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	escaped = strings.ReplaceAll(escaped, "\r", "\n")
	return strings.ReplaceAll(escaped, "\n", "<br />")
}

// TimeAgo renders the elapsed time since t as a short human phrase,
// e.g. "5 minutes ago". Future timestamps render as "just now".
func TimeAgo(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	case d < 30*24*time.Hour:
		return plural(int(d.Hours()/24), "day")
	case d < 365*24*time.Hour:
		return plural(int(d.Hours()/(24*30)), "month")
	default:
		return plural(int(d.Hours()/(24*365)), "year")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

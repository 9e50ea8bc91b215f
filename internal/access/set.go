// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package access

import "strings"

// Set is a fixed-width record of granted capabilities, one bit per
// Capability. The zero value grants nothing.
type Set uint32

// NewSet builds a Set granting exactly the given capabilities.
func NewSet(caps ...Capability) Set {
	var s Set
	for _, c := range caps {
		s = s.Grant(c)
	}
	return s
}

// FullSet returns a Set granting every capability.
func FullSet() Set {
	return NewSet(All()...)
}

// Has reports whether the capability is granted.
func (s Set) Has(c Capability) bool {
	if !c.Valid() {
		return false
	}
	return s&(1<<c) != 0
}

// HasAny reports whether at least one of the capabilities is granted.
// Evaluation short-circuits on the first satisfied clause.
// An empty requirement is never satisfied.
func (s Set) HasAny(caps ...Capability) bool {
	for _, c := range caps {
		if s.Has(c) {
			return true
		}
	}
	return false
}

// Grant returns a copy of the set with the capability enabled.
func (s Set) Grant(c Capability) Set {
	if !c.Valid() {
		return s
	}
	return s | (1 << c)
}

// Revoke returns a copy of the set with the capability disabled.
func (s Set) Revoke(c Capability) Set {
	if !c.Valid() {
		return s
	}
	return s &^ (1 << c)
}

// Capabilities returns the granted capabilities in enumeration order.
func (s Set) Capabilities() []Capability {
	var caps []Capability
	for _, c := range All() {
		if s.Has(c) {
			caps = append(caps, c)
		}
	}
	return caps
}

// IsEmpty reports whether no capability is granted.
func (s Set) IsEmpty() bool {
	return s == 0
}

// String lists the granted capability names, comma separated.
func (s Set) String() string {
	caps := s.Capabilities()
	names := make([]string, len(caps))
	for i, c := range caps {
		names[i] = c.String()
	}
	return strings.Join(names, ",")
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package identity

import "context"

type actorKey struct{}

// WithActor returns a context carrying the acting identity.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// CurrentActor returns the acting identity from the context, or Anonymous
// when none was attached.
func CurrentActor(ctx context.Context) Actor {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	if !ok {
		return Anonymous
	}
	return actor
}

package auth

import (
	"context"

	"google.golang.org/grpc/metadata"
)

// SystemActor is recorded when a write carries no caller identity.
const SystemActor = "system"

type actorKey struct{}

// WithActor stores the acting identity on ctx.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActorID returns the identity set by WithActor, falling back to the
// x-user-id gRPC metadata header. Empty when neither is present.
func GetActorID(ctx context.Context) string {
	if val, ok := ctx.Value(actorKey{}).(string); ok && val != "" {
		return val
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if val := md.Get("x-user-id"); len(val) > 0 {
			return val[0]
		}
	}
	return ""
}

// ActorOrSystem resolves explicit first, then ctx, then SystemActor.
func ActorOrSystem(ctx context.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if actor := GetActorID(ctx); actor != "" {
		return actor
	}
	return SystemActor
}

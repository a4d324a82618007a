package domain

import "context"

// RegistryPort defines the channel registry surface
type RegistryPort interface {
	// Resolve maps a stored channel id, a stored name, or a built-in registry name to a Channel
	Resolve(ctx context.Context, ref string) (Channel, error)
	// Upsert inserts or updates a channel; virtual channels default ID to Name
	Upsert(ctx context.Context, ch Channel) error
	// List returns all stored channels ordered by name
	List(ctx context.Context) ([]Channel, error)
	// Seed installs built-in channels that are not already stored
	Seed(ctx context.Context) error
}

package entity

import "context"

// Repository is the key-value entity store the materializer writes into.
// Apply must write the whole change set or nothing where the backend allows it.
type Repository interface {
	Get(ctx context.Context, key Key) ([]byte, bool, error)
	Apply(ctx context.Context, changes ChangeSet) error
}

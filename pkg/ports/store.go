package ports

import (
	"context"

	"github.com/aretw0/automaton/pkg/schema"
)

// DesignStore persists automaton designs by id.
type DesignStore interface {
	// Save stores the code under id, replacing any previous version.
	Save(ctx context.Context, id string, code *schema.Code) error

	// Load retrieves the design with the given id.
	// Returns domain.ErrDesignNotFound if the design does not exist.
	Load(ctx context.Context, id string) (*schema.Code, error)

	// Delete removes the design. Deleting a missing design is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the ids of every stored design.
	List(ctx context.Context) ([]string, error)
}

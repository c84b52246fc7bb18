package middleware

import (
	"context"
	"fmt"

	"github.com/aretw0/automaton/pkg/ports"
	"github.com/aretw0/automaton/pkg/schema"
)

type validationMiddleware struct {
	next ports.DesignStore
}

// NewValidationMiddleware rejects invalid code on Save and reports stored code
// that no longer validates on Load, naming the design.
func NewValidationMiddleware() Middleware {
	return func(next ports.DesignStore) ports.DesignStore {
		return &validationMiddleware{next: next}
	}
}

func (m *validationMiddleware) Save(ctx context.Context, id string, code *schema.Code) error {
	if err := schema.Validate(code); err != nil {
		return fmt.Errorf("design %s: %w", id, err)
	}
	return m.next.Save(ctx, id, code)
}

func (m *validationMiddleware) Load(ctx context.Context, id string) (*schema.Code, error) {
	code, err := m.next.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(code); err != nil {
		return nil, fmt.Errorf("stored design %s is corrupt: %w", id, err)
	}
	return code, nil
}

func (m *validationMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *validationMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

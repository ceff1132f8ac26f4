// README: Operator lookups with masked contact details.
package operator

import (
	"context"
	"fmt"

	"charterdesk/internal/types"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Profile returns the operator with its contact masked.
func (s *Service) Profile(ctx context.Context, id types.ID) (*Profile, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("operator %s: %w", id, err)
	}
	p.Contact = MaskContact(p.Contact)
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]Profile, error) {
	ps, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range ps {
		ps[i].Contact = MaskContact(ps[i].Contact)
	}
	return ps, nil
}

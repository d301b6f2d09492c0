package memory

import (
	"context"

	"github.com/jhoicas/posync/internal/domain"
	"github.com/jhoicas/posync/internal/domain/entity"
	"github.com/jhoicas/posync/internal/domain/repository"
)

var _ repository.BusinessRepository = (*BusinessRepo)(nil)

// BusinessRepo negocios en memoria.
type BusinessRepo struct {
	s *Store
}

// NewBusinessRepository construye el repositorio.
func NewBusinessRepository(s *Store) *BusinessRepo {
	return &BusinessRepo{s: s}
}

func (r *BusinessRepo) GetByID(_ context.Context, id string) (*entity.Business, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.businesses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *b
	return &c, nil
}

func (r *BusinessRepo) GetByMerchantID(_ context.Context, merchantID string) (*entity.Business, error) {
	if merchantID == "" {
		return nil, nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.businesses {
		if b.SquareMerchantID == merchantID {
			c := *b
			return &c, nil
		}
	}
	return nil, nil
}

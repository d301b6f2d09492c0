package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/posync/internal/domain"
	"github.com/jhoicas/posync/internal/domain/entity"
	"github.com/jhoicas/posync/internal/domain/repository"
)

var _ repository.BusinessRepository = (*BusinessRepo)(nil)

// BusinessRepo lectura de negocios sobre PostgreSQL.
type BusinessRepo struct {
	q Querier
}

// NewBusinessRepository construye el adaptador. Acepta pool o tx (Querier).
func NewBusinessRepository(q Querier) *BusinessRepo {
	return &BusinessRepo{q: q}
}

const businessColumns = `id, name, square_access_token, square_merchant_id, square_token_expires_at, created_at, updated_at`

func (r *BusinessRepo) scan(row interface{ Scan(...any) error }) (*entity.Business, error) {
	var b entity.Business
	err := row.Scan(&b.ID, &b.Name, &b.SquareAccessToken, &b.SquareMerchantID,
		&b.SquareTokenExpiresAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BusinessRepo) GetByID(ctx context.Context, id string) (*entity.Business, error) {
	b, err := r.scan(r.q.QueryRow(ctx, `SELECT `+businessColumns+` FROM businesses WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get business: %w", err)
	}
	return b, nil
}

func (r *BusinessRepo) GetByMerchantID(ctx context.Context, merchantID string) (*entity.Business, error) {
	if merchantID == "" {
		return nil, nil
	}
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE square_merchant_id = $1 ORDER BY created_at LIMIT 1`
	b, err := r.scan(r.q.QueryRow(ctx, query, merchantID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business by merchant: %w", err)
	}
	return b, nil
}

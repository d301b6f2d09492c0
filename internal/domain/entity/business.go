package entity

import "time"

// Business representa el negocio (tenant) conectado a un POS externo.
// El alta y la renovación del token pertenecen a colaboradores externos.
type Business struct {
	ID                   string
	Name                 string
	SquareAccessToken    string
	SquareMerchantID     string
	SquareTokenExpiresAt *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// HasPOSCredentials informa si el negocio puede consultar órdenes al POS.
func (b *Business) HasPOSCredentials() bool {
	return b != nil && b.SquareAccessToken != ""
}

package entity

import "time"

// ProcessedEvent registro de deduplicación por ID de orden externa.
// Su mera existencia significa que la orden nunca debe conciliarse de nuevo, sin importar ExpiresAt;
// ExpiresAt solo habilita el barrido periódico.
type ProcessedEvent struct {
	OrderID   string
	CreatedAt time.Time
	ExpiresAt time.Time
}

package entity

import "time"

// Estados del evento en la bandeja de entrada durable.
const (
	InboxStatusPending    = "PENDING"
	InboxStatusProcessing = "PROCESSING"
	InboxStatusDone       = "DONE"
	InboxStatusSkipped    = "SKIPPED"
	InboxStatusFailed     = "FAILED"
)

// InboxEvent evento crudo del POS persistido antes de responder al webhook.
// Se procesa de forma asíncrona; los estados terminales quedan para auditoría.
type InboxEvent struct {
	ID          string
	MerchantID  string
	OrderID     string
	EventType   string
	Payload     []byte
	Status      string
	Attempts    int
	LastError   string
	ReceivedAt  time.Time
	ClaimedAt   *time.Time
	ProcessedAt *time.Time
}

// Package queue defines message payloads exchanged over the message broker.
package queue

// AppointmentStatusChangedEvent is published when a provider changes an
// appointment's status. It carries enough context for downstream consumers
// (notifications, analytics) to act without querying the primary database.
type AppointmentStatusChangedEvent struct {
	AppointmentID uint64 `json:"appointment_id"`
	ProviderID    uint64 `json:"provider_id"`
	UserID        uint64 `json:"user_id"`
	ServiceName   string `json:"service_name"`
	OldStatus     string `json:"old_status"`
	NewStatus     string `json:"new_status"`
	ChangedAt     string `json:"changed_at"`
}

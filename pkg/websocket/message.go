package websocket

import "time"

// Envelope - это "конверт", в котором мы отправляем наши сообщения.
// Тип сообщения говорит фронтенду, что перечитать.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// MaintenanceUpdatePayload - что изменилось в заявке.
type MaintenanceUpdatePayload struct {
	RequestID        uint64  `json:"request_id"`
	Action           string  `json:"action"`
	Status           string  `json:"status"`
	OldStatus        string  `json:"old_status,omitempty"`
	AssignedToUserID *uint64 `json:"assigned_to_user_id,omitempty"`
	ActorUserID      uint64  `json:"actor_user_id"`
}

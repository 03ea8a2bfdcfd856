package websocketdto

import "ride-hail-accounts/internal/account-service/core/domain/models"

const (
	MessageTypeStatus   = "status"
	MessageTypeLocation = "location"
)

// DriverMessage is what a connected driver sends over the presence channel.
type DriverMessage struct {
	Type     string           `json:"type"`
	Status   string           `json:"status,omitempty"`
	Location *models.Location `json:"location,omitempty"`
}

// SocketAssigned is sent to the driver right after the upgrade.
type SocketAssigned struct {
	Type     string `json:"type"`
	SocketID string `json:"socket_id"`
}

// Ack confirms or rejects one DriverMessage.
type Ack struct {
	Type  string `json:"type"`
	Ok    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

package model

// WSMessageType represents the type of WebSocket message
type WSMessageType string

const (
	MessageTypeBotUpdate            WSMessageType = "bot_update"
	MessageTypeBotCreated           WSMessageType = "bot_created"
	MessageTypeExchangeConnected    WSMessageType = "exchange_connected"
	MessageTypeExchangeFailed       WSMessageType = "exchange_failed"
	MessageTypeExchangeDisconnected WSMessageType = "exchange_disconnected"
	MessageTypeNotification         WSMessageType = "notification"
)

// WSMessage is the envelope for all WebSocket messages
type WSMessage struct {
	Type    WSMessageType `json:"type"`
	Payload interface{}   `json:"payload"`
}

// NotificationPayload is a toast-style message
type NotificationPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant,omitempty"`
}

package amqp

import (
	"encoding/json"
	"time"
)

// ExportRequestMessage asks the export worker to copy one transaction to the
// spreadsheet. It carries only the ID; the worker fetches the full record
// from the backend so the sheet always gets the latest version.
type ExportRequestMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExportRequestMessage creates an export request for a transaction ID.
func NewExportRequestMessage(id int64) *ExportRequestMessage {
	return &ExportRequestMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExportRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExportRequestMessageFromJSON creates a message from JSON bytes
func ExportRequestMessageFromJSON(data []byte) (*ExportRequestMessage, error) {
	var msg ExportRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

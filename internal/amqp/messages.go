package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// SnapshotChangedMessage announces a committed snapshot revision. The worker
// reads the snapshot itself; the message only carries what changed and when.
type SnapshotChangedMessage struct {
	ID        string    `json:"id"`
	Revision  int64     `json:"revision"`
	Operation string    `json:"operation"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSnapshotChangedMessage(revision int64, operation string) *SnapshotChangedMessage {
	return &SnapshotChangedMessage{
		ID:        uuid.NewString(),
		Revision:  revision,
		Operation: operation,
		Timestamp: time.Now().UTC(),
	}
}

func (m *SnapshotChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SnapshotChangedMessageFromJSON decodes and validates a message body.
func SnapshotChangedMessageFromJSON(data []byte) (*SnapshotChangedMessage, error) {
	var msg SnapshotChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(msg.ID); err != nil {
		return nil, errors.New("message id is not a uuid")
	}
	if msg.Revision <= 0 {
		return nil, errors.New("message revision must be positive")
	}
	return &msg, nil
}

package amqp

import (
	"encoding/json"
	"time"
)

// SnapshotSyncedMessage announces that a user's snapshot reached the
// remote store. Consumers that need the snapshot body fetch it by user
// id; the message carries only the identity and content signature.
type SnapshotSyncedMessage struct {
	UserID    string    `json:"userId"`
	Signature string    `json:"signature"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSnapshotSyncedMessage creates a sync notification for one user.
func NewSnapshotSyncedMessage(userID, signature string) *SnapshotSyncedMessage {
	return &SnapshotSyncedMessage{
		UserID:    userID,
		Signature: signature,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *SnapshotSyncedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SnapshotSyncedMessageFromJSON creates a message from JSON bytes
func SnapshotSyncedMessageFromJSON(data []byte) (*SnapshotSyncedMessage, error) {
	var msg SnapshotSyncedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

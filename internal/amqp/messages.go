package amqp

import (
	"encoding/json"
	"time"
)

// TransactionSyncMessage asks the worker to mirror one locally stored
// transaction to the spreadsheet. It carries only the database ID; the worker
// fetches the full row from storage.
type TransactionSyncMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// TransactionDeleteMessage asks the worker to remove the row at the given
// ordinal index from the spreadsheet mirror.
type TransactionDeleteMessage struct {
	Index     int       `json:"index"`
	Timestamp time.Time `json:"timestamp"`
}

// envelope wraps both message kinds so they can share one queue.
type envelope struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

const (
	kindSync   = "sync"
	kindDelete = "delete"
)

func NewTransactionSyncMessage(id int64) *TransactionSyncMessage {
	return &TransactionSyncMessage{ID: id, Timestamp: time.Now()}
}

func NewTransactionDeleteMessage(index int) *TransactionDeleteMessage {
	return &TransactionDeleteMessage{Index: index, Timestamp: time.Now()}
}

func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	payload, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Kind: kindSync, Payload: payload})
}

func (m *TransactionDeleteMessage) ToJSON() ([]byte, error) {
	payload, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Kind: kindDelete, Payload: payload})
}

// decodeMessage unwraps an envelope into exactly one of the message kinds.
func decodeMessage(data []byte) (*TransactionSyncMessage, *TransactionDeleteMessage, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, nil, err
	}
	switch env.Kind {
	case kindSync:
		var msg TransactionSyncMessage
		if err := json.Unmarshal(env.Payload, &msg); err != nil {
			return nil, nil, err
		}
		return &msg, nil, nil
	case kindDelete:
		var msg TransactionDeleteMessage
		if err := json.Unmarshal(env.Payload, &msg); err != nil {
			return nil, nil, err
		}
		return nil, &msg, nil
	default:
		return nil, nil, errUnknownKind(env.Kind)
	}
}

type errUnknownKind string

func (e errUnknownKind) Error() string {
	return "unknown message kind: " + string(e)
}

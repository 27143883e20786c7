package ws

import (
	"encoding/json"
	"fmt"
)

// MessageType names both the commands clients send and the messages the
// server pushes back.
type MessageType string

const (
	// Client commands.
	MessageTypeConnect  MessageType = "CONNECT"
	MessageTypeMakeMove MessageType = "MAKE_MOVE"
	MessageTypeLeave    MessageType = "LEAVE"
	MessageTypeResign   MessageType = "RESIGN"

	// Server messages.
	MessageTypeLoadGame     MessageType = "LOAD_GAME"
	MessageTypeNotification MessageType = "NOTIFICATION"
	MessageTypeError        MessageType = "ERROR"
)

// Message is the envelope for everything sent over a game socket.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// TextPayload carries a human readable notification or error.
type TextPayload struct {
	Message string `json:"message"`
}

// NewMessage wraps payload in an envelope. It panics if payload cannot be
// encoded; every payload sent by the server is a plain struct.
func NewMessage(t MessageType, payload any) Message {
	if payload == nil {
		return Message{Type: t}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		panic(fmt.Sprintf("ws: encode %s payload: %v", t, err))
	}
	return Message{Type: t, Payload: data}
}

func Notification(format string, args ...any) Message {
	return NewMessage(MessageTypeNotification, TextPayload{Message: fmt.Sprintf(format, args...)})
}

func Error(err error) Message {
	return NewMessage(MessageTypeError, TextPayload{Message: err.Error()})
}

// Text decodes the payload of a notification or error message.
func (m Message) Text() (string, error) {
	var p TextPayload
	if err := json.Unmarshal(m.Payload, &p); err != nil {
		return "", fmt.Errorf("decode %s payload: %w", m.Type, err)
	}
	return p.Message, nil
}

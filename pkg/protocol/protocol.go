// Package protocol defines the wire protocol of the builder preview
// channel. The preview shell sends widget events up; the server answers
// with re-rendered widget markup and, after a submit, the outcome.
package protocol

import "time"

// MessageType identifies the type of preview message.
type MessageType uint8

const (
	// MsgEvent carries a widget interaction from the preview shell.
	MsgEvent MessageType = iota
	// MsgRender carries re-rendered widget markup to the shell.
	MsgRender
	// MsgOutcome carries the result of a submit event.
	MsgOutcome
	// MsgError reports a handling failure.
	MsgError
	// MsgHeartbeat keeps the connection alive.
	MsgHeartbeat
)

// String returns a string representation of the message type.
func (mt MessageType) String() string {
	switch mt {
	case MsgEvent:
		return "event"
	case MsgRender:
		return "render"
	case MsgOutcome:
		return "outcome"
	case MsgError:
		return "error"
	case MsgHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// Message is one frame on the preview channel.
type Message struct {
	// Type is the message type.
	Type MessageType `json:"type" msgpack:"type"`

	// FormID identifies the previewed form.
	FormID string `json:"formId,omitempty" msgpack:"form_id,omitempty"`

	// Event is the widget event name for MsgEvent frames.
	Event string `json:"event,omitempty" msgpack:"event,omitempty"`

	// Payload carries event data (field id, value).
	Payload map[string]any `json:"payload,omitempty" msgpack:"payload,omitempty"`

	// HTML is the re-rendered widget markup for MsgRender frames.
	HTML string `json:"html,omitempty" msgpack:"html,omitempty"`

	// Outcome is the submit outcome kind for MsgOutcome frames.
	Outcome string `json:"outcome,omitempty" msgpack:"outcome,omitempty"`

	// Values carries accepted submission values for MsgOutcome frames.
	Values map[string]string `json:"values,omitempty" msgpack:"values,omitempty"`

	// Error is the failure description for MsgError frames.
	Error string `json:"error,omitempty" msgpack:"error,omitempty"`

	// Timestamp is when the message was created.
	Timestamp time.Time `json:"ts" msgpack:"ts"`
}

// NewEvent creates an event frame.
func NewEvent(formID, event string, payload map[string]any) *Message {
	return &Message{
		Type:      MsgEvent,
		FormID:    formID,
		Event:     event,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// NewRender creates a render frame.
func NewRender(formID, html string) *Message {
	return &Message{
		Type:      MsgRender,
		FormID:    formID,
		HTML:      html,
		Timestamp: time.Now(),
	}
}

// NewOutcome creates an outcome frame.
func NewOutcome(formID, outcome string, values map[string]string) *Message {
	return &Message{
		Type:      MsgOutcome,
		FormID:    formID,
		Outcome:   outcome,
		Values:    values,
		Timestamp: time.Now(),
	}
}

// NewError creates an error frame.
func NewError(formID string, err error) *Message {
	return &Message{
		Type:      MsgError,
		FormID:    formID,
		Error:     err.Error(),
		Timestamp: time.Now(),
	}
}

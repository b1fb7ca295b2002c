package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedMessage is returned for frames that are not a JSON envelope.
var ErrMalformedMessage = errors.New("malformed message")

// Kind is the closed set of inbound message kinds the client understands.
type Kind int

const (
	KindUnknown Kind = iota
	KindWelcome
	KindJoinedRoom
	KindRoomUpdate
	KindPlayerJoined
	KindPlayerLeft
	KindGameUpdate
	KindChat
	KindError
)

// Wire names of inbound messages.
const (
	TypeWelcome      = "welcome"
	TypeJoinedRoom   = "joinedRoom"
	TypeRoomUpdate   = "roomUpdate"
	TypePlayerJoined = "playerJoined"
	TypePlayerLeft   = "playerLeft"
	TypeGameUpdate   = "gameUpdate"
	TypeChat         = "chat"
	TypeError        = "error"
)

var kindsByType = map[string]Kind{
	TypeWelcome:      KindWelcome,
	TypeJoinedRoom:   KindJoinedRoom,
	TypeRoomUpdate:   KindRoomUpdate,
	TypePlayerJoined: KindPlayerJoined,
	TypePlayerLeft:   KindPlayerLeft,
	TypeGameUpdate:   KindGameUpdate,
	TypeChat:         KindChat,
	TypeError:        KindError,
}

func (k Kind) String() string {
	for t, kind := range kindsByType {
		if kind == k {
			return t
		}
	}
	return "unknown"
}

// Envelope is the {type, data} shape shared by every frame in both directions.
type Envelope struct {
	Type string          `json:"type" jsonschema:"required"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Message is a parsed inbound frame. Data is left raw; the reconciler decodes
// it with the payload decoder matching Kind.
type Message struct {
	Kind Kind
	Type string
	Data json.RawMessage
}

// Parse decodes a raw text frame. Unknown types are not an error: they come
// back as KindUnknown so newer servers do not break older clients.
func Parse(raw []byte) (Message, error) {
	var env Envelope
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&env); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if dec.More() {
		return Message{}, fmt.Errorf("%w: trailing data after envelope", ErrMalformedMessage)
	}
	if env.Type == "" {
		return Message{}, fmt.Errorf("%w: missing type", ErrMalformedMessage)
	}
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		env.Data = json.RawMessage(`{}`)
	}
	return Message{Kind: kindsByType[env.Type], Type: env.Type, Data: env.Data}, nil
}

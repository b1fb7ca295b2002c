package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// OutgoingPayloads lists the data shapes the client sends, keyed by type.
type OutgoingPayloads struct {
	JoinRoom   JoinRoomRequest  `json:"joinRoom"`
	LeaveRoom  LeaveRoomRequest `json:"leaveRoom"`
	StartGame  StartGameRequest `json:"startGame"`
	GameAction ActionRequest    `json:"gameAction"`
	Chat       ChatRequest      `json:"chat"`
}

// IncomingPayloads lists the data shapes the client accepts, keyed by type.
type IncomingPayloads struct {
	Welcome      Welcome      `json:"welcome"`
	JoinedRoom   JoinedRoom   `json:"joinedRoom"`
	RoomUpdate   RoomUpdate   `json:"roomUpdate"`
	PlayerJoined PlayerJoined `json:"playerJoined"`
	PlayerLeft   PlayerLeft   `json:"playerLeft"`
	GameUpdate   GameUpdate   `json:"gameUpdate"`
	Chat         ChatIn       `json:"chat"`
	Error        ErrorIn      `json:"error"`
}

// WireCatalog is the root document described by Schema.
type WireCatalog struct {
	Outgoing OutgoingPayloads `json:"outgoing" jsonschema:"description=Payloads carried in the data field of client frames"`
	Incoming IncomingPayloads `json:"incoming" jsonschema:"description=Payloads carried in the data field of server frames"`
}

// Schema reflects the wire payloads into a JSON Schema document.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(new(WireCatalog))
	schema.Title = "Poker room wire protocol"
	schema.Description = "Every frame is {type, data}; data matches the entry named by type"
	return schema
}

// SchemaJSON returns the indented schema document.
func SchemaJSON() ([]byte, error) {
	data, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}

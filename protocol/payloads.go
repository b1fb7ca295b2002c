package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/pokerroom/client/domain/room"
)

// Welcome is sent by the server right after the transport opens.
type Welcome struct {
	ClientID string `json:"clientId"`
}

// JoinedRoom confirms a join and carries the full room snapshot.
type JoinedRoom struct {
	RoomID   string            `json:"roomId"`
	PlayerID string            `json:"playerId"`
	Room     room.RoomSnapshot `json:"room"`
}

// RoomUpdate carries a replacement room snapshot.
type RoomUpdate struct {
	Room room.RoomSnapshot `json:"room"`
}

// PlayerJoined is informational; membership truth comes from snapshots.
type PlayerJoined struct {
	Player room.PlayerSummary `json:"player"`
}

// PlayerLeft is informational and carries no fields.
type PlayerLeft struct{}

// GameUpdate carries a replacement game snapshot and, optionally, the action
// that produced it.
type GameUpdate struct {
	GameState room.GameStateSnapshot `json:"gameState"`
	PlayerID  string                 `json:"playerId,omitempty"`
	Action    string                 `json:"action,omitempty"`
}

// ChatIn is a chat line relayed by the server.
type ChatIn struct {
	PlayerName string `json:"playerName"`
	Text       string `json:"text"`
}

// ErrorIn is a server-side rejection.
type ErrorIn struct {
	Error string `json:"error"`
}

func decode[T any](m Message, want Kind) (T, error) {
	var v T
	if m.Kind != want {
		return v, fmt.Errorf("decode %s payload from %s message", want, m.Type)
	}
	if err := json.Unmarshal(m.Data, &v); err != nil {
		return v, fmt.Errorf("%w: %s payload: %v", ErrMalformedMessage, m.Type, err)
	}
	return v, nil
}

func DecodeWelcome(m Message) (Welcome, error) { return decode[Welcome](m, KindWelcome) }

func DecodeJoinedRoom(m Message) (JoinedRoom, error) { return decode[JoinedRoom](m, KindJoinedRoom) }

func DecodeRoomUpdate(m Message) (RoomUpdate, error) { return decode[RoomUpdate](m, KindRoomUpdate) }

func DecodePlayerJoined(m Message) (PlayerJoined, error) {
	return decode[PlayerJoined](m, KindPlayerJoined)
}

func DecodePlayerLeft(m Message) (PlayerLeft, error) { return decode[PlayerLeft](m, KindPlayerLeft) }

func DecodeGameUpdate(m Message) (GameUpdate, error) { return decode[GameUpdate](m, KindGameUpdate) }

func DecodeChat(m Message) (ChatIn, error) { return decode[ChatIn](m, KindChat) }

func DecodeError(m Message) (ErrorIn, error) { return decode[ErrorIn](m, KindError) }

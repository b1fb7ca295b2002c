package protocol

import (
	"encoding/json"
	"fmt"
)

// Wire names of outbound messages.
const (
	TypeJoinRoom   = "joinRoom"
	TypeLeaveRoom  = "leaveRoom"
	TypeStartGame  = "startGame"
	TypeGameAction = "gameAction"
	TypeChatOut    = "chat"
)

// ActionType is a poker action the local player may request.
type ActionType string

const (
	ActionFold  ActionType = "fold"
	ActionCheck ActionType = "check"
	ActionCall  ActionType = "call"
	ActionBet   ActionType = "bet"
	ActionRaise ActionType = "raise"
	ActionAllIn ActionType = "allin"
)

// ParseActionType converts a string to an ActionType.
func ParseActionType(s string) (ActionType, error) {
	switch a := ActionType(s); a {
	case ActionFold, ActionCheck, ActionCall, ActionBet, ActionRaise, ActionAllIn:
		return a, nil
	default:
		return "", fmt.Errorf("unknown action: %s", s)
	}
}

// NeedsAmount reports whether the action carries a locally chosen amount.
func (a ActionType) NeedsAmount() bool {
	return a == ActionBet || a == ActionRaise
}

type JoinRoomRequest struct {
	RoomID     string `json:"roomId" jsonschema:"required"`
	PlayerName string `json:"playerName" jsonschema:"required"`
}

type LeaveRoomRequest struct {
	RoomID string `json:"roomId" jsonschema:"required"`
}

type StartGameRequest struct {
	RoomID string `json:"roomId" jsonschema:"required"`
}

// ActionRequest is built locally, sent, and never stored.
type ActionRequest struct {
	Action ActionType `json:"action" jsonschema:"required,enum=fold,enum=check,enum=call,enum=bet,enum=raise,enum=allin"`
	Amount int        `json:"amount" jsonschema:"minimum=0"`
}

type ChatRequest struct {
	Text       string `json:"text" jsonschema:"required"`
	PlayerName string `json:"playerName"`
}

func encode(msgType string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", msgType, err)
	}
	return json.Marshal(Envelope{Type: msgType, Data: raw})
}

func JoinRoom(roomID, playerName string) ([]byte, error) {
	return encode(TypeJoinRoom, JoinRoomRequest{RoomID: roomID, PlayerName: playerName})
}

func LeaveRoom(roomID string) ([]byte, error) {
	return encode(TypeLeaveRoom, LeaveRoomRequest{RoomID: roomID})
}

func StartGame(roomID string) ([]byte, error) {
	return encode(TypeStartGame, StartGameRequest{RoomID: roomID})
}

func GameAction(req ActionRequest) ([]byte, error) {
	if req.Amount < 0 {
		return nil, fmt.Errorf("encode %s: negative amount %d", TypeGameAction, req.Amount)
	}
	return encode(TypeGameAction, req)
}

func Chat(text, playerName string) ([]byte, error) {
	return encode(TypeChatOut, ChatRequest{Text: text, PlayerName: playerName})
}

package protocol

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParse_Malformed(t *testing.T) {
	for _, raw := range []string{"{not json", "", "[1,2]", `{"data":{}}`, `null`, `{"type":"chat"} {"type":"chat"}`} {
		_, err := Parse([]byte(raw))
		if !errors.Is(err, ErrMalformedMessage) {
			t.Fatalf("%q: expected ErrMalformedMessage, got %v", raw, err)
		}
	}
}

func TestParse_UnknownKindIsNotAnError(t *testing.T) {
	m, err := Parse([]byte(`{"type":"tournamentStarted","data":{"level":3}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Kind != KindUnknown || m.Type != "tournamentStarted" {
		t.Fatalf("unexpected message %+v", m)
	}
}

func TestParse_MissingDataDefaultsToEmptyObject(t *testing.T) {
	m, err := Parse([]byte(`{"type":"playerLeft"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Kind != KindPlayerLeft {
		t.Fatalf("expected playerLeft, got %v", m.Kind)
	}
	if _, err := DecodePlayerLeft(m); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
}

func TestDecodeGameUpdate(t *testing.T) {
	raw := `{"type":"gameUpdate","data":{"playerId":"p2","action":"raise","gameState":{
		"pot":300,"currentBet":200,"bigBlind":100,"minRaise":100,"dealerIndex":1,
		"currentPlayerId":"p1","communityCards":[{"suit":2,"rank":10}],
		"players":[{"id":"p1","name":"Alice","seatPosition":0,"chips":900,"currentBet":100,"isFolded":false}],
		"handComplete":false}}}`
	m, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	gu, err := DecodeGameUpdate(m)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if gu.Action != "raise" || gu.PlayerID != "p2" {
		t.Fatalf("unexpected actor %q/%q", gu.PlayerID, gu.Action)
	}
	if gu.GameState.CurrentBet != 200 || len(gu.GameState.Players) != 1 {
		t.Fatalf("unexpected game state %+v", gu.GameState)
	}
	if gu.GameState.CommunityCards[0].Display != "10♥" {
		t.Fatalf("expected engine card to be normalised, got %+v", gu.GameState.CommunityCards[0])
	}
}

func TestDecode_WrongKind(t *testing.T) {
	m := Message{Kind: KindChat, Type: TypeChat, Data: json.RawMessage(`{}`)}
	if _, err := DecodeGameUpdate(m); err == nil {
		t.Fatal("expected kind mismatch error")
	}
}

func TestDecode_BadPayloadIsMalformed(t *testing.T) {
	m, err := Parse([]byte(`{"type":"joinedRoom","data":{"room":"nope"}}`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if _, err := DecodeJoinedRoom(m); !errors.Is(err, ErrMalformedMessage) {
		t.Fatalf("expected ErrMalformedMessage, got %v", err)
	}
}

func TestOutgoing_GameActionShape(t *testing.T) {
	frame, err := GameAction(ActionRequest{Action: ActionRaise, Amount: 400})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	var got struct {
		Type string `json:"type"`
		Data struct {
			Action string `json:"action"`
			Amount int    `json:"amount"`
		} `json:"data"`
	}
	if err := json.Unmarshal(frame, &got); err != nil {
		t.Fatalf("frame is not JSON: %v", err)
	}
	if got.Type != "gameAction" || got.Data.Action != "raise" || got.Data.Amount != 400 {
		t.Fatalf("unexpected frame %s", frame)
	}

	if _, err := GameAction(ActionRequest{Action: ActionBet, Amount: -1}); err == nil {
		t.Fatal("expected negative amount to be refused")
	}
}

func TestOutgoing_JoinRoomShape(t *testing.T) {
	frame, err := JoinRoom("ABCD", "Alice")
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	want := `{"type":"joinRoom","data":{"roomId":"ABCD","playerName":"Alice"}}`
	if string(frame) != want {
		t.Fatalf("expected %s, got %s", want, frame)
	}
}

func TestParseActionType(t *testing.T) {
	if a, err := ParseActionType("allin"); err != nil || a != ActionAllIn {
		t.Fatalf("expected allin, got %v %v", a, err)
	}
	if _, err := ParseActionType("shove"); err == nil {
		t.Fatal("expected unknown action error")
	}
}

func TestSchemaMentionsEveryType(t *testing.T) {
	data, err := SchemaJSON()
	if err != nil {
		t.Fatalf("schema failed: %v", err)
	}
	for _, name := range []string{"joinRoom", "leaveRoom", "startGame", "gameAction", "gameUpdate", "welcome", "roomUpdate"} {
		if !strings.Contains(string(data), `"`+name+`"`) {
			t.Fatalf("schema does not mention %s", name)
		}
	}
}

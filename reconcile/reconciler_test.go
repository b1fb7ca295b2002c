package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokerroom/client/domain/room"
)

const joinedFrame = `{"type":"joinedRoom","data":{"roomId":"ABCD","playerId":"p1","room":{
	"code":"ABCD","status":"waiting","minPlayers":2,"maxPlayers":6,"hostId":"p1",
	"players":[{"id":"p1","name":"Alice","seatPosition":0,"chips":1000}]}}}`

const turnFrame = `{"type":"gameUpdate","data":{"playerId":"p2","action":"bet","gameState":{
	"pot":150,"currentBet":100,"bigBlind":100,"minRaise":100,"dealerIndex":1,
	"currentPlayerId":"p1","communityCards":[],"handComplete":false,
	"players":[
		{"id":"p1","name":"Alice","seatPosition":0,"chips":900,"currentBet":0,"isFolded":false},
		{"id":"p2","name":"Bob","seatPosition":1,"chips":800,"currentBet":100,"isFolded":false}]}}}`

func newJoined(t *testing.T) (*Reconciler, *room.Store) {
	t.Helper()
	store := room.NewStore()
	r := New(store)
	r.Opened()
	r.Joining("Alice")
	res := r.ApplyFrame([]byte(joinedFrame))
	require.True(t, res.RoomChanged)
	return r, store
}

func logTexts(s *room.Store) []string {
	var out []string
	for _, e := range s.Log() {
		out = append(out, e.Text)
	}
	return out
}

func TestJoinedRoom(t *testing.T) {
	store := room.NewStore()
	r := New(store)
	res := r.ApplyFrame([]byte(joinedFrame))

	id := store.Identity()
	assert.Equal(t, "p1", id.PlayerID)
	assert.Equal(t, "ABCD", id.RoomID)
	assert.True(t, id.IsHost)
	require.Len(t, res.Directives, 1)
	assert.Equal(t, Navigate{To: ViewRoom}, res.Directives[0])
	assert.Contains(t, logTexts(store), "You joined room ABCD")

	rs, ok := store.Room()
	require.True(t, ok)
	assert.Equal(t, room.StatusWaiting, rs.Status)
	assert.Len(t, rs.Players, 1)
}

func TestJoinedRoom_NotHost(t *testing.T) {
	store := room.NewStore()
	r := New(store)
	r.ApplyFrame([]byte(`{"type":"joinedRoom","data":{"roomId":"ABCD","playerId":"p2","room":{"code":"ABCD","hostId":"p1","players":[{"id":"p1","seatPosition":0},{"id":"p2","seatPosition":1}]}}}`))
	assert.False(t, store.Identity().IsHost)
	assert.Equal(t, "p2", store.Identity().PlayerID)
}

func TestJoinedRoom_InvalidRoomLeavesIdentityUntouched(t *testing.T) {
	store := room.NewStore()
	r := New(store)
	res := r.ApplyFrame([]byte(`{"type":"joinedRoom","data":{"roomId":"ABCD","playerId":"p1","room":{"code":"ABCD","players":[{"id":"p1","seatPosition":0},{"id":"p2","seatPosition":0}]}}}`))
	assert.False(t, res.NeedsRender())
	assert.False(t, store.Identity().Joined())
	_, ok := store.Room()
	assert.False(t, ok)
}

func TestPlayerJoinedAndLeftAreLogOnly(t *testing.T) {
	r, store := newJoined(t)
	before, _ := store.Room()

	res := r.ApplyFrame([]byte(`{"type":"playerJoined","data":{"player":{"id":"p2","name":"Bob","seatPosition":1}}}`))
	assert.True(t, res.LogChanged)
	assert.False(t, res.RoomChanged)
	res = r.ApplyFrame([]byte(`{"type":"playerLeft","data":{}}`))
	assert.True(t, res.LogChanged)

	after, _ := store.Room()
	assert.Equal(t, before, after)
	assert.Contains(t, logTexts(store), "Bob joined the room")
	assert.Contains(t, logTexts(store), "Player left the room")
}

func TestRoomUpdateReplacesRoomAndHost(t *testing.T) {
	r, store := newJoined(t)
	res := r.ApplyFrame([]byte(`{"type":"roomUpdate","data":{"room":{"code":"ABCD","status":"ready","minPlayers":2,"maxPlayers":6,"hostId":"p2",
		"players":[{"id":"p1","name":"Alice","seatPosition":0},{"id":"p2","name":"Bob","seatPosition":1}]}}}`))
	assert.True(t, res.RoomChanged)
	rs, _ := store.Room()
	assert.Equal(t, room.StatusReady, rs.Status)
	assert.Len(t, rs.Players, 2)
	assert.False(t, store.Identity().IsHost)
}

func TestGameUpdateIsWholesaleAndLogsActor(t *testing.T) {
	r, store := newJoined(t)
	res := r.ApplyFrame([]byte(turnFrame))
	require.True(t, res.GameChanged)
	assert.Contains(t, logTexts(store), "Bob bet")

	second := `{"type":"gameUpdate","data":{"gameState":{"pot":0,"currentBet":0,"dealerIndex":2,"handComplete":false,
		"players":[{"id":"p1","name":"Alice","seatPosition":0,"chips":1000}]}}}`
	r.ApplyFrame([]byte(second))

	got, ok := store.Game()
	require.True(t, ok)
	assert.Equal(t, room.GameStateSnapshot{
		DealerIndex: 2,
		Players:     []room.PlayerView{{ID: "p1", Name: "Alice", SeatPosition: 0, Chips: 1000}},
	}, got)
}

func TestGameUpdateActorResolvedInNewSnapshot(t *testing.T) {
	r, store := newJoined(t)
	r.ApplyFrame([]byte(turnFrame))
	// Carol is only present in the new snapshot.
	r.ApplyFrame([]byte(`{"type":"gameUpdate","data":{"playerId":"p3","action":"call","gameState":{
		"players":[{"id":"p1","name":"Alice","seatPosition":0},{"id":"p3","name":"Carol","seatPosition":2}]}}}`))
	assert.Contains(t, logTexts(store), "Carol call")

	// Unknown actor: nothing logged.
	n := len(store.Log())
	r.ApplyFrame([]byte(`{"type":"gameUpdate","data":{"playerId":"zz","action":"fold","gameState":{"players":[]}}}`))
	assert.Len(t, store.Log(), n)
}

func TestGameUpdateLogsWinners(t *testing.T) {
	r, store := newJoined(t)
	r.ApplyFrame([]byte(`{"type":"gameUpdate","data":{"gameState":{"handComplete":true,"pot":0,
		"players":[{"id":"p1","name":"Alice","seatPosition":0,"chips":1300}],
		"winners":[{"playerId":"p1","amount":300,"description":"Two Pair"}]}}}`))
	assert.Contains(t, logTexts(store), "Alice wins 300 chips with Two Pair")
}

func TestInvalidGameUpdateRetainsPrevious(t *testing.T) {
	r, store := newJoined(t)
	r.ApplyFrame([]byte(turnFrame))
	before, _ := store.Game()
	logBefore := len(store.Log())

	res := r.ApplyFrame([]byte(`{"type":"gameUpdate","data":{"playerId":"p2","action":"raise","gameState":{"currentPlayerId":"p1",
		"players":[{"id":"p1","seatPosition":0},{"id":"p2","seatPosition":0}]}}}`))
	assert.False(t, res.NeedsRender())
	after, _ := store.Game()
	assert.Equal(t, before, after)
	assert.Len(t, store.Log(), logBefore)
}

// An all-in runout names the folded dealer as the player to act while the
// engine deals the board.
const runoutFrame = `{"type":"gameUpdate","data":{"playerId":"p2","action":"allin","gameState":{
	"pot":2000,"currentBet":0,"bigBlind":100,"minRaise":100,"dealerIndex":2,
	"currentPlayerId":"p3","handComplete":false,
	"communityCards":[{"suit":0,"rank":14},{"suit":2,"rank":10},{"suit":3,"rank":7}],
	"players":[
		{"id":"p1","name":"Alice","seatPosition":0,"chips":0,"currentBet":0,"isFolded":false},
		{"id":"p2","name":"Bob","seatPosition":1,"chips":0,"currentBet":0,"isFolded":false},
		{"id":"p3","name":"Carol","seatPosition":2,"chips":500,"currentBet":0,"isFolded":true}]}}}`

func TestRunoutWithFoldedActorIsApplied(t *testing.T) {
	r, store := newJoined(t)
	r.ApplyFrame([]byte(turnFrame))

	res := r.ApplyFrame([]byte(runoutFrame))
	assert.True(t, res.GameChanged)
	assert.True(t, res.NeedsRender())

	g, ok := store.Game()
	require.True(t, ok)
	assert.Equal(t, 2000, g.Pot)
	assert.Equal(t, "p3", g.CurrentPlayerID)
	require.Len(t, g.CommunityCards, 3)
	assert.Equal(t, room.SuitClubs, g.CommunityCards[0].Suit)
	assert.Contains(t, logTexts(store), "Bob allin")
}

func TestUnknownKindLeavesSnapshotsUnchanged(t *testing.T) {
	r, store := newJoined(t)
	r.ApplyFrame([]byte(turnFrame))
	roomBefore, _ := store.Room()
	gameBefore, _ := store.Game()

	res := r.ApplyFrame([]byte(`{"type":"spectatorCount","data":{"count":4}}`))
	assert.False(t, res.NeedsRender())

	roomAfter, _ := store.Room()
	gameAfter, _ := store.Game()
	assert.Equal(t, roomBefore, roomAfter)
	assert.Equal(t, gameBefore, gameAfter)
}

func TestMalformedFrameIsDropped(t *testing.T) {
	r, store := newJoined(t)
	before := store.State()
	var res Result
	require.NotPanics(t, func() { res = r.ApplyFrame([]byte("{not json")) })
	assert.False(t, res.NeedsRender())
	assert.Equal(t, before, store.State())
}

func TestChatAndError(t *testing.T) {
	r, store := newJoined(t)
	res := r.ApplyFrame([]byte(`{"type":"chat","data":{"playerName":"Bob","text":"gl"}}`))
	assert.True(t, res.ChatChanged)
	chat := store.Chat()
	require.Len(t, chat, 1)
	assert.Equal(t, "Bob", chat[0].PlayerName)

	gameBefore, gameExisted := store.Game()
	res = r.ApplyFrame([]byte(`{"type":"error","data":{"error":"Room is full"}}`))
	require.Equal(t, []Notice{{Kind: NoticeServerRejection, Message: "Room is full"}}, res.Notices())
	gameAfter, gameExists := store.Game()
	assert.Equal(t, gameExisted, gameExists)
	assert.Equal(t, gameBefore, gameAfter)
}

func TestWelcomeRecordsClientID(t *testing.T) {
	store := room.NewStore()
	r := New(store)
	res := r.ApplyFrame([]byte(`{"type":"welcome","data":{"clientId":"c-42"}}`))
	assert.False(t, res.NeedsRender())
	assert.Equal(t, "c-42", store.Identity().ClientID)
}

func TestClosedInsideRoomIsFatal(t *testing.T) {
	r, store := newJoined(t)
	r.ApplyFrame([]byte(turnFrame))

	res := r.Closed()
	assert.False(t, store.Connection().Connected)
	notices := res.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, NoticeConnectionLost, notices[0].Kind)
	assert.True(t, notices[0].Fatal)
	_, ok := store.Game()
	assert.False(t, ok)
}

func TestClosedOutsideRoomIsQuiet(t *testing.T) {
	store := room.NewStore()
	r := New(store)
	r.Opened()
	res := r.Closed()
	assert.Empty(t, res.Notices())
	assert.False(t, store.Connection().Connected)
}

func TestLeftClearsIdentity(t *testing.T) {
	r, store := newJoined(t)
	res := r.Left()
	assert.Equal(t, []Directive{Navigate{To: ViewLanding}}, res.Directives)
	assert.False(t, store.Identity().Joined())
	assert.Equal(t, "Alice", store.Identity().PlayerName)
}

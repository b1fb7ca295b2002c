package application

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokerroom/client/domain/room"
	"github.com/pokerroom/client/network"
	"github.com/pokerroom/client/prefs"
	"github.com/pokerroom/client/protocol"
	"github.com/pokerroom/client/reconcile"
	"github.com/pokerroom/client/view"
)

const waitFor = 2 * time.Second

type fakeTransport struct {
	in     chan []byte
	sent   chan []byte
	closed chan struct{}
	once   sync.Once
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		in:     make(chan []byte, 16),
		sent:   make(chan []byte, 16),
		closed: make(chan struct{}),
	}
}

func (f *fakeTransport) Send(_ context.Context, frame []byte) error {
	select {
	case <-f.closed:
		return network.ErrClosed
	default:
	}
	f.sent <- frame
	return nil
}

func (f *fakeTransport) Receive(ctx context.Context) ([]byte, error) {
	select {
	case raw := <-f.in:
		return raw, nil
	case <-f.closed:
		return nil, network.ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *fakeTransport) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeTransport) nextSent(t *testing.T) (string, map[string]any) {
	t.Helper()
	select {
	case frame := <-f.sent:
		var env struct {
			Type string         `json:"type"`
			Data map[string]any `json:"data"`
		}
		require.NoError(t, json.Unmarshal(frame, &env))
		return env.Type, env.Data
	case <-time.After(waitFor):
		t.Fatal("no frame sent")
		return "", nil
	}
}

type fakeRooms struct {
	id  string
	err error
}

func (f fakeRooms) CreateRoom(context.Context) (string, error) { return f.id, f.err }

type recordingUI struct {
	mu      sync.Mutex
	models  []view.Model
	notices []reconcile.Notice
}

func (u *recordingUI) Render(m view.Model) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.models = append(u.models, m)
}

func (u *recordingUI) Notify(n reconcile.Notice) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.notices = append(u.notices, n)
}

func (u *recordingUI) last() view.Model {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.models[len(u.models)-1]
}

func (u *recordingUI) Notices() []reconcile.Notice {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]reconcile.Notice(nil), u.notices...)
}

func (u *recordingUI) eventually(t *testing.T, cond func(view.Model) bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		u.mu.Lock()
		defer u.mu.Unlock()
		return len(u.models) > 0 && cond(u.models[len(u.models)-1])
	}, waitFor, 5*time.Millisecond)
}

type harness struct {
	session *Session
	tr      *fakeTransport
	ui      *recordingUI
	prefs   prefs.Store
	dials   *int
}

func start(t *testing.T, rooms RoomCreator) harness {
	t.Helper()
	tr := newFakeTransport()
	dials := 0
	dial := func(context.Context) (Transport, error) {
		dials++
		return tr, nil
	}
	ui := &recordingUI{}
	store := prefs.NewMemoryStore()
	s := NewSession(dial, rooms, ui, WithPrefs(store))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(waitFor):
			t.Error("session did not stop")
		}
	})
	return harness{session: s, tr: tr, ui: ui, prefs: store, dials: &dials}
}

const joinedABCD = `{"type":"joinedRoom","data":{"roomId":"ABCD","playerId":"p1","room":{
	"code":"ABCD","status":"waiting","minPlayers":2,"maxPlayers":6,"hostId":"p1",
	"players":[{"id":"p1","name":"Alice","seatPosition":0,"chips":1000}]}}}`

func TestJoinFlow(t *testing.T) {
	h := start(t, fakeRooms{})
	ctx := context.Background()

	require.NoError(t, h.session.JoinRoom(ctx, " Alice ", "abcd"))
	typ, data := h.tr.nextSent(t)
	assert.Equal(t, protocol.TypeJoinRoom, typ)
	assert.Equal(t, map[string]any{"roomId": "ABCD", "playerName": "Alice"}, data)

	name, err := prefs.LoadName(ctx, h.prefs)
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)

	h.tr.in <- []byte(joinedABCD)
	h.ui.eventually(t, func(m view.Model) bool { return m.InRoom })

	m := h.ui.last()
	assert.True(t, m.IsHost)
	assert.Equal(t, "ABCD", m.RoomCode)
	assert.Equal(t, 1, m.Missing)
	assert.Contains(t, m.Log[len(m.Log)-1], "You joined room ABCD")
}

func TestJoinRoom_Validation(t *testing.T) {
	h := start(t, fakeRooms{})
	ctx := context.Background()

	err := h.session.JoinRoom(ctx, "  ", "ABCD")
	assert.ErrorIs(t, err, ErrValidation)
	err = h.session.JoinRoom(ctx, "Alice", "")
	assert.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, []reconcile.Notice{
		{Kind: reconcile.NoticeValidation, Message: "Please enter your name"},
		{Kind: reconcile.NoticeValidation, Message: "Please enter room code"},
	}, h.ui.Notices())
	assert.Zero(t, *h.dials)
	assert.Empty(t, h.tr.sent)
}

func TestCreateRoom(t *testing.T) {
	h := start(t, fakeRooms{id: "QWER"})
	require.NoError(t, h.session.CreateRoom(context.Background(), "Bob"))
	typ, data := h.tr.nextSent(t)
	assert.Equal(t, protocol.TypeJoinRoom, typ)
	assert.Equal(t, "QWER", data["roomId"])
	assert.Equal(t, "Bob", data["playerName"])
}

func TestCreateRoom_Rejected(t *testing.T) {
	h := start(t, fakeRooms{err: &network.ServerRejectionError{Status: 503, Message: "Failed to create room"}})
	err := h.session.CreateRoom(context.Background(), "Bob")
	require.Error(t, err)
	assert.Equal(t, []reconcile.Notice{{Kind: reconcile.NoticeServerRejection, Message: "Failed to create room"}}, h.ui.Notices())
	assert.Empty(t, h.tr.sent)
}

func TestMalformedFrameIsIgnored(t *testing.T) {
	h := start(t, fakeRooms{})
	ctx := context.Background()
	require.NoError(t, h.session.JoinRoom(ctx, "Alice", "ABCD"))
	h.tr.nextSent(t)
	h.tr.in <- []byte("{not json")
	h.tr.in <- []byte(joinedABCD)
	h.ui.eventually(t, func(m view.Model) bool { return m.InRoom })
	assert.Empty(t, h.ui.Notices())
}

func TestTurnAndAction(t *testing.T) {
	h := start(t, fakeRooms{})
	ctx := context.Background()
	require.NoError(t, h.session.JoinRoom(ctx, "Alice", "ABCD"))
	h.tr.nextSent(t)
	h.tr.in <- []byte(joinedABCD)
	h.tr.in <- []byte(`{"type":"gameUpdate","data":{"gameState":{"pot":150,"currentBet":100,"bigBlind":100,"minRaise":100,
		"currentPlayerId":"p1","handComplete":false,
		"players":[{"id":"p1","name":"Alice","seatPosition":0,"chips":900,"currentBet":0},
		           {"id":"p2","name":"Bob","seatPosition":1,"chips":900,"currentBet":100}]}}}`)
	h.ui.eventually(t, func(m view.Model) bool { return m.Panel.Visible })

	require.NoError(t, h.session.OpenBet(ctx, protocol.ActionRaise))
	require.NoError(t, h.session.SetBetSlider(ctx, 350))
	m := h.ui.last()
	assert.Equal(t, 350, m.Bet.Input)
	assert.Equal(t, 350, m.Bet.Slider)

	require.NoError(t, h.session.ConfirmBet(ctx))
	typ, data := h.tr.nextSent(t)
	assert.Equal(t, protocol.TypeGameAction, typ)
	assert.Equal(t, "raise", data["action"])
	assert.EqualValues(t, 350, data["amount"])
	assert.False(t, h.ui.last().Bet.Visible)

	err := h.session.Act(ctx, protocol.ActionCheck)
	assert.Error(t, err)
	notices := h.ui.Notices()
	require.NotEmpty(t, notices)
	assert.Equal(t, reconcile.NoticeLocal, notices[len(notices)-1].Kind)
}

func TestConnectionLost(t *testing.T) {
	h := start(t, fakeRooms{})
	ctx := context.Background()
	require.NoError(t, h.session.JoinRoom(ctx, "Alice", "ABCD"))
	h.tr.nextSent(t)
	h.tr.in <- []byte(joinedABCD)
	h.ui.eventually(t, func(m view.Model) bool { return m.InRoom })

	h.tr.Close()
	require.Eventually(t, func() bool {
		for _, n := range h.ui.Notices() {
			if n.Kind == reconcile.NoticeConnectionLost && n.Fatal {
				return true
			}
		}
		return false
	}, waitFor, 5*time.Millisecond)
	h.ui.eventually(t, func(m view.Model) bool { return !m.Connected })
}

func TestLeaveRoom(t *testing.T) {
	h := start(t, fakeRooms{})
	ctx := context.Background()
	require.NoError(t, h.session.JoinRoom(ctx, "Alice", "ABCD"))
	h.tr.nextSent(t)
	h.tr.in <- []byte(joinedABCD)
	h.ui.eventually(t, func(m view.Model) bool { return m.InRoom })

	require.NoError(t, h.session.LeaveRoom(ctx))
	typ, data := h.tr.nextSent(t)
	assert.Equal(t, protocol.TypeLeaveRoom, typ)
	assert.Equal(t, "ABCD", data["roomId"])

	m := h.ui.last()
	assert.False(t, m.InRoom)
	assert.False(t, m.Connected)
	for _, n := range h.ui.Notices() {
		assert.NotEqual(t, reconcile.NoticeConnectionLost, n.Kind)
	}

	assert.ErrorIs(t, h.session.LeaveRoom(ctx), ErrNotInRoom)
}

func TestStartGame_HostOnly(t *testing.T) {
	h := start(t, fakeRooms{})
	ctx := context.Background()
	require.NoError(t, h.session.JoinRoom(ctx, "Bob", "ABCD"))
	h.tr.nextSent(t)
	h.tr.in <- []byte(`{"type":"joinedRoom","data":{"roomId":"ABCD","playerId":"p2","room":{"code":"ABCD","status":"ready","minPlayers":2,"maxPlayers":6,"hostId":"p1",
		"players":[{"id":"p1","name":"Alice","seatPosition":0},{"id":"p2","name":"Bob","seatPosition":1}]}}}`)
	h.ui.eventually(t, func(m view.Model) bool { return m.InRoom })

	assert.ErrorIs(t, h.session.StartGame(ctx), ErrNotHost)

	require.NoError(t, h.session.SendChat(ctx, "gl hf"))
	typ, data := h.tr.nextSent(t)
	assert.Equal(t, protocol.TypeChatOut, typ)
	assert.Equal(t, "gl hf", data["text"])
	assert.Equal(t, "Bob", data["playerName"])
}

func TestCommandsAfterStop(t *testing.T) {
	s := NewSession(func(context.Context) (Transport, error) {
		return nil, errors.New("unreachable")
	}, fakeRooms{}, &recordingUI{}, WithStore(room.NewStore()))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()
	require.NoError(t, <-done)
	assert.ErrorIs(t, s.SendChat(context.Background(), "hello"), ErrStopped)
}

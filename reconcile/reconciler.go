package reconcile

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/pokerroom/client/domain/room"
	"github.com/pokerroom/client/protocol"
)

// ConnectionLostMessage is shown when the transport closes inside a room.
const ConnectionLostMessage = "Connection lost. Please restart the client."

// Reconciler applies inbound messages to the store. It is the only writer of
// the store; every step runs to completion before the next one starts.
type Reconciler struct {
	store  *room.Store
	logger *slog.Logger
}

type option func(Reconciler) Reconciler

func WithLogger(logger *slog.Logger) option {
	return func(r Reconciler) Reconciler {
		r.logger = logger
		return r
	}
}

func New(store *room.Store, opts ...option) *Reconciler {
	r := Reconciler{
		store:  store,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		r = opt(r)
	}
	return &r
}

// ApplyFrame parses a raw frame and applies it. Malformed frames are logged
// and dropped without touching the store.
func (r *Reconciler) ApplyFrame(raw []byte) Result {
	m, err := protocol.Parse(raw)
	if err != nil {
		r.logger.Warn("dropping frame", "err", err)
		return Result{}
	}
	return r.Apply(m)
}

// Apply dispatches a parsed message to its handler.
func (r *Reconciler) Apply(m protocol.Message) Result {
	var (
		res Result
		err error
	)
	switch m.Kind {
	case protocol.KindWelcome:
		res, err = r.welcome(m)
	case protocol.KindJoinedRoom:
		res, err = r.joinedRoom(m)
	case protocol.KindRoomUpdate:
		res, err = r.roomUpdate(m)
	case protocol.KindPlayerJoined:
		res, err = r.playerJoined(m)
	case protocol.KindPlayerLeft:
		res, err = r.playerLeft(m)
	case protocol.KindGameUpdate:
		res, err = r.gameUpdate(m)
	case protocol.KindChat:
		res, err = r.chat(m)
	case protocol.KindError:
		res, err = r.serverError(m)
	case protocol.KindUnknown:
		r.logger.Debug("ignoring unknown message", "type", m.Type)
		return Result{}
	default:
		r.logger.Error("no handler for message kind", "kind", int(m.Kind), "type", m.Type)
		return Result{}
	}
	if err != nil {
		r.logger.Warn("message not applied", "type", m.Type, "err", err)
		return Result{}
	}
	return res
}

func (r *Reconciler) welcome(m protocol.Message) (Result, error) {
	w, err := protocol.DecodeWelcome(m)
	if err != nil {
		return Result{}, err
	}
	r.store.SetClientID(w.ClientID)
	r.logger.Info("connected", "clientId", w.ClientID)
	return Result{}, nil
}

func (r *Reconciler) joinedRoom(m protocol.Message) (Result, error) {
	jr, err := protocol.DecodeJoinedRoom(m)
	if err != nil {
		return Result{}, err
	}
	if err := room.ValidateRoom(jr.Room); err != nil {
		return Result{}, err
	}
	roomID := jr.RoomID
	if roomID == "" {
		roomID = jr.Room.Code
	}
	r.store.Join(roomID, jr.PlayerID)
	if err := r.store.ReplaceRoom(jr.Room); err != nil {
		return Result{}, err
	}
	r.store.SetHost(jr.Room.HostID != "" && jr.Room.HostID == jr.PlayerID)
	r.store.AppendLog(fmt.Sprintf("You joined room %s", jr.Room.Code))
	_, present := jr.Room.Player(jr.PlayerID)
	r.checkMembership(present)
	return Result{
		Directives:  []Directive{Navigate{To: ViewRoom}},
		RoomChanged: true,
		LogChanged:  true,
	}, nil
}

func (r *Reconciler) roomUpdate(m protocol.Message) (Result, error) {
	ru, err := protocol.DecodeRoomUpdate(m)
	if err != nil {
		return Result{}, err
	}
	if err := r.store.ReplaceRoom(ru.Room); err != nil {
		return Result{}, err
	}
	id := r.store.Identity()
	if id.Joined() {
		r.store.SetHost(ru.Room.HostID != "" && ru.Room.HostID == id.PlayerID)
		_, present := ru.Room.Player(id.PlayerID)
		r.checkMembership(present)
	}
	return Result{RoomChanged: true}, nil
}

// playerJoined only logs: membership truth arrives with the next snapshot.
func (r *Reconciler) playerJoined(m protocol.Message) (Result, error) {
	pj, err := protocol.DecodePlayerJoined(m)
	if err != nil {
		return Result{}, err
	}
	r.store.AppendLog(fmt.Sprintf("%s joined the room", pj.Player.Name))
	return Result{LogChanged: true}, nil
}

func (r *Reconciler) playerLeft(m protocol.Message) (Result, error) {
	if _, err := protocol.DecodePlayerLeft(m); err != nil {
		return Result{}, err
	}
	r.store.AppendLog("Player left the room")
	return Result{LogChanged: true}, nil
}

func (r *Reconciler) gameUpdate(m protocol.Message) (Result, error) {
	gu, err := protocol.DecodeGameUpdate(m)
	if err != nil {
		return Result{}, err
	}
	if err := r.store.ReplaceGame(gu.GameState); err != nil {
		return Result{}, err
	}
	res := Result{GameChanged: true}
	gs := gu.GameState
	if !gs.ActorSeated() {
		r.logger.Warn("player to act is folded or missing", "currentPlayerId", gs.CurrentPlayerID)
	}
	if gu.Action != "" {
		if p, ok := gs.Player(gu.PlayerID); ok {
			r.store.AppendLog(fmt.Sprintf("%s %s", p.Name, gu.Action))
			res.LogChanged = true
		}
	}
	if gs.HandComplete {
		for _, w := range gs.Winners {
			p, ok := gs.Player(w.PlayerID)
			if !ok {
				continue
			}
			r.store.AppendLog(fmt.Sprintf("%s wins %d chips with %s", p.Name, w.Amount, w.Description))
			res.LogChanged = true
		}
	}
	if id := r.store.Identity(); id.Joined() {
		_, present := gs.Player(id.PlayerID)
		r.checkMembership(present)
	}
	return res, nil
}

func (r *Reconciler) chat(m protocol.Message) (Result, error) {
	c, err := protocol.DecodeChat(m)
	if err != nil {
		return Result{}, err
	}
	r.store.AppendChat(c.PlayerName, c.Text)
	return Result{ChatChanged: true}, nil
}

func (r *Reconciler) serverError(m protocol.Message) (Result, error) {
	e, err := protocol.DecodeError(m)
	if err != nil {
		return Result{}, err
	}
	msg := e.Error
	if msg == "" {
		msg = "The server rejected the request"
	}
	return Result{Directives: []Directive{notify(NoticeServerRejection, msg, false)}}, nil
}

// Opened records that the transport is up.
func (r *Reconciler) Opened() Result {
	r.store.SetConnected(true)
	return Result{ConnChanged: true}
}

// Closed records that the transport went away. Inside a room this is fatal:
// there is no resume protocol, so the snapshots are dropped and the user is
// told to restart.
func (r *Reconciler) Closed() Result {
	r.store.SetConnected(false)
	res := Result{ConnChanged: true}
	if r.store.Identity().RoomID == "" {
		return res
	}
	r.store.ClearSnapshots()
	res.RoomChanged = true
	res.GameChanged = true
	res.Directives = append(res.Directives, notify(NoticeConnectionLost, ConnectionLostMessage, true))
	return res
}

// Joining records the name used for an outgoing join request.
func (r *Reconciler) Joining(name string) {
	r.store.SetPlayerName(name)
}

// Left clears identity and snapshots after the local player leaves.
func (r *Reconciler) Left() Result {
	r.store.Leave()
	return Result{
		Directives:  []Directive{Navigate{To: ViewLanding}},
		RoomChanged: true,
		GameChanged: true,
	}
}

func (r *Reconciler) checkMembership(present bool) {
	if !present {
		r.logger.Warn("local player missing from snapshot", "playerId", r.store.Identity().PlayerID)
	}
}

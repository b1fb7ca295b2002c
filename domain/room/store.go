package room

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// ErrInvalidSnapshot is returned when a snapshot breaks a structural invariant.
// The store keeps the previous snapshot in that case.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// State is a read-only copy of everything the store holds at one instant.
type State struct {
	Connection ConnectionState
	Identity   Identity
	Room       *RoomSnapshot
	Game       *GameStateSnapshot
	Chat       []ChatMessage
	Log        []LogEntry
}

// Store holds the local mirror of server state. It is written only by the
// reconciler and read by everything else; it is not safe for concurrent use
// and relies on the session running every step on a single goroutine.
type Store struct {
	conn     ConnectionState
	identity Identity
	room     *RoomSnapshot
	game     *GameStateSnapshot
	chat     []ChatMessage
	log      []LogEntry
	now      func() time.Time
}

type storeOption func(Store) Store

// WithClock overrides the clock used to timestamp chat and log lines.
func WithClock(now func() time.Time) storeOption {
	return func(s Store) Store {
		s.now = now
		return s
	}
}

func NewStore(opts ...storeOption) *Store {
	s := Store{now: time.Now}
	for _, opt := range opts {
		s = opt(s)
	}
	return &s
}

func (s *Store) Connection() ConnectionState { return s.conn }

func (s *Store) Identity() Identity { return s.identity }

// Room returns the current room snapshot and whether one exists.
func (s *Store) Room() (RoomSnapshot, bool) {
	if s.room == nil {
		return RoomSnapshot{}, false
	}
	return *s.room, true
}

// Game returns the current game snapshot and whether one exists.
func (s *Store) Game() (GameStateSnapshot, bool) {
	if s.game == nil {
		return GameStateSnapshot{}, false
	}
	return *s.game, true
}

func (s *Store) Chat() []ChatMessage { return slices.Clone(s.chat) }

func (s *Store) Log() []LogEntry { return slices.Clone(s.log) }

// State returns a copy of the whole store.
func (s *Store) State() State {
	st := State{
		Connection: s.conn,
		Identity:   s.identity,
		Chat:       s.Chat(),
		Log:        s.Log(),
	}
	if s.room != nil {
		r := *s.room
		st.Room = &r
	}
	if s.game != nil {
		g := *s.game
		st.Game = &g
	}
	return st
}

func (s *Store) SetConnected(connected bool) {
	s.conn.Connected = connected
}

func (s *Store) SetClientID(id string) {
	s.identity.ClientID = id
}

// SetPlayerName records the name used for the pending join request.
func (s *Store) SetPlayerName(name string) {
	s.identity.PlayerName = name
}

// Join records the server-confirmed room and player ids.
func (s *Store) Join(roomID, playerID string) {
	s.identity.RoomID = roomID
	s.identity.PlayerID = playerID
	s.identity.IsHost = false
}

func (s *Store) SetHost(isHost bool) {
	s.identity.IsHost = isHost
}

// Leave clears the identity (keeping the transport client id and the name)
// and drops both snapshots.
func (s *Store) Leave() {
	s.identity = Identity{ClientID: s.identity.ClientID, PlayerName: s.identity.PlayerName}
	s.ClearSnapshots()
}

func (s *Store) ClearSnapshots() {
	s.room = nil
	s.game = nil
}

// ReplaceRoom swaps in a new room snapshot. Invalid snapshots are rejected
// and the previous one is kept.
func (s *Store) ReplaceRoom(r RoomSnapshot) error {
	if err := ValidateRoom(r); err != nil {
		return err
	}
	s.room = &r
	return nil
}

// ReplaceGame swaps in a new game snapshot. Invalid snapshots are rejected
// and the previous one is kept.
func (s *Store) ReplaceGame(g GameStateSnapshot) error {
	if err := ValidateGame(g); err != nil {
		return err
	}
	s.game = &g
	return nil
}

func (s *Store) AppendChat(playerName, text string) {
	s.chat = append(s.chat, ChatMessage{PlayerName: playerName, Text: text, At: s.now()})
}

func (s *Store) AppendLog(text string) {
	s.log = append(s.log, LogEntry{At: s.now(), Text: text})
}

// ValidateRoom checks seat range and uniqueness.
func ValidateRoom(r RoomSnapshot) error {
	seats := make([]int, 0, len(r.Players))
	for _, p := range r.Players {
		seats = append(seats, p.SeatPosition)
	}
	return validateSeats(seats)
}

// ValidateGame checks seats and board size. The player to act is not
// checked: the engine names a folded dealer while it runs out an all-in
// board, and that snapshot must still be applied.
func ValidateGame(g GameStateSnapshot) error {
	seats := make([]int, 0, len(g.Players))
	for _, p := range g.Players {
		seats = append(seats, p.SeatPosition)
	}
	if err := validateSeats(seats); err != nil {
		return err
	}
	if len(g.CommunityCards) > MaxCommunityCards {
		return fmt.Errorf("%w: %d community cards", ErrInvalidSnapshot, len(g.CommunityCards))
	}
	return nil
}

func validateSeats(seats []int) error {
	var taken [SeatCount]bool
	for _, seat := range seats {
		if seat < 0 || seat >= SeatCount {
			return fmt.Errorf("%w: seat %d out of range", ErrInvalidSnapshot, seat)
		}
		if taken[seat] {
			return fmt.Errorf("%w: seat %d taken twice", ErrInvalidSnapshot, seat)
		}
		taken[seat] = true
	}
	return nil
}

package room

import "time"

// SeatCount is the number of fixed seats at a table.
const SeatCount = 6

// MaxCommunityCards is the size of the board.
const MaxCommunityCards = 5

// Status is the lifecycle status of a room as reported by the server.
type Status string

const (
	StatusWaiting Status = "waiting"
	StatusReady   Status = "ready"
	StatusPlaying Status = "playing"
)

// ConnectionState tracks whether the transport is currently open.
type ConnectionState struct {
	Connected bool
}

// Identity is the local player as confirmed by the server on join.
type Identity struct {
	ClientID   string
	RoomID     string
	PlayerID   string
	PlayerName string
	IsHost     bool
}

// Joined reports whether the identity carries a server-confirmed player.
func (i Identity) Joined() bool {
	return i.PlayerID != ""
}

// PlayerSummary is a room member as listed in a RoomSnapshot.
type PlayerSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SeatPosition int    `json:"seatPosition"`
	Chips        int    `json:"chips"`
}

// RoomSnapshot is the full room description. It is never patched, only replaced.
type RoomSnapshot struct {
	Code       string          `json:"code"`
	Status     Status          `json:"status"`
	Players    []PlayerSummary `json:"players"`
	MinPlayers int             `json:"minPlayers"`
	MaxPlayers int             `json:"maxPlayers"`
	HostID     string          `json:"hostId"`
}

// PlayerView is the public state of a player inside a hand.
type PlayerView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SeatPosition int    `json:"seatPosition"`
	Chips        int    `json:"chips"`
	CurrentBet   int    `json:"currentBet"`
	IsFolded     bool   `json:"isFolded"`
	IsAllIn      bool   `json:"isAllIn,omitempty"`
}

// WinnerInfo describes one payout at the end of a hand.
type WinnerInfo struct {
	PlayerID    string `json:"playerId"`
	Amount      int    `json:"amount"`
	Description string `json:"description"`
}

// GameStateSnapshot is the authoritative hand state pushed by the server.
// Every update replaces the previous snapshot as a whole.
type GameStateSnapshot struct {
	Pot             int          `json:"pot"`
	CurrentBet      int          `json:"currentBet"`
	BigBlind        int          `json:"bigBlind"`
	MinRaise        int          `json:"minRaise"`
	DealerIndex     int          `json:"dealerIndex"`
	CurrentPlayerID string       `json:"currentPlayerId"`
	CommunityCards  []Card       `json:"communityCards"`
	Players         []PlayerView `json:"players"`
	HandComplete    bool         `json:"handComplete"`
	Winners         []WinnerInfo `json:"winners,omitempty"`
	BettingRound    string       `json:"bettingRound,omitempty"`
	HandNumber      int          `json:"handNumber,omitempty"`
}

// Player returns the player with the given id, if present.
func (g GameStateSnapshot) Player(id string) (PlayerView, bool) {
	for _, p := range g.Players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerView{}, false
}

// ActorSeated reports whether the player to act, while the hand is running,
// is in the snapshot and still holding cards. It is true when nobody is due
// to act.
func (g GameStateSnapshot) ActorSeated() bool {
	if g.HandComplete || g.CurrentPlayerID == "" {
		return true
	}
	p, ok := g.Player(g.CurrentPlayerID)
	return ok && !p.IsFolded
}

// Player returns the room member with the given id, if present.
func (r RoomSnapshot) Player(id string) (PlayerSummary, bool) {
	for _, p := range r.Players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerSummary{}, false
}

// ChatMessage is a single line of room chat.
type ChatMessage struct {
	PlayerName string
	Text       string
	At         time.Time
}

// LogEntry is a single line of the game log.
type LogEntry struct {
	At   time.Time
	Text string
}

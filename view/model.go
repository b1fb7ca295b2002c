package view

import (
	"fmt"

	"github.com/pokerroom/client/controller"
	"github.com/pokerroom/client/domain/room"
)

// TailSize is how many chat and log lines the model keeps.
const TailSize = 8

const emptySeatName = "Empty Seat"

type Seat struct {
	Index  int
	Empty  bool
	Name   string
	Chips  int
	Bet    int
	Dealer bool
	// Acting marks the player whose turn it is.
	Acting bool
	Folded bool
	AllIn  bool
	Me     bool
}

type StartControl struct {
	Visible bool
	Enabled bool
	Label   string
}

type Winner struct {
	Name        string
	Amount      int
	Description string
}

// Model is everything the screen shows, already resolved to display values.
type Model struct {
	Connected  bool
	PlayerName string
	InRoom     bool

	RoomCode    string
	Status      room.Status
	PlayerCount int
	MaxPlayers  int
	// Missing is how many more players are needed while the room is waiting.
	Missing int
	IsHost  bool
	Start   StartControl

	Seats     [room.SeatCount]Seat
	Community [room.MaxCommunityCards]room.Card

	HasGame      bool
	Pot          int
	CurrentBet   int
	ToCall       int
	Acting       string
	HandComplete bool
	Winners      []Winner

	Panel controller.Panel
	Bet   controller.BetEntry

	Chat []string
	Log  []string
}

// Project maps the store contents onto a Model. It reads nothing but its
// arguments, so the same inputs always give the same Model.
func Project(st room.State, panel controller.Panel, bet controller.BetEntry) Model {
	m := Model{
		Connected:  st.Connection.Connected,
		PlayerName: st.Identity.PlayerName,
		InRoom:     st.Identity.Joined() && st.Room != nil,
		IsHost:     st.Identity.IsHost,
		Panel:      panel,
		Bet:        bet,
		Chat:       chatTail(st.Chat),
		Log:        logTail(st.Log),
	}
	for i := range m.Seats {
		m.Seats[i] = Seat{Index: i, Empty: true, Name: emptySeatName}
	}

	if r := st.Room; r != nil {
		m.RoomCode = r.Code
		m.Status = r.Status
		m.PlayerCount = len(r.Players)
		m.MaxPlayers = r.MaxPlayers
		if r.Status == room.StatusWaiting {
			m.Missing = max(r.MinPlayers-len(r.Players), 0)
		}
		m.Start = startControl(st.Identity.IsHost, r.Status, m.Missing)
		for _, p := range r.Players {
			if !seated(p.SeatPosition) {
				continue
			}
			m.Seats[p.SeatPosition] = Seat{
				Index: p.SeatPosition,
				Name:  p.Name,
				Chips: p.Chips,
				Me:    p.ID == st.Identity.PlayerID,
			}
		}
	}

	if g := st.Game; g != nil {
		m.HasGame = true
		m.Pot = g.Pot
		m.CurrentBet = g.CurrentBet
		m.HandComplete = g.HandComplete
		if me, ok := g.Player(st.Identity.PlayerID); ok {
			m.ToCall = max(g.CurrentBet-me.CurrentBet, 0)
		}
		if cur, ok := g.Player(g.CurrentPlayerID); ok && !g.HandComplete {
			m.Acting = cur.Name
		}
		for _, p := range g.Players {
			if !seated(p.SeatPosition) {
				continue
			}
			m.Seats[p.SeatPosition] = Seat{
				Index:  p.SeatPosition,
				Name:   p.Name,
				Chips:  p.Chips,
				Bet:    p.CurrentBet,
				Acting: p.ID == g.CurrentPlayerID && !g.HandComplete,
				Folded: p.IsFolded,
				AllIn:  p.IsAllIn,
				Me:     p.ID == st.Identity.PlayerID,
			}
		}
		if seated(g.DealerIndex) {
			m.Seats[g.DealerIndex].Dealer = true
		}
		for i, c := range g.CommunityCards {
			if i >= len(m.Community) {
				break
			}
			m.Community[i] = c
		}
		if g.HandComplete {
			for _, w := range g.Winners {
				name := w.PlayerID
				if p, ok := g.Player(w.PlayerID); ok {
					name = p.Name
				}
				m.Winners = append(m.Winners, Winner{Name: name, Amount: w.Amount, Description: w.Description})
			}
		}
	}
	return m
}

func seated(seat int) bool {
	return seat >= 0 && seat < room.SeatCount
}

func startControl(isHost bool, status room.Status, missing int) StartControl {
	if !isHost {
		return StartControl{}
	}
	switch status {
	case room.StatusReady:
		return StartControl{Visible: true, Enabled: true, Label: "Start Game"}
	case room.StatusWaiting:
		return StartControl{Visible: true, Label: fmt.Sprintf("Need %d more players", missing)}
	default:
		return StartControl{}
	}
}

func chatTail(chat []room.ChatMessage) []string {
	chat = chat[max(len(chat)-TailSize, 0):]
	out := make([]string, 0, len(chat))
	for _, c := range chat {
		out = append(out, fmt.Sprintf("[%s] %s: %s", c.At.Format("15:04:05"), c.PlayerName, c.Text))
	}
	return out
}

func logTail(log []room.LogEntry) []string {
	log = log[max(len(log)-TailSize, 0):]
	out := make([]string, 0, len(log))
	for _, e := range log {
		out = append(out, fmt.Sprintf("[%s] %s", e.At.Format("15:04:05"), e.Text))
	}
	return out
}

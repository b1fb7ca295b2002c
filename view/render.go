package view

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/pokerroom/client/controller"
	"github.com/pokerroom/client/domain/room"
	"github.com/pokerroom/client/protocol"
)

// Render draws the model. It has no side effects; callers print the result.
func Render(m Model) (string, error) {
	if !m.InRoom {
		return renderLanding(m), nil
	}

	var top, bottom []pterm.Panel
	for _, s := range m.Seats {
		top = append(top, pterm.Panel{Data: seatBox(s)})
	}
	board := []pterm.Panel{{Data: boardBox(m)}}
	if len(m.Winners) > 0 {
		board = append(board, pterm.Panel{Data: winnersBox(m.Winners)})
	}
	bottom = append(bottom, pterm.Panel{Data: roomBox(m)})
	if m.Panel.Visible {
		bottom = append(bottom, pterm.Panel{Data: actionBox(m.Panel, m.Bet)})
	}

	tables, err := pterm.DefaultPanel.WithPanels(pterm.Panels{
		top[:3],
		top[3:],
		board,
		bottom,
	}).Srender()
	if err != nil {
		return "", fmt.Errorf("render table: %w", err)
	}

	feed, err := pterm.DefaultPanel.WithPanels(pterm.Panels{{
		{Data: listBox("|LOG|", m.Log)},
		{Data: listBox("|CHAT|", m.Chat)},
	}}).Srender()
	if err != nil {
		return "", fmt.Errorf("render feed: %w", err)
	}
	return tables + "\n" + feed, nil
}

func renderLanding(m Model) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", connLabel(m.Connected))
	if m.PlayerName != "" {
		fmt.Fprintf(&b, "Playing as %s\n", pterm.LightCyan(m.PlayerName))
	}
	b.WriteString("Create a room or join one with its code.")
	return pterm.DefaultBox.WithTitle("|LOBBY|").WithTitleTopLeft().Sprint(b.String())
}

func seatBox(s Seat) string {
	pbox := pterm.DefaultBox.WithHorizontalPadding(2)
	title := fmt.Sprintf("Seat %d", s.Index+1)
	if s.Dealer {
		title += " " + pterm.LightYellow("(D)")
	}
	if s.Empty {
		return pbox.WithTitle(title).WithTitleTopLeft().Sprintf("%s\n-", pterm.Gray(s.Name))
	}

	name := s.Name
	if s.Me {
		name = pterm.LightCyan(name)
	}
	var status string
	switch {
	case s.Folded:
		status = pterm.LightRed("Folded")
	case s.AllIn:
		status = pterm.LightMagenta("All in")
	case s.Acting:
		status = pterm.LightGreen("To act")
	default:
		status = "Active"
	}
	bet := ""
	if s.Bet > 0 {
		bet = fmt.Sprintf("Bet: %d", s.Bet)
	}
	return pbox.WithTitle(title).WithTitleTopLeft().Sprintf("%s\n%d chips\n%s\n%s", name, s.Chips, status, bet)
}

func boardBox(m Model) string {
	slots := make([]string, len(m.Community))
	for i, c := range m.Community {
		slots[i] = cardText(c)
	}
	cards := strings.Join(slots[:3], " ") + "  " + slots[3] + "  " + slots[4]

	info := fmt.Sprintf("Pot: %d | Current bet: %d | To call: %d", m.Pot, m.CurrentBet, m.ToCall)
	turn := ""
	switch {
	case !m.HasGame:
		turn = "No hand in progress"
	case m.HandComplete:
		turn = "Hand complete"
	case m.Acting != "":
		turn = "Waiting for " + pterm.LightCyan(m.Acting)
	}
	return pterm.DefaultBox.WithTitle(pterm.LightGreen("|BOARD|")).WithTitleTopCenter().
		Sprintf("%s\n%s\n%s", cards, info, turn)
}

// cardText styles a board card by suit. Empty slots show as a placeholder.
func cardText(c room.Card) string {
	switch c.Suit {
	case "":
		if c.Display == "" {
			return pterm.Gray("[  ]")
		}
		return c.Display
	case room.SuitHearts, room.SuitDiamonds:
		return pterm.LightRed(c.Display)
	default:
		return pterm.LightWhite(c.Display)
	}
}

func winnersBox(winners []Winner) string {
	var b strings.Builder
	for _, w := range winners {
		b.WriteString(pterm.Sprintfln("%s wins %d chips with %s", pterm.LightCyan(w.Name), w.Amount, w.Description))
	}
	return pterm.DefaultBox.WithTitle(pterm.LightGreen("|SHOWDOWN|")).WithTitleTopCenter().Sprint(strings.TrimRight(b.String(), "\n"))
}

func roomBox(m Model) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", connLabel(m.Connected))
	fmt.Fprintf(&b, "Players: %d/%d\n", m.PlayerCount, m.MaxPlayers)
	fmt.Fprintf(&b, "Status: %s", m.Status)
	if m.Missing > 0 {
		fmt.Fprintf(&b, " (waiting for %d more)", m.Missing)
	}
	if m.Start.Visible {
		label := m.Start.Label
		if m.Start.Enabled {
			label = pterm.LightGreen("[" + label + "]")
		} else {
			label = pterm.Gray("[" + label + "]")
		}
		fmt.Fprintf(&b, "\n%s", label)
	}
	return pterm.DefaultBox.WithTitle("|ROOM " + m.RoomCode + "|").WithTitleTopLeft().Sprint(b.String())
}

func actionBox(p controller.Panel, bet controller.BetEntry) string {
	var labels []string
	for _, o := range p.Options {
		label := string(o.Action)
		if o.Action == protocol.ActionCall {
			label = fmt.Sprintf("call %d", p.CallAmount)
		}
		if !o.Affordable {
			label = pterm.Gray(label + " (short)")
		}
		labels = append(labels, label)
	}
	body := fmt.Sprintf("Current bet: %d | To call: %d\n%s", p.CurrentBet, p.CallAmount, strings.Join(labels, " | "))
	if bet.Visible {
		body += fmt.Sprintf("\n%s amount: %d  [%d .. %d]  %s", bet.Action, bet.Input, bet.Min, bet.Max, slider(bet))
	}
	return pterm.DefaultBox.WithTitle(pterm.LightYellow("|YOUR TURN|")).WithTitleTopCenter().Sprint(body)
}

// slider draws the range control as a fixed-width bar.
func slider(b controller.BetEntry) string {
	const width = 20
	pos := 0
	if b.Max > b.Min {
		pos = (b.Slider - b.Min) * width / (b.Max - b.Min)
	}
	pos = min(max(pos, 0), width)
	return "[" + strings.Repeat("=", pos) + "o" + strings.Repeat("-", width-pos) + "]"
}

func listBox(title string, lines []string) string {
	body := strings.Join(lines, "\n")
	if body == "" {
		body = pterm.Gray("(empty)")
	}
	return pterm.DefaultBox.WithTitle(title).WithTitleTopLeft().Sprint(body)
}

func connLabel(connected bool) string {
	if connected {
		return pterm.LightGreen("Connected")
	}
	return pterm.LightRed("Disconnected")
}

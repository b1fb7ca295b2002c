package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pokerroom/client/application"
	"github.com/pokerroom/client/protocol"
)

const helpText = `Commands:
  fold | check | call | allin
  bet [N] | raise [N]     open the amount picker, or send N directly
  slider N | amount N     move the picker's slider or type an amount
  confirm | cancel        send or discard the picked amount
  chat TEXT               say something to the table
  start                   start the game (host only)
  create | join CODE      create a room or join one
  leave | quit | help`

type verb int

const (
	verbAct verb = iota
	verbOpenBet
	verbBet
	verbSlider
	verbAmount
	verbConfirm
	verbCancel
	verbChat
	verbStart
	verbCreate
	verbJoin
	verbLeave
	verbQuit
	verbHelp
)

type command struct {
	verb   verb
	action protocol.ActionType
	amount int
	text   string
}

// parseLine reads one REPL line. Empty lines give ok == false.
func parseLine(line string) (cmd command, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return command{}, false, nil
	}
	word, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch word = strings.ToLower(word); word {
	case "fold", "check", "call", "allin":
		a, _ := protocol.ParseActionType(word)
		return command{verb: verbAct, action: a}, true, nil
	case "bet", "raise":
		a, _ := protocol.ParseActionType(word)
		if rest == "" {
			return command{verb: verbOpenBet, action: a}, true, nil
		}
		n, err := parseAmount(rest)
		if err != nil {
			return command{}, false, err
		}
		return command{verb: verbBet, action: a, amount: n}, true, nil
	case "slider", "amount":
		n, err := parseAmount(rest)
		if err != nil {
			return command{}, false, err
		}
		if word == "slider" {
			return command{verb: verbSlider, amount: n}, true, nil
		}
		return command{verb: verbAmount, amount: n}, true, nil
	case "confirm":
		return command{verb: verbConfirm}, true, nil
	case "cancel":
		return command{verb: verbCancel}, true, nil
	case "chat", "say":
		if rest == "" {
			return command{}, false, fmt.Errorf("%s needs a message", word)
		}
		return command{verb: verbChat, text: rest}, true, nil
	case "start":
		return command{verb: verbStart}, true, nil
	case "create":
		return command{verb: verbCreate}, true, nil
	case "join":
		if rest == "" {
			return command{}, false, fmt.Errorf("join needs a room code")
		}
		return command{verb: verbJoin, text: rest}, true, nil
	case "leave":
		return command{verb: verbLeave}, true, nil
	case "quit", "exit":
		return command{verb: verbQuit}, true, nil
	case "help", "?":
		return command{verb: verbHelp}, true, nil
	default:
		return command{}, false, fmt.Errorf("unknown command %q (try help)", word)
	}
}

func parseAmount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return n, nil
}

// dispatch runs cmd against the session. name is the player's display name
// for create and join.
func dispatch(ctx context.Context, s *application.Session, name string, cmd command) error {
	switch cmd.verb {
	case verbAct:
		return s.Act(ctx, cmd.action)
	case verbOpenBet:
		return s.OpenBet(ctx, cmd.action)
	case verbBet:
		if err := s.OpenBet(ctx, cmd.action); err != nil {
			return err
		}
		if err := s.SetBetInput(ctx, cmd.amount); err != nil {
			return err
		}
		return s.ConfirmBet(ctx)
	case verbSlider:
		return s.SetBetSlider(ctx, cmd.amount)
	case verbAmount:
		return s.SetBetInput(ctx, cmd.amount)
	case verbConfirm:
		return s.ConfirmBet(ctx)
	case verbCancel:
		return s.CancelBet(ctx)
	case verbChat:
		return s.SendChat(ctx, cmd.text)
	case verbStart:
		return s.StartGame(ctx)
	case verbCreate:
		return s.CreateRoom(ctx, name)
	case verbJoin:
		return s.JoinRoom(ctx, name, cmd.text)
	case verbLeave:
		return s.LeaveRoom(ctx)
	default:
		return nil
	}
}

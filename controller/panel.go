package controller

import (
	"github.com/pokerroom/client/domain/room"
	"github.com/pokerroom/client/protocol"
)

// Option is one action button of the panel.
type Option struct {
	Action protocol.ActionType
	// Affordable is false when the player cannot cover the amount. The option
	// is still offered; the server decides.
	Affordable bool
}

// Panel is the set of actions the local player may take right now.
type Panel struct {
	Visible    bool
	CurrentBet int
	CallAmount int
	Options    []Option

	BetMin   int
	RaiseMin int
	// Max is the upper bound for both bet and raise amounts.
	Max int
}

// Derive computes the action panel from the current game snapshot. A nil game,
// a missing or folded local player, a finished hand or someone else's turn all
// give a hidden panel.
func Derive(game *room.GameStateSnapshot, id room.Identity) Panel {
	if game == nil || !id.Joined() || game.HandComplete || game.CurrentPlayerID != id.PlayerID {
		return Panel{}
	}
	me, ok := game.Player(id.PlayerID)
	if !ok || me.IsFolded {
		return Panel{}
	}

	p := Panel{
		Visible:    true,
		CurrentBet: game.CurrentBet,
		CallAmount: game.CurrentBet - me.CurrentBet,
		BetMin:     game.BigBlind,
		RaiseMin:   game.CurrentBet + game.MinRaise,
		Max:        me.Chips,
	}
	p.Options = append(p.Options, Option{Action: protocol.ActionFold, Affordable: true})
	if game.CurrentBet == me.CurrentBet {
		p.Options = append(p.Options, Option{Action: protocol.ActionCheck, Affordable: true})
	}
	if p.CallAmount > 0 {
		p.Options = append(p.Options, Option{Action: protocol.ActionCall, Affordable: p.CallAmount <= me.Chips})
	}
	if game.CurrentBet == 0 {
		p.Options = append(p.Options, Option{Action: protocol.ActionBet, Affordable: p.BetMin <= me.Chips})
	}
	if game.CurrentBet > 0 {
		p.Options = append(p.Options, Option{Action: protocol.ActionRaise, Affordable: p.RaiseMin <= me.Chips})
	}
	p.Options = append(p.Options, Option{Action: protocol.ActionAllIn, Affordable: me.Chips > 0})
	return p
}

// Option returns the option for action a, if offered.
func (p Panel) Option(a protocol.ActionType) (Option, bool) {
	for _, o := range p.Options {
		if o.Action == a {
			return o, true
		}
	}
	return Option{}, false
}

func (p Panel) Offers(a protocol.ActionType) bool {
	_, ok := p.Option(a)
	return ok
}

// Bounds returns the amount range for bet or raise. Other actions have no
// locally chosen amount and return zeros.
func (p Panel) Bounds(a protocol.ActionType) (lo, hi int) {
	switch a {
	case protocol.ActionBet:
		return p.BetMin, p.Max
	case protocol.ActionRaise:
		return p.RaiseMin, p.Max
	default:
		return 0, 0
	}
}

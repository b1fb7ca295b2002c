package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/pokerroom/client/domain/room"
	"github.com/pokerroom/client/protocol"
)

var (
	ErrNotYourTurn      = errors.New("not your turn")
	ErrActionNotOffered = errors.New("action not offered")
	ErrAmountOutOfRange = errors.New("amount out of range")
)

// Sender delivers an encoded frame to the server.
type Sender interface {
	Send(ctx context.Context, frame []byte) error
}

// Controller turns user intents into gameAction requests. It reads the store
// but never writes it: the server answers with a new snapshot.
type Controller struct {
	store  *room.Store
	sender Sender
	logger *slog.Logger
	bet    BetEntry
}

type option func(Controller) Controller

func WithLogger(logger *slog.Logger) option {
	return func(c Controller) Controller {
		c.logger = logger
		return c
	}
}

func New(store *room.Store, sender Sender, opts ...option) *Controller {
	c := Controller{
		store:  store,
		sender: sender,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		c = opt(c)
	}
	return &c
}

// Panel derives the action panel from the current store contents.
func (c *Controller) Panel() Panel {
	st := c.store.State()
	return Derive(st.Game, st.Identity)
}

// BetEntry returns a copy of the amount picker.
func (c *Controller) BetEntry() BetEntry {
	return c.bet
}

// Submit requests action a. Bet and raise need an amount, so for those the
// bet entry is opened instead and ConfirmBet sends the request.
func (c *Controller) Submit(ctx context.Context, a protocol.ActionType) error {
	if a.NeedsAmount() {
		return c.OpenBet(a)
	}
	return c.send(ctx, c.Panel(), protocol.ActionRequest{Action: a})
}

// OpenBet shows the bet entry for a at its minimum.
func (c *Controller) OpenBet(a protocol.ActionType) error {
	p := c.Panel()
	if err := check(p, a); err != nil {
		return err
	}
	if !a.NeedsAmount() {
		return fmt.Errorf("%w: %s takes no amount", ErrActionNotOffered, a)
	}
	lo, hi := p.Bounds(a)
	c.bet.Open(a, lo, hi)
	return nil
}

func (c *Controller) SetSlider(v int) {
	if c.bet.Visible {
		c.bet.SetSlider(v)
	}
}

func (c *Controller) SetInput(v int) {
	if c.bet.Visible {
		c.bet.SetInput(v)
	}
}

func (c *Controller) CancelBet() {
	c.bet.Cancel()
}

// ConfirmBet sends the amount held by the bet entry.
func (c *Controller) ConfirmBet(ctx context.Context) error {
	if !c.bet.Visible {
		return fmt.Errorf("%w: no bet in progress", ErrActionNotOffered)
	}
	req := protocol.ActionRequest{Action: c.bet.Action, Amount: c.bet.Input}
	return c.send(ctx, c.Panel(), req)
}

// Sync follows a new snapshot: the bet entry closes when its action is no
// longer offered and is re-clamped otherwise.
func (c *Controller) Sync() {
	if !c.bet.Visible {
		return
	}
	p := c.Panel()
	if check(p, c.bet.Action) != nil {
		c.bet.Cancel()
		return
	}
	lo, hi := p.Bounds(c.bet.Action)
	c.bet.Rebound(lo, hi)
}

func (c *Controller) send(ctx context.Context, p Panel, req protocol.ActionRequest) error {
	defer c.bet.Cancel()

	if err := check(p, req.Action); err != nil {
		return err
	}
	if req.Action.NeedsAmount() {
		lo, hi := p.Bounds(req.Action)
		if req.Amount < lo || req.Amount > hi {
			return fmt.Errorf("%w: %d not in [%d, %d]", ErrAmountOutOfRange, req.Amount, lo, hi)
		}
	} else {
		req.Amount = 0
	}
	if o, _ := p.Option(req.Action); !o.Affordable {
		c.logger.Warn("sending action marked unaffordable", "action", req.Action)
	}

	frame, err := protocol.GameAction(req)
	if err != nil {
		return err
	}
	c.logger.Debug("sending action", "action", req.Action, "amount", req.Amount)
	if err := c.sender.Send(ctx, frame); err != nil {
		return fmt.Errorf("send %s: %w", req.Action, err)
	}
	return nil
}

func check(p Panel, a protocol.ActionType) error {
	if !p.Visible {
		return ErrNotYourTurn
	}
	if !p.Offers(a) {
		return fmt.Errorf("%w: %s", ErrActionNotOffered, a)
	}
	return nil
}

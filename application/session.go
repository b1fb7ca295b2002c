package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pokerroom/client/controller"
	"github.com/pokerroom/client/domain/room"
	"github.com/pokerroom/client/network"
	"github.com/pokerroom/client/prefs"
	"github.com/pokerroom/client/protocol"
	"github.com/pokerroom/client/reconcile"
	"github.com/pokerroom/client/view"
)

var (
	// ErrValidation marks user input rejected before anything is sent.
	ErrValidation = errors.New("invalid input")
	// ErrNotConnected is returned when a frame is sent with no open transport.
	ErrNotConnected = errors.New("not connected")
	// ErrStopped is returned by commands posted after Run has returned.
	ErrStopped   = errors.New("session stopped")
	ErrNotInRoom = errors.New("not in a room")
	ErrNotHost   = errors.New("only the host can start the game")
)

type validationError struct{ msg string }

func (e *validationError) Error() string        { return e.msg }
func (e *validationError) Is(target error) bool { return target == ErrValidation }

func invalid(msg string) error { return &validationError{msg: msg} }

// Transport is a duplex frame channel to the server.
type Transport interface {
	Send(ctx context.Context, frame []byte) error
	Receive(ctx context.Context) ([]byte, error)
	Close() error
}

// DialFunc opens a new transport.
type DialFunc func(ctx context.Context) (Transport, error)

type RoomCreator interface {
	CreateRoom(ctx context.Context) (string, error)
}

// UI receives one Model per handled event plus every notice.
type UI interface {
	Render(m view.Model)
	Notify(n reconcile.Notice)
}

type event struct {
	from   Transport
	frame  []byte
	closed bool
	run    func(ctx context.Context) (reconcile.Result, error)
	done   chan error
}

// Session runs the client: every inbound frame, transport event and user
// command is handled on one goroutine, so the store needs no locking.
type Session struct {
	store      *room.Store
	reconciler *reconcile.Reconciler
	controller *controller.Controller

	dial   DialFunc
	rooms  RoomCreator
	prefs  prefs.Store
	ui     UI
	logger *slog.Logger

	transport Transport
	view      reconcile.View
	group     *errgroup.Group
	events    chan event
	stopped   chan struct{}
}

type option func(Session) Session

func WithLogger(logger *slog.Logger) option {
	return func(s Session) Session {
		s.logger = logger
		return s
	}
}

func WithPrefs(p prefs.Store) option {
	return func(s Session) Session {
		s.prefs = p
		return s
	}
}

func WithStore(store *room.Store) option {
	return func(s Session) Session {
		s.store = store
		return s
	}
}

func NewSession(dial DialFunc, rooms RoomCreator, ui UI, opts ...option) *Session {
	s := Session{
		dial:    dial,
		rooms:   rooms,
		ui:      ui,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		events:  make(chan event),
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		s = opt(s)
	}
	if s.store == nil {
		s.store = room.NewStore()
	}
	if s.prefs == nil {
		s.prefs = prefs.NewMemoryStore()
	}
	sp := &s
	sp.reconciler = reconcile.New(sp.store, reconcile.WithLogger(sp.logger))
	sp.controller = controller.New(sp.store, loopSender{sp}, controller.WithLogger(sp.logger))
	return sp
}

// Run handles events until ctx is done. Reader goroutines for each opened
// transport run in the same group.
func (s *Session) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	s.group = g
	g.Go(func() error {
		return s.loop(gctx)
	})
	return g.Wait()
}

func (s *Session) loop(ctx context.Context) error {
	defer close(s.stopped)
	defer func() {
		if s.transport != nil {
			s.transport.Close()
			s.transport = nil
		}
	}()

	s.render()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-s.events:
			s.handle(ctx, ev)
		}
	}
}

func (s *Session) handle(ctx context.Context, ev event) {
	switch {
	case ev.run != nil:
		res, err := ev.run(ctx)
		if err != nil {
			s.logger.Debug("command failed", "err", err)
			res = res.Merge(noticeFor(err))
		}
		s.finish(res, true)
		ev.done <- err
	case ev.from != s.transport:
		s.logger.Debug("dropping event from a closed transport")
	case ev.closed:
		s.transport = nil
		s.finish(s.reconciler.Closed(), false)
	default:
		s.finish(s.reconciler.ApplyFrame(ev.frame), false)
	}
}

// finish carries out directives and renders once.
func (s *Session) finish(res reconcile.Result, force bool) {
	for _, d := range res.Directives {
		switch d := d.(type) {
		case reconcile.Navigate:
			s.logger.Debug("navigate", "view", d.To.String())
			s.view = d.To
		case reconcile.Notify:
			s.ui.Notify(d.Notice)
		}
	}
	s.controller.Sync()
	if force || res.NeedsRender() {
		s.render()
	}
}

func (s *Session) render() {
	m := view.Project(s.store.State(), s.controller.Panel(), s.controller.BetEntry())
	m.InRoom = m.InRoom && s.view == reconcile.ViewRoom
	s.ui.Render(m)
}

func noticeFor(err error) reconcile.Result {
	var rejection *network.ServerRejectionError
	switch {
	case errors.Is(err, ErrValidation):
		return reconcile.NotifyResult(reconcile.NoticeValidation, err.Error())
	case errors.As(err, &rejection):
		return reconcile.NotifyResult(reconcile.NoticeServerRejection, rejection.Message)
	default:
		return reconcile.NotifyResult(reconcile.NoticeLocal, err.Error())
	}
}

func (s *Session) post(ctx context.Context, ev event) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.stopped:
		return false
	case <-ctx.Done():
		return false
	}
}

// do runs fn on the session goroutine and waits for it.
func (s *Session) do(ctx context.Context, fn func(ctx context.Context) (reconcile.Result, error)) error {
	done := make(chan error, 1)
	if !s.post(ctx, event{run: fn, done: done}) {
		if err := ctx.Err(); err != nil {
			return err
		}
		return ErrStopped
	}
	select {
	case err := <-done:
		return err
	case <-s.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) read(ctx context.Context, tr Transport) error {
	for {
		raw, err := tr.Receive(ctx)
		if err != nil {
			if ctx.Err() == nil {
				s.logger.Debug("transport closed", "err", err)
				s.post(ctx, event{from: tr, closed: true})
			}
			return nil
		}
		if !s.post(ctx, event{from: tr, frame: raw}) {
			return nil
		}
	}
}

// send writes a frame on the current transport. Only the session goroutine
// calls it.
func (s *Session) send(ctx context.Context, frame []byte) error {
	if s.transport == nil {
		return ErrNotConnected
	}
	return s.transport.Send(ctx, frame)
}

type loopSender struct{ s *Session }

func (l loopSender) Send(ctx context.Context, frame []byte) error {
	return l.s.send(ctx, frame)
}

func (s *Session) connect(ctx context.Context) (reconcile.Result, error) {
	if s.transport != nil {
		return reconcile.Result{}, nil
	}
	tr, err := s.dial(ctx)
	if err != nil {
		return reconcile.Result{}, fmt.Errorf("connect to server: %w", err)
	}
	s.transport = tr
	s.group.Go(func() error {
		return s.read(ctx, tr)
	})
	return s.reconciler.Opened(), nil
}

// CreateRoom creates a room over HTTP and joins it as name.
func (s *Session) CreateRoom(ctx context.Context, name string) error {
	return s.do(ctx, func(ctx context.Context) (reconcile.Result, error) {
		name = strings.TrimSpace(name)
		if name == "" {
			return reconcile.Result{}, invalid("Please enter your name")
		}
		res, err := s.connect(ctx)
		if err != nil {
			return res, err
		}
		roomID, err := s.rooms.CreateRoom(ctx)
		if err != nil {
			return res, err
		}
		joined, err := s.join(ctx, name, roomID)
		return res.Merge(joined), err
	})
}

// JoinRoom joins the room with the given code as name.
func (s *Session) JoinRoom(ctx context.Context, name, code string) error {
	return s.do(ctx, func(ctx context.Context) (reconcile.Result, error) {
		name = strings.TrimSpace(name)
		code = strings.ToUpper(strings.TrimSpace(code))
		if name == "" {
			return reconcile.Result{}, invalid("Please enter your name")
		}
		if code == "" {
			return reconcile.Result{}, invalid("Please enter room code")
		}
		res, err := s.connect(ctx)
		if err != nil {
			return res, err
		}
		joined, err := s.join(ctx, name, code)
		return res.Merge(joined), err
	})
}

func (s *Session) join(ctx context.Context, name, roomID string) (reconcile.Result, error) {
	if err := prefs.SaveName(ctx, s.prefs, name); err != nil {
		s.logger.Warn("could not save player name", "err", err)
	}
	s.reconciler.Joining(name)
	frame, err := protocol.JoinRoom(roomID, name)
	if err != nil {
		return reconcile.Result{}, err
	}
	return reconcile.Result{}, s.send(ctx, frame)
}

// LeaveRoom tells the server, clears local state and closes the transport.
func (s *Session) LeaveRoom(ctx context.Context) error {
	return s.do(ctx, func(ctx context.Context) (reconcile.Result, error) {
		id := s.store.Identity()
		if id.RoomID == "" {
			return reconcile.Result{}, ErrNotInRoom
		}
		frame, err := protocol.LeaveRoom(id.RoomID)
		if err != nil {
			return reconcile.Result{}, err
		}
		if err := s.send(ctx, frame); err != nil {
			s.logger.Warn("leave not delivered", "err", err)
		}
		s.controller.CancelBet()
		res := s.reconciler.Left()
		if s.transport != nil {
			s.transport.Close()
			s.transport = nil
			res = res.Merge(s.reconciler.Closed())
		}
		return res, nil
	})
}

func (s *Session) StartGame(ctx context.Context) error {
	return s.do(ctx, func(ctx context.Context) (reconcile.Result, error) {
		id := s.store.Identity()
		if id.RoomID == "" {
			return reconcile.Result{}, ErrNotInRoom
		}
		if !id.IsHost {
			return reconcile.Result{}, ErrNotHost
		}
		frame, err := protocol.StartGame(id.RoomID)
		if err != nil {
			return reconcile.Result{}, err
		}
		return reconcile.Result{}, s.send(ctx, frame)
	})
}

func (s *Session) SendChat(ctx context.Context, text string) error {
	return s.do(ctx, func(ctx context.Context) (reconcile.Result, error) {
		text = strings.TrimSpace(text)
		if text == "" {
			return reconcile.Result{}, nil
		}
		frame, err := protocol.Chat(text, s.store.Identity().PlayerName)
		if err != nil {
			return reconcile.Result{}, err
		}
		return reconcile.Result{}, s.send(ctx, frame)
	})
}

// Act submits a poker action. Bet and raise open the bet entry instead.
func (s *Session) Act(ctx context.Context, a protocol.ActionType) error {
	return s.do(ctx, func(ctx context.Context) (reconcile.Result, error) {
		return reconcile.Result{}, s.controller.Submit(ctx, a)
	})
}

func (s *Session) OpenBet(ctx context.Context, a protocol.ActionType) error {
	return s.do(ctx, func(context.Context) (reconcile.Result, error) {
		return reconcile.Result{}, s.controller.OpenBet(a)
	})
}

func (s *Session) SetBetSlider(ctx context.Context, v int) error {
	return s.do(ctx, func(context.Context) (reconcile.Result, error) {
		s.controller.SetSlider(v)
		return reconcile.Result{}, nil
	})
}

func (s *Session) SetBetInput(ctx context.Context, v int) error {
	return s.do(ctx, func(context.Context) (reconcile.Result, error) {
		s.controller.SetInput(v)
		return reconcile.Result{}, nil
	})
}

func (s *Session) ConfirmBet(ctx context.Context) error {
	return s.do(ctx, func(ctx context.Context) (reconcile.Result, error) {
		return reconcile.Result{}, s.controller.ConfirmBet(ctx)
	})
}

func (s *Session) CancelBet(ctx context.Context) error {
	return s.do(ctx, func(context.Context) (reconcile.Result, error) {
		s.controller.CancelBet()
		return reconcile.Result{}, nil
	})
}

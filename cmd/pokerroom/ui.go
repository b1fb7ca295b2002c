package main

import (
	"context"
	"log/slog"

	"github.com/pterm/pterm"

	"github.com/pokerroom/client/reconcile"
	"github.com/pokerroom/client/view"
)

// terminalUI prints each model with pterm. Fatal notices end the session.
type terminalUI struct {
	logger *slog.Logger
	stop   context.CancelFunc
	last   string
}

func (u *terminalUI) Render(m view.Model) {
	out, err := view.Render(m)
	if err != nil {
		u.logger.Error("render failed", "err", err)
		return
	}
	if out == u.last {
		return
	}
	u.last = out
	pterm.Println()
	pterm.Println(out)
}

func (u *terminalUI) Notify(n reconcile.Notice) {
	switch n.Kind {
	case reconcile.NoticeValidation:
		pterm.Warning.Println(n.Message)
	case reconcile.NoticeServerRejection:
		pterm.Error.Println(n.Message)
	case reconcile.NoticeConnectionLost:
		pterm.Error.Println(n.Message)
	default:
		pterm.Info.Println(n.Message)
	}
	if n.Fatal {
		u.stop()
	}
}

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pokerroom/client/application"
	"github.com/pokerroom/client/network"
	"github.com/pokerroom/client/prefs"
)

const (
	choiceCreate = "Create a room"
	choiceJoin   = "Join a room"
)

func newPlayCmd(v *viper.Viper, cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Create or join a room and play from the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return play(cmd.Context(), v, *cfgFile, cmd.InOrStdin())
		},
	}
}

func play(ctx context.Context, v *viper.Viper, cfgFile string, in io.Reader) error {
	cfg, logger, err := loadConfig(v, cfgFile)
	if err != nil {
		return err
	}
	wsURL, err := network.WebSocketURL(cfg.Server)
	if err != nil {
		return err
	}

	store, err := prefs.Open(cfg.PrefsMode, cfg.PrefsPath)
	if err != nil {
		return err
	}
	defer store.Close()

	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Poker", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("Room", pterm.FgDarkGray.ToStyle()),
	).Render()

	saved, err := prefs.LoadName(ctx, store)
	if err != nil {
		logger.Warn("could not load saved name", "err", err)
	}
	name, err := promptName(askName, saved, namePrompts)
	if err != nil {
		return err
	}
	pterm.Println()

	choice, err := pterm.DefaultInteractiveSelect.WithDefaultText("What do you want to do?").
		WithOptions([]string{choiceCreate, choiceJoin}).Show()
	if err != nil {
		return fmt.Errorf("choose action: %w", err)
	}
	var code string
	if choice == choiceJoin {
		code, err = pterm.DefaultInteractiveTextInput.WithDefaultText("Enter room code").Show()
		if err != nil {
			return fmt.Errorf("read room code: %w", err)
		}
		pterm.Println()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	dial := func(ctx context.Context) (application.Transport, error) {
		tr, err := network.Dial(ctx, wsURL, network.WithTimeout(cfg.DialTimeout), network.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return tr, nil
	}
	rooms := network.NewRoomsClient(cfg.Server, network.WithTimeout(cfg.HTTPTimeout), network.WithLogger(logger))
	ui := &terminalUI{logger: logger, stop: stop}
	session := application.NewSession(dial, rooms, ui,
		application.WithPrefs(store),
		application.WithLogger(logger),
	)

	done := make(chan error, 1)
	go func() { done <- session.Run(ctx) }()

	spinner, _ := pterm.DefaultSpinner.Start("Connecting to server...")
	if choice == choiceJoin {
		err = session.JoinRoom(ctx, name, code)
	} else {
		err = session.CreateRoom(ctx, name)
	}
	if err != nil {
		spinner.Fail(err.Error())
	} else {
		spinner.Success("Request sent, type help for commands")
	}

	go readCommands(ctx, in, session, name, stop, logger)
	return <-done
}

// namePrompts is how many times an empty name is asked for again.
const namePrompts = 3

var errNoName = errors.New("no player name given")

func askName(prefill string) (string, error) {
	return pterm.DefaultInteractiveTextInput.WithDefaultText("Enter your name").WithDefaultValue(prefill).Show()
}

// promptName asks until it gets a non-blank name. The saved name prefills
// the first prompt only.
func promptName(ask func(prefill string) (string, error), saved string, attempts int) (string, error) {
	prefill := saved
	for range attempts {
		name, err := ask(prefill)
		if err != nil {
			return "", fmt.Errorf("read player name: %w", err)
		}
		if name = strings.TrimSpace(name); name != "" {
			return name, nil
		}
		pterm.Warning.Println("Please enter your name")
		prefill = ""
	}
	return "", errNoName
}

// readCommands feeds stdin lines to the session until quit or EOF.
func readCommands(ctx context.Context, in io.Reader, s *application.Session, name string, stop context.CancelFunc, logger *slog.Logger) {
	defer stop()
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		cmd, ok, err := parseLine(scanner.Text())
		if err != nil {
			pterm.Warning.Println(err)
			continue
		}
		if !ok {
			continue
		}
		switch cmd.verb {
		case verbQuit:
			if err := s.LeaveRoom(ctx); err != nil && !errors.Is(err, application.ErrNotInRoom) {
				logger.Debug("leave on quit", "err", err)
			}
			return
		case verbHelp:
			pterm.Println(helpText)
			continue
		}
		// Failures already reached the UI as notices.
		if err := dispatch(ctx, s, name, cmd); errors.Is(err, application.ErrStopped) || ctx.Err() != nil {
			return
		}
	}
}

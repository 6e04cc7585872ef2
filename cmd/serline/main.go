// Command serline is a terminal chat client for an LLM reached through an
// ESP32 serial gateway.
//
// Usage:
//
//	serline [flags]
//
// Flags:
//
//	-config string      Path to config file (default ~/.serline/config.toml)
//	-port string        Serial device (overrides config)
//	-baud int           Baud rate (overrides config)
//	-log string         Debug log file (overrides config)
//	-transcript string  Transcript path (overrides config)
//	-offline            Skip the gateway handshake; console only
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"

	"github.com/serline/serline"
	bt "github.com/serline/serline/bubbletea"
	"github.com/serline/serline/config"
	"github.com/serline/serline/esp32"
	"github.com/serline/serline/goldmark"
	serlinejson "github.com/serline/serline/json"
	"github.com/serline/serline/serial"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "serline: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse flags.
	var (
		configPath = flag.String("config", config.DefaultPath(), "Path to config file")
		port       = flag.String("port", "", "Serial device (overrides config)")
		baud       = flag.Int("baud", 0, "Baud rate (overrides config)")
		logFile    = flag.String("log", "", "Debug log file (overrides config)")
		transcript = flag.String("transcript", "", "Transcript path (overrides config)")
		offline    = flag.Bool("offline", false, "Skip the gateway handshake; console only")
	)
	flag.Parse()

	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *port != "" {
		cfg.Port = *port
	}
	if *baud > 0 {
		cfg.Baud = *baud
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}
	if *transcript != "" {
		cfg.Transcript = *transcript
	}

	// Logs go to a file, never the terminal the TUI owns.
	logger := log.New(io.Discard)
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger = log.New(f)
		logger.SetLevel(log.DebugLevel)
	}

	ch, err := serial.Open(cfg.Port, cfg.Baud)
	if err != nil {
		return err
	}
	defer ch.Close()

	theme := serline.DefaultTheme()
	scroll := bt.NewScrollback(80, bt.WithRenderer(func(text string, width int) string {
		return goldmark.Render(text, width, theme)
	}))

	// The TUI model is built after the client, so the event handler
	// captures the variable; events only fire once the program runs.
	var tui bt.Model
	client := esp32.New(ch,
		esp32.WithLogger(logger),
		esp32.WithResponseLimit(cfg.ResponseLimit),
		esp32.WithEventHandler(func(e serline.Event) {
			tui.Post(bt.EngineEventMsg{Event: e})
		}),
	)

	conv := serline.NewConversation(client, scroll,
		serline.WithHistory(serline.NewHistory(cfg.HistoryCapacity)))

	app := bt.App{
		Ask:   conv.Ask,
		Clear: conv.Clear,
		Save: func() (string, error) {
			if err := serlinejson.Save(cfg.Transcript, conv.Session()); err != nil {
				return "", err
			}
			return cfg.Transcript, nil
		},
	}
	if !*offline {
		app.Connect = conv.Connect
	}

	tui = bt.New(app, scroll, theme)
	scroll.SetNotify(func() { tui.Post(bt.RefreshMsg{}) })

	if err := bt.Run(ctx, tui); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}

	// Save the transcript on exit when anything was said.
	if s := conv.Session(); len(s.Turns) > 0 {
		if err := serlinejson.Save(cfg.Transcript, s); err != nil {
			return fmt.Errorf("save transcript: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Transcript saved to %s\n", cfg.Transcript)
	}

	return nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/app"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/auth"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/browser"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/config"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/logger"
	"github.com/rjsanjaymandal/fitByte-sub000/web"
)

var (
	version = "dev"
)

const banner = `
  ___ _ _   ___       _       
 | __(_) |_| _ )_  _ | |_ ___ 
 | _|| |  _| _ \ || ||  _/ -_)
 |_| |_|\__|___/\_, | \__\___|
                |__/          
`

const usage = `FitByte - storefront server

Usage:
  fitbyte [options]

Options:
  -port int               HTTP server port (default 8081, $FITBYTE_PORT)
  -db string              SQLite database path (default "fitbyte.db", $FITBYTE_DB)
  -adminpw string         Admin password, auto-generated if not set ($FITBYTE_ADMIN_PASSWORD)
  -loglevel string        debug, info, warn, error (default "info", $FITBYTE_LOG_LEVEL)
  -logformat string       text or json (default "text", $FITBYTE_LOG_FORMAT)
  -baseurl string         Public base URL for QR codes and checkout ($FITBYTE_BASE_URL)
  -snapshot-interval dur  Stock rebroadcast interval, 0 disables (default 30s, $FITBYTE_SNAPSHOT_INTERVAL)
  -nokeyboard             Disable keyboard shortcuts
  -version                Show version and exit

A .env file in the working directory is read before the environment.

Keyboard Shortcuts (when enabled):
  a              Open storefront in browser
  h              Toggle HTTP request logging
  l              Cycle log level (debug → info → warn → error)
  q              Quit server
  ?              Show keyboard help
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	cfg, err := config.LoadServer(args, io.Discard)
	if errors.Is(err, flag.ErrHelp) {
		fmt.Fprint(os.Stderr, usage)
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n\n%s", err, usage)
		return 2
	}
	if cfg.ShowVersion {
		fmt.Printf("fitbyte %s\n", version)
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Raw mode lets shortcuts fire without Enter
	var out io.Writer = os.Stdout
	fd := int(os.Stdin.Fd())
	interactive := !cfg.NoKeyboard && term.IsTerminal(fd)
	if interactive {
		state, err := term.MakeRaw(fd)
		if err != nil {
			interactive = false
		} else {
			defer term.Restore(fd, state)
			out = crlfWriter{w: os.Stdout}
		}
	}

	fmt.Fprintf(out, "%s%s%s%s\n", bold, cyan, banner, reset)

	appLog := logger.NewWithWriter(out, logger.ParseLevel(cfg.LogLevel), logger.ParseFormat(cfg.LogFormat))

	password := cfg.AdminPassword
	if password == "" {
		password = auth.GeneratePassword()
	}
	appLog.Info("Admin password", "password", password)

	a, err := app.New(appLog, app.Options{
		DBPath:           cfg.DBPath,
		BaseURL:          cfg.BaseURL,
		SnapshotInterval: cfg.SnapshotInterval,
		TemplatesFS:      web.GetTemplatesFS(),
		StaticFS:         web.GetStaticFS(),
		AdminAuth:        auth.New(password),
	})
	if err != nil {
		appLog.Error("Failed to initialize application", "error", err)
		return 1
	}
	defer a.Close()

	if interactive {
		printKeyboardHelp(out)
		c := &console{
			out:      out,
			log:      appLog,
			storeURL: fmt.Sprintf("http://localhost:%d/", cfg.Port),
			open:     browser.Open,
			quit:     stop,
		}
		go c.listen(os.Stdin)
	} else if !cfg.NoKeyboard {
		appLog.Debug("Stdin is not a terminal, keyboard shortcuts disabled")
	}

	if err := a.Run(ctx, cfg.Addr()); err != nil {
		appLog.Error("Server failed", "error", err)
		return 1
	}
	return 0
}

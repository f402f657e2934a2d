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

	"github.com/rjsanjaymandal/fitByte-sub000/internal/browser"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/config"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/kvstore"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/logger"
	"github.com/rjsanjaymandal/fitByte-sub000/pkg/storeclient"
)

const usage = `fitbyte-shop - command line shopper for a FitByte storefront

Usage:
  fitbyte-shop -product SLUG [options]

Options:
  -server string     Storefront URL (default "http://localhost:8081", $FITBYTE_SERVER)
  -product string    Product slug (required)
  -size string       Size to select
  -color string      Color to select
  -qty int           Quantity (default 1)
  -email string      Waitlist email, or login email with -password
  -password string   Customer password
  -action string     show, add, buy, join, leave, status or watch (default "show")
  -state string      SQLite file for guest id and waitlist cache (default "fitbyte-shop.db", $FITBYTE_STATE)
  -redis string      Redis URL for client state, overrides -state ($FITBYTE_REDIS_URL)
  -loglevel string   debug, info, warn, error (default "warn")
  -logformat string  text or json (default "text")
`

// closingStore is a kvstore.Store that owns a connection
type closingStore interface {
	kvstore.Store
	Close() error
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	cfg, err := config.LoadShop(args, io.Discard)
	if errors.Is(err, flag.ErrHelp) {
		fmt.Fprint(os.Stderr, usage)
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n\n%s", err, usage)
		return 2
	}

	log := logger.NewWithWriter(os.Stderr, logger.ParseLevel(cfg.LogLevel), logger.ParseFormat(cfg.LogFormat))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Error("Failed to open client state", "error", err)
		return 1
	}
	defer store.Close()

	s := &shopper{
		out:    os.Stdout,
		log:    log,
		client: storeclient.NewHTTPClient(cfg.Server, log, storeclient.WithOpener(browser.Open)),
		store:  store,
	}
	if err := s.run(ctx, cfg); err != nil {
		log.Debug("Action failed", "action", cfg.Action, "error", err)
		return 1
	}
	return 0
}

func openStore(ctx context.Context, cfg config.ShopConfig) (closingStore, error) {
	if cfg.RedisURL != "" {
		return kvstore.OpenRedis(ctx, cfg.RedisURL, "fitbyte:")
	}
	return kvstore.OpenSQLite(cfg.StatePath)
}

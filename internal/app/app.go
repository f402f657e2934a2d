package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/auth"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/handlers"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/logger"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/repository"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/services"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

// Options configures a new App
type Options struct {
	DBPath string
	// BaseURL, when set, always replaces the stored base_url setting
	BaseURL          string
	SnapshotInterval time.Duration
	TemplatesFS      fs.FS
	StaticFS         fs.FS
	AdminAuth        *auth.Auth
}

// App holds all application dependencies
type App struct {
	log              logger.Logger
	handlers         *handlers.Handlers
	repo             *repository.Repository
	settings         *services.SettingsService
	hub              *websocket.Hub
	baseURL          string
	snapshotInterval time.Duration
	closeOnce        sync.Once
}

// New creates and initializes a new application instance
func New(log logger.Logger, opts Options) (*App, error) {
	repo, err := repository.New(opts.DBPath)
	if err != nil {
		return nil, err
	}

	// Initialize services
	settingsService := services.NewSettingsService(log, repo)
	stockService := services.NewStockService(log, repo)
	svc := handlers.Services{
		Catalog:  services.NewCatalogService(log, repo, settingsService),
		Stock:    stockService,
		Cart:     services.NewCartService(log, repo, stockService),
		Preorder: services.NewPreorderService(log, repo),
		Account:  services.NewAccountService(log, repo),
		Settings: settingsService,
	}

	// Stock replacements fan out to product page sockets
	hub := websocket.New(log, stockService)
	hub.Start()
	stockService.SetBroadcaster(hub)

	h, err := handlers.New(
		svc,
		opts.TemplatesFS,
		handlers.NewStaticServer(opts.StaticFS),
		opts.AdminAuth,
		auth.NewCustomers(),
		hub,
		log,
	)
	if err != nil {
		hub.Stop()
		repo.Close()
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	return &App{
		log:              log,
		handlers:         h,
		repo:             repo,
		settings:         settingsService,
		hub:              hub,
		baseURL:          opts.BaseURL,
		snapshotInterval: opts.SnapshotInterval,
	}, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close stops the hub and closes the database. Safe to call more than once.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.hub.Stop()
		if err := a.repo.Close(); err != nil {
			a.log.Warn("Failed to close database", "error", err)
		}
	})
}

// Run serves HTTP on addr and refreshes watched stock until ctx is cancelled
// or the server fails. The server is shut down gracefully on the way out.
func (a *App) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	baseURL := a.baseURL
	if baseURL != "" {
		if err := a.settings.SetBaseURL(ctx, baseURL); err != nil {
			a.log.Warn("Failed to set base_url", "error", err)
		}
	} else {
		baseURL = fmt.Sprintf("http://%s:%d", getPreferredIP(realNetworkProvider{}), listenPort(ln))
		a.setDefaultBaseURL(ctx, baseURL)
	}

	server := &http.Server{Handler: a.Router(), ReadHeaderTimeout: 10 * time.Second}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info("Server starting", "url", baseURL)
		a.log.Info("Admin URL", "url", baseURL+"/admin")
		if err := server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		a.hub.StartStockRefresh(ctx, a.snapshotInterval)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.log.Info("Server shutting down")
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func listenPort(ln net.Listener) int {
	if tcp, ok := ln.Addr().(*net.TCPAddr); ok {
		return tcp.Port
	}
	return 0
}

// setDefaultBaseURL sets the base URL setting if not already configured
// or if current value uses localhost (which isn't useful for QR codes)
func (a *App) setDefaultBaseURL(ctx context.Context, baseURL string) {
	existing, err := a.settings.GetBaseURL(ctx)
	if err != nil {
		a.log.Warn("Failed to read base_url", "error", err)
		return
	}

	needsUpdate := existing == "" || strings.Contains(existing, "localhost") || strings.Contains(existing, "127.0.0.1")
	if needsUpdate {
		if err := a.settings.SetBaseURL(ctx, baseURL); err != nil {
			a.log.Warn("Failed to set default base_url", "error", err)
		} else {
			a.log.Info("Default base URL set", "url", baseURL)
		}
	}
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags {
	return r.iface.Flags
}

func (r realInterface) Addrs() ([]net.Addr, error) {
	return r.iface.Addrs()
}

// networkProvider lists network interfaces
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// getPreferredIP returns the best IPv4 address for phones on the same
// network to reach the shop. Private addresses win; localhost is the
// last resort.
func getPreferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var candidates []net.IP
	for _, iface := range ifaces {
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil || ip.To4() == nil || ip.IsLoopback() {
				continue
			}
			candidates = append(candidates, ip)
		}
	}

	for _, ip := range candidates {
		if ip.IsPrivate() {
			return ip.String()
		}
	}
	if len(candidates) > 0 {
		return candidates[0].String()
	}
	return "localhost"
}

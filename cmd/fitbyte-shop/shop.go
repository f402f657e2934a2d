package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/config"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/kvstore"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/logger"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/models"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/storefront"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/variant"
	"github.com/rjsanjaymandal/fitByte-sub000/pkg/storeclient"
)

// shopper runs one action against a product page
type shopper struct {
	out    io.Writer
	log    logger.Logger
	client storeclient.Client
	store  kvstore.Store
}

func (s *shopper) notify(n storefront.Notice) {
	fmt.Fprintf(s.out, "[%s] %s\n", n.Level, n.Message)
}

// fail reports errors raised before a session exists. Session errors are
// reported through notices.
func (s *shopper) fail(err error) error {
	s.notify(storefront.Notice{Level: storefront.LevelError, Message: err.Error()})
	return err
}

func (s *shopper) run(ctx context.Context, cfg config.ShopConfig) error {
	if cfg.Email != "" && cfg.Password != "" {
		if err := s.client.Login(ctx, cfg.Email, cfg.Password); err != nil {
			return s.fail(fmt.Errorf("login: %w", err))
		}
		s.log.Info("Logged in", "email", cfg.Email)
	}

	product, err := s.client.FetchProduct(ctx, cfg.Product)
	if err != nil {
		return s.fail(fmt.Errorf("load product %q: %w", cfg.Product, err))
	}

	session := storefront.NewSession(s.log, *product, storefront.Deps{
		Stock:         s.client,
		Cart:          s.client,
		Nav:           s.client,
		Waitlist:      s.client,
		Store:         s.store,
		Notifier:      storefront.NotifierFunc(s.notify),
		Authenticated: s.client.Authenticated,
	})
	defer session.Close()

	if err := session.Mount(ctx); err != nil {
		return err
	}
	if cfg.Size != "" {
		session.SelectSize(cfg.Size)
	}
	if cfg.Color != "" {
		session.SelectColor(cfg.Color)
	}
	session.SetQuantity(cfg.Quantity)

	switch cfg.Action {
	case config.ActionShow:
		printView(s.out, *product, session.View())
		return nil
	case config.ActionAdd:
		return session.AddToCart(ctx)
	case config.ActionBuy:
		return session.BuyNow(ctx)
	case config.ActionJoin:
		return session.JoinWaitlist(ctx, cfg.Email)
	case config.ActionLeave:
		return session.LeaveWaitlist(ctx)
	case config.ActionStatus:
		if err := session.RefreshWaitlist(ctx); err != nil {
			return err
		}
		printView(s.out, *product, session.View())
		return nil
	case config.ActionWatch:
		printView(s.out, *product, session.View())
		err := session.Watch(ctx, func(v storefront.View) {
			fmt.Fprintln(s.out)
			printView(s.out, *product, v)
		})
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	}
	return fmt.Errorf("unknown action %q", cfg.Action)
}

func printView(w io.Writer, p models.Product, v storefront.View) {
	fmt.Fprintf(w, "%s (%s)  %s\n", p.Name, p.Slug, formatPrice(p.Price))
	if len(v.Sizes) > 0 {
		fmt.Fprintf(w, "Sizes:     %s\n", formatOptions(v.Sizes, v.Selection.Size))
	}
	if len(v.Colors) > 0 {
		fmt.Fprintf(w, "Colors:    %s\n", formatOptions(v.Colors, v.Selection.Color))
	}

	switch {
	case !v.StockLoaded:
		fmt.Fprintln(w, "Stock:     loading")
	case v.GlobalOutOfStock:
		fmt.Fprintln(w, "Stock:     sold out")
	case v.SelectionOutOfStock:
		fmt.Fprintln(w, "Stock:     selection sold out")
	default:
		fmt.Fprintf(w, "Stock:     %d for selection, %d total\n", v.StockForSelection, v.TotalStock)
	}
	fmt.Fprintf(w, "Quantity:  %d (max %d)\n", v.Selection.Quantity, v.MaxQuantity)
	if v.WaitlistActive || v.OnWaitlist {
		fmt.Fprintf(w, "Waitlist:  %s\n", v.Waitlist)
	}
}

// formatOptions marks the selected option with * and unavailable ones with (x)
func formatOptions(opts []variant.OptionState, selected string) string {
	parts := make([]string, 0, len(opts))
	for _, o := range opts {
		s := o.Value
		if o.Value == selected {
			s += "*"
		}
		if !o.Available {
			s += "(x)"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

func formatPrice(cents int) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

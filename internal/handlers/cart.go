package handlers

import (
	"net/http"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/auth"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/services"
)

func (h *Handlers) handleGetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.Cart.GetCart(r.Context(), auth.CartID(w, r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondOK(w, cart)
}

func (h *Handlers) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var req AddCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	cartID := auth.CartID(w, r)
	cart, err := h.Cart.AddItem(r.Context(), cartID, req.CartEntry)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.Log.Debug("Cart add", "cart", cartID, "open_cart", req.Options.OpenCart, "show_toast", req.Options.ShowToast)
	respondOK(w, cart)
}

func (h *Handlers) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	cart, err := h.Cart.RemoveItem(r.Context(), auth.CartID(w, r), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondOK(w, cart)
}

// handleCheckout returns the checkout link. Without a configured base_url the
// link points back at the host the request came in on.
func (h *Handlers) handleCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	url, err := h.Settings.CheckoutURL(ctx)
	if err == services.ErrBaseURLNotSet {
		path, perr := h.Settings.GetCheckoutPath(ctx)
		if perr != nil {
			h.fail(w, r, perr)
			return
		}
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		url, err = scheme+"://"+r.Host+path, nil
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondOK(w, CheckoutResponse{URL: url})
}

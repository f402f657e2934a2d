package handlers

import (
	"net/http"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/auth"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/services"
)

// identity builds a waitlist identity; a customer session outranks the
// email and guest id sent by the client
func identity(r *http.Request, email, guestID string) services.Identity {
	id := services.Identity{Email: email, GuestID: guestID}
	if customerID, ok := auth.CustomerID(r.Context()); ok {
		id.CustomerID = customerID
	}
	return id
}

func (h *Handlers) handleTogglePreorder(w http.ResponseWriter, r *http.Request) {
	var req PreorderToggleRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.Preorder.Toggle(r.Context(), req.ProductID, identity(r, req.Email, req.GuestID))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondOK(w, result)
}

func (h *Handlers) handlePreorderStatus(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIntQuery(r, "product_id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	q := r.URL.Query()
	joined, err := h.Preorder.IsMember(r.Context(), productID, identity(r, q.Get("email"), q.Get("guest_id")))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondOK(w, PreorderStatusResponse{Joined: joined})
}

func (h *Handlers) handleListPreorders(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIntQuery(r, "product_id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	preorders, err := h.Preorder.List(r.Context(), productID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondOK(w, preorders)
}

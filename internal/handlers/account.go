package handlers

import (
	"net/http"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/auth"
)

func (h *Handlers) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	customer, err := h.Account.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	// Registration logs the new customer in
	auth.SetCustomerCookie(w, h.Customers.Start(customer.ID))
	respondCreated(w, customer)
}

func (h *Handlers) handleCustomerLogin(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	customer, err := h.Account.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	auth.SetCustomerCookie(w, h.Customers.Start(customer.ID))
	respondOK(w, customer)
}

func (h *Handlers) handleCustomerLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CustomerCookieName); err == nil {
		h.Customers.End(cookie.Value)
	}

	auth.ClearCustomerCookie(w)
	respondSuccess(w, "Logged out")
}

func (h *Handlers) handleMe(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CustomerID(r.Context())
	customer, err := h.Account.GetCustomer(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondOK(w, customer)
}

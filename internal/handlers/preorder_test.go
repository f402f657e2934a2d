package handlers_test

import (
	"net/http"
	"testing"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/auth"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/handlers"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/models"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/services"
)

func servicesSettings(baseURL, checkoutPath string) services.Settings {
	return services.Settings{BaseURL: baseURL, CheckoutPath: checkoutPath}
}

func TestTogglePreorder_Guest(t *testing.T) {
	setup := newTestSetup(t)
	p := setup.seed(t, tee)
	req := handlers.PreorderToggleRequest{ProductID: p.ID, GuestID: "guest-1"}

	steps := []string{models.PreorderAdded, models.PreorderAlreadyJoined}
	for _, want := range steps {
		rec := setup.do(t, http.MethodPost, "/api/preorders/toggle", req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var result models.PreorderResult
		decode(t, rec, &result)
		if result.Status != want || result.Message == "" {
			t.Errorf("expected %q, got %+v", want, result)
		}
	}

	rec := setup.do(t, http.MethodGet, "/api/preorders/status?product_id="+itoa(p.ID)+"&guest_id=guest-1", nil)
	var status handlers.PreorderStatusResponse
	decode(t, rec, &status)
	if !status.Joined {
		t.Error("expected guest to be on the waitlist")
	}

	rec = setup.do(t, http.MethodGet, "/api/preorders/status?product_id="+itoa(p.ID)+"&guest_id=guest-2", nil)
	decode(t, rec, &status)
	if status.Joined {
		t.Error("expected other guest not to be on the waitlist")
	}
}

func TestTogglePreorder_Rejects(t *testing.T) {
	setup := newTestSetup(t)
	p := setup.seed(t, tee)

	tests := []struct {
		name   string
		req    handlers.PreorderToggleRequest
		status int
		code   string
	}{
		{"no identity", handlers.PreorderToggleRequest{ProductID: p.ID}, http.StatusBadRequest, handlers.ErrCodeValidation},
		{"bad email", handlers.PreorderToggleRequest{ProductID: p.ID, Email: "nope"}, http.StatusBadRequest, handlers.ErrCodeValidation},
		{"no product", handlers.PreorderToggleRequest{Email: "a@b.com"}, http.StatusBadRequest, handlers.ErrCodeValidation},
		{"unknown product", handlers.PreorderToggleRequest{ProductID: 999, Email: "a@b.com"}, http.StatusNotFound, handlers.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := setup.do(t, http.MethodPost, "/api/preorders/toggle", tt.req)
			expectError(t, rec, tt.status, tt.code)
		})
	}
}

func TestTogglePreorder_CustomerSessionWins(t *testing.T) {
	setup := newTestSetup(t)
	p := setup.seed(t, tee)

	rec := setup.do(t, http.MethodPost, "/api/account/register", handlers.CredentialsRequest{Email: "sam@example.com", Password: "long-enough"})
	session := cookieNamed(rec, auth.CustomerCookieName)
	if session == nil {
		t.Fatal("expected a customer session cookie")
	}

	// The guest id in the body is ignored for a logged-in customer, so the
	// second toggle leaves the waitlist
	req := handlers.PreorderToggleRequest{ProductID: p.ID, GuestID: "guest-1"}
	for _, want := range []string{models.PreorderAdded, models.PreorderRemoved, models.PreorderAdded} {
		rec := setup.do(t, http.MethodPost, "/api/preorders/toggle", req, session)
		var result models.PreorderResult
		decode(t, rec, &result)
		if result.Status != want {
			t.Errorf("expected %q, got %+v", want, result)
		}
	}

	rec = setup.do(t, http.MethodGet, "/api/preorders/status?product_id="+itoa(p.ID), nil, session)
	var status handlers.PreorderStatusResponse
	decode(t, rec, &status)
	if !status.Joined {
		t.Error("expected customer to be on the waitlist")
	}

	rec = setup.do(t, http.MethodGet, "/api/preorders/status?product_id="+itoa(p.ID)+"&guest_id=guest-1", nil)
	decode(t, rec, &status)
	if status.Joined {
		t.Error("guest id must not have been recorded for the customer")
	}
}

func TestListPreorders_Admin(t *testing.T) {
	setup := newTestSetup(t)
	p := setup.seed(t, tee)
	other := setup.seed(t, models.Product{Slug: "cap", Name: "Cap", Active: true})

	for _, req := range []handlers.PreorderToggleRequest{
		{ProductID: p.ID, Email: "A@Example.com"},
		{ProductID: p.ID, GuestID: "g-1"},
		{ProductID: other.ID, GuestID: "g-2"},
	} {
		setup.do(t, http.MethodPost, "/api/preorders/toggle", req)
	}

	rec := setup.do(t, http.MethodGet, "/api/admin/preorders", nil)
	expectError(t, rec, http.StatusUnauthorized, handlers.ErrCodeUnauthorized)

	tests := []struct {
		query string
		count int
	}{
		{"", 3},
		{"?product_id=" + itoa(p.ID), 2},
		{"?product_id=" + itoa(other.ID), 1},
	}
	for _, tt := range tests {
		rec := setup.do(t, http.MethodGet, "/api/admin/preorders"+tt.query, nil, setup.authCookie)
		var preorders []models.Preorder
		decode(t, rec, &preorders)
		if len(preorders) != tt.count {
			t.Errorf("%q: expected %d memberships, got %d", tt.query, tt.count, len(preorders))
		}
	}
}

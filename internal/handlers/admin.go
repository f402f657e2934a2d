package handlers

import (
	"net/http"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/services"
)

// ==================== Admin Pages ====================

func (h *Handlers) handleAdminStock(w http.ResponseWriter, r *http.Request) {
	storeName, _ := h.Settings.GetStoreName(r.Context())
	data := AdminPageData{
		Title:     "Stock",
		PageTitle: "Stock",
		ActiveNav: "stock",
		StoreName: storeName,
	}
	h.templates.AdminStock.ExecuteTemplate(w, "admin", data)
}

// ==================== Settings ====================

func (h *Handlers) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	storeName, err := h.Settings.GetStoreName(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	baseURL, _ := h.Settings.GetBaseURL(ctx)
	checkoutPath, _ := h.Settings.GetCheckoutPath(ctx)

	respondOK(w, SettingsResponse{
		StoreName:    storeName,
		BaseURL:      baseURL,
		CheckoutPath: checkoutPath,
	})
}

func (h *Handlers) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	settings := services.Settings{
		StoreName:    req.StoreName,
		BaseURL:      req.BaseURL,
		CheckoutPath: req.CheckoutPath,
	}
	if err := h.Settings.UpdateSettings(r.Context(), settings); err != nil {
		h.fail(w, r, err)
		return
	}

	respondSuccess(w, "Settings updated")
}

// ==================== Stats ====================

func (h *Handlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Settings.GetStats(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondOK(w, stats)
}

// ==================== Database Management ====================

func (h *Handlers) handleResetDatabase(w http.ResponseWriter, r *http.Request) {
	var req DatabaseResetRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.Settings.ResetTables(r.Context(), req.Tables)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	respondOK(w, ResetResponse{Message: result.Message, Tables: result.Tables})
}

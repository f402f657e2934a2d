package handlers

import (
	"net/http"
)

func (h *Handlers) handleGetStock(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "productID")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	snapshot, err := h.Stock.GetStock(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondOK(w, snapshot)
}

func (h *Handlers) handleReplaceStock(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "productID")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req StockReplaceRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	snapshot, err := h.Stock.ReplaceStock(r.Context(), id, req.Items)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondOK(w, snapshot)
}

// handleStockSocket subscribes a websocket to one product's stock. The
// product must exist so clients do not wait on a feed that never speaks.
func (h *Handlers) handleStockSocket(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "productID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if _, err := h.Catalog.GetProductByID(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.Hub.ServeWs(w, r, id)
}

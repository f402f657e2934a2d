package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/errors"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/models"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/services"
)

// IndexPageData holds the data for the storefront index
type IndexPageData struct {
	StoreName string
	Products  []models.Product
}

// ProductPageData holds the data for a product page
type ProductPageData struct {
	StoreName string
	Product   *models.Product
}

// ==================== Public Pages ====================

func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	products, err := h.Catalog.ListProducts(ctx, false)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	storeName, _ := h.Settings.GetStoreName(ctx)
	h.templates.Index.Execute(w, IndexPageData{StoreName: storeName, Products: products})
}

func (h *Handlers) handleProductPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	product, err := h.Catalog.GetProduct(ctx, chi.URLParam(r, "slug"))
	if errors.IsKind(err, errors.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	storeName, _ := h.Settings.GetStoreName(ctx)
	h.templates.Product.Execute(w, ProductPageData{StoreName: storeName, Product: product})
}

// ==================== Catalog API ====================

func (h *Handlers) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Catalog.ListProducts(r.Context(), false)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondOK(w, products)
}

func (h *Handlers) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.Catalog.GetProduct(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondOK(w, product)
}

func (h *Handlers) handleSearch(w http.ResponseWriter, r *http.Request) {
	products, err := h.Catalog.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondOK(w, products)
}

func (h *Handlers) handleAvailability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	quantity, err := parseIntQuery(r, "quantity")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	product, err := h.Catalog.GetProduct(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	q := r.URL.Query()
	view, err := h.Stock.Availability(ctx, *product, services.AvailabilityQuery{
		Size:     q.Get("size"),
		Color:    q.Get("color"),
		Quantity: quantity,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondOK(w, view)
}

func (h *Handlers) handleProductQR(w http.ResponseWriter, r *http.Request) {
	png, err := h.Catalog.GenerateQRImage(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}

// ==================== Admin Catalog ====================

func (h *Handlers) handleAdminListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Catalog.ListProducts(r.Context(), true)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondOK(w, products)
}

func (h *Handlers) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	product := req.product(0)
	id, err := h.Catalog.CreateProduct(r.Context(), product)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	created, err := h.Catalog.GetProductByID(r.Context(), int(id))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	respondCreated(w, ProductResponse{ID: id, Slug: created.Slug})
}

func (h *Handlers) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.Catalog.UpdateProduct(r.Context(), req.product(id)); err != nil {
		h.fail(w, r, err)
		return
	}
	respondSuccess(w, "Product updated")
}

func (h *Handlers) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.Catalog.DeleteProduct(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	respondDeleted(w)
}

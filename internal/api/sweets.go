package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/erazemk/mithai/internal/errs"
	"github.com/erazemk/mithai/internal/imaging"
	"github.com/erazemk/mithai/internal/shop"
)

// SweetsHandler handles catalog endpoints.
type SweetsHandler struct {
	Shop *shop.Service
	Log  *zap.Logger
}

// List handles GET /api/sweets.
func (h *SweetsHandler) List(w http.ResponseWriter, r *http.Request) {
	sweets, err := h.Shop.ListSweets(r.Context())
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	jsonSuccess(w, http.StatusOK, envelope{"sweets": sweets})
}

// Create handles POST /api/sweets.
func (h *SweetsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd shop.CreateSweetCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	sweet, err := h.Shop.CreateSweet(r.Context(), GetClaims(r.Context()).UserID, cmd)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	jsonSuccess(w, http.StatusCreated, envelope{"message": "New sweet has been added", "sweet": sweet})
}

// Search handles GET /api/sweets/search.
func (h *SweetsHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sweets, err := h.Shop.SearchSweets(r.Context(), shop.SearchQuery{
		Name:     q.Get("name"),
		Category: q.Get("category"),
		MinPrice: q.Get("minPrice"),
		MaxPrice: q.Get("maxPrice"),
	})
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	jsonSuccess(w, http.StatusOK, envelope{"count": len(sweets), "sweets": sweets})
}

// Mine handles GET /api/sweets/mine.
func (h *SweetsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	sweets, err := h.Shop.ListMySweets(r.Context(), GetClaims(r.Context()).UserID)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	jsonSuccess(w, http.StatusOK, envelope{"count": len(sweets), "sweets": sweets})
}

// Update handles PUT /api/sweets/{id}.
func (h *SweetsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := sweetID(r)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	var cmd shop.UpdateSweetCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	sweet, err := h.Shop.UpdateSweet(r.Context(), id, GetClaims(r.Context()).UserID, cmd)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	jsonSuccess(w, http.StatusOK, envelope{"message": "Sweet details updated successfully", "sweet": sweet})
}

// Delete handles DELETE /api/sweets/{id}.
func (h *SweetsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := sweetID(r)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	if err := h.Shop.DeleteSweet(r.Context(), id, GetClaims(r.Context()).UserID); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	jsonSuccess(w, http.StatusOK, envelope{"message": "sweet has been deleted"})
}

// UploadImage handles PUT /api/sweets/{id}/image with a multipart "image"
// field.
func (h *SweetsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := sweetID(r)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	// Room for the multipart framing around the file.
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxBytes+64<<10)
	if err := r.ParseMultipartForm(imaging.MaxBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	if err := h.Shop.SetSweetImage(r.Context(), id, GetClaims(r.Context()).UserID, file); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	jsonSuccess(w, http.StatusOK, envelope{"message": "image uploaded"})
}

// GetImage handles GET /api/sweets/{id}/image.
func (h *SweetsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := sweetID(r)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	data, mime, err := h.Shop.SweetImage(r.Context(), id)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func sweetID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.E(errs.Validation, "invalid sweet id")
	}
	return id, nil
}

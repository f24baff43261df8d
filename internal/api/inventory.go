package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/erazemk/mithai/internal/shop"
)

// InventoryHandler handles stock and ledger endpoints.
type InventoryHandler struct {
	Shop *shop.Service
	Log  *zap.Logger
}

// Purchase handles POST /api/sweets/{id}/purchase.
func (h *InventoryHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	id, err := sweetID(r)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	var cmd shop.QuantityCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	purchase, err := h.Shop.Purchase(r.Context(), id, GetClaims(r.Context()).UserID, cmd)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	jsonSuccess(w, http.StatusOK, envelope{"message": "Sweet purchased successfully", "newPurchase": purchase})
}

// Restock handles POST /api/sweets/{id}/restock.
func (h *InventoryHandler) Restock(w http.ResponseWriter, r *http.Request) {
	id, err := sweetID(r)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	var cmd shop.QuantityCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	sweet, err := h.Shop.Restock(r.Context(), id, GetClaims(r.Context()).UserID, cmd)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	jsonSuccess(w, http.StatusOK, envelope{"message": "Sweet restocked successfully", "sweet": sweet})
}

// ListPurchases handles GET /api/purchases.
func (h *InventoryHandler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.Shop.ListPurchases(r.Context(), GetClaims(r.Context()).UserID)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	jsonSuccess(w, http.StatusOK, envelope{"purchases": purchases})
}

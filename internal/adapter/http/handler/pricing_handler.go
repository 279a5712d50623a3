package handler

import (
	"net/http"

	"github.com/prospectly/coinledger/internal/adapter/http/dto"
	"github.com/prospectly/coinledger/internal/pricing"
)

// PricingHandler serves the coin price book to UI callers.
type PricingHandler struct {
	book *pricing.PriceBook
}

// NewPricingHandler creates a new PricingHandler.
func NewPricingHandler(book *pricing.PriceBook) *PricingHandler {
	return &PricingHandler{book: book}
}

// Get returns the full price book.
func (h *PricingHandler) Get(w http.ResponseWriter, r *http.Request) {
	costs := make(map[string]int64, len(h.book.Actions()))
	for _, action := range h.book.Actions() {
		cost, _ := h.book.Cost(action)
		costs[action] = cost
	}

	writeJSON(w, http.StatusOK, dto.PricingResponse{Costs: costs})
}

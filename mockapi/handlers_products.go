package mockapi

import (
	"net/http"
)

func (s *Server) ProductCountHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, s.catalog.Count(), http.StatusOK)
	}
}

func (s *Server) SalesUnitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, s.catalog.Sales, http.StatusOK)
	}
}

func (s *Server) RevenueHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, s.catalog.Revenue, http.StatusOK)
	}
}

func (s *Server) UnitSoldHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, s.catalog.Units, http.StatusOK)
	}
}

func (s *Server) ProductsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"products": s.catalog.Products}, http.StatusOK)
	}
}

func (s *Server) ReviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID int `json:"id"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeJSONError(w, "Product id required", http.StatusBadRequest)
			return
		}

		reviews, err := s.catalog.ReviewsFor(req.ID)
		if err != nil {
			writeJSONError(w, "Product not found", http.StatusNotFound)
			return
		}
		writeJSON(w, map[string]any{"review": reviews}, http.StatusOK)
	}
}

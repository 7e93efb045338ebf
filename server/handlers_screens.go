package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jrsteele09/product-console/api"
	"github.com/jrsteele09/product-console/session"
)

type kpis struct {
	ActiveProducts string `json:"activeProducts"`
	TotalProducts  string `json:"totalProducts"`
	UnitsSold      string `json:"unitsSold"`
	Revenue        string `json:"revenue"`
}

type dashboardBody struct {
	KPIs kpis `json:"kpis"`
	*api.Dashboard
}

type profileBody struct {
	Profile session.UserProfile   `json:"profile"`
	Role    string                `json:"role"`
	Screens []session.ScreenGrant `json:"screens"`
}

func (s *Server) DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dash, err := s.api.Dashboard(r.Context())
		if err != nil {
			s.backendError(w, r, err)
			return
		}
		writeJSON(w, dashboardBody{
			KPIs: kpis{
				ActiveProducts: api.FormatCompact(float64(dash.Count.ActiveCount)),
				TotalProducts:  api.FormatCompact(float64(dash.Count.TotalCount)),
				UnitsSold:      api.FormatCompact(dash.Sales.Units),
				Revenue:        api.FormatCompact(dash.Sales.Revenue),
			},
			Dashboard: dash,
		}, http.StatusOK)
	}
}

// ProductsHandler serves one page of the product table. Query parameters are
// q for the name search and page, counted from zero.
func (s *Server) ProductsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := queryInt(r, "page", 0)
		if err != nil {
			writeJSONError(w, "page must be a number", http.StatusBadRequest)
			return
		}
		size, err := queryInt(r, "size", api.DefaultPageSize)
		if err != nil {
			writeJSONError(w, "size must be a number", http.StatusBadRequest)
			return
		}

		products, err := s.api.Products(r.Context())
		if err != nil {
			s.backendError(w, r, err)
			return
		}
		writeJSON(w, api.Paginate(products, r.URL.Query().Get("q"), page, size), http.StatusOK)
	}
}

func (s *Server) ReviewsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			writeJSONError(w, "product id must be a number", http.StatusBadRequest)
			return
		}
		reviews, err := s.api.Reviews(r.Context(), id)
		if err != nil {
			s.backendError(w, r, err)
			return
		}
		writeJSON(w, map[string]any{"productId": id, "reviews": reviews}, http.StatusOK)
	}
}

func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := s.store.Snapshot()
		writeJSON(w, profileBody{
			Profile: snap.UserProfile,
			Role:    snap.UserProfile.UserType.Label(),
			Screens: snap.PermittedScreens,
		}, http.StatusOK)
	}
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

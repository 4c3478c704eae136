// Package promotions exposes the discount registry over HTTP.
package promotions

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/kilianp07/promo/core/audit"
	"github.com/kilianp07/promo/core/discount"
	"github.com/kilianp07/promo/pkg/export"
)

// MaxFestivalLen bounds the festival name accepted by the execute endpoint.
const MaxFestivalLen = 256

type listResponse struct {
	Promotions []discount.Entry `json:"promotions"`
	Summary    discount.Summary `json:"summary"`
}

type errorResponse struct {
	Error        string                 `json:"error"`
	Festival     string                 `json:"festival,omitempty"`
	Announcement *discount.Announcement `json:"announcement,omitempty"`
}

// NewHandler returns the promotion API:
//
//	GET  /api/promotions                      registered festivals and price summary
//	POST /api/promotions/execute?festival=... apply the festival's discount
//	GET  /api/promotions/log                  audit records
//
// The log endpoint requires "Authorization: Bearer <token>" when token is
// non-empty.
func NewHandler(reg *discount.Registry, store audit.Store, token string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/promotions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, listResponse{
			Promotions: reg.Entries(),
			Summary:    discount.Summarize(reg),
		})
	})
	mux.HandleFunc("POST /api/promotions/execute", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if !q.Has("festival") {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "festival query parameter is required"})
			return
		}
		festival := q.Get("festival")
		if len(festival) > MaxFestivalLen {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "festival name too long"})
			return
		}
		a, err := reg.Execute(festival)
		switch {
		case errors.Is(err, discount.ErrNoActivePromotion):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Festival: festival})
		case err != nil:
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error(), Festival: festival, Announcement: &a})
		default:
			writeJSON(w, http.StatusOK, a)
		}
	})
	mux.Handle("GET /api/promotions/log", NewLogHandler(store, token))
	return mux
}

// NewLogHandler serves audit records filtered by the festival, outcome,
// start and end (RFC 3339) query parameters, as JSON or, with format=csv,
// as CSV.
func NewLogHandler(store audit.Store, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		params := r.URL.Query()
		q := audit.Query{
			Festival: params.Get("festival"),
			Outcome:  params.Get("outcome"),
		}
		for key, dst := range map[string]*time.Time{"start": &q.Start, "end": &q.End} {
			s := params.Get(key)
			if s == "" {
				continue
			}
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				http.Error(w, "invalid "+key+": "+err.Error(), http.StatusBadRequest)
				return
			}
			*dst = t
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if params.Get("format") == "csv" {
			w.Header().Set("Content-Type", "text/csv")
			_ = export.WriteCSV(w, records)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = export.WriteJSON(w, records)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package promotions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kilianp07/promo/core/audit"
	"github.com/kilianp07/promo/core/discount"
	"github.com/kilianp07/promo/core/events"
)

func do(t *testing.T, h http.Handler, method, target string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestList(t *testing.T) {
	h := NewHandler(discount.NewDefaultRegistry(), audit.NopStore{}, "")
	rr := do(t, h, http.MethodGet, "/api/promotions", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var out listResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Promotions) != 3 || out.Summary.Festivals != 3 || out.Summary.MinPricePercent != 10 {
		t.Fatalf("unexpected output %#v", out)
	}
}

func TestExecute(t *testing.T) {
	h := NewHandler(discount.NewDefaultRegistry(), audit.NopStore{}, "")
	rr := do(t, h, http.MethodPost, "/api/promotions/execute?festival="+url.QueryEscape("April Fools' Day"), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var a discount.Announcement
	if err := json.Unmarshal(rr.Body.Bytes(), &a); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if a.Festival != "April Fools' Day" || a.PricePercent != 10 {
		t.Fatalf("unexpected announcement %#v", a)
	}
}

func TestExecute_NoActivePromotion(t *testing.T) {
	h := NewHandler(discount.NewDefaultRegistry(), audit.NopStore{}, "")
	rr := do(t, h, http.MethodPost, "/api/promotions/execute?festival=Christmas", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status %d", rr.Code)
	}
	var out errorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Festival != "Christmas" || out.Error != "Christmas: no active promotion in the store" {
		t.Fatalf("unexpected error body %#v", out)
	}
}

func TestExecute_BadRequests(t *testing.T) {
	h := NewHandler(discount.NewDefaultRegistry(), audit.NopStore{}, "")
	if rr := do(t, h, http.MethodPost, "/api/promotions/execute", nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("missing festival: status %d", rr.Code)
	}
	if rr := do(t, h, http.MethodGet, "/api/promotions/execute?festival=x", nil); rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("wrong method: status %d", rr.Code)
	}
	if rr := do(t, h, http.MethodPost, "/api/promotions/execute?festival="+strings.Repeat("x", MaxFestivalLen+1), nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("long festival: status %d", rr.Code)
	}
	if rr := do(t, h, http.MethodPost, "/api/promotions/execute?festival="+strings.Repeat("x", MaxFestivalLen), nil); rr.Code != http.StatusNotFound {
		t.Fatalf("festival at the limit: status %d", rr.Code)
	}
}

func TestExecute_AnnouncerFailure(t *testing.T) {
	reg := discount.NewDefaultRegistry(discount.WithAnnouncers(discount.AnnouncerFunc(func(discount.Announcement) error {
		return errors.New("broker down")
	})))
	h := NewHandler(reg, audit.NopStore{}, "")
	rr := do(t, h, http.MethodPost, "/api/promotions/execute?festival="+url.QueryEscape("Spring Festival"), nil)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status %d", rr.Code)
	}
	var out errorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Announcement == nil || out.Announcement.PricePercent != 30 {
		t.Fatalf("announcement missing from %#v", out)
	}
}

func TestLog(t *testing.T) {
	store, err := audit.NewJSONLStore(filepath.Join(t.TempDir(), "audit.jsonl"))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	ctx := context.Background()
	base := time.Date(2024, 9, 17, 10, 0, 0, 0, time.UTC)
	_ = store.Append(ctx, audit.Record{ID: "1", Timestamp: base, Festival: "Mid-Autumn Festival", Outcome: events.OutcomeApplied})
	_ = store.Append(ctx, audit.Record{ID: "2", Timestamp: base.Add(time.Hour), Festival: "Christmas", Outcome: events.OutcomeNoPromotion})

	h := NewHandler(discount.NewDefaultRegistry(), store, "tok")
	if rr := do(t, h, http.MethodGet, "/api/promotions/log", nil); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	auth := map[string]string{"Authorization": "Bearer tok"}
	rr := do(t, h, http.MethodGet, "/api/promotions/log?outcome=no_promotion", auth)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var out []audit.Record
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0].ID != "2" {
		t.Fatalf("unexpected records %#v", out)
	}

	rr = do(t, h, http.MethodGet, "/api/promotions/log?end="+url.QueryEscape(base.Add(time.Minute).Format(time.RFC3339)), auth)
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0].ID != "1" {
		t.Fatalf("unexpected window %#v", out)
	}

	rr = do(t, h, http.MethodGet, "/api/promotions/log?festival=Christmas&format=csv", auth)
	if ct := rr.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("content type %q", ct)
	}
	if !strings.HasPrefix(rr.Body.String(), "id,timestamp,festival,outcome") || !strings.Contains(rr.Body.String(), "Christmas,no_promotion") {
		t.Fatalf("unexpected csv %q", rr.Body.String())
	}

	if rr := do(t, h, http.MethodGet, "/api/promotions/log?start=yesterday", auth); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

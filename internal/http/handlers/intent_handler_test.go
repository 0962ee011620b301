package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/arisehq/chatbot-backend/internal/domain"
	"github.com/arisehq/chatbot-backend/internal/repo"
	"github.com/arisehq/chatbot-backend/internal/services"
)

// ---------- flexible service stub ----------

type stubIntentSvc struct {
	upsert func(context.Context, string, string) (*domain.Intent, bool, error)
	remove func(context.Context, string) (bool, error)
	list   func(context.Context) ([]domain.Intent, int64, error)
}

func (s stubIntentSvc) Upsert(ctx context.Context, kw, resp string) (*domain.Intent, bool, error) {
	if s.upsert != nil {
		return s.upsert(ctx, kw, resp)
	}
	return &domain.Intent{ID: "i1", Keyword: kw, Response: resp}, true, nil
}

func (s stubIntentSvc) Remove(ctx context.Context, id string) (bool, error) {
	if s.remove != nil {
		return s.remove(ctx, id)
	}
	return true, nil
}

func (s stubIntentSvc) List(ctx context.Context) ([]domain.Intent, int64, error) {
	if s.list != nil {
		return s.list(ctx)
	}
	return nil, 0, nil
}

func newIntentRouter(svc IntentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(nil, svc)
	r := gin.New()
	r.POST("/admin/intents", h.UpsertIntent)
	r.GET("/admin/intents", h.ListIntents)
	r.DELETE("/admin/intents/:id", h.DeleteIntent)
	return r
}

// repo shim matching services.IntentRepo, for tests that need the real service.
type handlerIntentRepo struct{}

func (handlerIntentRepo) UpsertIntent(ctx context.Context, db *gorm.DB, keyword, response string) (*domain.Intent, bool, error) {
	return repo.UpsertIntent(ctx, db, keyword, response)
}
func (handlerIntentRepo) DeleteIntent(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	return repo.DeleteIntent(ctx, db, id)
}
func (handlerIntentRepo) ListIntents(ctx context.Context, db *gorm.DB) ([]domain.Intent, error) {
	return repo.ListIntents(ctx, db)
}
func (handlerIntentRepo) CountIntents(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountIntents(ctx, db)
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

// ---------- POST /admin/intents ----------

func TestUpsertIntent_CreatedVsUpdatedStatus(t *testing.T) {
	created := true
	r := newIntentRouter(stubIntentSvc{
		upsert: func(_ context.Context, kw, resp string) (*domain.Intent, bool, error) {
			return &domain.Intent{ID: "i1", Keyword: kw, Response: resp}, created, nil
		},
	})

	w := postJSON(r, "/admin/intents", `{"keyword":"Hello","response":"Hi!"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d; want 201", w.Code)
	}
	var resp UpsertIntentResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !resp.Created || resp.Intent == nil || resp.Intent.Keyword != "Hello" {
		t.Fatalf("unexpected body: %+v", resp)
	}

	created = false
	w = postJSON(r, "/admin/intents", `{"keyword":"Hello","response":"Howdy!"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d; want 200", w.Code)
	}
}

func TestUpsertIntent_Validation(t *testing.T) {
	r := newIntentRouter(stubIntentSvc{
		upsert: func(context.Context, string, string) (*domain.Intent, bool, error) {
			return nil, false, services.ErrEmptyKeyword
		},
	})

	// Binding failures never reach the service.
	for _, body := range []string{`{`, `{}`, `{"keyword":"hi"}`, `{"response":"there"}`} {
		w := postJSON(r, "/admin/intents", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d; want 400", body, w.Code)
		}
	}

	// Whitespace-only keyword passes binding and is rejected by the service.
	w := postJSON(r, "/admin/intents", `{"keyword":"   ","response":"there"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("blank keyword: status = %d; want 400", w.Code)
	}
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil || er.Code != ErrCodeBadRequest {
		t.Fatalf("envelope = %+v err = %v", er, err)
	}
}

func TestUpsertIntent_ServiceFailure(t *testing.T) {
	r := newIntentRouter(stubIntentSvc{
		upsert: func(context.Context, string, string) (*domain.Intent, bool, error) {
			return nil, false, fmt.Errorf("constraint exploded")
		},
	})

	w := postJSON(r, "/admin/intents", `{"keyword":"hi","response":"there"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d; want 500", w.Code)
	}
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil || er.Code != ErrCodeUpsertFailed {
		t.Fatalf("envelope = %+v err = %v", er, err)
	}
}

// ---------- GET /admin/intents ----------

func TestListIntents_InsertionOrderPassthrough(t *testing.T) {
	r := newIntentRouter(stubIntentSvc{
		list: func(context.Context) ([]domain.Intent, int64, error) {
			return []domain.Intent{
				{ID: "a", Keyword: "hello"},
				{ID: "b", Keyword: "bye"},
			}, 2, nil
		},
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/intents", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ListIntentsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Total != 2 || len(resp.Intents) != 2 || resp.Intents[0].Keyword != "hello" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestListIntents_ETagMovesOnUpsert(t *testing.T) {
	db := newHandlerDB(t)
	svc := services.NewIntentService(db, handlerIntentRepo{})
	r := newIntentRouter(svc)

	if _, _, err := svc.Upsert(context.Background(), "hello", "Hi!"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, httptest.NewRequest(http.MethodGet, "/admin/intents", nil))
	if w1.Code != http.StatusOK {
		t.Fatalf("first GET = %d", w1.Code)
	}
	etag := w1.Header().Get("ETag")
	if !strings.HasPrefix(etag, `W/"intents:`) {
		t.Fatalf("missing/odd ETag: %q", etag)
	}

	w2 := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/intents", nil)
	req.Header.Set("If-None-Match", etag)
	r.ServeHTTP(w2, req)
	if w2.Code != http.StatusNotModified {
		t.Fatalf("conditional GET = %d; want 304", w2.Code)
	}
}

// ---------- DELETE /admin/intents/:id ----------

func TestDeleteIntent_FoundAndMissing(t *testing.T) {
	r := newIntentRouter(stubIntentSvc{
		remove: func(_ context.Context, id string) (bool, error) {
			return id == "exists", nil
		},
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/intents/exists", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete existing = %d; want 204", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/intents/ghost", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("delete missing = %d; want 404", w.Code)
	}
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil || er.Code != ErrCodeNotFound {
		t.Fatalf("envelope = %+v err = %v", er, err)
	}
}

func TestDeleteIntent_ServiceFailure(t *testing.T) {
	r := newIntentRouter(stubIntentSvc{
		remove: func(context.Context, string) (bool, error) {
			return false, fmt.Errorf("locked")
		},
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/intents/x", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d; want 500", w.Code)
	}
}

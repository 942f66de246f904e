package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/shamba-farm/pkg/apperr"
)

func init() { gin.SetMode(gin.TestMode) }

func decode(t *testing.T, rec *httptest.ResponseRecorder) APIResponse[map[string]any] {
	t.Helper()
	var out APIResponse[map[string]any]
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestSuccessWritesEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Set("request_id", "req-1")

	Success(c, http.StatusCreated, map[string]any{"id": "x"}, "created", nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	out := decode(t, rec)
	if !out.Success || out.RequestID != "req-1" || out.Data["id"] != "x" {
		t.Errorf("unexpected envelope: %+v", out)
	}
}

func TestFromErrorValidationCarriesFields(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	FromError(c, apperr.Field("quantity", "must be greater than 0"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var out APIResponse[any]
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	fields, ok := out.Error.(map[string]any)
	if !ok || fields["quantity"] != "must be greater than 0" {
		t.Errorf("error payload = %#v", out.Error)
	}
	if !c.IsAborted() {
		t.Error("error response must abort the chain")
	}
}

func TestFromErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	FromError(c, fmt.Errorf("query crops: %w", errors.New("connection reset")))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	out := decode(t, rec)
	if out.Message != "internal server error" || out.Error != nil {
		t.Errorf("internal detail leaked: %+v", out)
	}
	if len(c.Errors) != 1 {
		t.Errorf("error should be attached to context for logging, got %d", len(c.Errors))
	}
}

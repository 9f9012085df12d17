package pkg

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/pagination"

	"github.com/simp-lee/folio/internal/domain"
)

// testInput is used to generate real validator.ValidationErrors.
type testInput struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type bindInput struct {
	domain.OrderedModel
	Title string `json:"title" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

func newResponseTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func newResponseTestContextWithBody(body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to unmarshal response %q: %v", w.Body.String(), err)
	}
	return v
}

func TestSuccess(t *testing.T) {
	c, w := newResponseTestContext()
	Success(c, map[string]string{"greeting": "hello"})

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	resp := decode[Response](t, w)
	if resp.Code != http.StatusOK || resp.Message != "success" || resp.Data == nil {
		t.Errorf("unexpected envelope: %+v", resp)
	}
}

func TestCreated(t *testing.T) {
	c, w := newResponseTestContext()
	Created(c, map[string]string{"id": "p1"})

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	if resp := decode[Response](t, w); resp.Code != http.StatusCreated || resp.Message != "created" {
		t.Errorf("unexpected envelope: %+v", resp)
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"not found", domain.NewAppError(domain.CodeNotFound, "project not found", nil), http.StatusNotFound, "project not found"},
		{"conflict", domain.NewAppError(domain.CodeAlreadyExists, "slug taken", nil), http.StatusConflict, "slug taken"},
		{"validation", domain.NewAppError(domain.CodeValidation, "bad input", nil), http.StatusBadRequest, "bad input"},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized, domain.ErrUnauthorized.Message},
		{"wrapped", errors.Join(errors.New("ctx"), domain.ErrNotFound), http.StatusNotFound, domain.ErrNotFound.Message},
		{"generic error hides text", errors.New("pq: connection refused"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newResponseTestContext()
			Error(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			resp := decode[Response](t, w)
			if resp.Code != tt.wantStatus || resp.Message != tt.wantMsg || resp.Data != nil {
				t.Errorf("envelope = %+v, want code %d message %q", resp, tt.wantStatus, tt.wantMsg)
			}
		})
	}
}

func TestError_FieldErrors(t *testing.T) {
	c, w := newResponseTestContext()
	Error(c, domain.NewValidationError(map[string]string{"icon": "oneof=code database"}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	resp := decode[ValidationErrorResponse](t, w)
	if resp.Errors["icon"] != "oneof=code database" {
		t.Errorf("Errors = %v", resp.Errors)
	}
}

type listEnvelope struct {
	Code int                       `json:"code"`
	Data pagination.Pagination[string] `json:"data"`
}

func TestList(t *testing.T) {
	c, w := newResponseTestContext()
	List(c, NewPageResult([]string{"a", "b"}, 2, domain.PageRequest{Page: 1, PageSize: 50}))

	resp := decode[listEnvelope](t, w)
	if resp.Code != http.StatusOK {
		t.Errorf("code = %d", resp.Code)
	}
	if len(resp.Data.Items) != 2 || resp.Data.TotalItems != 2 || resp.Data.TotalPages != 1 || resp.Data.ItemsPerPage != 50 {
		t.Errorf("page = %+v", resp.Data)
	}
}

func TestValidationError(t *testing.T) {
	err := validator.New().Struct(testInput{Email: "nope"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	c, w := newResponseTestContext()
	ValidationError(c, err)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	resp := decode[ValidationErrorResponse](t, w)
	if resp.Message != "validation error" {
		t.Errorf("message = %q", resp.Message)
	}
	// Without obj, field names fall back to lowercased struct names.
	if resp.Errors["name"] != "required" || resp.Errors["email"] != "email" {
		t.Errorf("Errors = %v", resp.Errors)
	}
}

func TestValidationError_NonValidationError(t *testing.T) {
	c, w := newResponseTestContext()
	ValidationError(c, errors.New("bad json"))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if resp := decode[Response](t, w); resp.Message != "bad json" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestBindAndValidate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantOK     bool
		wantErrors map[string]string
	}{
		{"valid", `{"title":"Folio","email":"a@b.co"}`, true, nil},
		{"missing fields", `{}`, false, map[string]string{"title": "required", "email": "required"}},
		{"invalid email", `{"title":"Folio","email":"nope"}`, false, map[string]string{"email": "email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newResponseTestContextWithBody(tt.body)
			var in bindInput
			if got := BindAndValidate(c, &in); got != tt.wantOK {
				t.Fatalf("BindAndValidate = %v, want %v", got, tt.wantOK)
			}
			if tt.wantOK {
				return
			}
			resp := decode[ValidationErrorResponse](t, w)
			if len(resp.Errors) != len(tt.wantErrors) {
				t.Errorf("Errors = %v, want %v", resp.Errors, tt.wantErrors)
			}
			for k, v := range tt.wantErrors {
				if resp.Errors[k] != v {
					t.Errorf("Errors[%q] = %q, want %q", k, resp.Errors[k], v)
				}
			}
		})
	}
}

func TestBindAndValidate_MalformedJSON(t *testing.T) {
	c, w := newResponseTestContextWithBody(`{"title`)
	var in bindInput
	if BindAndValidate(c, &in) {
		t.Fatal("expected false for malformed JSON")
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
	if resp := decode[Response](t, w); resp.Message == "" || resp.Message == "validation error" {
		t.Errorf("message = %q, want decoder error", resp.Message)
	}
}

func TestBuildJSONTagMap_Embedded(t *testing.T) {
	m := buildJSONTagMap(&bindInput{})
	if m["ID"] != "id" || m["Order"] != "order" || m["Title"] != "title" {
		t.Errorf("map = %v", m)
	}
	if buildJSONTagMap(nil) != nil || buildJSONTagMap(42) != nil {
		t.Error("non-struct should yield nil")
	}
}

func TestParseJSONTagName(t *testing.T) {
	tests := map[string]string{
		"":               "",
		"-":              "",
		"name":           "name",
		"name,omitempty": "name",
		",omitempty":     "",
	}
	for tag, want := range tests {
		if got := parseJSONTagName(tag); got != want {
			t.Errorf("parseJSONTagName(%q) = %q, want %q", tag, got, want)
		}
	}
}

type iconInput struct {
	Icon domain.Icon `json:"icon" binding:"icon"`
}

func TestRegisterBindingValidations(t *testing.T) {
	if err := RegisterBindingValidations(); err != nil {
		t.Fatalf("RegisterBindingValidations: %v", err)
	}

	c, _ := newResponseTestContextWithBody(`{"icon":"docker"}`)
	if !BindAndValidate(c, &iconInput{}) {
		t.Error("known icon rejected")
	}

	c, w := newResponseTestContextWithBody(`{"icon":"unicorn"}`)
	if BindAndValidate(c, &iconInput{}) {
		t.Fatal("unknown icon accepted")
	}
	if resp := decode[ValidationErrorResponse](t, w); resp.Errors["icon"] != "icon" {
		t.Errorf("Errors = %v", resp.Errors)
	}
}

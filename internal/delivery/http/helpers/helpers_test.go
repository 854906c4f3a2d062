package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventmanagement/internal/domain"
)

func TestWriteJSONError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSONError(rec, http.StatusConflict, ErrCodeConflict, "already answered")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var resp APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeConflict, resp.Error.Code)
	assert.Equal(t, "already answered", resp.Error.Message)
}

type signupBody struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type checkedBody struct {
	Value int `json:"value"`
}

func (b *checkedBody) Validate() []string {
	if b.Value%2 != 0 {
		return []string{"value must be even"}
	}
	return nil
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		dest       func() any
		wantOK     bool
		wantSubstr string
	}{
		{name: "valid", body: `{"username":"alice","password":"password123"}`, dest: func() any { return &signupBody{} }, wantOK: true},
		{name: "empty body", body: ``, dest: func() any { return &signupBody{} }, wantSubstr: "request body is required"},
		{name: "unknown field", body: `{"username":"alice","password":"password123","admin":true}`, dest: func() any { return &signupBody{} }, wantSubstr: "unknown field"},
		{name: "missing required uses json name", body: `{"password":"password123"}`, dest: func() any { return &signupBody{} }, wantSubstr: "username is required"},
		{name: "bad email", body: `{"username":"a","email":"nope","password":"password123"}`, dest: func() any { return &signupBody{} }, wantSubstr: "email must be a valid email address"},
		{name: "short password", body: `{"username":"a","password":"short"}`, dest: func() any { return &signupBody{} }, wantSubstr: "password must be at least 8 characters"},
		{name: "custom validator", body: `{"value":3}`, dest: func() any { return &checkedBody{} }, wantSubstr: "value must be even"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			ok := DecodeAndValidate(rec, req, tt.dest())
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Contains(t, rec.Body.String(), tt.wantSubstr)
			}
		})
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query string
		want  domain.PaginationParams
	}{
		{"", domain.PaginationParams{Page: 1, PageSize: DefaultPageSize}},
		{"page=3&page_size=5", domain.PaginationParams{Page: 3, PageSize: 5}},
		{"page=0&page_size=-1", domain.PaginationParams{Page: 1, PageSize: DefaultPageSize}},
		{"page=x&page_size=1000", domain.PaginationParams{Page: 1, PageSize: MaxPageSize}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			assert.Equal(t, tt.want, ParsePagination(req))
		})
	}
}

func TestNewPage(t *testing.T) {
	p := NewPage(domain.PaginationParams{Page: 2, PageSize: 10}, 25, []string{"a"})
	assert.Equal(t, 25, p.Count)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, []string{"a"}, p.Results)

	empty := NewPage[string](domain.PaginationParams{Page: 1, PageSize: 10}, 0, nil)
	assert.NotNil(t, empty.Results)
	assert.Zero(t, empty.TotalPages)
}

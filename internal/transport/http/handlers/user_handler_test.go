package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dkovac/chatter/internal/domain"
	"github.com/dkovac/chatter/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndListUsers(t *testing.T) {
	repo := newMemUserRepo()
	h := NewUserHandler(service.NewUserService(repo))

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"username":"bob","password":"pass","isAdmin":false}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Success bool  `json:"success"`
		UserID  int64 `json:"userId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.Success)
	assert.Equal(t, int64(1), created.UserID)

	// Duplicate username
	req = httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"username":"bob","password":"other"}`))
	rec = httptest.NewRecorder()
	h.Create(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rec = httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var users []domain.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "bob", users[0].Username)
	assert.NotContains(t, rec.Body.String(), "password_hash")
}

func TestCreateUserValidation(t *testing.T) {
	h := NewUserHandler(service.NewUserService(newMemUserRepo()))

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"username":"","password":""}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestDeleteUserHandler(t *testing.T) {
	repo := newMemUserRepo()
	seedUser(t, repo, "admin", "admin") // id 1, protected
	seedUser(t, repo, "bob", "pass")    // id 2
	h := NewUserHandler(service.NewUserService(repo))

	del := func(path string) *httptest.ResponseRecorder {
		mux := http.NewServeMux()
		mux.HandleFunc("DELETE /api/users/{id}", h.Delete)
		req := httptest.NewRequest(http.MethodDelete, path, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusForbidden, del("/api/users/1").Code)
	assert.Equal(t, http.StatusOK, del("/api/users/2").Code)
	assert.Equal(t, http.StatusNotFound, del("/api/users/2").Code)
	assert.Equal(t, http.StatusBadRequest, del("/api/users/abc").Code)
}

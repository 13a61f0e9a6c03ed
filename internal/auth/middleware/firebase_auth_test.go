package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/storedesk/storedesk-backend/internal/auth"
)

type fakeVerifier map[string]*fbauth.Token

func (f fakeVerifier) VerifyIDToken(_ context.Context, idToken string) (*fbauth.Token, error) {
	if tok, ok := f[idToken]; ok {
		return tok, nil
	}
	return nil, errors.New("token has expired")
}

type fakeLoader struct {
	sessions map[string]*auth.Session
	err      error
}

func (f fakeLoader) LoadSession(_ context.Context, uid, _ string) (*auth.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sessions[uid], nil
}

func newRouter(loader SessionLoader, min auth.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	verifier := fakeVerifier{
		"rep-token":      {UID: "rep-1", Claims: map[string]interface{}{"email": "rep@example.com"}},
		"manager-token":  {UID: "mgr-1"},
		"disabled-token": {UID: "gone-1"},
		"new-token":      {UID: "new-1", Claims: map[string]interface{}{"email": "new@example.com"}},
	}

	r := gin.New()
	r.Use(FirebaseAuthMiddleware(verifier), SessionMiddleware(loader))
	r.GET("/open", func(c *gin.Context) {
		s, _ := auth.SessionFrom(c.Request.Context())
		c.JSON(http.StatusOK, s)
	})
	r.GET("/gated", RequireRole(min), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func call(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthChain(t *testing.T) {
	loader := fakeLoader{sessions: map[string]*auth.Session{
		"rep-1":  {UID: "rep-1", Role: auth.RoleRep, LocationID: "loc-1", Active: true},
		"mgr-1":  {UID: "mgr-1", Role: auth.RoleManager, LocationID: "loc-1", Active: true},
		"gone-1": {UID: "gone-1", Role: auth.RoleAdmin, LocationID: "loc-1", Active: false},
	}}
	r := newRouter(loader, auth.RoleManager)

	assert.Equal(t, http.StatusUnauthorized, call(r, "/open", "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(r, "/open", "forged").Code)
	assert.Equal(t, http.StatusForbidden, call(r, "/open", "disabled-token").Code)

	w := call(r, "/open", "rep-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":"rep-1","email":"","role":"rep","locationId":"loc-1","isActive":true}`, w.Body.String())

	w = call(r, "/open", "new-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":"new-1","email":"new@example.com","isActive":false}`, w.Body.String())

	assert.Equal(t, http.StatusForbidden, call(r, "/gated", "rep-token").Code)
	assert.Equal(t, http.StatusNoContent, call(r, "/gated", "manager-token").Code)
	assert.Equal(t, http.StatusForbidden, call(r, "/gated", "new-token").Code)
}

func TestSessionMiddlewareLoaderFailure(t *testing.T) {
	r := newRouter(fakeLoader{err: errors.New("failed to get users: unavailable")}, auth.RoleRep)
	assert.Equal(t, http.StatusInternalServerError, call(r, "/open", "rep-token").Code)
}

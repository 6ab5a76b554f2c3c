package middlewarectx_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/saeifmanya/membership-portal/internal/http/middlewarectx"
	"github.com/saeifmanya/membership-portal/internal/models"
	"github.com/saeifmanya/membership-portal/internal/services/access"
)

type mockEngine struct {
	mock.Mock
}

func (m *mockEngine) Authorize(ctx context.Context, tokenStr string, capability access.Capability) (*access.Decision, error) {
	args := m.Called(ctx, tokenStr, capability)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*access.Decision), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestRequireCapability(t *testing.T) {
	tests := []struct {
		name       string
		decision   *access.Decision
		engineErr  error
		wantStatus int
		wantUID    string
	}{
		{
			name: "allowed passes identity to handler",
			decision: &access.Decision{
				Allowed:  true,
				Reason:   access.ReasonAllowed,
				Identity: &access.Identity{SubjectUID: "uid-1", Role: models.RoleMember},
			},
			wantStatus: http.StatusOK,
			wantUID:    "uid-1",
		},
		{
			name:       "unauthenticated gives 401",
			decision:   &access.Decision{Allowed: false, Reason: access.ReasonUnauthenticated},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong role gives 403",
			decision:   &access.Decision{Allowed: false, Reason: access.ReasonWrongRole},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "expired membership gives 403",
			decision:   &access.Decision{Allowed: false, Reason: access.ReasonExpired},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "infrastructure failure gives 500",
			decision:   &access.Decision{Allowed: false, Reason: access.ReasonAbsent},
			engineErr:  errors.New("connection refused"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := new(mockEngine)
			engine.On("Authorize", mock.Anything, "token", access.CapabilityActiveMember).
				Return(tt.decision, tt.engineErr)

			var gotUID string
			handler := middlewarectx.RequireCapability(discardLogger(), engine, access.CapabilityActiveMember)(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					gotUID, _ = r.Context().Value(middlewarectx.SubjectUID).(string)
					w.WriteHeader(http.StatusOK)
				}))

			req := httptest.NewRequest(http.MethodGet, "/members/dashboard", nil)
			req.Header.Set("Authorization", "Bearer token")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantUID, gotUID)
		})
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, middlewarectx.BearerToken(req))

	req.Header.Set("Authorization", "Basic abc")
	assert.Empty(t, middlewarectx.BearerToken(req))

	req.Header.Set("Authorization", "Bearer abc")
	assert.Equal(t, "abc", middlewarectx.BearerToken(req))
}

func TestCheckSubject(t *testing.T) {
	tests := []struct {
		name       string
		ctxUID     string
		ctxRole    string
		pathUID    string
		wantStatus int
	}{
		{name: "own uid allowed", ctxUID: "uid-1", ctxRole: models.RoleMember, pathUID: "uid-1", wantStatus: http.StatusOK},
		{name: "foreign uid denied", ctxUID: "uid-1", ctxRole: models.RoleMember, pathUID: "uid-2", wantStatus: http.StatusForbidden},
		{name: "admin reads any uid", ctxUID: "uid-a", ctxRole: models.RoleAdmin, pathUID: "uid-2", wantStatus: http.StatusOK},
		{name: "missing identity gives 401", pathUID: "uid-1", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			r.With(middlewarectx.CheckSubject(discardLogger())).
				Get("/membership/status/{uid}", func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusOK)
				})

			req := httptest.NewRequest(http.MethodGet, "/membership/status/"+tt.pathUID, nil)
			if tt.ctxUID != "" {
				ctx := context.WithValue(req.Context(), middlewarectx.SubjectUID, tt.ctxUID)
				ctx = context.WithValue(ctx, middlewarectx.Role, tt.ctxRole)
				req = req.WithContext(ctx)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

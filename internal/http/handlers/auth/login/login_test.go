package login_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saeifmanya/membership-portal/internal/http/handlers/auth/login"
	"github.com/saeifmanya/membership-portal/internal/http/response"
	"github.com/saeifmanya/membership-portal/internal/models"
	services "github.com/saeifmanya/membership-portal/internal/services/auth"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Login(ctx context.Context, identifier, password string) (string, string, string, error) {
	args := m.Called(ctx, identifier, password)
	return args.String(0), args.String(1), args.String(2), args.Error(3)
}

func TestLoginHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		mockSetup  func(svc *mockAuthService)
		wantStatus int
		wantError  string
	}{
		{
			name: "success",
			body: `{"identifier":"member@example.com","password":"secret123"}`,
			mockSetup: func(svc *mockAuthService) {
				svc.On("Login", mock.Anything, "member@example.com", "secret123").
					Return("token-1", models.RoleMember, "uid-1", nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "admin handle without email format accepted",
			body: `{"identifier":"SAEIF.MANYA","password":"secret123"}`,
			mockSetup: func(svc *mockAuthService) {
				svc.On("Login", mock.Anything, "SAEIF.MANYA", "secret123").
					Return("token-a", models.RoleAdmin, "uid-a", nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "broken json",
			body:       `{"identifier":`,
			mockSetup:  func(svc *mockAuthService) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request body",
		},
		{
			name:       "missing identifier",
			body:       `{"password":"secret123"}`,
			mockSetup:  func(svc *mockAuthService) {},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "short password",
			body:       `{"identifier":"member@example.com","password":"123"}`,
			mockSetup:  func(svc *mockAuthService) {},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "unknown identifier and wrong password look identical",
			body: `{"identifier":"ghost@example.com","password":"secret123"}`,
			mockSetup: func(svc *mockAuthService) {
				svc.On("Login", mock.Anything, "ghost@example.com", "secret123").
					Return("", "", "", services.ErrInvalidCredentials)
			},
			wantStatus: http.StatusUnauthorized,
			wantError:  "invalid credentials",
		},
		{
			name: "storage failure gives 500",
			body: `{"identifier":"member@example.com","password":"secret123"}`,
			mockSetup: func(svc *mockAuthService) {
				svc.On("Login", mock.Anything, "member@example.com", "secret123").
					Return("", "", "", errors.New("connection refused"))
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal service error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockAuthService)
			tt.mockSetup(svc)

			handler := login.New(slog.New(slog.DiscardHandler), svc)
			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				var resp response.Response
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, response.StatusError, resp.Status)
				assert.Equal(t, tt.wantError, resp.Error)
			}
			svc.AssertExpectations(t)
		})
	}
}

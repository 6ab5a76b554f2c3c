package paymentwebhook_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/saeifmanya/membership-portal/internal/http/handlers/payment/paymentwebhook"
	"github.com/saeifmanya/membership-portal/internal/models"
)

const secret = "webhook-secret"

type mockMembershipService struct {
	mock.Mock
}

func (m *mockMembershipService) RecordPayment(ctx context.Context, subjectUID, tier, paymentRef string) (*models.Membership, error) {
	args := m.Called(ctx, subjectUID, tier, paymentRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Membership), args.Error(1)
}

func (m *mockMembershipService) PlanPrice(tier string) (int, error) {
	args := m.Called(tier)
	return args.Int(0), args.Error(1)
}

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func succeededBody(tier, value string) []byte {
	return []byte(`{
		"event": "payment.succeeded",
		"object": {
			"id": "pay-1",
			"status": "succeeded",
			"amount": {"value": "` + value + `", "currency": "INR"},
			"metadata": {"subject_uid": "uid-1", "tier": "` + tier + `"}
		}
	}`)
}

func TestWebhook(t *testing.T) {
	tests := []struct {
		name       string
		body       []byte
		signature  func(body []byte) string
		mockSetup  func(svc *mockMembershipService)
		wantStatus int
	}{
		{
			name:      "succeeded payment extends membership",
			body:      succeededBody(models.TierSixMonth, "6000.00"),
			signature: sign,
			mockSetup: func(svc *mockMembershipService) {
				svc.On("PlanPrice", models.TierSixMonth).Return(6000, nil)
				svc.On("RecordPayment", mock.Anything, "uid-1", models.TierSixMonth, "pay-1").
					Return(&models.Membership{SubjectUID: "uid-1", Tier: models.TierSixMonth}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing signature rejected",
			body:       succeededBody(models.TierSixMonth, "6000.00"),
			signature:  func([]byte) string { return "" },
			mockSetup:  func(svc *mockMembershipService) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "forged signature rejected",
			body:       succeededBody(models.TierSixMonth, "6000.00"),
			signature:  func([]byte) string { return "Zm9yZ2Vk" },
			mockSetup:  func(svc *mockMembershipService) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:      "amount mismatch rejected",
			body:      succeededBody(models.TierOneYear, "42.00"),
			signature: sign,
			mockSetup: func(svc *mockMembershipService) {
				svc.On("PlanPrice", models.TierOneYear).Return(11000, nil)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "other events are acknowledged without processing",
			body: []byte(`{"event": "payment.canceled", "object": {"id": "pay-2"}}`),

			signature:  sign,
			mockSetup:  func(svc *mockMembershipService) {},
			wantStatus: http.StatusOK,
		},
		{
			name:      "storage failure gives 500",
			body:      succeededBody(models.TierSixMonth, "6000.00"),
			signature: sign,
			mockSetup: func(svc *mockMembershipService) {
				svc.On("PlanPrice", models.TierSixMonth).Return(6000, nil)
				svc.On("RecordPayment", mock.Anything, "uid-1", models.TierSixMonth, "pay-1").
					Return(nil, errors.New("connection refused"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockMembershipService)
			tt.mockSetup(svc)

			handler := paymentwebhook.New(slog.New(slog.DiscardHandler), svc, secret)
			req := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewBuffer(tt.body))
			if sig := tt.signature(tt.body); sig != "" {
				req.Header.Set("X-Api-Signature", sig)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

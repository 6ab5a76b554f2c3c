package membership_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saeifmanya/membership-portal/internal/config"
	"github.com/saeifmanya/membership-portal/internal/models"
	"github.com/saeifmanya/membership-portal/internal/services/membership"
	"github.com/saeifmanya/membership-portal/internal/storage/repository"
)

type mockMembershipRepo struct {
	mock.Mock
}

func (m *mockMembershipRepo) UpsertMembership(ctx context.Context, subjectUID, tier, paymentRef string, months *int) (*models.Membership, error) {
	args := m.Called(ctx, subjectUID, tier, paymentRef, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Membership), args.Error(1)
}

func (m *mockMembershipRepo) GetMembership(ctx context.Context, subjectUID string) (*models.Membership, error) {
	args := m.Called(ctx, subjectUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Membership), args.Error(1)
}

func testPlans() config.MembershipPlans {
	return config.MembershipPlans{
		SixMonthMonths: 6,
		OneYearMonths:  12,
		SixMonthPrice:  6000,
		OneYearPrice:   11000,
		LifetimePrice:  110000,
	}
}

func TestRecordPayment(t *testing.T) {
	tests := []struct {
		name       string
		tier       string
		wantMonths *int
		wantErr    error
	}{
		{name: "six month plan", tier: models.TierSixMonth, wantMonths: ptrInt(6)},
		{name: "one year plan", tier: models.TierOneYear, wantMonths: ptrInt(12)},
		{name: "lifetime has no expiry", tier: models.TierLifetime, wantMonths: nil},
		{name: "unknown tier rejected", tier: "2-weeks", wantErr: membership.ErrUnknownTier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockMembershipRepo)
			if tt.wantErr == nil {
				repo.On("UpsertMembership", mock.Anything, "uid-1", tt.tier, "pay-1", tt.wantMonths).
					Return(&models.Membership{SubjectUID: "uid-1", Tier: tt.tier}, nil)
			}

			svc := membership.NewMembershipService(repo, testPlans())
			m, err := svc.RecordPayment(context.Background(), "uid-1", tt.tier, "pay-1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "UpsertMembership")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.tier, m.Tier)
			repo.AssertExpectations(t)
		})
	}
}

func TestStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(30 * 24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	tests := []struct {
		name       string
		mockSetup  func(repo *mockMembershipRepo)
		wantActive bool
		wantReason string
		wantErr    bool
	}{
		{
			name: "active timed membership",
			mockSetup: func(repo *mockMembershipRepo) {
				repo.On("GetMembership", mock.Anything, "uid-1").
					Return(&models.Membership{SubjectUID: "uid-1", Tier: models.TierOneYear, ExpiresAt: &future}, nil)
			},
			wantActive: true,
			wantReason: membership.ReasonActive,
		},
		{
			name: "lifetime membership never expires",
			mockSetup: func(repo *mockMembershipRepo) {
				repo.On("GetMembership", mock.Anything, "uid-1").
					Return(&models.Membership{SubjectUID: "uid-1", Tier: models.TierLifetime, ExpiresAt: nil}, nil)
			},
			wantActive: true,
			wantReason: membership.ReasonActive,
		},
		{
			name: "expired membership",
			mockSetup: func(repo *mockMembershipRepo) {
				repo.On("GetMembership", mock.Anything, "uid-1").
					Return(&models.Membership{SubjectUID: "uid-1", Tier: models.TierSixMonth, ExpiresAt: &past}, nil)
			},
			wantActive: false,
			wantReason: membership.ReasonExpired,
		},
		{
			name: "absent membership is not an error",
			mockSetup: func(repo *mockMembershipRepo) {
				repo.On("GetMembership", mock.Anything, "uid-1").
					Return(nil, repository.ErrMembershipNotFound)
			},
			wantActive: false,
			wantReason: membership.ReasonAbsent,
		},
		{
			name: "storage failure propagates",
			mockSetup: func(repo *mockMembershipRepo) {
				repo.On("GetMembership", mock.Anything, "uid-1").
					Return(nil, errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockMembershipRepo)
			tt.mockSetup(repo)

			svc := membership.NewMembershipService(repo, testPlans())
			st, err := svc.Status(context.Background(), "uid-1", now)

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, st)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantActive, st.IsActive)
			assert.Equal(t, tt.wantReason, st.Reason)
		})
	}
}

func TestPlanPrice(t *testing.T) {
	svc := membership.NewMembershipService(new(mockMembershipRepo), testPlans())

	price, err := svc.PlanPrice(models.TierSixMonth)
	require.NoError(t, err)
	assert.Equal(t, 6000, price)

	price, err = svc.PlanPrice(models.TierLifetime)
	require.NoError(t, err)
	assert.Equal(t, 110000, price)

	_, err = svc.PlanPrice("weekly")
	assert.ErrorIs(t, err, membership.ErrUnknownTier)
}

func ptrInt(v int) *int { return &v }

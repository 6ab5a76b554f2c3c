package services_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saeifmanya/membership-portal/internal/models"
	services "github.com/saeifmanya/membership-portal/internal/services/scheduler"
)

type mockMembershipRepo struct {
	mock.Mock
}

func (m *mockMembershipRepo) FindMembershipsExpiringTomorrow(ctx context.Context) ([]*models.ReminderInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ReminderInfo), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(exchange, routingKey string, message any) error {
	args := m.Called(exchange, routingKey, message)
	return args.Error(0)
}

func newScheduler(repo *mockMembershipRepo, pub *mockPublisher) *services.SchedulerService {
	log := slog.New(slog.DiscardHandler)
	return services.NewSchedulerService(log, repo, pub, time.Hour)
}

func TestPublishExpiringReminders(t *testing.T) {
	expires := time.Now().Add(24 * time.Hour)
	reminders := []*models.ReminderInfo{
		{Identifier: "a@example.com", Username: "a", Tier: models.TierSixMonth, ExpiresAt: expires},
		{Identifier: "b@example.com", Username: "b", Tier: models.TierOneYear, ExpiresAt: expires},
	}

	repo := new(mockMembershipRepo)
	pub := new(mockPublisher)
	repo.On("FindMembershipsExpiringTomorrow", mock.Anything).Return(reminders, nil)
	pub.On("Publish", "notifications", "expiring", reminders[0]).Return(nil)
	pub.On("Publish", "notifications", "expiring", reminders[1]).Return(nil)

	svc := newScheduler(repo, pub)
	err := svc.PublishExpiringReminders(context.Background())

	require.NoError(t, err)
	pub.AssertNumberOfCalls(t, "Publish", 2)
}

func TestPublishExpiringRemindersEmpty(t *testing.T) {
	repo := new(mockMembershipRepo)
	pub := new(mockPublisher)
	repo.On("FindMembershipsExpiringTomorrow", mock.Anything).Return([]*models.ReminderInfo{}, nil)

	svc := newScheduler(repo, pub)
	err := svc.PublishExpiringReminders(context.Background())

	require.NoError(t, err)
	pub.AssertNotCalled(t, "Publish")
}

func TestPublishExpiringRemindersRepoError(t *testing.T) {
	repo := new(mockMembershipRepo)
	pub := new(mockPublisher)
	repo.On("FindMembershipsExpiringTomorrow", mock.Anything).Return(nil, errors.New("db down"))

	svc := newScheduler(repo, pub)
	err := svc.PublishExpiringReminders(context.Background())

	require.Error(t, err)
	pub.AssertNotCalled(t, "Publish")
}

func TestPublishExpiringRemindersPartialFailure(t *testing.T) {
	expires := time.Now().Add(24 * time.Hour)
	reminders := []*models.ReminderInfo{
		{Identifier: "a@example.com", Tier: models.TierSixMonth, ExpiresAt: expires},
		{Identifier: "b@example.com", Tier: models.TierOneYear, ExpiresAt: expires},
	}

	repo := new(mockMembershipRepo)
	pub := new(mockPublisher)
	repo.On("FindMembershipsExpiringTomorrow", mock.Anything).Return(reminders, nil)
	pub.On("Publish", "notifications", "expiring", reminders[0]).Return(errors.New("channel closed"))
	pub.On("Publish", "notifications", "expiring", reminders[1]).Return(nil)

	svc := newScheduler(repo, pub)
	err := svc.PublishExpiringReminders(context.Background())

	// Сбой одного сообщения не мешает отправке остальных.
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")
	pub.AssertNumberOfCalls(t, "Publish", 2)
}

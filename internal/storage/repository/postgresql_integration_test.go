package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saeifmanya/membership-portal/internal/models"
)

func ptrInt(v int) *int { return &v }

func TestStorage_CreateAndGetUserByIdentifier(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	uid, err := storage.CreateUser(context.Background(), models.User{
		Identifier:   "member@example.com",
		Username:     "member",
		PasswordHash: "hashedpassword",
		Role:         models.RoleMember,
	})
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	got, err := storage.GetUserByIdentifier(context.Background(), "member@example.com")
	require.NoError(t, err)
	assert.Equal(t, uid, got.UID)
	assert.Equal(t, "member", got.Username)
	assert.Equal(t, models.RoleMember, got.Role)

	// Поиск идёт строгим совпадением, без нормализации регистра.
	_, err = storage.GetUserByIdentifier(context.Background(), "MEMBER@EXAMPLE.COM")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_UpsertMembership(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tests := []struct {
		name  string
		setup func(t *testing.T, factory *TestDataFactory, subjectUID string)
		tier  string

		months      *int
		checkExpiry func(t *testing.T, m *models.Membership, now time.Time)
	}{
		{
			name:   "first payment starts from now",
			setup:  func(*testing.T, *TestDataFactory, string) {},
			tier:   models.TierSixMonth,
			months: ptrInt(6),
			checkExpiry: func(t *testing.T, m *models.Membership, now time.Time) {
				require.NotNil(t, m.ExpiresAt)
				assert.WithinDuration(t, now.AddDate(0, 6, 0), *m.ExpiresAt, time.Minute)
			},
		},
		{
			name: "early renewal extends from current expiry",
			setup: func(t *testing.T, factory *TestDataFactory, subjectUID string) {
				future := time.Now().AddDate(0, 3, 0)
				factory.CreateMembership(t, subjectUID, models.TierSixMonth, &future, "pay-0")
			},
			tier:   models.TierSixMonth,
			months: ptrInt(6),
			checkExpiry: func(t *testing.T, m *models.Membership, now time.Time) {
				require.NotNil(t, m.ExpiresAt)
				// 3 оставшихся месяца плюс 6 оплаченных.
				assert.WithinDuration(t, now.AddDate(0, 9, 0), *m.ExpiresAt, time.Minute)
			},
		},
		{
			name: "renewal after expiry starts from now",
			setup: func(t *testing.T, factory *TestDataFactory, subjectUID string) {
				past := time.Now().AddDate(0, -2, 0)
				factory.CreateMembership(t, subjectUID, models.TierSixMonth, &past, "pay-0")
			},
			tier:   models.TierOneYear,
			months: ptrInt(12),
			checkExpiry: func(t *testing.T, m *models.Membership, now time.Time) {
				require.NotNil(t, m.ExpiresAt)
				assert.WithinDuration(t, now.AddDate(0, 12, 0), *m.ExpiresAt, time.Minute)
			},
		},
		{
			name:   "lifetime payment has no expiry",
			setup:  func(*testing.T, *TestDataFactory, string) {},
			tier:   models.TierLifetime,
			months: nil,
			checkExpiry: func(t *testing.T, m *models.Membership, _ time.Time) {
				assert.Nil(t, m.ExpiresAt)
			},
		},
		{
			name: "lifetime is not downgraded by a later timed payment",
			setup: func(t *testing.T, factory *TestDataFactory, subjectUID string) {
				factory.CreateMembership(t, subjectUID, models.TierLifetime, nil, "pay-0")
			},
			tier:   models.TierSixMonth,
			months: ptrInt(6),
			checkExpiry: func(t *testing.T, m *models.Membership, _ time.Time) {
				assert.Nil(t, m.ExpiresAt)
				assert.Equal(t, models.TierLifetime, m.Tier)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			subjectUID := uuid.New().String()
			factory.CreateUser(t, subjectUID, subjectUID+"@example.com", "member", "hashedpassword", models.RoleMember)
			tt.setup(t, factory, subjectUID)

			now := time.Now()
			m, err := storage.UpsertMembership(context.Background(), subjectUID, tt.tier, "pay-1", tt.months)
			require.NoError(t, err)
			require.NotNil(t, m)
			assert.Equal(t, subjectUID, m.SubjectUID)
			tt.checkExpiry(t, m, now)
		})
	}
}

func TestStorage_GetMembership(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	subjectUID := uuid.New().String()
	factory.CreateUser(t, subjectUID, "member@example.com", "member", "hashedpassword", models.RoleMember)

	_, err := storage.GetMembership(context.Background(), subjectUID)
	assert.ErrorIs(t, err, ErrMembershipNotFound)

	expires := time.Now().AddDate(0, 6, 0)
	factory.CreateMembership(t, subjectUID, models.TierSixMonth, &expires, "pay-1")

	got, err := storage.GetMembership(context.Background(), subjectUID)
	require.NoError(t, err)
	assert.Equal(t, models.TierSixMonth, got.Tier)
	require.NotNil(t, got.ExpiresAt)
	assert.WithinDuration(t, expires, *got.ExpiresAt, time.Second)
}

func TestStorage_FindMembershipsExpiringTomorrow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)

	tomorrowUID := uuid.New().String()
	factory.CreateUser(t, tomorrowUID, "tomorrow@example.com", "tomorrow", "hashedpassword", models.RoleMember)
	tomorrow := time.Now().AddDate(0, 0, 1)
	factory.CreateMembership(t, tomorrowUID, models.TierSixMonth, &tomorrow, "pay-1")

	laterUID := uuid.New().String()
	factory.CreateUser(t, laterUID, "later@example.com", "later", "hashedpassword", models.RoleMember)
	later := time.Now().AddDate(0, 1, 0)
	factory.CreateMembership(t, laterUID, models.TierOneYear, &later, "pay-2")

	lifetimeUID := uuid.New().String()
	factory.CreateUser(t, lifetimeUID, "forever@example.com", "forever", "hashedpassword", models.RoleMember)
	factory.CreateMembership(t, lifetimeUID, models.TierLifetime, nil, "pay-3")

	got, err := storage.FindMembershipsExpiringTomorrow(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "tomorrow@example.com", got[0].Identifier)
	assert.Equal(t, models.TierSixMonth, got[0].Tier)
}

func TestStorage_BlogCRUD(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	id, err := storage.CreateBlog(context.Background(), models.Blog{
		Title:   "first post",
		Content: "hello",
		Author:  "author",
	})
	require.NoError(t, err)

	got, err := storage.GetBlog(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "first post", got.Title)
	assert.Empty(t, got.CoverImage)

	// Пустая обложка при обновлении сохраняет прежнюю.
	count, err := storage.UpdateBlog(context.Background(), models.Blog{
		Title:      "first post edited",
		Content:    "hello again",
		Author:     "author",
		CoverImage: "cover.png",
	}, id)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = storage.UpdateBlog(context.Background(), models.Blog{
		Title:   "first post edited twice",
		Content: "hello again",
		Author:  "author",
	}, id)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err = storage.GetBlog(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "first post edited twice", got.Title)
	assert.Equal(t, "cover.png", got.CoverImage)

	count, err = storage.RemoveBlog(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = storage.GetBlog(context.Background(), id)
	assert.ErrorIs(t, err, ErrBlogNotFound)
}

func TestStorage_ListVideos(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	var lastID int
	for _, title := range []string{"one", "two", "three"} {
		id, err := storage.CreateVideo(context.Background(), models.Video{
			Title: title,
			URL:   "https://youtube.com/watch?v=" + title,
		})
		require.NoError(t, err)
		lastID = id
	}

	video, err := storage.GetVideo(context.Background(), lastID)
	require.NoError(t, err)
	assert.Equal(t, "three", video.Title)

	got, err := storage.ListVideos(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = storage.ListVideos(context.Background(), 10, 2)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

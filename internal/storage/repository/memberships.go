package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/saeifmanya/membership-portal/internal/models"
)

// UpsertMembership создаёт или продлевает запись о членстве по подтверждённому
// платежу. months — длительность тарифа в месяцах, nil для бессрочного тарифа.
//
// Вся арифметика продления выполняется одним UPSERT, поэтому конкурентные
// продления одного пользователя сериализуются блокировкой строки:
//   - нет записи: срок действия = now + months;
//   - запись есть и ещё действует: срок = текущий срок + months;
//   - запись истекла: срок = now + months;
//   - бессрочная запись не понижается более поздним срочным платежом.
func (s *Storage) UpsertMembership(ctx context.Context, subjectUID, tier, paymentRef string, months *int) (*models.Membership, error) {
	const op = "storage.UpsertMembership"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO memberships (subject_uid, tier, activated_at, expires_at, payment_ref)
			  VALUES ($1, $2, now(),
			      CASE WHEN $3::int IS NULL THEN NULL
			           ELSE now() + make_interval(months => $3::int) END,
			      $4)
			  ON CONFLICT (subject_uid) DO UPDATE SET
			      tier = CASE WHEN memberships.expires_at IS NULL
			                  THEN memberships.tier
			                  ELSE excluded.tier END,
			      expires_at = CASE
			          WHEN memberships.expires_at IS NULL THEN NULL
			          WHEN $3::int IS NULL THEN NULL
			          ELSE GREATEST(memberships.expires_at, now()) + make_interval(months => $3::int)
			      END,
			      payment_ref = excluded.payment_ref,
			      updated_at = now()
			  RETURNING subject_uid, tier, activated_at, expires_at, payment_ref, updated_at;`

	m := &models.Membership{}
	var monthsArg sql.NullInt32
	if months != nil {
		monthsArg = sql.NullInt32{Int32: int32(*months), Valid: true}
	}
	var expiresAt sql.NullTime
	row := s.DB.QueryRowContext(ctx, query, subjectUID, tier, monthsArg, paymentRef)
	if err := row.Scan(&m.SubjectUID, &m.Tier, &m.ActivatedAt, &expiresAt,
		&m.PaymentRef, &m.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if expiresAt.Valid {
		m.ExpiresAt = &expiresAt.Time
	}
	return m, nil
}

// GetMembership возвращает запись о членстве пользователя.
func (s *Storage) GetMembership(ctx context.Context, subjectUID string) (*models.Membership, error) {
	const op = "storage.GetMembership"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT subject_uid, tier, activated_at, expires_at, payment_ref, updated_at
			  FROM memberships
			  WHERE subject_uid = $1`
	m := &models.Membership{}
	var expiresAt sql.NullTime
	row := s.DB.QueryRowContext(ctx, query, subjectUID)
	if err := row.Scan(&m.SubjectUID, &m.Tier, &m.ActivatedAt, &expiresAt,
		&m.PaymentRef, &m.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrMembershipNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if expiresAt.Valid {
		m.ExpiresAt = &expiresAt.Time
	}
	return m, nil
}

// FindMembershipsExpiringTomorrow находит членства, истекающие завтра,
// вместе с данными владельцев для писем-напоминаний.
func (s *Storage) FindMembershipsExpiringTomorrow(ctx context.Context) ([]*models.ReminderInfo, error) {
	const op = "storage.FindMembershipsExpiringTomorrow"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.identifier, u.username, m.tier, m.expires_at
			  FROM memberships m
			  JOIN users u ON u.uid = m.subject_uid
			  WHERE m.expires_at::DATE = CURRENT_DATE + 1;`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.ReminderInfo
	for rows.Next() {
		var info models.ReminderInfo
		if err = rows.Scan(&info.Identifier, &info.Username, &info.Tier, &info.ExpiresAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &info)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

package models

import "time"

// Тарифы членства. Названия совпадают со значениями, которые присылает
// страница оплаты в metadata платежа.
const (
	TierSixMonth = "6-month"
	TierOneYear  = "1-year"
	TierLifetime = "lifetime"
)

// Membership представляет запись о членстве пользователя.
// ExpiresAt равен nil для тарифа lifetime — членство бессрочное.
// Запись создаётся и продлевается только по подтверждённому платежу,
// клиент напрямую её не изменяет.
type Membership struct {
	SubjectUID  string     // UID пользователя-владельца
	Tier        string     // Тариф: 6-month, 1-year или lifetime
	ActivatedAt time.Time  // Дата первой активации
	ExpiresAt   *time.Time // Дата окончания, nil для lifetime
	PaymentRef  string     // Идентификатор последнего платежа
	UpdatedAt   time.Time  // Дата последнего продления
}

// Active сообщает, действует ли членство на момент now.
// Истечение — это предикат, вычисляемый при чтении, а не отдельный
// переход состояния: фоновая очистка записей не требуется.
func (m *Membership) Active(now time.Time) bool {
	return m.ExpiresAt == nil || now.Before(*m.ExpiresAt)
}

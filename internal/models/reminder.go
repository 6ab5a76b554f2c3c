package models

import "time"

// ReminderInfo содержит данные для письма-напоминания об истечении членства.
// Формируется планировщиком и передаётся через очередь отправителю.
type ReminderInfo struct {
	Identifier string    `json:"identifier"`
	Username   string    `json:"username"`
	Tier       string    `json:"tier"`
	ExpiresAt  time.Time `json:"expires_at"`
}

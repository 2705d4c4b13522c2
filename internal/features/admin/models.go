// Package admin реализует служебные операции: ручное начисление, отключение счетов,
// настройка лотереи. Доступ по паролю администратора (Argon2id).
package admin

import (
	"time"

	"seaseed.dev/economy/internal/currency"
)

// Заголовок с паролем администратора
const PasswordHeader = "X-Admin-Password"

// Защита от перебора: после MaxAttempts неверных паролей за AttemptWindow
// клиент блокируется до конца окна.
const (
	MaxAttempts   = 3
	AttemptWindow = time.Hour

	maxClientLen = 64 // Ширина колонки client
)

// GrantRequest: тело POST /admin/grant.
type GrantRequest struct {
	UserID      int64         `json:"user_id"`
	Currency    currency.Tier `json:"currency"`
	Amount      int64         `json:"amount"`
	Description string        `json:"description"`
}

// StatusRequest: тело POST /admin/accounts/:id/status.
type StatusRequest struct {
	Status string `json:"status"`
}

// TriggerRequest: тело POST /admin/lottery/trigger.
type TriggerRequest struct {
	UserID int64  `json:"user_id"`
	Reason string `json:"reason"`
}

package admin

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"seaseed.dev/economy/internal/common"
	"seaseed.dev/economy/internal/features/lottery"
	"seaseed.dev/economy/internal/store"
)

// Service: админские операции.
type Service struct {
	ledger       Ledger
	lottery      Lottery
	attempts     Attempts
	passwordHash string
	now          func() time.Time
}

// NewService создаёт сервис. Пустой passwordHash отключает админку.
func NewService(ledger Ledger, lot Lottery, attempts Attempts, passwordHash string) *Service {
	return &Service{
		ledger:       ledger,
		lottery:      lot,
		attempts:     attempts,
		passwordHash: passwordHash,
		now:          time.Now,
	}
}

// Authenticate проверяет пароль администратора.
// Защита от перебора: 3 неудачные попытки за час блокируют клиента.
// Попытки хранятся в базе и переживают перезапуск.
func (s *Service) Authenticate(ctx context.Context, client, password string) error {
	if s.passwordHash == "" {
		return common.ErrAdminDisabled
	}
	if len(client) > maxClientLen {
		client = client[:maxClientLen]
	}

	id, err := s.attempts.ReserveAdminAttempt(ctx, client, s.now(), AttemptWindow, MaxAttempts)
	if err != nil {
		return err
	}

	if !VerifyPassword(password, s.passwordHash) {
		log.WithField("client", client).Warn("Неверный пароль администратора")
		return common.ErrWrongPassword
	}

	if err := s.attempts.MarkAdminAttemptSuccess(ctx, id); err != nil {
		return err
	}
	return nil
}

// Grant начисляет валюту пользователю.
func (s *Service) Grant(ctx context.Context, req GrantRequest) (*store.Transaction, error) {
	if req.UserID <= 0 {
		return nil, common.ErrAccountNotFound
	}
	if !req.Currency.Valid() {
		return nil, common.ErrUnknownCurrency
	}
	t, err := s.ledger.Grant(ctx, req.UserID, req.Currency, req.Amount, req.Description)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"user_id":  req.UserID,
		"currency": req.Currency,
		"amount":   req.Amount,
	}).Info("Администратор начислил валюту")
	return t, nil
}

// SetStatus включает или отключает счёт.
func (s *Service) SetStatus(ctx context.Context, userID int64, status string) error {
	if err := s.ledger.SetStatus(ctx, userID, status); err != nil {
		return err
	}
	log.WithFields(log.Fields{"user_id": userID, "status": status}).Info("Статус счёта изменён")
	return nil
}

// LotterySettings: текущие параметры лотереи.
func (s *Service) LotterySettings() lottery.Settings {
	return s.lottery.Settings()
}

// ConfigureLottery меняет параметры лотереи.
func (s *Service) ConfigureLottery(st lottery.Settings) error {
	return s.lottery.Configure(st)
}

// TriggerLottery даёт пользователю внеочередную лотерейную возможность.
func (s *Service) TriggerLottery(ctx context.Context, req TriggerRequest) (lottery.Outcome, error) {
	if req.UserID <= 0 {
		return lottery.Outcome{}, common.ErrAccountNotFound
	}
	reason := req.Reason
	if reason == "" {
		reason = "admin"
	}
	return s.lottery.Trigger(ctx, req.UserID, reason)
}

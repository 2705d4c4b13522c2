package ledger

import (
	"context"
	"fmt"
	"slices"

	log "github.com/sirupsen/logrus"

	"seaseed.dev/economy/internal/common"
	"seaseed.dev/economy/internal/currency"
	"seaseed.dev/economy/internal/store"
)

// Service: бизнес-логика кошелька.
type Service struct {
	repo Repository
}

// NewService создаёт сервис кошелька.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Account возвращает счёт, создавая пустой при первом обращении.
func (s *Service) Account(ctx context.Context, userID int64) (*store.Account, error) {
	if err := s.repo.EnsureAccount(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.GetAccount(ctx, userID)
}

// EnsureAccount гарантирует, что у пользователя есть счёт.
func (s *Service) EnsureAccount(ctx context.Context, userID int64) error {
	return s.repo.EnsureAccount(ctx, userID)
}

// Credit начисляет m.Amount единиц валюты m.Currency.
func (s *Service) Credit(ctx context.Context, m store.Movement) (*store.Transaction, error) {
	if m.Amount <= 0 {
		return nil, common.ErrInvalidAmount
	}
	if err := s.repo.EnsureAccount(ctx, m.UserID); err != nil {
		return nil, err
	}
	return s.applyOne(ctx, m)
}

// Debit списывает m.Amount единиц. Если на счёте меньше: ErrInsufficientFunds,
// баланс не меняется.
func (s *Service) Debit(ctx context.Context, m store.Movement) (*store.Transaction, error) {
	if m.Amount <= 0 {
		return nil, common.ErrInvalidAmount
	}
	m.Amount = -m.Amount
	return s.applyOne(ctx, m)
}

func (s *Service) applyOne(ctx context.Context, m store.Movement) (*store.Transaction, error) {
	if !m.Currency.Valid() {
		return nil, common.ErrUnknownCurrency
	}
	txs, err := s.repo.Apply(ctx, m)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, fmt.Errorf("движение не проведено")
	}
	return &txs[0], nil
}

// Apply проводит несколько движений атомарно (обмен, перевод).
func (s *Service) Apply(ctx context.Context, movements ...store.Movement) ([]store.Transaction, error) {
	return s.repo.Apply(ctx, movements...)
}

// Deposit: пополнение счёта.
func (s *Service) Deposit(ctx context.Context, userID int64, tier currency.Tier, amount int64, description string) (*store.Transaction, error) {
	if description == "" {
		description = fmt.Sprintf("Пополнение %d %s", amount, tier)
	}
	t, err := s.Credit(ctx, store.Movement{
		UserID: userID, Currency: tier, Amount: amount,
		Kind: store.TxDeposit, Description: description,
	})
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"user_id": userID, "currency": tier, "amount": amount}).Info("Пополнение счёта")
	return t, nil
}

// Withdraw: вывод со счёта.
func (s *Service) Withdraw(ctx context.Context, userID int64, tier currency.Tier, amount int64, description string) (*store.Transaction, error) {
	if description == "" {
		description = fmt.Sprintf("Вывод %d %s", amount, tier)
	}
	t, err := s.Debit(ctx, store.Movement{
		UserID: userID, Currency: tier, Amount: amount,
		Kind: store.TxWithdraw, Description: description,
	})
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"user_id": userID, "currency": tier, "amount": amount}).Info("Вывод со счёта")
	return t, nil
}

// Transfer переводит валюту другому пользователю.
// Пишутся две записи transfer: минус у отправителя и плюс у получателя.
func (s *Service) Transfer(ctx context.Context, from, to int64, tier currency.Tier, amount int64) ([]store.Transaction, error) {
	if from == to {
		return nil, common.ErrSelfTransfer
	}
	if amount <= 0 {
		return nil, common.ErrInvalidAmount
	}
	if !tier.Valid() {
		return nil, common.ErrUnknownCurrency
	}

	sender, err := s.Account(ctx, from)
	if err != nil {
		return nil, err
	}
	if sender.Status != store.StatusActive {
		return nil, common.ErrAccountInactive
	}
	if _, err := s.repo.GetAccount(ctx, to); err != nil {
		return nil, err
	}

	txs, err := s.repo.Apply(ctx,
		store.Movement{
			UserID: from, Currency: tier, Amount: -amount, Kind: store.TxTransfer,
			Description: fmt.Sprintf("Перевод пользователю %d", to), RelatedID: to, RelatedType: "user",
		},
		store.Movement{
			UserID: to, Currency: tier, Amount: amount, Kind: store.TxTransfer,
			Description: fmt.Sprintf("Перевод от пользователя %d", from), RelatedID: from, RelatedType: "user",
		},
	)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"from":     from,
		"to":       to,
		"currency": tier,
		"amount":   amount,
	}).Info("Перевод выполнен")
	return txs, nil
}

// Grant: начисление администратором (тип bonus).
func (s *Service) Grant(ctx context.Context, userID int64, tier currency.Tier, amount int64, description string) (*store.Transaction, error) {
	if description == "" {
		description = "Начисление администратором"
	}
	return s.Credit(ctx, store.Movement{
		UserID: userID, Currency: tier, Amount: amount,
		Kind: store.TxBonus, Description: description, RelatedType: "admin",
	})
}

// SetStatus включает или отключает счёт.
func (s *Service) SetStatus(ctx context.Context, userID int64, status string) error {
	if status != store.StatusActive && status != store.StatusInactive {
		return common.ErrInvalidStatus
	}
	return s.repo.SetAccountStatus(ctx, userID, status)
}

// History возвращает последние транзакции, при необходимости только одного типа.
func (s *Service) History(ctx context.Context, userID int64, kind string, limit int) ([]store.Transaction, error) {
	if kind != "" && !slices.Contains(store.TxKinds, kind) {
		kind = ""
	}
	return s.repo.ListTransactions(ctx, userID, kind, clamp(limit, DefaultHistoryLimit, MaxHistoryLimit))
}

// CurrencyRank: рейтинг по балансу одного уровня.
func (s *Service) CurrencyRank(ctx context.Context, tier currency.Tier, limit int) ([]store.BalanceEntry, error) {
	return s.repo.TopBalances(ctx, tier, clamp(limit, DefaultRankLimit, MaxRankLimit))
}

// WealthRank: рейтинг по суммарному богатству в ракушках.
func (s *Service) WealthRank(ctx context.Context, limit int) ([]store.BalanceEntry, error) {
	return s.repo.TopWealth(ctx, clamp(limit, DefaultRankLimit, MaxRankLimit))
}

func clamp(n, def, max int) int {
	if n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

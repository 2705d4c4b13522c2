package exchange

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"seaseed.dev/economy/internal/common"
	"seaseed.dev/economy/internal/currency"
	"seaseed.dev/economy/internal/store"
)

// Service выполняет обмен валют.
type Service struct {
	ledger Ledger
}

// NewService создаёт сервис обмена.
func NewService(ledger Ledger) *Service {
	return &Service{ledger: ledger}
}

// Exchange списывает amount единиц from и начисляет floor(amount/100) единиц to.
//
// Пары только соседние и только вверх: shells→pearls, pearls→gems и т.д.
// Баланс from должен быть не меньше amount. Сумма, не кратная 100,
// принимается, остаток сгорает.
func (s *Service) Exchange(ctx context.Context, userID int64, from, to currency.Tier, amount int64) (*Result, error) {
	if !from.Valid() || !to.Valid() {
		return nil, common.ErrUnknownCurrency
	}
	if !currency.Adjacent(from, to) {
		return nil, common.ErrUnsupportedExchange
	}
	if amount <= 0 {
		return nil, common.ErrInvalidAmount
	}

	acc, err := s.ledger.Account(ctx, userID)
	if err != nil {
		return nil, err
	}
	if acc.Balance(from) < amount {
		return nil, common.ErrInsufficientFunds
	}

	gained := amount / currency.Rate
	description := fmt.Sprintf("Обмен %d %s на %d %s", amount, from, gained, to)

	// Списание условное: если баланс успели потратить параллельно, Apply откатится
	txs, err := s.ledger.Apply(ctx,
		store.Movement{UserID: userID, Currency: from, Amount: -amount, Kind: store.TxExpense, Description: description, RelatedType: "exchange"},
		store.Movement{UserID: userID, Currency: to, Amount: gained, Kind: store.TxIncome, Description: description, RelatedType: "exchange"},
	)
	if err != nil {
		return nil, err
	}

	res := &Result{From: from, To: to, Cost: amount, Gained: gained}
	res.FromBalance = acc.Balance(from) - amount
	res.ToBalance = acc.Balance(to) + gained
	for _, t := range txs {
		switch t.Currency {
		case from:
			res.FromBalance = t.BalanceAfter
		case to:
			res.ToBalance = t.BalanceAfter
		}
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"from":    from,
		"to":      to,
		"cost":    amount,
		"gained":  gained,
	}).Info("Обмен валюты")
	return res, nil
}

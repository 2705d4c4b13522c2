package lottery

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"seaseed.dev/economy/internal/common"
	"seaseed.dev/economy/internal/currency"
	"seaseed.dev/economy/internal/store"
)

// Service разыгрывает призы.
// Шанс срабатывания и флаг включения можно менять на лету (админка).
type Service struct {
	ledger Ledger
	src    Source
	prizes []Prize

	mu       sync.RWMutex
	settings Settings
}

// NewService создаёт лотерею. src == nil: генератор по умолчанию.
func NewService(ledger Ledger, src Source, settings Settings) *Service {
	if src == nil {
		src = DefaultSource()
	}
	return &Service{
		ledger:   ledger,
		src:      src,
		prizes:   DefaultPrizes,
		settings: settings,
	}
}

// Prizes: таблица призов.
func (s *Service) Prizes() []Prize {
	return s.prizes
}

// Settings возвращает текущие параметры.
func (s *Service) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Configure меняет параметры розыгрыша.
func (s *Service) Configure(st Settings) error {
	if st.TriggerChance < 0 || st.TriggerChance > 1 {
		return fmt.Errorf("%w: получено %v", common.ErrInvalidChance, st.TriggerChance)
	}
	s.mu.Lock()
	s.settings = st
	s.mu.Unlock()

	log.WithFields(log.Fields{
		"enabled":        st.Enabled,
		"trigger_chance": st.TriggerChance,
	}).Info("Параметры лотереи изменены")
	return nil
}

// Draw берёт одно число из [0, 1) и идёт по таблице, накапливая вероятности.
// Возвращает первый приз, чья накопленная граница больше числа, или nil.
func (s *Service) Draw() *Prize {
	sample := s.src.Float64()
	var cumulative float64
	for i := range s.prizes {
		cumulative += s.prizes[i].Probability
		if sample < cumulative {
			p := s.prizes[i]
			return &p
		}
	}
	return nil
}

// MaybeTrigger разыгрывает одну лотерейную возможность. Сначала отдельный бросок с шансом
// TriggerChance, и только при успехе вызывается Draw. Выигрыш зачисляется в ракушках.
func (s *Service) MaybeTrigger(ctx context.Context, userID int64, reason string) (Outcome, error) {
	st := s.Settings()
	if !st.Enabled {
		return Outcome{}, nil
	}
	if s.src.Float64() >= st.TriggerChance {
		return Outcome{}, nil
	}

	prize := s.Draw()
	if prize == nil {
		return Outcome{}, nil
	}

	_, err := s.ledger.Credit(ctx, store.Movement{
		UserID:      userID,
		Currency:    currency.Shells,
		Amount:      prize.Amount,
		Kind:        store.TxBonus,
		Description: fmt.Sprintf("Лотерея: %s (%s)", prize.Name, reason),
		RelatedType: "lottery",
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("ошибка зачисления приза: %w", err)
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"reason":  reason,
		"prize":   prize.Code,
		"amount":  prize.Amount,
	}).Info("Выпал приз лотереи")
	return Outcome{Triggered: true, Prize: prize}, nil
}

// Trigger: внеочередная возможность по запросу администратора.
// В отличие от MaybeTrigger, при выключенной лотерее возвращает ErrLotteryDisabled.
func (s *Service) Trigger(ctx context.Context, userID int64, reason string) (Outcome, error) {
	if !s.Settings().Enabled {
		return Outcome{}, common.ErrLotteryDisabled
	}
	return s.MaybeTrigger(ctx, userID, reason)
}

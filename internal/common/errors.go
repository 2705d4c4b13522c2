// Package common: errors.go определяет ошибки, общие для всех модулей экономики.
// Обработчики различают их через errors.Is и превращают в понятный ответ клиенту.
package common

import (
	"errors"
	"fmt"
)

// Ошибки кошелька
var (
	// ErrInsufficientFunds: на счёте меньше, чем нужно списать
	ErrInsufficientFunds = errors.New("недостаточно средств на счёте")
	// ErrInvalidAmount: сумма нулевая или отрицательная
	ErrInvalidAmount = errors.New("сумма должна быть положительной")
	// ErrAccountNotFound: счёта пользователя нет в базе
	ErrAccountNotFound = errors.New("счёт не найден")
	// ErrSelfTransfer: перевод самому себе
	ErrSelfTransfer = errors.New("нельзя переводить самому себе")
	// ErrAccountInactive: счёт отключён администратором
	ErrAccountInactive = errors.New("счёт отключён")
	// ErrInvalidStatus: статус счёта не active и не inactive
	ErrInvalidStatus = errors.New("некорректный статус счёта")
)

// Ошибки обмена
var (
	// ErrUnsupportedExchange: пара валют не соседняя или обмен в обратную сторону
	ErrUnsupportedExchange = errors.New("обмен возможен только на следующий уровень валюты")
	// ErrUnknownCurrency: такой валюты нет
	ErrUnknownCurrency = errors.New("неизвестная валюта")
)

// Ошибки очков
var (
	// ErrUnknownActionKind: действие не входит в таблицу очков
	ErrUnknownActionKind = errors.New("неизвестный тип действия")
)

// Ошибки активностей
var (
	// ErrAlreadyCompletedToday: пользователь уже участвовал сегодня
	ErrAlreadyCompletedToday = errors.New("сегодня вы уже участвовали")
	// ErrIPLimitExceeded: с этого IP сегодня участвовали слишком часто
	ErrIPLimitExceeded = errors.New("лимит участий с этого IP на сегодня исчерпан")
	// ErrUnknownActivity: активности нет в каталоге
	ErrUnknownActivity = errors.New("неизвестная активность")
)

// Ошибки постов
var (
	// ErrPostNotFound: счётчиков поста нет в базе
	ErrPostNotFound = errors.New("пост не найден")
	// ErrPostExists: пост с таким ID уже зарегистрирован
	ErrPostExists = errors.New("пост уже зарегистрирован")
)

// Ошибки админки и лотереи
var (
	// ErrWrongPassword: неверный пароль администратора
	ErrWrongPassword = errors.New("неверный пароль")
	// ErrAdminDisabled: ADMIN_PASSWORD_HASH не задан
	ErrAdminDisabled = errors.New("админка отключена")
	// ErrTooManyAttempts: слишком много неверных паролей подряд
	ErrTooManyAttempts = errors.New("слишком много попыток, подождите 1 час")
	// ErrLotteryDisabled: лотерея отключена в настройках
	ErrLotteryDisabled = errors.New("лотерея временно отключена")
	// ErrInvalidChance: шанс срабатывания вне [0, 1]
	ErrInvalidChance = errors.New("шанс срабатывания должен быть в диапазоне [0, 1]")
)

// LimitError: отказ по IP-лимиту с указанием самого лимита.
// errors.Is(err, ErrIPLimitExceeded) для него истинно.
type LimitError struct {
	Limit int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s (лимит %d)", ErrIPLimitExceeded.Error(), e.Limit)
}

// Is сопоставляет ошибку с ErrIPLimitExceeded.
func (e *LimitError) Is(target error) bool {
	return target == ErrIPLimitExceeded
}

package ledger

import "seaseed.dev/economy/internal/store"

// Repository: часть хранилища, нужная кошельку.
type Repository interface {
	store.Accounts
	store.Ledger
}

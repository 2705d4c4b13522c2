package score

import "seaseed.dev/economy/internal/store"

// Repository: часть хранилища, нужная очкам.
type Repository interface {
	store.Scores
}

// Package currency описывает пять уровней виртуальной валюты.
// Порядок уровней фиксирован: ракушки → жемчуг → самоцветы → кристаллы → драконьи шары.
// Обмен возможен только между соседними уровнями по курсу 100:1.
package currency

import (
	"fmt"
	"strings"
)

// Tier: уровень валюты.
type Tier int

// Уровни валюты в порядке возрастания ценности.
const (
	Shells Tier = iota
	Pearls
	Gems
	Crystals
	Dragonballs
)

// Rate: сколько единиц младшего уровня стоит одна единица следующего.
const Rate = 100

// All: все уровни по порядку.
var All = []Tier{Shells, Pearls, Gems, Crystals, Dragonballs}

var names = [...]string{"shells", "pearls", "gems", "crystals", "dragonballs"}

// String возвращает имя уровня, оно же имя колонки в таблице accounts.
func (t Tier) String() string {
	if !t.Valid() {
		return fmt.Sprintf("tier(%d)", int(t))
	}
	return names[t]
}

// Valid сообщает, входит ли значение в перечень уровней.
func (t Tier) Valid() bool {
	return t >= Shells && t <= Dragonballs
}

// Column возвращает имя колонки баланса.
// В SQL подставляются только значения из этого списка.
func (t Tier) Column() string {
	return t.String()
}

// Next возвращает следующий (более ценный) уровень.
func (t Tier) Next() (Tier, bool) {
	if !t.Valid() || t == Dragonballs {
		return t, false
	}
	return t + 1, true
}

// Adjacent сообщает, допустим ли обмен from → to.
// Разрешён только шаг на один уровень вверх.
func Adjacent(from, to Tier) bool {
	next, ok := from.Next()
	return ok && next == to
}

// ShellValue: стоимость одной единицы уровня в ракушках.
func (t Tier) ShellValue() int64 {
	v := int64(1)
	for i := Shells; i < t; i++ {
		v *= Rate
	}
	return v
}

// Parse разбирает имя уровня (регистр не важен).
func Parse(s string) (Tier, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return Tier(i), nil
		}
	}
	return 0, fmt.Errorf("неизвестная валюта %q", s)
}

// MarshalText позволяет отдавать уровень в JSON строкой.
func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("неизвестная валюта %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText разбирает уровень из JSON-строки.
func (t *Tier) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

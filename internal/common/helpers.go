// Package common содержит общие утилиты: ошибки и работу с календарным днём.
package common

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// DayLayout: формат ключа календарного дня в базе.
const DayLayout = "2006-01-02"

// LoadLocation загружает часовой пояс, определяющий границу дня.
// Если пояс не найден, используется UTC.
func LoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.WithError(err).Warnf("Не удалось загрузить часовой пояс %s, используем UTC", name)
		return time.UTC
	}
	return loc
}

// DayKey возвращает календарный день момента t в поясе loc.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayLayout)
}

// DayStart возвращает полночь того дня, в который попадает t.
func DayStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DaysAgo возвращает ключ дня, отстоящего от t на n дней назад.
func DaysAgo(t time.Time, loc *time.Location, n int) string {
	return DayStart(t, loc).AddDate(0, 0, -n).Format(DayLayout)
}

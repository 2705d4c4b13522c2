// Package lottery разыгрывает «яйца», случайный бонус в ракушках, который
// разыгрывается при подходящих событиях (активность, много постов за день,
// много комментариев к посту).
package lottery

// Prize: приз таблицы розыгрыша.
type Prize struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Amount      int64   `json:"amount"`      // Ракушки
	Probability float64 `json:"probability"` // Вероятность выпадения
}

// DefaultPrizes: призы в порядке обхода. Сумма вероятностей 0.39,
// оставшиеся 0.61: «ничего не выпало».
var DefaultPrizes = []Prize{
	{Code: "lucky_star", Name: "Счастливая звезда", Amount: 88, Probability: 0.01},
	{Code: "red_envelope_rain", Name: "Дождь красных конвертов", Amount: 50, Probability: 0.03},
	{Code: "easter_egg", Name: "Пасхалка", Amount: 20, Probability: 0.05},
	{Code: "small_surprise", Name: "Маленький сюрприз", Amount: 10, Probability: 0.10},
	{Code: "sunshine", Name: "Солнце для всех", Amount: 5, Probability: 0.20},
}

// Outcome: итог лотерейной возможности.
// Triggered истинно только когда выпал приз и он зачислен.
type Outcome struct {
	Triggered bool   `json:"triggered"`
	Prize     *Prize `json:"prize,omitempty"`
}

// Settings: текущие параметры розыгрыша.
type Settings struct {
	Enabled       bool    `json:"enabled"`
	TriggerChance float64 `json:"trigger_chance"`
}

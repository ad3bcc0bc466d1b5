// Package plan определяет закрытый набор тарифных уровней приложения
// и единственный порядок их сравнения. Все проверки доступа по тарифу
// должны проходить через этот пакет, список уровней нигде не дублируется.
package plan

import "strings"

// Tier — идентификатор тарифного уровня подписки.
type Tier string

const (
	// TierRookie — бесплатный уровень, выдается при регистрации.
	TierRookie Tier = "rookie"
	// TierSkilled — средний платный уровень.
	TierSkilled Tier = "skilled"
	// TierMaster — старший платный уровень.
	TierMaster Tier = "master"
)

// SentinelAll — значение метки контента "доступно всем независимо от тарифа".
const SentinelAll = "all"

// Normalize приводит недоверенную метку тарифа к каноническому уровню.
//
// Возвращает (tier, true), если метка распознана. Пустая строка, метка "all"
// и любое нераспознанное значение дают (_, false) — "ограничения нет".
// Нераспознанная метка сознательно открывает контент для всех: опечатка
// в метке платного контента делает его бесплатным, а не закрытым.
// Это задокументированное решение, а не скрытая ошибка.
func Normalize(raw string) (Tier, bool) {
	switch Tier(strings.ToLower(strings.TrimSpace(raw))) {
	case TierRookie:
		return TierRookie, true
	case TierSkilled:
		return TierSkilled, true
	case TierMaster:
		return TierMaster, true
	default:
		return "", false
	}
}

// NormalizeUser приводит поле plan учетной записи к валидному уровню.
// Любое нераспознанное значение трактуется как rookie.
func NormalizeUser(raw string) Tier {
	tier, ok := Normalize(raw)
	if !ok {
		return TierRookie
	}
	return tier
}

// Rank возвращает номер уровня в фиксированном порядке rookie < skilled < master.
// Нераспознанный уровень получает младший ранг.
func Rank(t Tier) int {
	switch t {
	case TierMaster:
		return 3
	case TierSkilled:
		return 2
	default:
		return 1
	}
}

// IsPaid сообщает, требует ли уровень активной подписки.
func IsPaid(t Tier) bool {
	return t == TierSkilled || t == TierMaster
}

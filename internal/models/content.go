package models

import "time"

// ContentKind — вид контента из закрытого набора. Новый вид добавляется
// здесь и в Valid, а не строкой в произвольном месте.
type ContentKind string

const (
	// KindRemedy — натуральное средство.
	KindRemedy ContentKind = "remedy"
	// KindArticle — статья.
	KindArticle ContentKind = "article"
	// KindVideo — видеоролик.
	KindVideo ContentKind = "video"
)

// Valid сообщает, входит ли вид контента в закрытый набор.
func (k ContentKind) Valid() bool {
	switch k {
	case KindRemedy, KindArticle, KindVideo:
		return true
	}
	return false
}

// Content — единица контента, закрытая тарифной меткой.
//
// RequiredPlan == nil или "all" означает контент без ограничения.
// Метка проверяется только на чтении, авторская сторона может писать любое
// значение.
type Content struct {
	ID           int
	Kind         ContentKind
	Title        string
	Body         string
	RequiredPlan *string
	CreatedAt    time.Time
}

package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantTier Tier
		wantOK   bool
	}{
		{name: "распознанный уровень rookie", raw: "rookie", wantTier: TierRookie, wantOK: true},
		{name: "распознанный уровень skilled", raw: "skilled", wantTier: TierSkilled, wantOK: true},
		{name: "распознанный уровень master", raw: "master", wantTier: TierMaster, wantOK: true},
		{name: "регистр и пробелы игнорируются", raw: "  MaStEr ", wantTier: TierMaster, wantOK: true},
		{name: "метка all означает отсутствие ограничения", raw: "all", wantOK: false},
		{name: "пустая метка означает отсутствие ограничения", raw: "", wantOK: false},
		{name: "опечатка открывает контент для всех", raw: "mastr", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, ok := Normalize(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantTier, tier)
			}
		})
	}
}

func TestNormalizeUser(t *testing.T) {
	assert.Equal(t, TierMaster, NormalizeUser("master"))
	assert.Equal(t, TierRookie, NormalizeUser(""))
	assert.Equal(t, TierRookie, NormalizeUser("premium"))
	assert.Equal(t, TierRookie, NormalizeUser("all"))
}

func TestRankOrdering(t *testing.T) {
	assert.Less(t, Rank(TierRookie), Rank(TierSkilled))
	assert.Less(t, Rank(TierSkilled), Rank(TierMaster))
	// нераспознанный уровень получает младший ранг, а не ошибку
	assert.Equal(t, Rank(TierRookie), Rank(Tier("unknown")))
}

func TestIsPaid(t *testing.T) {
	assert.False(t, IsPaid(TierRookie))
	assert.True(t, IsPaid(TierSkilled))
	assert.True(t, IsPaid(TierMaster))
}

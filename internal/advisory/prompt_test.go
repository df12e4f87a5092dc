package advisory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"enemyintel/internal/query"
	"enemyintel/internal/stats"
)

func TestEnemyPrompt(t *testing.T) {
	p := EnemyPrompt(query.Details{
		Name: "Runebear", Location: "Limgrave", HP: 1834,
		DamageNegation: stats.DamageProfile{Fire: -20},
		Resistances:    stats.Resistances{Bleed: stats.Immune, Poison: stats.Known(1200)},
		Poise:          stats.Poise{Base: 80, Effective: stats.InfinitePoise},
	})
	assert.Contains(t, p, "Enemy: Runebear")
	assert.Contains(t, p, "HP: 1,834")
	assert.Contains(t, p, "- Fire: -20%")
	assert.Contains(t, p, "- Bleed: Immune")
	assert.Contains(t, p, "- Poison: 1,200")
	assert.Contains(t, p, "- Frost: unknown")
	assert.Contains(t, p, "effectively infinite")
}

func TestRegionPrompt(t *testing.T) {
	p := RegionPrompt(query.RegionStats{Region: "Caelid", EnemyCount: 42, AvgHP: 12345})
	assert.Contains(t, p, "Region: Caelid")
	assert.Contains(t, p, "Enemy Count: 42")
	assert.Contains(t, p, "Average HP: 12,345")
}

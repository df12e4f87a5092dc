package query

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enemyintel/internal/dataset"
	"enemyintel/internal/stats"
)

func TestAggregate_Limgrave(t *testing.T) {
	e := NewEngine(fixture())
	rs, ok := e.Aggregate("Limgrave", stats.LevelNG)
	require.True(t, ok)

	assert.Equal(t, "Limgrave", rs.Region)
	assert.Equal(t, 3, rs.EnemyCount)
	assert.Equal(t, 944, rs.AvgHP) // (1834.7+400+600)/3 truncated

	require.NotNil(t, rs.AvgResistances.Bleed)
	assert.Equal(t, 300, *rs.AvgResistances.Bleed, "Immune excluded from the mean")
	require.NotNil(t, rs.AvgResistances.Poison)
	assert.Equal(t, 252, *rs.AvgResistances.Poison, "Unknown excluded from the mean")
	assert.Nil(t, rs.AvgResistances.Sleep)

	assert.Equal(t, 5.0, rs.AvgDamageNegation.Physical, "all three records count")
	assert.Equal(t, -6.7, rs.AvgDamageNegation.Fire)

	assert.Equal(t, 50.0, rs.AvgPoise.Base)
	assert.Equal(t, 28.3, rs.AvgPoise.Effective, "infinite poise counts as zero")
	assert.Equal(t, 3.0, rs.AvgPoise.RegenDelay)
	assert.Equal(t, 0.8, rs.AvgStatusMultipliers.Bleed)
}

func TestAggregate_AbsentColumnsReadZero(t *testing.T) {
	e := NewEngine(fixture())
	rs, ok := e.Aggregate("limgrave", stats.LevelNG1)
	require.True(t, ok)
	assert.Equal(t, 2000, rs.AvgHP)
	assert.Equal(t, stats.DamageProfile{}, rs.AvgDamageNegation)
	assert.Equal(t, PoiseAverages{}, rs.AvgPoise)
	assert.Equal(t, stats.StatusMultipliers{}, rs.AvgStatusMultipliers)
}

func TestAggregate_NotFound(t *testing.T) {
	e := NewEngine(fixture())
	_, ok := e.Aggregate("Mountaintops", stats.LevelNG)
	assert.False(t, ok)
	_, ok = e.Aggregate("Limgrave", stats.LevelNG3)
	assert.False(t, ok)
}

func TestRegionStats_JSON(t *testing.T) {
	d := dataset.New()
	d.Set(stats.LevelNG, dataset.LevelData{Records: []stats.EnemyRecord{
		{Name: "Omen", Location: "Leyndell", Resistances: stats.Resistances{Madness: stats.Immune}},
	}})
	rs, ok := NewEngine(d).Aggregate("Leyndell", stats.LevelNG)
	require.True(t, ok)

	data, err := json.Marshal(rs)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"madness":null`)
	assert.Contains(t, string(data), `"enemy_count":1`)
}

func TestRound1_HalfToEven(t *testing.T) {
	assert.Equal(t, 0.2, round1(0.25))
	assert.Equal(t, 0.8, round1(0.75))
	assert.Equal(t, -0.2, round1(-0.25))
	assert.Equal(t, 28.3, round1(85.0/3))
}

func TestAggregate_HalfMeansRoundToEven(t *testing.T) {
	d := dataset.New()
	d.Set(stats.LevelNG, dataset.LevelData{
		Columns: []string{stats.ColumnName, stats.ColumnLocation, stats.ColumnStatusBleed},
		Records: []stats.EnemyRecord{
			{Name: "Page", Location: "Stormveil", StatusMultipliers: stats.StatusMultipliers{Bleed: 0.5}},
			{Name: "Page", Location: "Stormveil", StatusMultipliers: stats.StatusMultipliers{Bleed: 0}},
		},
	})
	rs, ok := NewEngine(d).Aggregate("Stormveil", stats.LevelNG)
	require.True(t, ok)
	assert.Equal(t, 0.2, rs.AvgStatusMultipliers.Bleed)
}

package query

import (
	"math"

	"enemyintel/internal/dataset"
	"enemyintel/internal/stats"
)

// ResistanceAverages holds one mean per status. A nil field means no
// matching record had a numeric value for it.
type ResistanceAverages struct {
	Poison      *int `json:"poison"`
	ScarletRot  *int `json:"scarlet_rot"`
	Bleed       *int `json:"bleed"`
	Frost       *int `json:"frost"`
	Sleep       *int `json:"sleep"`
	Madness     *int `json:"madness"`
	Deathblight *int `json:"deathblight"`
}

// PoiseAverages are the poise means, one decimal each.
type PoiseAverages struct {
	Base       float64 `json:"base"`
	Effective  float64 `json:"effective"`
	RegenDelay float64 `json:"regen_delay"`
}

// RegionStats summarizes the records whose location matches a region.
type RegionStats struct {
	Region               string                  `json:"region"`
	EnemyCount           int                     `json:"enemy_count"`
	AvgHP                int                     `json:"avg_hp"`
	AvgDamageNegation    stats.DamageProfile     `json:"avg_damage_negation"`
	AvgResistances       ResistanceAverages      `json:"avg_resistances"`
	AvgPoise             PoiseAverages           `json:"avg_poise"`
	AvgStatusMultipliers stats.StatusMultipliers `json:"avg_status_multipliers"`
}

// Aggregate averages the region's records. Damage negation, poise and
// status multipliers average every matched record (coerced zeros included)
// and read 0 when the level has no such column. Resistances average only
// numeric values: Immune and unknown entries leave the denominator.
// Infinite effective poise counts as 0, matching the crude numeric coercion
// applied to that column.
func (e *Engine) Aggregate(region string, level stats.Level) (RegionStats, bool) {
	f, ok := e.folded[level]
	if !ok {
		return RegionStats{}, false
	}
	idx := matching(f.locations, foldQuery(region))
	if len(idx) == 0 {
		return RegionStats{}, false
	}
	data, _ := e.data.Level(level)
	recs := make([]stats.EnemyRecord, len(idx))
	for i, j := range idx {
		recs[i] = data.Records[j]
	}
	has := columnSet(data)

	out := RegionStats{Region: region, EnemyCount: len(recs)}

	var hp float64
	for _, r := range recs {
		hp += r.HP
	}
	out.AvgHP = int(hp / float64(len(recs)))

	var neg [8]float64
	for t := range neg {
		if !has[stats.NegationColumns[t]] {
			continue
		}
		neg[t] = meanOf(recs, func(r stats.EnemyRecord) float64 { return r.DamageNegation.Values()[t] })
	}
	out.AvgDamageNegation = stats.DamageProfileFrom(neg)

	var res [7]*int
	for s := range res {
		res[s] = resistanceMean(recs, s)
	}
	out.AvgResistances = ResistanceAverages{
		Poison: res[0], ScarletRot: res[1], Bleed: res[2], Frost: res[3],
		Sleep: res[4], Madness: res[5], Deathblight: res[6],
	}

	if has[stats.ColumnPoiseBase] {
		out.AvgPoise.Base = meanOf(recs, func(r stats.EnemyRecord) float64 { return float64(r.Poise.Base) })
	}
	if has[stats.ColumnPoiseEffective] {
		out.AvgPoise.Effective = meanOf(recs, func(r stats.EnemyRecord) float64 {
			if r.Poise.IsInfinite() {
				return 0
			}
			return float64(r.Poise.Effective)
		})
	}
	if has[stats.ColumnPoiseRegen] {
		out.AvgPoise.RegenDelay = meanOf(recs, func(r stats.EnemyRecord) float64 { return r.Poise.RegenDelay })
	}

	if has[stats.ColumnStatusBleed] {
		out.AvgStatusMultipliers.Bleed = meanOf(recs, func(r stats.EnemyRecord) float64 { return r.StatusMultipliers.Bleed })
	}
	if has[stats.ColumnStatusFrost] {
		out.AvgStatusMultipliers.Frost = meanOf(recs, func(r stats.EnemyRecord) float64 { return r.StatusMultipliers.Frost })
	}
	if has[stats.ColumnStatusBlackFlame] {
		out.AvgStatusMultipliers.BlackFlame = meanOf(recs, func(r stats.EnemyRecord) float64 { return r.StatusMultipliers.BlackFlame })
	}
	return out, true
}

func columnSet(data dataset.LevelData) map[string]bool {
	set := make(map[string]bool, len(data.Columns))
	for _, c := range data.Columns {
		set[c] = true
	}
	return set
}

// meanOf is the mean rounded to one decimal, half to even.
func meanOf(recs []stats.EnemyRecord, value func(stats.EnemyRecord) float64) float64 {
	if len(recs) == 0 {
		return 0
	}
	var sum float64
	for _, r := range recs {
		sum += value(r)
	}
	return round1(sum / float64(len(recs)))
}

func round1(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}

// resistanceMean truncates the mean of the known values for one status.
func resistanceMean(recs []stats.EnemyRecord, status int) *int {
	var sum float64
	n := 0
	for _, r := range recs {
		v := r.Resistances.Values()[status]
		if !v.IsKnown() {
			continue
		}
		sum += float64(v.Value)
		n++
	}
	if n == 0 {
		return nil
	}
	mean := int(sum / float64(n))
	return &mean
}

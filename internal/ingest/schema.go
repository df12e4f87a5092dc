package ingest

import (
	"strings"

	"enemyintel/internal/stats"
)

// schema maps the normalized columns of one level to record fields. It is
// resolved once per level; -1 marks an absent column.
type schema struct {
	name, location, id       int
	health, dlcClear         int
	weakPart                 int
	defense, negation        [8]int
	resistance               [7]int
	poiseBase, poiseEff      int
	poiseRegen               int
	bleedMul, frostMul, burn int
}

func newSchema(cols []string) schema {
	s := schema{
		name:       indexOf(cols, stats.ColumnName),
		location:   indexOf(cols, stats.ColumnLocation),
		id:         indexOf(cols, stats.ColumnID),
		health:     indexOf(cols, stats.ColumnHealth),
		dlcClear:   indexOf(cols, stats.ColumnDLCClear),
		weakPart:   indexOf(cols, stats.ColumnWeakPart),
		poiseBase:  indexOf(cols, stats.ColumnPoiseBase),
		poiseEff:   indexOf(cols, stats.ColumnPoiseEffective),
		poiseRegen: indexOf(cols, stats.ColumnPoiseRegen),
		bleedMul:   indexOf(cols, stats.ColumnStatusBleed),
		frostMul:   indexOf(cols, stats.ColumnStatusFrost),
		burn:       indexOf(cols, stats.ColumnStatusBlackFlame),
	}
	for i := range stats.DefenseColumns {
		s.defense[i] = indexOf(cols, stats.DefenseColumns[i])
		s.negation[i] = indexOf(cols, stats.NegationColumns[i])
	}
	for i := range stats.ResistanceColumns {
		s.resistance[i] = indexOf(cols, stats.ResistanceColumns[i])
	}
	return s
}

// cell returns the raw value at idx, or "" for absent columns and short rows.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// multipliers starts from the defaults and overrides each field whose
// column is present with its crude numeric coercion (default 0).
func (s schema) multipliers(row []string) stats.StatusMultipliers {
	m := stats.DefaultStatusMultipliers
	if s.bleedMul >= 0 {
		m.Bleed = stats.SafeFloat(cell(row, s.bleedMul), 0)
	}
	if s.frostMul >= 0 {
		m.Frost = stats.SafeFloat(cell(row, s.frostMul), 0)
	}
	if s.burn >= 0 {
		m.BlackFlame = stats.SafeFloat(cell(row, s.burn), 0)
	}
	return m
}

// hp prefers the post-clear health when it is numeric, then base health,
// then 0. Negative values clamp to 0.
func (s schema) hp(row []string) float64 {
	v, ok := stats.ParseNumber(cell(row, s.dlcClear))
	if !ok {
		v, ok = stats.ParseNumber(cell(row, s.health))
	}
	if !ok || v < 0 {
		return 0
	}
	return v
}

// record builds one EnemyRecord. ok is false for rows that must be dropped:
// a blank name or the template placeholder. seq is the fallback ID.
func (s schema) record(row []string, seq int) (stats.EnemyRecord, bool) {
	name := strings.TrimSpace(cell(row, s.name))
	if name == "" || name == stats.PlaceholderName {
		return stats.EnemyRecord{}, false
	}

	location := "Unknown"
	if s.location >= 0 {
		location = strings.TrimSpace(cell(row, s.location))
	}

	var defense, negation [8]float64
	for i := range defense {
		defense[i] = stats.SafeFloat(cell(row, s.defense[i]), 0)
		negation[i] = stats.SafeFloat(cell(row, s.negation[i]), 0)
	}
	var res [7]stats.Resistance
	for i := range res {
		res[i] = stats.ParseResistance(cell(row, s.resistance[i]))
	}

	return stats.EnemyRecord{
		ID:             stats.SafeInt(cell(row, s.id), seq),
		Name:           name,
		Location:       location,
		HP:             s.hp(row),
		Defense:        stats.DamageProfileFrom(defense),
		DamageNegation: stats.DamageProfileFrom(negation),
		Resistances:    stats.ResistancesFrom(res),
		Poise: stats.Poise{
			Base:       stats.SafeInt(cell(row, s.poiseBase), 0),
			Effective:  stats.ParseEffectivePoise(cell(row, s.poiseEff)),
			RegenDelay: stats.SafeFloat(cell(row, s.poiseRegen), 0),
		},
		StatusMultipliers: s.multipliers(row),
		HasWeakSpots: stats.SafeInt(cell(row, s.weakPart), 0) != 0,
	}, true
}

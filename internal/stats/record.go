package stats

// InfinitePoise marks an effective poise that can never be broken.
const InfinitePoise = Sentinel

// DamageTypes lists the eight damage types in canonical order. The same order
// is used by DamageProfile.Values and by the source column schema.
var DamageTypes = [8]string{
	"physical", "strike", "slash", "pierce",
	"magic", "fire", "lightning", "holy",
}

// DamageProfile holds one value per damage type. It is used both for raw
// defense and for damage-negation percentages.
type DamageProfile struct {
	Physical  float64 `json:"physical"`
	Strike    float64 `json:"strike"`
	Slash     float64 `json:"slash"`
	Pierce    float64 `json:"pierce"`
	Magic     float64 `json:"magic"`
	Fire      float64 `json:"fire"`
	Lightning float64 `json:"lightning"`
	Holy      float64 `json:"holy"`
}

// Values returns the profile in DamageTypes order.
func (p DamageProfile) Values() [8]float64 {
	return [8]float64{p.Physical, p.Strike, p.Slash, p.Pierce, p.Magic, p.Fire, p.Lightning, p.Holy}
}

// DamageProfileFrom builds a profile from values in DamageTypes order.
func DamageProfileFrom(v [8]float64) DamageProfile {
	return DamageProfile{
		Physical: v[0], Strike: v[1], Slash: v[2], Pierce: v[3],
		Magic: v[4], Fire: v[5], Lightning: v[6], Holy: v[7],
	}
}

// StatusEffects lists the seven status resistances in canonical order.
var StatusEffects = [7]string{
	"poison", "scarlet_rot", "bleed", "frost", "sleep", "madness", "deathblight",
}

// Resistances holds the seven status-resistance values.
type Resistances struct {
	Poison      Resistance `json:"poison"`
	ScarletRot  Resistance `json:"scarlet_rot"`
	Bleed       Resistance `json:"bleed"`
	Frost       Resistance `json:"frost"`
	Sleep       Resistance `json:"sleep"`
	Madness     Resistance `json:"madness"`
	Deathblight Resistance `json:"deathblight"`
}

// Values returns the resistances in StatusEffects order.
func (r Resistances) Values() [7]Resistance {
	return [7]Resistance{r.Poison, r.ScarletRot, r.Bleed, r.Frost, r.Sleep, r.Madness, r.Deathblight}
}

// ResistancesFrom builds Resistances from values in StatusEffects order.
func ResistancesFrom(v [7]Resistance) Resistances {
	return Resistances{
		Poison: v[0], ScarletRot: v[1], Bleed: v[2], Frost: v[3],
		Sleep: v[4], Madness: v[5], Deathblight: v[6],
	}
}

// Poise describes stagger resistance.
type Poise struct {
	Base       int     `json:"base"`
	Effective  int     `json:"effective"` // InfinitePoise when never staggered
	RegenDelay float64 `json:"regen_delay"`
}

// IsInfinite reports whether the effective poise is the infinite marker.
func (p Poise) IsInfinite() bool { return p.Effective == InfinitePoise }

// StatusMultipliers scale status build-up and burn damage.
type StatusMultipliers struct {
	Bleed      float64 `json:"bleed"`
	Frost      float64 `json:"frost"`
	BlackFlame float64 `json:"black_flame"`
}

// DefaultStatusMultipliers applies, field by field, when the source lacks
// that multiplier column.
var DefaultStatusMultipliers = StatusMultipliers{Bleed: 1, Frost: 1, BlackFlame: 1}

// EnemyRecord is one normalized row of a level. Names are not unique within
// a level: the same enemy placed at several locations yields several records.
type EnemyRecord struct {
	ID                int               `json:"id"`
	Name              string            `json:"name"`
	Location          string            `json:"location"`
	HP                float64           `json:"hp"`
	Defense           DamageProfile     `json:"defense"`
	DamageNegation    DamageProfile     `json:"damage_negation"`
	Resistances       Resistances       `json:"resistances"`
	Poise             Poise             `json:"poise"`
	StatusMultipliers StatusMultipliers `json:"status_multipliers"`
	HasWeakSpots      bool              `json:"has_weak_spots"`
}

// WholeHP is the HP reported to callers: truncated, and 0 unless positive.
func (r EnemyRecord) WholeHP() int {
	if r.HP <= 0 {
		return 0
	}
	return int(r.HP)
}

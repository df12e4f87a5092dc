package stats

// Source column names, after whitespace trimming. Repeated header names get a
// ".1" suffix on their second occurrence: the second "Phys" block is damage
// negation, the second "Bleed"/"Frost" pair is the status multipliers.
const (
	ColumnName     = "Name"
	ColumnLocation = "Location"
	ColumnID       = "ID"
	ColumnHealth   = "Health"
	ColumnDLCClear = "dlcClear"
	ColumnWeakPart = "Weak Part"

	ColumnPoiseBase      = "Base"
	ColumnPoiseEffective = "Effective"
	ColumnPoiseRegen     = "Regen Delay"

	ColumnStatusBleed      = "Bleed.1"
	ColumnStatusFrost      = "Frost.1"
	ColumnStatusBlackFlame = "HP Burn Effect"
)

// DefenseColumns are the raw defense columns, in DamageTypes order.
var DefenseColumns = [8]string{"Phys", "Strike", "Slash", "Pierce", "Magic", "Fire", "Ltng", "Holy"}

// NegationColumns are the damage-negation columns, in DamageTypes order.
var NegationColumns = [8]string{"Phys.1", "Strike.1", "Slash.1", "Pierce.1", "Magic.1", "Fire.1", "Ltng.1", "Holy.1"}

// ResistanceColumns are the status-resistance columns, in StatusEffects order.
var ResistanceColumns = [7]string{"Poison", "Scarlet Rot", "Bleed", "Frost", "Sleep", "Madness", "Deathblight"}

// PlaceholderName marks unfilled template rows.
const PlaceholderName = "???"

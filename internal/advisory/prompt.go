package advisory

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"enemyintel/internal/query"
	"enemyintel/internal/stats"
)

const mechanics = `Game Mechanics Context:
- Damage negation: negative values are weaknesses (the enemy takes MORE damage), positive values are resistances.
- Status resistance: lower values build up faster; "Immune" means the status never applies.
- Poise: under 40 is very low, 60-70 medium, over 100 very hard to stagger.
- Bleed, poison and frost are effective under 400 resistance and unreliable above 600.
- Sleep is effective under 200; scarlet rot is effective under 300.
- Madness and deathblight do not work on PvE enemies.
- Fire is weaker in rain and water areas; lightning is stronger there.
- Strike suits armored enemies, slash suits unarmored ones, pierce suits dragons and large foes.`

func formatResistance(r stats.Resistance) string {
	switch {
	case r.IsImmune():
		return "Immune"
	case r.IsKnown():
		return message.NewPrinter(language.English).Sprintf("%d", r.Value)
	default:
		return "unknown"
	}
}

func writeNegation(b *strings.Builder, p *message.Printer, neg stats.DamageProfile) {
	labels := [8]string{"Physical", "Strike", "Slash", "Pierce", "Magic", "Fire", "Lightning", "Holy"}
	for i, v := range neg.Values() {
		p.Fprintf(b, "- %s: %v%%\n", labels[i], v)
	}
}

// EnemyPrompt renders the reasoning request for one enemy instance.
func EnemyPrompt(d query.Details) string {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	b.WriteString("You are an expert Elden Ring strategy guide. Analyze this enemy and provide tactical combat advice.\n\n")
	b.WriteString(mechanics)
	b.WriteString("\n\n")
	p.Fprintf(&b, "Enemy: %s\nHP: %d\nLocation: %s\n\n", d.Name, d.HP, d.Location)

	b.WriteString("Damage Negation (LOWER is better for the player, NEGATIVE means weakness):\n")
	writeNegation(&b, p, d.DamageNegation)

	b.WriteString("\nStatus Resistances (LOWER is better for the player):\n")
	p.Fprintf(&b, "- Poison: %s\n- Scarlet Rot: %s\n- Bleed: %s\n- Frost: %s\n- Sleep: %s\n",
		formatResistance(d.Resistances.Poison),
		formatResistance(d.Resistances.ScarletRot),
		formatResistance(d.Resistances.Bleed),
		formatResistance(d.Resistances.Frost),
		formatResistance(d.Resistances.Sleep))

	poise := p.Sprintf("%d", d.Poise.Base)
	if d.Poise.IsInfinite() {
		poise += " (effectively infinite)"
	}
	p.Fprintf(&b, "\nPoise: %s (higher = harder to stagger)\nHas Weak Spots: %t\n\n", poise, d.HasWeakSpots)

	b.WriteString("Provide:\n")
	b.WriteString("1. **Best Damage Types:** the top 2-3 damage types (lowest or most negative negation)\n")
	b.WriteString("2. **Viable Status Effects:** only those with practically low resistance\n")
	b.WriteString("3. **Combat Strategy:** 2-3 sentences of tactical tips\n\n")
	b.WriteString("Keep the response under 150 words, focused and actionable.")
	return b.String()
}

// RegionPrompt renders the reasoning request for a region summary.
func RegionPrompt(rs query.RegionStats) string {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	b.WriteString("Analyze this Elden Ring region and provide general strategy:\n\n")
	p.Fprintf(&b, "Region: %s\nEnemy Count: %d\nAverage HP: %d\n\n", rs.Region, rs.EnemyCount, rs.AvgHP)
	b.WriteString("Average Damage Negation:\n")
	writeNegation(&b, p, rs.AvgDamageNegation)
	b.WriteString("\nProvide:\n1. Best general damage types for this region\n2. General combat approach\n3. Any notable patterns\n\n")
	b.WriteString("Keep it brief (3-4 sentences).")
	return b.String()
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"enemyintel/internal/service"
	"enemyintel/internal/stats"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C9A227"))
	labelStyle   = lipgloss.NewStyle().Faint(true)
)

func heading(s string) string { return headingStyle.Render(s) }

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderMarkdown renders advice text for the terminal, falling back to the
// raw text if the renderer cannot be built.
func renderMarkdown(text string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return text + "\n"
	}
	out, err := r.Render(text)
	if err != nil {
		return text + "\n"
	}
	return out
}

func renderSearch(w io.Writer, res service.SearchResult) {
	fmt.Fprintf(w, "%s %d matches in %s\n", heading(res.Query), len(res.Results), res.NGLevel)
	for _, m := range res.Results {
		fmt.Fprintf(w, "  %-40s %-30s HP %d\n", m.Name, m.Location, m.HP)
	}
}

func profileLine(p stats.DamageProfile) string {
	v := p.Values()
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = fmt.Sprintf("%s %.1f", stats.DamageTypes[i], n)
	}
	return strings.Join(parts, "  ")
}

func renderEnemy(w io.Writer, v service.EnemyView) {
	fmt.Fprintf(w, "%s  %s  HP %d\n", heading(v.Name), v.Location, v.HP)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("negation:"), profileLine(v.DamageNegation))

	res := v.Resistances.Values()
	parts := make([]string, len(res))
	for i, r := range res {
		parts[i] = fmt.Sprintf("%s %s", stats.StatusEffects[i], r)
	}
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("resistances:"), strings.Join(parts, "  "))

	poise := fmt.Sprintf("%d", v.Poise.Effective)
	if v.Poise.IsInfinite() {
		poise = "∞"
	}
	fmt.Fprintf(w, "%s base %d  effective %s\n", labelStyle.Render("poise:"), v.Poise.Base, poise)

	if len(v.AllInstances) > 1 {
		fmt.Fprintf(w, "%s\n", labelStyle.Render("also found at:"))
		for _, inst := range v.AllInstances {
			fmt.Fprintf(w, "  %s (HP %d)\n", inst.Location, inst.HP)
		}
	}
	fmt.Fprint(w, renderMarkdown(v.AIStrategy))
}

func renderRegion(w io.Writer, v service.RegionView) {
	fmt.Fprintf(w, "%s  %d enemies  avg HP %d\n", heading(v.Region), v.EnemyCount, v.AvgHP)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("avg negation:"), profileLine(v.AvgDamageNegation))
	fmt.Fprintf(w, "%s base %.1f  effective %.1f\n", labelStyle.Render("avg poise:"), v.AvgPoise.Base, v.AvgPoise.Effective)
	fmt.Fprint(w, renderMarkdown(v.AIStrategy))
}

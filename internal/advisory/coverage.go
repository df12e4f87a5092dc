package advisory

import (
	"math"

	"enemyintel/internal/stats"
)

// Coverage describes how many distinct enemy names of a level have advice.
type Coverage struct {
	TotalEnemies  int     `json:"total_enemies"`
	CachedEnemies int     `json:"cached_enemies"`
	Percentage    float64 `json:"percentage"`
}

// Coverage counts distinct names in records and how many of them have at
// least one cached instance key.
func (c *Cache) Coverage(records []stats.EnemyRecord) Coverage {
	names := make(map[string]bool)
	cached := make(map[string]bool)
	c.mu.RLock()
	for _, r := range records {
		names[r.Name] = true
		if _, ok := c.entries[EnemyKey(r.Name, r.Location)]; ok {
			cached[r.Name] = true
		}
	}
	c.mu.RUnlock()

	cov := Coverage{TotalEnemies: len(names), CachedEnemies: len(cached)}
	if cov.TotalEnemies > 0 {
		pct := float64(cov.CachedEnemies) / float64(cov.TotalEnemies) * 100
		cov.Percentage = math.RoundToEven(pct*10) / 10
	}
	return cov
}

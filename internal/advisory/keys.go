// Package advisory memoizes reasoning-service text per enemy instance and
// per region, persisting every new entry before handing it out.
package advisory

// FallbackText is served whenever the reasoning service cannot answer. It is
// never cached.
const FallbackText = "Strategy analysis unavailable. Check enemy weaknesses in the stats."

// EnemyKey is the cache key for one enemy instance. Derived stats are not
// part of the key: the same name and location share advice across levels.
func EnemyKey(name, location string) string {
	return "enemy_" + name + "_" + location
}

// RegionKey is the cache key for a region summary.
func RegionKey(region string) string {
	return "region_" + region
}

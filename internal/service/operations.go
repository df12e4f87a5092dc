package service

import (
	"context"
	"errors"
	"strings"

	"enemyintel/internal/advisory"
	"enemyintel/internal/logging"
	"enemyintel/internal/query"
	"enemyintel/internal/stats"
)

// ErrInvalidInput rejects malformed admin requests.
var ErrInvalidInput = errors.New("invalid input")

// StrategyPending is reported while an async advisory is still running.
const StrategyPending = "pending"

// SearchResult wraps search_by_name hits.
type SearchResult struct {
	Query   string        `json:"query"`
	NGLevel string        `json:"ng_level"`
	Results []query.Match `json:"results"`
}

// Search runs a case-insensitive name search. An empty query or an unknown
// level yields no results.
func (s *Service) Search(q, level string) SearchResult {
	out := SearchResult{Query: q, NGLevel: level, Results: []query.Match{}}
	l, ok := stats.ParseLevel(level)
	if !ok || q == "" {
		return out
	}
	out.NGLevel = string(l)
	out.Results = s.current().engine.SearchByName(q, l)
	return out
}

// Details is the advisory-free get_details lookup.
func (s *Service) Details(name, location, level string) (query.Details, bool) {
	l, ok := stats.ParseLevel(level)
	if !ok {
		return query.Details{}, false
	}
	return s.current().engine.Details(name, l, location)
}

// EnemyView is Details plus advisory text.
type EnemyView struct {
	query.Details
	AIStrategy string `json:"ai_strategy"`
}

// Enemy looks an enemy up and attaches advice, computing it on a miss.
func (s *Service) Enemy(ctx context.Context, name, location, level string) (EnemyView, bool) {
	d, ok := s.Details(name, location, level)
	if !ok {
		return EnemyView{}, false
	}
	key := advisory.EnemyKey(d.Name, d.Location)
	return EnemyView{Details: d, AIStrategy: s.advice.Advise(ctx, key, advisory.EnemyPrompt(d))}, true
}

// EnemyAsync is Enemy without blocking on the reasoning service: a miss
// reports StrategyPending and keeps computing in the background.
func (s *Service) EnemyAsync(name, location, level string) (EnemyView, *advisory.Pending, bool) {
	d, ok := s.Details(name, location, level)
	if !ok {
		return EnemyView{}, nil, false
	}
	p := s.advice.AdviseAsync(advisory.EnemyKey(d.Name, d.Location), advisory.EnemyPrompt(d))
	view := EnemyView{Details: d, AIStrategy: StrategyPending}
	if text, ready := p.Result(); ready {
		view.AIStrategy = text
	}
	return view, p, true
}

// RegionView is a region aggregate plus advisory text.
type RegionView struct {
	query.RegionStats
	AIStrategy string `json:"ai_strategy"`
}

// Region aggregates a region and attaches advice.
func (s *Service) Region(ctx context.Context, region, level string) (RegionView, bool) {
	l, ok := stats.ParseLevel(level)
	if !ok {
		return RegionView{}, false
	}
	rs, ok := s.current().engine.Aggregate(region, l)
	if !ok {
		logging.QueryDebug("region %q not found in %s", region, l)
		return RegionView{}, false
	}
	text := s.advice.Advise(ctx, advisory.RegionKey(region), advisory.RegionPrompt(rs))
	return RegionView{RegionStats: rs, AIStrategy: text}, true
}

// RegionEnemies lists region members.
type RegionEnemies struct {
	Region  string               `json:"region"`
	NGLevel string               `json:"ng_level"`
	Count   int                  `json:"count"`
	Enemies []query.RegionMember `json:"enemies"`
}

func (s *Service) RegionEnemies(region, level string) RegionEnemies {
	out := RegionEnemies{Region: region, NGLevel: level, Enemies: []query.RegionMember{}}
	l, ok := stats.ParseLevel(level)
	if !ok {
		return out
	}
	out.NGLevel = string(l)
	out.Enemies = s.current().engine.SearchByRegion(region, l)
	out.Count = len(out.Enemies)
	return out
}

// ColumnsView shows how a level's header was normalized.
type ColumnsView struct {
	NGLevel   string             `json:"ng_level"`
	Columns   []string           `json:"columns"`
	SampleRow *stats.EnemyRecord `json:"sample_row"`
}

// Columns reports a level's normalized column names and its first record.
func (s *Service) Columns(level string) (ColumnsView, bool) {
	l, ok := stats.ParseLevel(level)
	if !ok {
		return ColumnsView{}, false
	}
	data, ok := s.current().data.Level(l)
	if !ok {
		return ColumnsView{}, false
	}
	view := ColumnsView{NGLevel: string(l), Columns: nonNil(data.Columns)}
	if len(data.Records) > 0 {
		first := data.Records[0]
		view.SampleRow = &first
	}
	return view, true
}

// CacheStats reports advisory coverage for a level.
func (s *Service) CacheStats(level string) (advisory.Coverage, bool) {
	l, ok := stats.ParseLevel(level)
	if !ok {
		return advisory.Coverage{}, false
	}
	data, ok := s.current().data.Level(l)
	if !ok {
		return advisory.Coverage{}, false
	}
	return s.advice.Coverage(data.Records), true
}

// CacheEntry is one admin-visible advisory entry.
type CacheEntry struct {
	EnemyName string `json:"enemy_name"`
	Location  string `json:"location"`
	CacheKey  string `json:"cache_key"`
	Strategy  string `json:"strategy"`
}

// CacheUpdate overwrites the advice for an enemy instance. The key matches
// the one lookups use.
func (s *Service) CacheUpdate(ctx context.Context, name, location, text string) (CacheEntry, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(text) == "" {
		return CacheEntry{}, ErrInvalidInput
	}
	key := advisory.EnemyKey(name, location)
	if err := s.advice.Update(ctx, key, text); err != nil {
		logging.AdvisoryError("admin update of %s failed: %v", key, err)
		return CacheEntry{}, err
	}
	return CacheEntry{EnemyName: name, Location: location, CacheKey: key, Strategy: text}, nil
}

// CacheView returns the cached advice for an enemy instance.
func (s *Service) CacheView(name, location string) (CacheEntry, bool) {
	key := advisory.EnemyKey(name, location)
	text, ok := s.advice.Get(key)
	if !ok {
		return CacheEntry{}, false
	}
	return CacheEntry{EnemyName: name, Location: location, CacheKey: key, Strategy: text}, true
}

// CacheDebug reports advisory cache size and a sample of keys.
func (s *Service) CacheDebug() advisory.DebugInfo {
	return s.advice.Debug()
}

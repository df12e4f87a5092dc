package stats

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeNumbers_AbsentReturnsDefault(t *testing.T) {
	for _, raw := range []string{"", "-", "  -  ", "   ", "n/a", "abc", "NaN", "inf"} {
		assert.Equal(t, 7, SafeInt(raw, 7), "SafeInt(%q)", raw)
		assert.Equal(t, 2.5, SafeFloat(raw, 2.5), "SafeFloat(%q)", raw)
	}
}

func TestSafeNumbers_Parse(t *testing.T) {
	assert.Equal(t, 42, SafeInt("42", 0))
	assert.Equal(t, 42, SafeInt("42.9", 0))
	assert.Equal(t, -3, SafeInt("-3.7", 0))
	assert.Equal(t, 0, SafeInt("1e300", 0))
	assert.InDelta(t, 12.5, SafeFloat(" 12.5 ", 0), 1e-9)
	assert.InDelta(t, -20, SafeFloat("-20", 0), 1e-9)
}

func TestParseResistance(t *testing.T) {
	tests := []struct {
		raw  string
		want Resistance
	}{
		{"Immune", Immune},
		{"IMMUNE", Immune},
		{" immune ", Immune},
		{"", Unknown},
		{"-", Unknown},
		{"garbage", Unknown},
		{"150", Known(150)},
		{"150.0", Known(150)},
		{"0", Known(0)},
		{"999999", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseResistance(tt.raw))
		})
	}
}

func TestParseResistance_LegacyIntegers(t *testing.T) {
	assert.Equal(t, Sentinel, ParseResistance("").Int())
	assert.Equal(t, 150, ParseResistance("150").Int())
	assert.NotEqual(t, Known(0), ParseResistance(""))
}

func TestParseEffectivePoise(t *testing.T) {
	assert.Equal(t, InfinitePoise, ParseEffectivePoise("∞"))
	assert.Equal(t, InfinitePoise, ParseEffectivePoise("INF"))
	assert.Equal(t, 45, ParseEffectivePoise("45"))
	assert.Equal(t, 45, ParseEffectivePoise("45.8"))
	assert.Equal(t, 0, ParseEffectivePoise(""))
	assert.Equal(t, 0, ParseEffectivePoise("-"))
	assert.Equal(t, 0, ParseEffectivePoise("heavy"))
}

func TestResistanceJSON(t *testing.T) {
	in := Resistances{
		Poison:     Known(154),
		ScarletRot: Immune,
		Bleed:      Unknown,
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"poison":154`)
	assert.Contains(t, string(data), `"scarlet_rot":"Immune"`)
	assert.Contains(t, string(data), `"bleed":999999`)

	var out Resistances
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestParseLevel(t *testing.T) {
	l, ok := ParseLevel("")
	require.True(t, ok)
	assert.Equal(t, LevelNG, l)

	l, ok = ParseLevel("NG 2")
	require.True(t, ok)
	assert.Equal(t, LevelNG2, l)

	// "NG+" arrives as "NG " once the plus is form-decoded.
	l, ok = ParseLevel("NG ")
	require.True(t, ok)
	assert.Equal(t, LevelNG1, l)

	_, ok = ParseLevel("NG+9")
	assert.False(t, ok)
}

func TestEnemyRecord_WholeHP(t *testing.T) {
	assert.Equal(t, 0, EnemyRecord{HP: -4}.WholeHP())
	assert.Equal(t, 1234, EnemyRecord{HP: 1234.9}.WholeHP())
}

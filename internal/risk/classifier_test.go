package risk

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		removed, proto, body bool
		expected             Level
	}{
		{false, false, false, LevelLow},
		{false, false, true, LevelMedium},
		{false, true, false, LevelHigh},
		{false, true, true, LevelHigh},
		{true, false, false, LevelSevere},
		{true, true, true, LevelSevere},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Classify(tt.removed, tt.proto, tt.body),
			"removed=%v proto=%v body=%v", tt.removed, tt.proto, tt.body)
	}
}

func TestClassifyIsMonotonic(t *testing.T) {
	bools := []bool{false, true}
	for _, removed := range bools {
		for _, proto := range bools {
			for _, body := range bools {
				base := Classify(removed, proto, body)
				assert.GreaterOrEqual(t, Classify(true, proto, body), base)
				assert.GreaterOrEqual(t, Classify(removed, true, body), base)
				assert.GreaterOrEqual(t, Classify(removed, proto, true), base)
			}
		}
	}
}

func TestLevelOrderingAndMax(t *testing.T) {
	assert.True(t, LevelLow < LevelMedium)
	assert.True(t, LevelMedium < LevelHigh)
	assert.True(t, LevelHigh < LevelSevere)

	assert.Equal(t, LevelLow, Max())
	assert.Equal(t, LevelHigh, Max(LevelMedium, LevelHigh, LevelLow))
	assert.Equal(t, LevelSevere, Max(LevelSevere, LevelHigh))
}

func TestParseLevel(t *testing.T) {
	for _, l := range Levels {
		parsed, err := ParseLevel(l.String())
		require.NoError(t, err)
		assert.Equal(t, l, parsed)
	}

	l, err := ParseLevel(" severe ")
	require.NoError(t, err)
	assert.Equal(t, LevelSevere, l)

	_, err = ParseLevel("critical")
	assert.Error(t, err)
}

func TestLevelJSON(t *testing.T) {
	b, err := json.Marshal(map[string]Level{"risk": LevelHigh})
	require.NoError(t, err)
	assert.JSONEq(t, `{"risk":"High"}`, string(b))

	var out struct {
		Risk Level `json:"risk"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"risk":"medium"}`), &out))
	assert.Equal(t, LevelMedium, out.Risk)
}

func TestDefaultPolicy(t *testing.T) {
	assert.True(t, DefaultPolicy().AddedParamsBreak)
}

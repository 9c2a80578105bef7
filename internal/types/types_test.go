package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrategySide(t *testing.T) {
	for in, want := range map[string]StrategySide{"bullish": Bullish, " BEARISH ": Bearish, "Bullish": Bullish} {
		got, ok := ParseStrategySide(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseStrategySide("neutral")
	assert.False(t, ok)
	assert.Equal(t, "bearish", Bearish.Slug())
}

func TestTradeRowJSONIsArray(t *testing.T) {
	row := NewTradeRow([]string{"1", "2025-11-21", "$22.50/$17.50", "$0.20 DB", "0.005", "-4.0%", "0.973"})

	b, err := json.Marshal(ParsedReport{Top5: []TradeRow{row}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"","risk":"","pricing_comparison":"",
		"top_5":[["1","2025-11-21","$22.50/$17.50","$0.20 DB","0.005","-4.0%","0.973"]]}`, string(b))
}

func TestSectionString(t *testing.T) {
	assert.Equal(t, "NONE", SectionNone.String())
	assert.Equal(t, "TOP5", SectionTop5.String())
}

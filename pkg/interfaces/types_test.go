package interfaces

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRiskLevel(t *testing.T) {
	for _, want := range RiskLevels {
		got, err := ParseRiskLevel(string(want))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseRiskLevel("low")
	assert.Error(t, err, "levels are upper case")
	_, err = ParseRiskLevel("SEVERE")
	assert.Error(t, err)
}

func TestRiskLevel_AtLeast(t *testing.T) {
	assert.True(t, RiskHigh.AtLeast(RiskHigh))
	assert.True(t, RiskHigh.AtLeast(RiskLow))
	assert.True(t, RiskMedium.AtLeast(RiskMedium))
	assert.False(t, RiskMedium.AtLeast(RiskHigh))
	assert.False(t, RiskLow.AtLeast(RiskMedium))
	assert.True(t, RiskLow.AtLeast(RiskLow))
}

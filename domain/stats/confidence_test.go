package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfidenceFromPValue(t *testing.T) {
	tests := []struct {
		p    float64
		want Confidence
	}{
		{0.5, ConfidenceHigh},
		{0.1001, ConfidenceHigh},
		{0.10, ConfidenceMedium},
		{0.07, ConfidenceMedium},
		{0.05, ConfidenceHigh},
		{0.001, ConfidenceHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ConfidenceFromPValue(tt.p), "p=%v", tt.p)
	}
}

func TestRaiseLowerSaturate(t *testing.T) {
	assert.Equal(t, ConfidenceHigh, ConfidenceHigh.Raise())
	assert.Equal(t, ConfidenceHigh, ConfidenceMedium.Raise())
	assert.Equal(t, ConfidenceMedium, ConfidenceLow.Raise())
	assert.Equal(t, ConfidenceUnknown, ConfidenceUnknown.Raise())

	assert.Equal(t, ConfidenceMedium, ConfidenceHigh.Lower())
	assert.Equal(t, ConfidenceLow, ConfidenceLow.Lower())
}

func TestMinConfidence(t *testing.T) {
	assert.Equal(t, ConfidenceLow, MinConfidence(ConfidenceHigh, ConfidenceLow, ConfidenceMedium))
	assert.Equal(t, ConfidenceUnknown, MinConfidence())
	assert.Equal(t, ConfidenceMedium, ConfidenceHigh.Cap(ConfidenceMedium))
	assert.Equal(t, ConfidenceLow, ConfidenceLow.Cap(ConfidenceMedium))
}

func TestParseConfidence(t *testing.T) {
	c, err := ParseConfidence("medium")
	require.NoError(t, err)
	assert.Equal(t, ConfidenceMedium, c)

	_, err = ParseConfidence("certain")
	assert.Error(t, err)
}

func TestOutcomeKinds(t *testing.T) {
	pass := Result("jarque_bera", "score", 0.98, 0.4)
	assert.True(t, pass.IsResult())
	assert.True(t, pass.Verdict)
	assert.Equal(t, ConfidenceHigh, pass.Confidence())

	fail := Result("jarque_bera", "score", 0.80, 0.01)
	assert.False(t, fail.Verdict)
	assert.Equal(t, ConfidenceHigh, fail.Confidence())

	bare := ResultWithoutPValue("jarque_bera", "score", 0.9, true)
	assert.False(t, bare.HasPValue())
	assert.Equal(t, ConfidenceLow, bare.Confidence())

	assert.True(t, bare.Holds())

	p := 0.4
	decoded := TestOutcome{Kind: OutcomeResult, Method: "jarque_bera", Label: "score", PValue: &p}
	assert.True(t, decoded.Holds(), "p-value decides when verdict is absent")

	down := Unavailable("jarque_bera", "score", "engine error")
	assert.False(t, down.IsResult())
	assert.False(t, down.Holds())
	assert.Contains(t, down.String(), "unavailable")
}

func TestTestOutcomeValidate(t *testing.T) {
	tests := []struct {
		name    string
		outcome TestOutcome
		wantErr string
	}{
		{"usable result", Result("jarque_bera", "v", 1.2, 0.4), ""},
		{"boundaries are probabilities", Result("jarque_bera", "v", 1.2, 1), ""},
		{"p-value above one", Result("jarque_bera", "v", 1.2, 1.7), "outside [0, 1]"},
		{"negative p-value", Result("jarque_bera", "v", 1.2, -0.3), "outside [0, 1]"},
		{"nan p-value", Result("jarque_bera", "v", 1.2, math.NaN()), "outside [0, 1]"},
		{"nan statistic", Result("jarque_bera", "v", math.NaN(), 0.4), "not finite"},
		{"infinite statistic", ResultWithoutPValue("jarque_bera", "v", math.Inf(1), true), "not finite"},
		{"unavailable is never checked", Unavailable("jarque_bera", "v", "timeout"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.outcome.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

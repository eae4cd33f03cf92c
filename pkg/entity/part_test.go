package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartNamesRoundTrip(t *testing.T) {
	for p := Part(0); p < PartCount; p++ {
		got, ok := ParsePart(p.String())
		assert.True(t, ok, p.String())
		assert.Equal(t, p, got)
	}
	_, ok := ParsePart("Wing")
	assert.False(t, ok)
	assert.Equal(t, "Unknown", PartCount.String())
}

func TestLightParts(t *testing.T) {
	lights := 0
	for p := Part(0); p < PartCount; p++ {
		if p.IsLight() {
			lights++
		}
	}
	assert.Equal(t, 6, lights)
	assert.False(t, Hull.IsLight())
	assert.True(t, LightRudder.IsLight())
}

package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isupersid/stalker-test-client/internal/domain/models"
)

func TestCanonicalizeMAC(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already canonical", "00:1A:79:AB:CD:EF", "00:1A:79:AB:CD:EF"},
		{"lowercase", "00:1a:79:ab:cd:ef", "00:1A:79:AB:CD:EF"},
		{"dash separated", "00-1a-79-ab-cd-ef", "00:1A:79:AB:CD:EF"},
		{"dot separated", "001a.79ab.cdef", "00:1A:79:AB:CD:EF"},
		{"no separators", "001a79abcdef", "00:1A:79:AB:CD:EF"},
		{"surrounding space", "  00:1a:79:ab:cd:ef  ", "00:1A:79:AB:CD:EF"},
		{"not twelve digits", "00:1a:79", "00:1A:79"},
		{"non-hex passthrough", "not-a-mac", "NOT-A-MAC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, models.CanonicalizeMAC(tt.input))
		})
	}
}

func TestNewDeviceIdentity_CanonicalizesMAC(t *testing.T) {
	identity := models.NewDeviceIdentity("00-1a-79-00-00-01", "", "Europe/Kiev")
	assert.Equal(t, "00:1A:79:00:00:01", identity.MAC)
	assert.Equal(t, "Europe/Kiev", identity.Timezone)
	assert.Empty(t, identity.SerialNumber)
}

func TestGenerateMACRange(t *testing.T) {
	macs, err := models.GenerateMACRange("00:1A:79:00:00", 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"00:1A:79:00:00:00",
		"00:1A:79:00:00:01",
		"00:1A:79:00:00:02",
	}, macs)
}

func TestGenerateMACRange_BaseWithoutTrailingColon(t *testing.T) {
	macs, err := models.GenerateMACRange("00:1A:79:00:00", 255, 255)
	require.NoError(t, err)
	require.Len(t, macs, 1)
	assert.Equal(t, "00:1A:79:00:00:FF", macs[0])
}

func TestGenerateMACRange_Bounds(t *testing.T) {
	tests := []struct {
		name  string
		start int
		end   int
	}{
		{"negative start", -1, 10},
		{"end above 255", 0, 256},
		{"inverted range", 10, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := models.GenerateMACRange("00:1A:79:00:00", tt.start, tt.end)
			assert.Error(t, err)
		})
	}
}

package ingest

import (
	"testing"

	"mutabakat-backend/internal/models"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "cadi sutlu cikolata", normalizeName("CADI SÜTLÜ ÇİKOLATA"))
	require.Equal(t, "iskender kebap", normalizeName("İskender  Kebap "))
	require.Equal(t, normalizeName("Şöbiyet"), normalizeName("ŞÖBİYET"))
}

func TestParseMode(t *testing.T) {
	m, ok := parseMode("SALON")
	require.True(t, ok)
	require.Equal(t, models.SalesModeDineIn, m)

	m, ok = parseMode("Yemeksepeti")
	require.True(t, ok)
	require.Equal(t, models.SalesModeOnline, m)

	_, ok = parseMode("bilinmeyen kanal")
	require.False(t, ok)
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"12", 12},
		{"12.5", 12.5},
		{"1.234,5", 1234.5}, // Türkçe binlik/ondalık
		{"0,25", 0.25},
	}
	for _, tc := range cases {
		got, err := parseAmount(tc.in)
		require.NoError(t, err, tc.in)
		require.InDelta(t, tc.want, got, 1e-9, tc.in)
	}

	_, err := parseAmount("abc")
	require.Error(t, err)
}

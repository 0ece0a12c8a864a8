package pricing

import (
	"testing"
	"time"

	"mutabakat-backend/internal/models"

	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolvePicksLatestEffectivePrice(t *testing.T) {
	prices := []models.MaterialPrice{
		{MaterialID: 1, EffectiveDate: day(2025, 4, 1), UnitPrice: 2.00, IsActive: true},
		{MaterialID: 1, EffectiveDate: day(2025, 5, 1), UnitPrice: 2.50, IsActive: true},
	}

	// Nisan sonu: Mayıs fiyatı henüz geçerli değil
	p, ok := Resolve(prices, day(2025, 4, 30))
	require.True(t, ok)
	require.Equal(t, 2.00, p)

	// Mayıs başı ve sonrası: yeni fiyat
	p, ok = Resolve(prices, day(2025, 5, 1))
	require.True(t, ok)
	require.Equal(t, 2.50, p)

	p, ok = Resolve(prices, day(2025, 5, 31))
	require.True(t, ok)
	require.Equal(t, 2.50, p)
}

func TestResolveNoPriceBeforeFirstEffectiveDate(t *testing.T) {
	prices := []models.MaterialPrice{
		{MaterialID: 1, EffectiveDate: day(2025, 4, 1), UnitPrice: 2.00, IsActive: true},
	}

	// İleri tarihli fiyat geriye uygulanmaz: Mart için fiyat yok
	_, ok := Resolve(prices, day(2025, 3, 31))
	require.False(t, ok)
}

func TestResolveSkipsInactivePrices(t *testing.T) {
	prices := []models.MaterialPrice{
		{MaterialID: 1, EffectiveDate: day(2025, 4, 1), UnitPrice: 2.00, IsActive: true},
		{MaterialID: 1, EffectiveDate: day(2025, 5, 1), UnitPrice: 99.0, IsActive: false}, // hatalı giriş, pasife alınmış
	}

	p, ok := Resolve(prices, day(2025, 5, 31))
	require.True(t, ok)
	require.Equal(t, 2.00, p)
}

func TestResolveEmpty(t *testing.T) {
	_, ok := Resolve(nil, day(2025, 5, 31))
	require.False(t, ok)
}

func TestGroupByMaterial(t *testing.T) {
	prices := []models.MaterialPrice{
		{MaterialID: 1, EffectiveDate: day(2025, 4, 1), UnitPrice: 2.00, IsActive: true},
		{MaterialID: 2, EffectiveDate: day(2025, 4, 1), UnitPrice: 7.00, IsActive: true},
		{MaterialID: 1, EffectiveDate: day(2025, 5, 1), UnitPrice: 2.50, IsActive: true},
	}

	grouped := GroupByMaterial(prices)
	require.Len(t, grouped, 2)
	require.Len(t, grouped[1], 2)
	require.Len(t, grouped[2], 1)
}

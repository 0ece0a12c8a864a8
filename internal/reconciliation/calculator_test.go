package reconciliation

import (
	"testing"

	"mutabakat-backend/internal/recipe"

	"github.com/stretchr/testify/require"
)

func TestTheoreticalUsageDividesByConversionRate(t *testing.T) {
	// 517 porsiyon × 0.1 ÷ 0.34: çevrim oranına bölünmezse sonuç 17.578
	// çıkar, bölününce 152.06. İki değer birbirine hiç benzemediği için bu
	// test formül yönü değişirse anında kırılır.
	f := recipe.Factors{
		StandardQuantity:   0.1,
		LossRate:           1.0,
		UnitConversionRate: 0.34,
	}

	got := TheoreticalUsage(517, f)
	require.InDelta(t, 152.0588, got, 0.001)

	// Çarpma yönündeki eski hatalı sonuçtan uzak olduğunu da doğrula
	require.Greater(t, got, 100.0)
}

func TestTheoreticalUsageAppliesLossRate(t *testing.T) {
	f := recipe.Factors{
		StandardQuantity:   0.5,
		LossRate:           1.1, // %10 fire payı
		UnitConversionRate: 1.0,
	}

	require.InDelta(t, 55.0, TheoreticalUsage(100, f), 1e-9)
}

func TestTheoreticalUsageNegativeNetSales(t *testing.T) {
	// İade satıştan fazlaysa katkı negatif döner, sıfıra sabitlenmez
	f := recipe.Factors{
		StandardQuantity:   0.5,
		LossRate:           1.0,
		UnitConversionRate: 1.0,
	}

	require.InDelta(t, -2.5, TheoreticalUsage(-5, f), 1e-9)
}

func TestTheoreticalUsageZeroSales(t *testing.T) {
	f := recipe.Factors{
		StandardQuantity:   0.25,
		LossRate:           1.05,
		UnitConversionRate: 0.5,
	}

	require.Zero(t, TheoreticalUsage(0, f))
}

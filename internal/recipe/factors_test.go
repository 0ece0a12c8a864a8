package recipe

import (
	"testing"

	"mutabakat-backend/internal/models"

	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func TestResolveFactorsValidated(t *testing.T) {
	link := models.RecipeLink{
		StandardQuantity:   fptr(0.1),
		LossRate:           fptr(1.05),
		UnitConversionRate: fptr(0.34),
	}

	f, err := ResolveFactors(link)
	require.NoError(t, err)
	require.Equal(t, 0.1, f.StandardQuantity)
	require.Equal(t, 1.05, f.LossRate)
	require.Equal(t, 0.34, f.UnitConversionRate)
	require.Equal(t, FieldValidated, f.LossRateState)
	require.Equal(t, FieldValidated, f.ConversionState)
}

func TestResolveFactorsMissingStandardQuantity(t *testing.T) {
	// Standart miktarın güvenli varsayılanı yok: hata döner, 0 varsayılmaz
	link := models.RecipeLink{
		LossRate:           fptr(1.0),
		UnitConversionRate: fptr(1.0),
	}

	_, err := ResolveFactors(link)
	require.ErrorIs(t, err, ErrMissingStandardQuantity)
}

func TestResolveFactorsDefaults(t *testing.T) {
	link := models.RecipeLink{
		StandardQuantity: fptr(0.5),
	}

	f, err := ResolveFactors(link)
	require.NoError(t, err)
	require.Equal(t, 1.0, f.LossRate)
	require.Equal(t, 1.0, f.UnitConversionRate)
	require.Equal(t, FieldDefaulted, f.LossRateState)
	require.Equal(t, FieldDefaulted, f.ConversionState)
}

func TestResolveFactorsZeroConversionDefaulted(t *testing.T) {
	// Çevrim oranı 0 bölme hatası üretirdi; 0 geldiğinde 1.0 varsayılır
	// ve varsayıldığı etiketlenir
	link := models.RecipeLink{
		StandardQuantity:   fptr(0.5),
		LossRate:           fptr(1.0),
		UnitConversionRate: fptr(0),
	}

	f, err := ResolveFactors(link)
	require.NoError(t, err)
	require.Equal(t, 1.0, f.UnitConversionRate)
	require.Equal(t, FieldDefaulted, f.ConversionState)
	require.Equal(t, FieldValidated, f.LossRateState)
}

package sales

import (
	"testing"

	"mutabakat-backend/internal/models"

	"github.com/stretchr/testify/require"
)

func TestNetDirectByDishSumsAcrossModes(t *testing.T) {
	// Salon 100 + paket 50: kanallar toplanır, biri diğerini ezmez
	rows := []models.DishSale{
		{DishVariantID: 1, Mode: models.SalesModeDineIn, SaleAmount: 100},
		{DishVariantID: 1, Mode: models.SalesModeTakeaway, SaleAmount: 50},
		{DishVariantID: 2, Mode: models.SalesModeOnline, SaleAmount: 30, ReturnAmount: 5},
	}

	totals := NetDirectByDish(rows)
	require.Equal(t, 150.0, totals[1])
	require.Equal(t, 25.0, totals[2])
}

func TestNetDirectByDishNegativeNet(t *testing.T) {
	// İade satıştan fazla: net negatif kalır, sıfıra sabitlenmez
	rows := []models.DishSale{
		{DishVariantID: 1, Mode: models.SalesModeDineIn, SaleAmount: 3, ReturnAmount: 8},
	}

	totals := NetDirectByDish(rows)
	require.Equal(t, -5.0, totals[1])
}

func TestNetDirectByDishDoesNotMutateInput(t *testing.T) {
	rows := []models.DishSale{
		{DishVariantID: 1, Mode: models.SalesModeDineIn, SaleAmount: 10},
	}

	_ = NetDirectByDish(rows)
	require.Equal(t, 10.0, rows[0].SaleAmount)
	require.Equal(t, 0.0, rows[0].ReturnAmount)
}

func TestNetComboByDishGrossSum(t *testing.T) {
	// Menü satırları brüt toplanır (menü iadesi modellenmez)
	rows := []models.ComboSale{
		{DishVariantID: 1, ComboPackageID: 7, SaleAmount: 40},
		{DishVariantID: 1, ComboPackageID: 8, SaleAmount: 10},
		{DishVariantID: 3, ComboPackageID: 7, SaleAmount: 40},
	}

	totals := NetComboByDish(rows)
	require.Equal(t, 50.0, totals[1])
	require.Equal(t, 40.0, totals[3])
	require.NotContains(t, totals, uint(2))
}

package reconciliation

import (
	"encoding/json"
	"testing"
	"time"

	"mutabakat-backend/internal/models"
	"mutabakat-backend/internal/recipe"

	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

// testFactSet: iki yemekli, tek malzemeli temel senaryo.
//
//	Yemek 1 "İskender": 10 net satış × 0.5 kg  = 5.0
//	Yemek 2 "Pide":     20 net satış × 0.2 kg = 4.0
//	Teorik toplam 9.0, sistem 12.0 -> fark +3.0 (fazla)
func testFactSet() *FactSet {
	return &FactSet{
		BranchID: 1,
		Year:     2025,
		Month:    5,
		Materials: []models.Material{
			{ID: 10, BranchID: 1, Code: "ET-01", Name: "Dana Eti", Unit: "kg"},
		},
		Dishes: map[uint]models.DishVariant{
			1: {ID: 1, BranchID: 1, Name: "İskender"},
			2: {ID: 2, BranchID: 1, Name: "Pide"},
		},
		Recipes: recipe.NewIndex([]models.RecipeLink{
			{ID: 1, BranchID: 1, DishVariantID: 1, MaterialID: 10, StandardQuantity: fptr(0.5), LossRate: fptr(1.0), UnitConversionRate: fptr(1.0)},
			{ID: 2, BranchID: 1, DishVariantID: 2, MaterialID: 10, StandardQuantity: fptr(0.2), LossRate: fptr(1.0), UnitConversionRate: fptr(1.0)},
		}),
		DirectSales: []models.DishSale{
			{BranchID: 1, DishVariantID: 1, Year: 2025, Month: 5, Mode: models.SalesModeDineIn, SaleAmount: 10},
			{BranchID: 1, DishVariantID: 2, Year: 2025, Month: 5, Mode: models.SalesModeTakeaway, SaleAmount: 20},
		},
		SystemUsages: []models.SystemUsage{
			{BranchID: 1, MaterialID: 10, Year: 2025, Month: 5, Quantity: 12},
		},
		Prices: []models.MaterialPrice{
			{BranchID: 1, MaterialID: 10, EffectiveDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.Local), UnitPrice: 2.0, IsActive: true},
		},
	}
}

func warningsOf(t *testing.T, rec models.VarianceRecord) []string {
	t.Helper()
	var w []string
	require.NoError(t, json.Unmarshal([]byte(rec.Warnings), &w))
	return w
}

func TestRunBasicExcess(t *testing.T) {
	records := Run(testFactSet(), Options{Tolerance: 0.01, Workers: 4})
	require.Len(t, records, 1)

	rec := records[0]
	require.Equal(t, uint(10), rec.MaterialID)
	require.InDelta(t, 9.0, rec.TheoreticalDirect, 1e-9)
	require.Zero(t, rec.TheoreticalCombo)
	require.NotNil(t, rec.SystemUsage)
	require.InDelta(t, 12.0, *rec.SystemUsage, 1e-9)
	require.InDelta(t, 3.0, rec.VarianceQuantity, 1e-9)
	require.Equal(t, models.StatusExcess, rec.Status)

	require.NotNil(t, rec.VarianceRate)
	require.InDelta(t, 3.0/9.0, *rec.VarianceRate, 1e-9)

	// Parasal etki: (teorik + sistem) × ay sonu fiyatı
	require.NotNil(t, rec.UnitPrice)
	require.Equal(t, 2.0, *rec.UnitPrice)
	require.NotNil(t, rec.MonetaryImpact)
	require.InDelta(t, (9.0+12.0)*2.0, *rec.MonetaryImpact, 1e-9)
}

func TestRunComboContributionSeparate(t *testing.T) {
	fs := testFactSet()
	fs.ComboSales = []models.ComboSale{
		{BranchID: 1, ComboPackageID: 7, DishVariantID: 1, Year: 2025, Month: 5, SaleAmount: 4},
	}

	records := Run(fs, Options{Tolerance: 0.01})
	require.Len(t, records, 1)

	rec := records[0]
	require.InDelta(t, 9.0, rec.TheoreticalDirect, 1e-9)
	require.InDelta(t, 2.0, rec.TheoreticalCombo, 1e-9) // 4 × 0.5
	// Menü katkısı da teorik tabana girer: 12 - (9 + 2) = 1
	require.InDelta(t, 1.0, rec.VarianceQuantity, 1e-9)
}

func TestRunInventoryAdjustmentInBaseline(t *testing.T) {
	fs := testFactSet()
	fs.StockCounts = []models.StockCount{
		{BranchID: 1, MaterialID: 10, CountDate: time.Date(2025, 5, 15, 0, 0, 0, 0, time.Local), Quantity: 2},
	}

	records := Run(fs, Options{Tolerance: 0.01})
	require.Len(t, records, 1)

	rec := records[0]
	require.InDelta(t, 2.0, rec.InventoryAdjustment, 1e-9)
	// 12 - (9 + 2) = 1
	require.InDelta(t, 1.0, rec.VarianceQuantity, 1e-9)
	require.Equal(t, models.StatusExcess, rec.Status)
}

func TestRunZeroBaselineRateUndefined(t *testing.T) {
	fs := testFactSet()
	fs.DirectSales = nil // satış yok, teorik taban 0
	fs.Recipes = recipe.NewIndex(nil)

	records := Run(fs, Options{Tolerance: 0.01})
	require.Len(t, records, 1) // sistem kullanımı var, malzeme aktif

	rec := records[0]
	require.Zero(t, rec.TheoreticalDirect)
	require.InDelta(t, 12.0, rec.VarianceQuantity, 1e-9)
	require.Equal(t, models.StatusExcess, rec.Status)

	// Oran tanımsız: nil kalır, 0 yazılmaz
	require.Nil(t, rec.VarianceRate)
	require.Contains(t, warningsOf(t, rec), WarnUndefinedRate)
}

func TestRunToleranceClassification(t *testing.T) {
	fs := testFactSet()
	fs.SystemUsages[0].Quantity = 9.0 // fark 0

	records := Run(fs, Options{Tolerance: 0.01})
	require.Equal(t, models.StatusNormal, records[0].Status)

	fs.SystemUsages[0].Quantity = 5.0 // fark -4
	records = Run(fs, Options{Tolerance: 0.01})
	require.Equal(t, models.StatusShortfall, records[0].Status)

	// Eşik tam sınırda: |fark| <= tolerans normaldir
	fs.SystemUsages[0].Quantity = 9.01
	records = Run(fs, Options{Tolerance: 0.01})
	require.Equal(t, models.StatusNormal, records[0].Status)
}

func TestRunMissingSystemUsageStaysNil(t *testing.T) {
	fs := testFactSet()
	fs.SystemUsages = nil

	records := Run(fs, Options{Tolerance: 0.01})
	require.Len(t, records, 1) // satış aktivitesi var

	rec := records[0]
	// "POS kayıt girmemiş" ile "POS 0 girmiş" ayrı şeyler
	require.Nil(t, rec.SystemUsage)
	require.InDelta(t, -9.0, rec.VarianceQuantity, 1e-9)
	require.Equal(t, models.StatusShortfall, rec.Status)
}

func TestRunDataErrorExcludesRecordFromMath(t *testing.T) {
	fs := testFactSet()
	fs.Recipes = recipe.NewIndex([]models.RecipeLink{
		{ID: 1, BranchID: 1, DishVariantID: 1, MaterialID: 10, StandardQuantity: nil}, // standart miktar boş
		{ID: 2, BranchID: 1, DishVariantID: 2, MaterialID: 10, StandardQuantity: fptr(0.2), LossRate: fptr(1.0), UnitConversionRate: fptr(1.0)},
	})

	records := Run(fs, Options{Tolerance: 0.01})
	require.Len(t, records, 1)

	rec := records[0]
	require.Equal(t, models.StatusDataError, rec.Status)
	// Sayısal sonuç üretilmez
	require.Zero(t, rec.TheoreticalDirect)
	require.Zero(t, rec.VarianceQuantity)
	require.Nil(t, rec.VarianceRate)
	require.Nil(t, rec.MonetaryImpact)
	// Ama girdi gerçekleri kayıtta durur
	require.NotNil(t, rec.SystemUsage)
	require.InDelta(t, 12.0, *rec.SystemUsage, 1e-9)

	warnings := warningsOf(t, rec)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0], WarnMissingStandardQty)
	require.Contains(t, warnings[0], "İskender")
}

func TestRunInactiveMaterialSkipped(t *testing.T) {
	fs := testFactSet()
	fs.Materials = append(fs.Materials, models.Material{ID: 99, BranchID: 1, Code: "ZZ-99", Name: "Atıl Malzeme", Unit: "kg"})

	records := Run(fs, Options{Tolerance: 0.01})
	require.Len(t, records, 1)
	require.Equal(t, uint(10), records[0].MaterialID)
}

func TestRunUnpricedMaterial(t *testing.T) {
	fs := testFactSet()
	fs.Prices = nil

	records := Run(fs, Options{Tolerance: 0.01})
	rec := records[0]

	require.Nil(t, rec.UnitPrice)
	require.Nil(t, rec.MonetaryImpact)
	require.Contains(t, warningsOf(t, rec), WarnUnresolvedPrice)
	// Fiyatsızlık fark hesabını etkilemez
	require.InDelta(t, 3.0, rec.VarianceQuantity, 1e-9)
	require.Equal(t, models.StatusExcess, rec.Status)
}

func TestRunFutureEffectivePriceNotApplied(t *testing.T) {
	fs := testFactSet()
	fs.Prices = []models.MaterialPrice{
		{BranchID: 1, MaterialID: 10, EffectiveDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local), UnitPrice: 3.0, IsActive: true},
	}

	records := Run(fs, Options{Tolerance: 0.01})
	require.Nil(t, records[0].MonetaryImpact)
}

func TestRunDefaultedFactorsWarned(t *testing.T) {
	fs := testFactSet()
	fs.Recipes = recipe.NewIndex([]models.RecipeLink{
		{ID: 1, BranchID: 1, DishVariantID: 1, MaterialID: 10, StandardQuantity: fptr(0.5)}, // fire ve çevrim boş
		{ID: 2, BranchID: 1, DishVariantID: 2, MaterialID: 10, StandardQuantity: fptr(0.2), LossRate: fptr(1.0), UnitConversionRate: fptr(1.0)},
	})

	records := Run(fs, Options{Tolerance: 0.01})
	rec := records[0]

	// Varsayılan 1.0'larla hesap aynı sonucu verir ama etiketlenir
	require.InDelta(t, 9.0, rec.TheoreticalDirect, 1e-9)
	require.NotEqual(t, models.StatusDataError, rec.Status)

	warnings := warningsOf(t, rec)
	require.Len(t, warnings, 2)
	require.Contains(t, warnings[0], WarnLossRateDefaulted)
	require.Contains(t, warnings[1], WarnConversionDefaulted)
}

func TestRunConversionRateDivides(t *testing.T) {
	fs := testFactSet()
	fs.DirectSales = []models.DishSale{
		{BranchID: 1, DishVariantID: 1, Year: 2025, Month: 5, Mode: models.SalesModeDineIn, SaleAmount: 517},
	}
	fs.Recipes = recipe.NewIndex([]models.RecipeLink{
		{ID: 1, BranchID: 1, DishVariantID: 1, MaterialID: 10, StandardQuantity: fptr(0.1), LossRate: fptr(1.0), UnitConversionRate: fptr(0.34)},
	})

	records := Run(fs, Options{Tolerance: 0.01})
	require.InDelta(t, 152.0588, records[0].TheoreticalDirect, 0.001)
}

func TestRunDeterministicAcrossWorkers(t *testing.T) {
	fs := testFactSet()
	// İkinci ve üçüncü aktif malzeme ekle, çıktı sırası test edilsin
	fs.Materials = append(fs.Materials,
		models.Material{ID: 20, BranchID: 1, Code: "SU-01", Name: "Süt", Unit: "lt"},
		models.Material{ID: 30, BranchID: 1, Code: "UN-01", Name: "Un", Unit: "kg"},
	)
	fs.SystemUsages = append(fs.SystemUsages,
		models.SystemUsage{BranchID: 1, MaterialID: 20, Year: 2025, Month: 5, Quantity: 7},
		models.SystemUsage{BranchID: 1, MaterialID: 30, Year: 2025, Month: 5, Quantity: 3},
	)

	serial := Run(fs, Options{Tolerance: 0.01, Workers: 1})
	parallel := Run(fs, Options{Tolerance: 0.01, Workers: 8})
	again := Run(fs, Options{Tolerance: 0.01, Workers: 8})

	require.Equal(t, serial, parallel)
	require.Equal(t, parallel, again)

	// Çıktı Materials slice sırasında (malzeme kodu sırası loader'da kurulur)
	require.Equal(t, uint(10), serial[0].MaterialID)
	require.Equal(t, uint(20), serial[1].MaterialID)
	require.Equal(t, uint(30), serial[2].MaterialID)
}

func TestDishUsageDetailMatchesEngine(t *testing.T) {
	fs := testFactSet()
	fs.ComboSales = []models.ComboSale{
		{BranchID: 1, ComboPackageID: 7, DishVariantID: 1, Year: 2025, Month: 5, SaleAmount: 4},
	}

	records := Run(fs, Options{Tolerance: 0.01})
	rec := records[0]

	lines, problems := DishUsageDetail(fs, 10)
	require.Empty(t, problems)
	require.Len(t, lines, 2)

	var sumDirect, sumCombo float64
	for _, l := range lines {
		sumDirect += l.TheoreticalDirect
		sumCombo += l.TheoreticalCombo
	}

	// Döküm, motorun toplamlarıyla bire bir tutar
	require.InDelta(t, rec.TheoreticalDirect, sumDirect, 1e-9)
	require.InDelta(t, rec.TheoreticalCombo, sumCombo, 1e-9)

	// Sıralama yemek adına göre
	require.Equal(t, "İskender", lines[0].DishName)
	require.Equal(t, "Pide", lines[1].DishName)
}

func TestDishUsageDetailReportsMissingStandardQuantity(t *testing.T) {
	fs := testFactSet()
	fs.Recipes = recipe.NewIndex([]models.RecipeLink{
		{ID: 1, BranchID: 1, DishVariantID: 1, MaterialID: 10, StandardQuantity: nil},
		{ID: 2, BranchID: 1, DishVariantID: 2, MaterialID: 10, StandardQuantity: fptr(0.2), LossRate: fptr(1.0), UnitConversionRate: fptr(1.0)},
	})

	lines, problems := DishUsageDetail(fs, 10)
	require.Len(t, lines, 1)
	require.Equal(t, "Pide", lines[0].DishName)
	require.Len(t, problems, 1)
	require.Contains(t, problems[0], WarnMissingStandardQty)
}

package reconciliation

import (
	"time"

	"mutabakat-backend/internal/models"
	"mutabakat-backend/internal/recipe"
)

// FactSet: bir şube + ay için mutabakatın okuyacağı her şey. Hesap başlamadan
// önce TEK seferde yüklenir ve donar; hesap ortasında biri fiyat güncellerse
// malzemelerin yarısı eski yarısı yeni fiyatla hesaplanamaz. Motor bu yapı
// üzerinde DB'ye hiç dönmeden çalışır — tüm I/O batch'in kenarlarındadır.
type FactSet struct {
	BranchID uint
	Year     int
	Month    int

	Materials []models.Material           // malzeme kodu sırasında (deterministik çıktı için)
	Dishes    map[uint]models.DishVariant // ID -> yemek çeşidi
	Recipes   *recipe.Index

	DirectSales  []models.DishSale   // hedef ayın tüm kanal satırları
	ComboSales   []models.ComboSale  // hedef ayın menü kaynaklı satırları
	SystemUsages []models.SystemUsage
	StockCounts  []models.StockCount // sadece hedef ayın içine düşen sayımlar
	Prices       []models.MaterialPrice
}

// MonthStart: ayın ilk günü (00:00).
func (fs *FactSet) MonthStart() time.Time {
	return time.Date(fs.Year, time.Month(fs.Month), 1, 0, 0, 0, 0, time.Local)
}

// MonthEnd: ayın son günü. Fiyat çözümlemesi bu tarihe göre yapılır.
func (fs *FactSet) MonthEnd() time.Time {
	return fs.MonthStart().AddDate(0, 1, -1)
}

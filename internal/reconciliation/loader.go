package reconciliation

import (
	"fmt"
	"time"

	"mutabakat-backend/internal/models"
	"mutabakat-backend/internal/recipe"

	"gorm.io/gorm"
)

// LoadFactSet: bir şube + ay için mutabakat girdilerinin tamamını tek seferde
// okur. Motor bu çağrıdan sonra DB'ye dönmez; yükleme sırası ile hesap sırası
// arasına yazma girerse bile hesap kendi donmuş kopyasını görür.
func LoadFactSet(db *gorm.DB, branchID uint, year, month int) (*FactSet, error) {
	fs := &FactSet{
		BranchID: branchID,
		Year:     year,
		Month:    month,
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	nextMonth := monthStart.AddDate(0, 1, 0)

	// Malzeme kodu sırası çıktı sırasını belirler (deterministik çalıştırma)
	if err := db.Where("branch_id = ?", branchID).
		Order("code, id").
		Find(&fs.Materials).Error; err != nil {
		return nil, fmt.Errorf("malzemeler yüklenemedi: %w", err)
	}

	var dishes []models.DishVariant
	if err := db.Where("branch_id = ?", branchID).Find(&dishes).Error; err != nil {
		return nil, fmt.Errorf("yemek çeşitleri yüklenemedi: %w", err)
	}
	fs.Dishes = make(map[uint]models.DishVariant, len(dishes))
	for _, d := range dishes {
		fs.Dishes[d.ID] = d
	}

	var links []models.RecipeLink
	if err := db.Where("branch_id = ?", branchID).Find(&links).Error; err != nil {
		return nil, fmt.Errorf("reçeteler yüklenemedi: %w", err)
	}
	fs.Recipes = recipe.NewIndex(links)

	if err := db.Where("branch_id = ? AND year = ? AND month = ?", branchID, year, month).
		Find(&fs.DirectSales).Error; err != nil {
		return nil, fmt.Errorf("satışlar yüklenemedi: %w", err)
	}

	if err := db.Where("branch_id = ? AND year = ? AND month = ?", branchID, year, month).
		Find(&fs.ComboSales).Error; err != nil {
		return nil, fmt.Errorf("menü satışları yüklenemedi: %w", err)
	}

	if err := db.Where("branch_id = ? AND year = ? AND month = ?", branchID, year, month).
		Find(&fs.SystemUsages).Error; err != nil {
		return nil, fmt.Errorf("sistem kullanımları yüklenemedi: %w", err)
	}

	// Sadece hedef ayın içine düşen sayımlar
	if err := db.Where("branch_id = ? AND count_date >= ? AND count_date < ?", branchID, monthStart, nextMonth).
		Find(&fs.StockCounts).Error; err != nil {
		return nil, fmt.Errorf("stok sayımları yüklenemedi: %w", err)
	}

	if err := db.Where("branch_id = ?", branchID).Find(&fs.Prices).Error; err != nil {
		return nil, fmt.Errorf("fiyatlar yüklenemedi: %w", err)
	}

	return fs, nil
}

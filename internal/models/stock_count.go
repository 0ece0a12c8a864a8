package models

import "time"

// StockCount: Fiziksel stok sayımı kaydı. Mutabakat için sadece hedef ayın
// içine düşen sayımlar dikkate alınır.
type StockCount struct {
	ID         uint `gorm:"primaryKey"`
	BranchID   uint `gorm:"index;not null"`
	Branch     Branch
	MaterialID uint `gorm:"index;not null"`
	Material   Material
	CountDate  time.Time `gorm:"index;not null"` // sayım tarihi
	Quantity   float64   `gorm:"not null"`       // sayılan miktar (takip biriminde)
	Note       string    `gorm:"size:255"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

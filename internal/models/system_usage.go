package models

import "time"

// SystemUsage: POS/stok sisteminin o ay o malzemeden tüketildiğini iddia ettiği
// miktar. Karşılaştırılacak referanstır, doğru kabul edilmez.
type SystemUsage struct {
	ID         uint `gorm:"primaryKey"`
	BranchID   uint `gorm:"uniqueIndex:uq_usage_key;not null"`
	Branch     Branch
	MaterialID uint `gorm:"uniqueIndex:uq_usage_key;not null"`
	Material   Material
	Year       int     `gorm:"uniqueIndex:uq_usage_key;not null"`
	Month      int     `gorm:"uniqueIndex:uq_usage_key;not null"`
	Quantity   float64 `gorm:"not null"` // takip biriminde
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

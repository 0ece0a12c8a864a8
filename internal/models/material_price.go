package models

import "time"

// MaterialPrice: Tarih etkinlikli birim fiyat. Bir fiyat, daha yeni etkinlik
// tarihli bir fiyat gelene kadar geçerlidir; çözümlemeye sadece aktif satırlar
// katılır. Kayıtlar güncellenmez, yenisi eklenir (fiyat geçmişi korunur).
type MaterialPrice struct {
	ID            uint `gorm:"primaryKey"`
	BranchID      uint `gorm:"uniqueIndex:uq_price_key;not null"`
	Branch        Branch
	MaterialID    uint `gorm:"uniqueIndex:uq_price_key;not null"`
	Material      Material
	EffectiveDate time.Time `gorm:"uniqueIndex:uq_price_key;not null"`
	UnitPrice     float64   `gorm:"not null"`
	IsActive      bool      `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

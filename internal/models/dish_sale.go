package models

import "time"

type SalesMode string

const (
	SalesModeDineIn   SalesMode = "salon"  // salon satışı
	SalesModeTakeaway SalesMode = "paket"  // paket servis
	SalesModeOnline   SalesMode = "online" // online platformlar
)

// DishSale: Aylık direkt satış kaydı (yemek çeşidi + satış kanalı bazında).
// Satış kanalı unique key'in PARÇASIDIR: aynı yemeğin salon ve paket satırları
// ayrı ayrı yaşar ve toplanır. Kanalı key dışında bırakıp ikinci kanalın
// insert'inin ilkini ezmesi geçmişte yaşanmış bir hataydı.
type DishSale struct {
	ID            uint `gorm:"primaryKey"`
	BranchID      uint `gorm:"uniqueIndex:uq_sale_key;not null"`
	Branch        Branch
	DishVariantID uint `gorm:"uniqueIndex:uq_sale_key;not null"`
	DishVariant   DishVariant
	Year          int       `gorm:"uniqueIndex:uq_sale_key;not null"`
	Month         int       `gorm:"uniqueIndex:uq_sale_key;not null"` // 1-12
	Mode          SalesMode `gorm:"size:20;uniqueIndex:uq_sale_key;not null"`
	SaleAmount    float64   `gorm:"not null"` // satılan porsiyon
	ReturnAmount  float64   `gorm:"not null;default:0"` // iade edilen porsiyon
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NetSales: satış - iade. Negatif olabilir (net iade); sıfıra sabitlenmez.
func (s DishSale) NetSales() float64 {
	return s.SaleAmount - s.ReturnAmount
}

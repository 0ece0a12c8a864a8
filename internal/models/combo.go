package models

import "time"

// ComboPackage: Menü paketi (örn: "İskender Menü"). Satışı, bileşen
// yemeklerinin satışı anlamına gelir.
type ComboPackage struct {
	ID        uint   `gorm:"primaryKey"`
	BranchID  uint   `gorm:"uniqueIndex:uq_combo_branch_name;not null"`
	Branch    Branch
	Name      string `gorm:"size:100;uniqueIndex:uq_combo_branch_name;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Components []ComboComponent
}

// ComboComponent: Menü paketinin bir bileşeni — bir paket satıldığında
// bu yemekten kaç porsiyon satılmış sayılacağı.
type ComboComponent struct {
	ID             uint `gorm:"primaryKey"`
	ComboPackageID uint `gorm:"uniqueIndex:uq_combo_component;not null"`
	DishVariantID  uint `gorm:"uniqueIndex:uq_combo_component;not null"`
	DishVariant    DishVariant
	Quantity       float64 `gorm:"not null;default:1"` // paket başına porsiyon
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ComboSale: Menü satışından türetilmiş aylık bileşen satış kaydı.
// SaleAmount = paket satışı × bileşen porsiyonu. Menü iadeleri modellenmez;
// brüt satış olduğu gibi kullanılır (tarihsel davranış, bilinçli olarak korunuyor).
type ComboSale struct {
	ID             uint `gorm:"primaryKey"`
	BranchID       uint `gorm:"uniqueIndex:uq_combo_sale_key;not null"`
	Branch         Branch
	ComboPackageID uint `gorm:"uniqueIndex:uq_combo_sale_key;not null"`
	ComboPackage   ComboPackage
	DishVariantID  uint `gorm:"uniqueIndex:uq_combo_sale_key;not null"`
	DishVariant    DishVariant
	Year           int     `gorm:"uniqueIndex:uq_combo_sale_key;not null"`
	Month          int     `gorm:"uniqueIndex:uq_combo_sale_key;not null"`
	SaleAmount     float64 `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

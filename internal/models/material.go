package models

import "time"

// Material: Hammadde (şube bazlı). Code, POS/stok sistemindeki malzeme kodudur;
// reçete ve fiyat kayıtları bu kayda ID üzerinden bağlanır, kod üzerinden değil.
type Material struct {
	ID        uint   `gorm:"primaryKey"`
	BranchID  uint   `gorm:"uniqueIndex:uq_material_branch_code;not null"`
	Branch    Branch
	Code      string `gorm:"size:50;uniqueIndex:uq_material_branch_code;not null"` // dış sistem malzeme kodu
	Name      string `gorm:"size:100;not null"`
	Unit      string `gorm:"size:20;not null"` // kg, lt, adet vs. (takip birimi)
	CreatedAt time.Time
	UpdatedAt time.Time
}

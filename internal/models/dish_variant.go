package models

import "time"

// DishVariant: Yemek çeşidi (şube bazlı). Aynı isimli ama farklı boydaki iki
// yemek iki ayrı kayıttır; reçete araması boyu da içeren tam eşleşme ile yapılır,
// farklı boyun reçetesine asla düşülmez.
type DishVariant struct {
	ID        uint   `gorm:"primaryKey"`
	BranchID  uint   `gorm:"uniqueIndex:uq_dish_branch_name_spec;not null"`
	Branch    Branch
	Name      string `gorm:"size:100;uniqueIndex:uq_dish_branch_name_spec;not null"`
	Spec      string `gorm:"size:50;uniqueIndex:uq_dish_branch_name_spec"` // boy/özellik (örn: "büyük", "tek kişilik"); boş olabilir
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName: "İskender (büyük)" biçiminde gösterim adı.
func (d DishVariant) DisplayName() string {
	if d.Spec == "" {
		return d.Name
	}
	return d.Name + " (" + d.Spec + ")"
}

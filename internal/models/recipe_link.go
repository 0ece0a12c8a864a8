package models

import "time"

// RecipeLink: Reçete satırı — bir yemek çeşidinin bir malzemeden ne kadar
// tükettiği. Sayısal alanlar bilinçli olarak pointer: kaynak veride boş
// gelebilirler ve "boş" ile "0" birbirinden ayırt edilmek zorunda.
//
//   - StandardQuantity: bir porsiyon başına nominal tüketim (reçete biriminde).
//     Boşsa bu bir veri kalitesi hatasıdır, asla 0 kabul edilmez.
//   - LossRate: fire çarpanı (tipik olarak >= 1.0). Boşsa 1.0 varsayılır.
//   - UnitConversionRate: kaç reçete biriminin bir takip birimi ettiği.
//     Teorik kullanım bu orana BÖLÜNEREK takip birimine çevrilir.
//     Boş veya 0 ise 1.0 varsayılır (çevrim yok).
type RecipeLink struct {
	ID               uint `gorm:"primaryKey"`
	BranchID         uint `gorm:"uniqueIndex:uq_recipe_branch_dish_material;not null"`
	Branch           Branch
	DishVariantID    uint `gorm:"uniqueIndex:uq_recipe_branch_dish_material;not null"`
	DishVariant      DishVariant
	MaterialID       uint `gorm:"uniqueIndex:uq_recipe_branch_dish_material;not null"`
	Material         Material
	StandardQuantity *float64 `gorm:"type:numeric"`
	LossRate         *float64 `gorm:"type:numeric"`
	UnitConversionRate *float64 `gorm:"type:numeric"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

package models

import "time"

// Branch: Şube. Tüm diğer kayıtlar şubeye bağlıdır; aynı koda sahip bir
// malzeme iki şubede iki ayrı kayıttır, asla paylaşılmaz.
type Branch struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;unique"`
	Address   string `gorm:"size:255"`
	Phone     string `gorm:"size:50"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Users []User
}

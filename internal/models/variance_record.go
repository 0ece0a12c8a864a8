package models

import "time"

type VarianceStatus string

const (
	StatusNormal    VarianceStatus = "normal"      // fark tolerans içinde
	StatusExcess    VarianceStatus = "fazla"       // sistem teoriden fazlasını yazmış (fire/kayıp şüphesi)
	StatusShortfall VarianceStatus = "eksik"       // sistem teoriden azını yazmış (eksik kayıt/reçete şüphesi)
	StatusDataError VarianceStatus = "veri_hatasi" // reçete verisi eksik, hesap yapılamadı
)

// VarianceRecord: Mutabakat çıktısı — malzeme × şube × ay başına bir satır.
// Her çalıştırmada sıfırdan üretilir; aynı ayın önceki kayıtları tamamen
// silinip yenileri yazılır, asla yerinde güncellenmez.
//
// Pointer alanlar "yok" ile "sıfır"ı ayırır:
//   - SystemUsage nil ise POS o ay için hiç tüketim kaydı girmemiş demektir.
//   - VarianceRate nil ise teorik taban 0'dır (tanımsız, NaN/Inf asla yazılmaz).
//   - UnitPrice/MonetaryImpact nil ise geçerli fiyat bulunamamıştır.
type VarianceRecord struct {
	ID         uint `gorm:"primaryKey"`
	BranchID   uint `gorm:"uniqueIndex:uq_variance_key;not null"`
	Branch     Branch
	MaterialID uint `gorm:"uniqueIndex:uq_variance_key;not null"`
	Material   Material
	Year       int `gorm:"uniqueIndex:uq_variance_key;not null"`
	Month      int `gorm:"uniqueIndex:uq_variance_key;not null"`

	TheoreticalDirect   float64 `gorm:"not null"` // direkt satıştan teorik kullanım
	TheoreticalCombo    float64 `gorm:"not null"` // menü satışından teorik kullanım
	SystemUsage         *float64
	InventoryAdjustment float64 `gorm:"not null"` // ay içi sayım toplamı
	VarianceQuantity    float64 `gorm:"not null"`
	VarianceRate        *float64

	Status         VarianceStatus `gorm:"size:20;not null"`
	Tolerance      float64        `gorm:"not null"` // sınıflandırmada kullanılan eşik
	UnitPrice      *float64
	MonetaryImpact *float64

	// Uyarılar ve hata gerekçeleri (JSON dizisi). Hesap sırasında hiçbir şey
	// fırlatılıp kaybedilmez; her şey kaydın üzerinde taşınır.
	Warnings string `gorm:"type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

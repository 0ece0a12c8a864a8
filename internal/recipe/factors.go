package recipe

import (
	"errors"

	"mutabakat-backend/internal/models"
)

// ErrMissingStandardQuantity: reçete satırında standart miktar boş. Bunun
// güvenli bir varsayılanı YOKTUR; 0 kabul etmek geçmişteki tekrarlayan
// hataların kök sebebiydi. Çağıran bu hatayı ilgili malzeme/şube/ay kaydına
// gerekçe olarak iliştirir, batch'i durdurmaz.
var ErrMissingStandardQuantity = errors.New("standart miktar (standard_quantity) boş: reçete verisi hatalı")

// FieldState: bir sayısal reçete alanının nereden geldiğini etiketler.
// "Doğrulanmış değer" ile "varsayılan atanmış değer" rapora ayrı ayrı yansır.
type FieldState int

const (
	FieldValidated FieldState = iota // kaynaktan gelen geçerli değer
	FieldDefaulted                   // boş/sıfırdı, varsayılan atandı
)

// Factors: hesapta kullanılacak çözülmüş reçete katsayıları.
type Factors struct {
	StandardQuantity   float64
	LossRate           float64
	UnitConversionRate float64

	LossRateState   FieldState
	ConversionState FieldState
}

// ResolveFactors: RecipeLink'in nullable alanlarını hesaba hazır katsayılara
// çevirir. LossRate boşsa 1.0 (fire yok), UnitConversionRate boş veya 0 ise
// 1.0 (çevrim yok) varsayılır ve varsayıldığı etiketlenir. StandardQuantity
// boşsa hata döner; sessizce 0'lanmaz.
func ResolveFactors(link models.RecipeLink) (Factors, error) {
	if link.StandardQuantity == nil {
		return Factors{}, ErrMissingStandardQuantity
	}

	f := Factors{
		StandardQuantity:   *link.StandardQuantity,
		LossRate:           1.0,
		UnitConversionRate: 1.0,
		LossRateState:      FieldDefaulted,
		ConversionState:    FieldDefaulted,
	}

	if link.LossRate != nil {
		f.LossRate = *link.LossRate
		f.LossRateState = FieldValidated
	}
	if link.UnitConversionRate != nil && *link.UnitConversionRate != 0 {
		f.UnitConversionRate = *link.UnitConversionRate
		f.ConversionState = FieldValidated
	}

	return f, nil
}

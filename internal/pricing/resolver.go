package pricing

import (
	"time"

	"mutabakat-backend/internal/models"
)

// Resolve: bir malzeme için verilen tarihte geçerli birim fiyatı seçer.
// Kural: aktif satırlar içinde effective_date <= asOf olan en yeni kayıt.
// Hiçbiri yoksa ikinci dönüş false'tur ("fiyatsız"); çağıran asla başka
// şubeden veya ileri tarihten fiyat koyamaz, parasal etkiyi "hesaplanamadı"
// olarak işaretler.
//
// prices tek malzeme+şubenin satırlarıdır; sıralı gelmesi gerekmez.
func Resolve(prices []models.MaterialPrice, asOf time.Time) (float64, bool) {
	var (
		best      models.MaterialPrice
		bestFound bool
	)

	for _, p := range prices {
		if !p.IsActive {
			continue
		}
		if p.EffectiveDate.After(asOf) {
			continue
		}
		if !bestFound || p.EffectiveDate.After(best.EffectiveDate) {
			best = p
			bestFound = true
		}
	}

	if !bestFound {
		return 0, false
	}
	return best.UnitPrice, true
}

// GroupByMaterial: donmuş fiyat satırlarını malzeme ID'sine göre ayırır.
// Motor ay sonu çözümlemesini bu gruplar üzerinden, DB'ye dönmeden yapar.
func GroupByMaterial(prices []models.MaterialPrice) map[uint][]models.MaterialPrice {
	grouped := make(map[uint][]models.MaterialPrice)
	for _, p := range prices {
		grouped[p.MaterialID] = append(grouped[p.MaterialID], p)
	}
	return grouped
}

package sales

import "mutabakat-backend/internal/models"

// Net satış toplama. Satış kanalları (salon/paket/online) aynı yemeğin
// TOPLANAN yüzleridir, birinden birini seçmek değil: aynı yemek/ay için kaç
// kanal satırı varsa hepsi toplanır. Bu fold, kanal satırlarının birbirini
// ezdiği eski global-akümülatör hatasının yerine geçer — girdiler okunur,
// yeni bir map üretilir, hiçbir paylaşılan durum yerinde değişmez.

// NetDirectByDish: yemek çeşidi ID -> Σ(satış - iade), tüm kanallar üzerinden.
// Net satış negatif olabilir (net iade); sıfıra sabitlenmez.
func NetDirectByDish(rows []models.DishSale) map[uint]float64 {
	totals := make(map[uint]float64)
	for _, r := range rows {
		totals[r.DishVariantID] += r.NetSales()
	}
	return totals
}

// NetComboByDish: yemek çeşidi ID -> Σ menü kaynaklı satış. Menü iadeleri
// modellenmediği için brüt satış olduğu gibi toplanır; direkt satıştan ayrı
// tutulur ki rapor iki katkıyı ayrı ayrı gösterebilsin.
func NetComboByDish(rows []models.ComboSale) map[uint]float64 {
	totals := make(map[uint]float64)
	for _, r := range rows {
		totals[r.DishVariantID] += r.SaleAmount
	}
	return totals
}

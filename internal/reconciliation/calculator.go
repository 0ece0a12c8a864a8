package reconciliation

import "mutabakat-backend/internal/recipe"

// TheoreticalUsage: reçete formülünün tek uygulandığı yer.
//
//	teorik miktar = N × standart miktar × fire oranı ÷ birim çevrim oranı
//
// Çevrim oranına BÖLÜNÜR, çarpılmaz. Oran "bir takip birimini kaç reçete
// birimi oluşturur" demektir; bölmek porsiyon başına miktarı takip birimine
// çevirir. Burada çarpma kullanmak sistemin geçmişinde tekrarlayan bir hataydı
// (330 ml'lik içecek porsiyonunu 331 kg gibi gösteriyordu) ve geri gelmemeli.
//
// N negatifse (iade satıştan fazla) formül olduğu gibi uygulanır ve katkı
// negatif döner; ay toplamı gerçek net-negatif hareketi yansıtabilmeli.
//
// Hem motor (§ aylık mutabakat) hem de yemek bazlı denetim dökümü bu fonksiyonu
// çağırır; formülün ikinci bir kopyası hiçbir yerde olmamalı.
func TheoreticalUsage(netSales float64, f recipe.Factors) float64 {
	return netSales * f.StandardQuantity * f.LossRate / f.UnitConversionRate
}

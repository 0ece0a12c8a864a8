package reconciliation

import (
	"encoding/json"
	"fmt"
	"math"

	"mutabakat-backend/internal/models"
	"mutabakat-backend/internal/pricing"
	"mutabakat-backend/internal/recipe"
	"mutabakat-backend/internal/sales"

	"golang.org/x/sync/errgroup"
)

// Uyarı kodları: hesap sırasında hiçbir hata fırlatılıp kaybolmaz, hepsi
// kaydın Warnings dizisine yazılır ve batch her koşulda tamamlanır.
const (
	WarnMissingStandardQty = "standart_miktar_eksik" // veri kalitesi hatası, kayıt hesap dışı
	WarnUnresolvedPrice    = "fiyat_bulunamadi"      // parasal etki hesaplanamadı
	WarnUndefinedRate      = "teorik_taban_sifir"    // fark oranı tanımsız
	WarnLossRateDefaulted  = "fire_orani_varsayildi" // boştu, 1.0 kullanıldı
	WarnConversionDefaulted = "cevrim_orani_varsayildi" // boş/sıfırdı, 1.0 kullanıldı
)

type Options struct {
	Tolerance float64 // |fark| <= Tolerance ise "normal"
	Workers   int     // paralel hesaplanacak malzeme sayısı
}

// Run: donmuş fact set üzerinde aylık mutabakat. Aktivitesi olan her malzeme
// için tam bir VarianceRecord üretir; malzemeler birbirinden bağımsız olduğu
// için hesap malzeme bazında paralel koşar. Çıktı malzeme kodu sırasındadır —
// aynı girdiyle iki çalıştırma bayt bayt aynı kayıtları üretir.
func Run(fs *FactSet, opts Options) []models.VarianceRecord {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Tolerance < 0 {
		opts.Tolerance = 0
	}

	// Satış fold'ları bir kez, paylaşılarak (read-only) hesaplanır
	directNet := sales.NetDirectByDish(fs.DirectSales)
	comboNet := sales.NetComboByDish(fs.ComboSales)

	// Aktivite tespiti için satır varlığı (net 0 olsa bile satır "aktivite"dir)
	directPresent := make(map[uint]bool, len(fs.DirectSales))
	for _, r := range fs.DirectSales {
		directPresent[r.DishVariantID] = true
	}
	comboPresent := make(map[uint]bool, len(fs.ComboSales))
	for _, r := range fs.ComboSales {
		comboPresent[r.DishVariantID] = true
	}

	usageByMaterial := make(map[uint]float64, len(fs.SystemUsages))
	usagePresent := make(map[uint]bool, len(fs.SystemUsages))
	for _, u := range fs.SystemUsages {
		usageByMaterial[u.MaterialID] += u.Quantity
		usagePresent[u.MaterialID] = true
	}

	countByMaterial := make(map[uint]float64, len(fs.StockCounts))
	countPresent := make(map[uint]bool, len(fs.StockCounts))
	for _, sc := range fs.StockCounts {
		countByMaterial[sc.MaterialID] += sc.Quantity
		countPresent[sc.MaterialID] = true
	}

	pricesByMaterial := pricing.GroupByMaterial(fs.Prices)

	in := computeInput{
		fs:              fs,
		directNet:       directNet,
		comboNet:        comboNet,
		directPresent:   directPresent,
		comboPresent:    comboPresent,
		usageByMaterial: usageByMaterial,
		usagePresent:    usagePresent,
		countByMaterial: countByMaterial,
		countPresent:    countPresent,
		pricesByMaterial: pricesByMaterial,
		opts:            opts,
	}

	// Fan-out: her malzeme kendi index'ine yazar, paylaşılan durum yok
	results := make([]*models.VarianceRecord, len(fs.Materials))
	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for i := range fs.Materials {
		i := i
		g.Go(func() error {
			results[i] = computeMaterial(fs.Materials[i], in)
			return nil
		})
	}
	_ = g.Wait() // worker'lar hata döndürmez; her sorun kaydın üzerinde taşınır

	records := make([]models.VarianceRecord, 0, len(results))
	for _, r := range results {
		if r != nil {
			records = append(records, *r)
		}
	}
	return records
}

type computeInput struct {
	fs               *FactSet
	directNet        map[uint]float64
	comboNet         map[uint]float64
	directPresent    map[uint]bool
	comboPresent     map[uint]bool
	usageByMaterial  map[uint]float64
	usagePresent     map[uint]bool
	countByMaterial  map[uint]float64
	countPresent     map[uint]bool
	pricesByMaterial map[uint][]models.MaterialPrice
	opts             Options
}

// computeMaterial: tek malzemenin aylık mutabakatı. Aktivitesi yoksa nil döner.
func computeMaterial(m models.Material, in computeInput) *models.VarianceRecord {
	links := in.fs.Recipes.ByMaterial(m.ID)

	// Aktivite: sistem kullanımı, ay içi sayım veya reçeteli bir yemeğin
	// satış satırı. Üçü de yoksa bu malzeme bu ay hiç görünmez.
	active := in.usagePresent[m.ID] || in.countPresent[m.ID]
	for _, l := range links {
		if in.directPresent[l.DishVariantID] || in.comboPresent[l.DishVariantID] {
			active = true
			break
		}
	}
	if !active {
		return nil
	}

	var (
		warnings  []string
		dataError bool
		theoD     float64
		theoC     float64
	)

	for _, link := range links {
		dishName := dishLabel(in.fs, link.DishVariantID)

		f, err := recipe.ResolveFactors(link)
		if err != nil {
			// Güvenli varsayılanı olmayan alan: kayıt gerekçesiyle hesap dışı
			dataError = true
			warnings = append(warnings, fmt.Sprintf("%s: %s", WarnMissingStandardQty, dishName))
			continue
		}

		if f.LossRateState == recipe.FieldDefaulted {
			warnings = append(warnings, fmt.Sprintf("%s: %s (1.0)", WarnLossRateDefaulted, dishName))
		}
		if f.ConversionState == recipe.FieldDefaulted {
			warnings = append(warnings, fmt.Sprintf("%s: %s (1.0)", WarnConversionDefaulted, dishName))
		}

		theoD += TheoreticalUsage(in.directNet[link.DishVariantID], f)
		theoC += TheoreticalUsage(in.comboNet[link.DishVariantID], f)
	}

	rec := &models.VarianceRecord{
		BranchID:   m.BranchID,
		MaterialID: m.ID,
		Year:       in.fs.Year,
		Month:      in.fs.Month,
		Tolerance:  in.opts.Tolerance,
	}

	var sysUsage *float64
	if in.usagePresent[m.ID] {
		v := in.usageByMaterial[m.ID]
		sysUsage = &v
	}
	rec.SystemUsage = sysUsage
	rec.InventoryAdjustment = in.countByMaterial[m.ID]

	if dataError {
		// Reçete verisi eksik: sayısal sonuç üretilmez, gerekçe kayıtta kalır
		rec.Status = models.StatusDataError
		rec.Warnings = marshalWarnings(warnings)
		return rec
	}

	rec.TheoreticalDirect = theoD
	rec.TheoreticalCombo = theoC

	sysValue := 0.0
	if sysUsage != nil {
		sysValue = *sysUsage
	}

	rec.VarianceQuantity = sysValue - (theoD + theoC + rec.InventoryAdjustment)

	// Fark oranı: teorik taban 0 ise tanımsızdır — NaN/Inf asla 0'a çevrilmez
	baseline := theoD + theoC
	if baseline != 0 {
		rate := rec.VarianceQuantity / baseline
		if math.IsNaN(rate) || math.IsInf(rate, 0) {
			warnings = append(warnings, WarnUndefinedRate)
		} else {
			rec.VarianceRate = &rate
		}
	} else {
		warnings = append(warnings, WarnUndefinedRate)
	}

	rec.Status = classify(rec.VarianceQuantity, in.opts.Tolerance)

	// Parasal etki: maliyet görünürlüğü için (teorik + sistem) × birim fiyat.
	// Fark hesabından bilinçli olarak ayrıdır; ikisi birbirine karıştırılmaz.
	// Fiyat ayın son günü itibarıyla çözülür; bulunamazsa etki "hesaplanamadı"
	// kalır, başka şubeden veya ileri tarihten fiyat asla konmaz.
	if unitPrice, ok := pricing.Resolve(in.pricesByMaterial[m.ID], in.fs.MonthEnd()); ok {
		impact := (theoD + theoC + sysValue) * unitPrice
		rec.UnitPrice = &unitPrice
		rec.MonetaryImpact = &impact
	} else {
		warnings = append(warnings, WarnUnresolvedPrice)
	}

	rec.Warnings = marshalWarnings(warnings)
	return rec
}

// classify: işaret ve büyüklüğe göre durum.
//   - fark > eşik  -> fazla (sistem teoriden fazlasını yazmış)
//   - fark < -eşik -> eksik (sistem teoriden azını yazmış)
//   - aksi halde   -> normal (gürültü)
func classify(varianceQty, tolerance float64) models.VarianceStatus {
	switch {
	case varianceQty > tolerance:
		return models.StatusExcess
	case varianceQty < -tolerance:
		return models.StatusShortfall
	default:
		return models.StatusNormal
	}
}

func marshalWarnings(warnings []string) string {
	if len(warnings) == 0 {
		return "[]"
	}
	b, err := json.Marshal(warnings)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func dishLabel(fs *FactSet, dishVariantID uint) string {
	if d, ok := fs.Dishes[dishVariantID]; ok {
		return d.DisplayName()
	}
	return fmt.Sprintf("yemek #%d", dishVariantID)
}

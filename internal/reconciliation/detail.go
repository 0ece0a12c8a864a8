package reconciliation

import (
	"fmt"
	"sort"

	"mutabakat-backend/internal/recipe"
	"mutabakat-backend/internal/sales"
)

// DetailLine: bir malzemenin ay içindeki yemek bazlı teorik kullanım dökümü.
// Denetim amaçlıdır; rakamları motorla AYNI rutin (TheoreticalUsage) üretir,
// paralel bir formül kopyası zamanla ayrışırdı.
type DetailLine struct {
	DishVariantID      uint    `json:"dish_variant_id"`
	DishName           string  `json:"dish_name"`
	DishSpec           string  `json:"dish_spec"`
	DirectNetSales     float64 `json:"direct_net_sales"`
	ComboNetSales      float64 `json:"combo_net_sales"`
	StandardQuantity   float64 `json:"standard_quantity"`
	LossRate           float64 `json:"loss_rate"`
	UnitConversionRate float64 `json:"unit_conversion_rate"`
	TheoreticalDirect  float64 `json:"theoretical_direct"`
	TheoreticalCombo   float64 `json:"theoretical_combo"`
}

// DishUsageDetail: malzemeyi tüketen her reçeteli yemek için bir satır.
// Standart miktarı eksik satırlar rakam üretmez; gerekçeleri ikinci dönüşte
// listelenir. Reçetesi olmayan yemekler burada hiç görünmez — "bu yemek bu
// malzemeyi kullanmıyor" demektir, sıfır satırı değil.
func DishUsageDetail(fs *FactSet, materialID uint) ([]DetailLine, []string) {
	directNet := sales.NetDirectByDish(fs.DirectSales)
	comboNet := sales.NetComboByDish(fs.ComboSales)

	var (
		lines    []DetailLine
		problems []string
	)

	for _, link := range fs.Recipes.ByMaterial(materialID) {
		dish, ok := fs.Dishes[link.DishVariantID]
		label := dishLabel(fs, link.DishVariantID)
		if !ok {
			problems = append(problems, fmt.Sprintf("yemek kaydı bulunamadı: #%d", link.DishVariantID))
			continue
		}

		f, err := recipe.ResolveFactors(link)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %s", WarnMissingStandardQty, label))
			continue
		}

		d := directNet[link.DishVariantID]
		k := comboNet[link.DishVariantID]

		lines = append(lines, DetailLine{
			DishVariantID:      link.DishVariantID,
			DishName:           dish.Name,
			DishSpec:           dish.Spec,
			DirectNetSales:     d,
			ComboNetSales:      k,
			StandardQuantity:   f.StandardQuantity,
			LossRate:           f.LossRate,
			UnitConversionRate: f.UnitConversionRate,
			TheoreticalDirect:  TheoreticalUsage(d, f),
			TheoreticalCombo:   TheoreticalUsage(k, f),
		})
	}

	sort.Slice(lines, func(i, j int) bool {
		if lines[i].DishName != lines[j].DishName {
			return lines[i].DishName < lines[j].DishName
		}
		return lines[i].DishSpec < lines[j].DishSpec
	})

	return lines, problems
}

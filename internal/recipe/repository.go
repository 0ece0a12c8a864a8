package recipe

import (
	"sort"

	"mutabakat-backend/internal/models"
)

// Key: reçete araması her zaman bu composite key ile yapılır, asla yemek adıyla
// değil. Yemek çeşidi ID'si boy/özelliği de içerdiği için "tek kişilik" tencere
// reçetesi aynı isimli "bölünmüş" tencereye uygulanamaz.
type Key struct {
	DishVariantID uint
	MaterialID    uint
}

// Index: bir şubenin reçete satırları üzerinde read-only arama yapısı.
// Mutabakat başlamadan önce donmuş fact set'in parçası olarak kurulur;
// hesap sırasında değişmez.
type Index struct {
	links      map[Key]models.RecipeLink
	byMaterial map[uint][]models.RecipeLink
}

func NewIndex(links []models.RecipeLink) *Index {
	ix := &Index{
		links:      make(map[Key]models.RecipeLink, len(links)),
		byMaterial: make(map[uint][]models.RecipeLink),
	}
	for _, l := range links {
		k := Key{DishVariantID: l.DishVariantID, MaterialID: l.MaterialID}
		ix.links[k] = l
		ix.byMaterial[l.MaterialID] = append(ix.byMaterial[l.MaterialID], l)
	}
	// Deterministik sıra: aynı girdiyle iki çalıştırma aynı çıktıyı üretmeli
	for mid := range ix.byMaterial {
		ls := ix.byMaterial[mid]
		sort.Slice(ls, func(i, j int) bool { return ls[i].DishVariantID < ls[j].DishVariantID })
	}
	return ix
}

// Lookup: tam eşleşme. Kayıt yoksa ikinci dönüş false'tur ve çağıran bu yemeği
// hesaba hiç katmaz — sıfır miktarlı sahte bir kayıt döndürmek sessiz bir
// doğruluk hatası olurdu, denetim dökümünde görünmezdi.
func (ix *Index) Lookup(dishVariantID, materialID uint) (models.RecipeLink, bool) {
	l, ok := ix.links[Key{DishVariantID: dishVariantID, MaterialID: materialID}]
	return l, ok
}

// ByMaterial: bir malzemeyi tüketen tüm reçete satırları (yemek ID sırasında).
func (ix *Index) ByMaterial(materialID uint) []models.RecipeLink {
	return ix.byMaterial[materialID]
}

// Len: index'teki reçete satırı sayısı.
func (ix *Index) Len() int {
	return len(ix.links)
}

package recipe

import (
	"testing"

	"mutabakat-backend/internal/models"

	"github.com/stretchr/testify/require"
)

func testLinks() []models.RecipeLink {
	// Yemek 1: "tencere (tek kişilik)", yemek 2: "tencere (bölünmüş)".
	// Aynı isim, farklı boy — reçeteleri de farklı.
	return []models.RecipeLink{
		{ID: 1, DishVariantID: 1, MaterialID: 10, StandardQuantity: fptr(0.4)},
		{ID: 2, DishVariantID: 2, MaterialID: 10, StandardQuantity: fptr(0.2)},
		{ID: 3, DishVariantID: 1, MaterialID: 20, StandardQuantity: fptr(0.05)},
	}
}

func TestIndexLookupExactMatch(t *testing.T) {
	ix := NewIndex(testLinks())

	l, ok := ix.Lookup(1, 10)
	require.True(t, ok)
	require.Equal(t, 0.4, *l.StandardQuantity)

	// Aynı malzeme, farklı boy: farklı reçete satırı
	l2, ok := ix.Lookup(2, 10)
	require.True(t, ok)
	require.Equal(t, 0.2, *l2.StandardQuantity)
}

func TestIndexLookupNoFallback(t *testing.T) {
	ix := NewIndex(testLinks())

	// Yemek 2'nin 20 numaralı malzeme için reçetesi yok; yemek 1'inkine
	// düşülmez, açıkça "yok" döner
	_, ok := ix.Lookup(2, 20)
	require.False(t, ok)

	_, ok = ix.Lookup(99, 10)
	require.False(t, ok)
}

func TestIndexByMaterialDeterministicOrder(t *testing.T) {
	ix := NewIndex(testLinks())

	links := ix.ByMaterial(10)
	require.Len(t, links, 2)
	require.Equal(t, uint(1), links[0].DishVariantID)
	require.Equal(t, uint(2), links[1].DishVariantID)

	require.Empty(t, ix.ByMaterial(999))
	require.Equal(t, 3, ix.Len())
}

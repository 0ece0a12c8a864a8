package bank

import (
	"testing"

	"mutabakat-backend/internal/models"

	"github.com/stretchr/testify/require"
)

func TestClassifyTransaction(t *testing.T) {
	cases := []struct {
		desc   string
		amount float64
		want   models.TransactionCategory
	}{
		{"POS tahsilat 29.08", 1500, models.TxnCategoryRevenue},
		{"Yemeksepeti haftalık hakediş", 820, models.TxnCategoryRevenue},
		{"MAAS ODEMESI AHMET", -3200, models.TxnCategorySalary},
		{"Gıda toptan fatura", -950, models.TxnCategorySupplier},
		{"tedarik odemesi", -100, models.TxnCategorySupplier},
		// Tedarikçi kelimeleri pozitif tutarda tedarikçi sayılmaz (iade vs.)
		{"Gıda toptan fatura iadesi", 120, models.TxnCategoryOther},
		{"havale", -50, models.TxnCategoryOther},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, classifyTransaction(tc.desc, tc.amount), tc.desc)
	}
}

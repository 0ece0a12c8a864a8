package reconciliation

import (
	"encoding/json"
	"fmt"
	"strings"

	"mutabakat-backend/internal/auth"
	"mutabakat-backend/internal/database"
	"mutabakat-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{
	"Malzeme Kodu", "Malzeme Adı", "Birim",
	"Teorik (Direkt)", "Teorik (Menü)", "Sistem Kullanımı", "Sayım Düzeltmesi",
	"Fark", "Fark Oranı (%)", "Durum", "Birim Fiyat", "Parasal Etki", "Uyarılar",
}

// GET /api/reconciliation/export?year=2025&month=5
// Ayın fark kayıtlarını xlsx olarak indirir. Önce mutabakat çalıştırılmış
// olmalıdır; kayıt yoksa 404 döner.
func ExportVarianceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := auth.ResolveBranchIDFromQuery(c)
		if err != nil {
			return err
		}

		year, month, err := parseYearMonthQuery(c)
		if err != nil {
			return err
		}

		var branch models.Branch
		if err := database.DB.First(&branch, "id = ?", branchID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Şube bulunamadı")
		}

		var records []models.VarianceRecord
		if err := database.DB.
			Preload("Material").
			Where("branch_id = ? AND year = ? AND month = ?", branchID, year, month).
			Order("status DESC, material_id ASC").
			Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mutabakat kayıtları okunamadı")
		}
		if len(records) == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Bu ay için mutabakat kaydı yok, önce mutabakatı çalıştırın")
		}

		f := excelize.NewFile()
		defer f.Close()

		sheetName := fmt.Sprintf("%d-%02d", year, month)
		f.SetSheetName("Sheet1", sheetName)

		for i, h := range exportHeaders {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheetName, cell, h)
		}

		for i, r := range records {
			row := i + 2

			var warnings []string
			if r.Warnings != "" {
				_ = json.Unmarshal([]byte(r.Warnings), &warnings)
			}

			values := []any{
				r.Material.Code,
				r.Material.Name,
				r.Material.Unit,
				r.TheoreticalDirect,
				r.TheoreticalCombo,
			}
			if r.SystemUsage != nil {
				values = append(values, *r.SystemUsage)
			} else {
				values = append(values, "")
			}
			values = append(values, r.InventoryAdjustment, r.VarianceQuantity)
			if r.VarianceRate != nil {
				values = append(values, *r.VarianceRate*100)
			} else {
				values = append(values, "tanımsız")
			}
			values = append(values, string(r.Status))
			if r.UnitPrice != nil {
				values = append(values, *r.UnitPrice)
			} else {
				values = append(values, "")
			}
			if r.MonetaryImpact != nil {
				values = append(values, *r.MonetaryImpact)
			} else {
				values = append(values, "fiyat yok")
			}
			values = append(values, strings.Join(warnings, ", "))

			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				f.SetCellValue(sheetName, cell, v)
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası oluşturulamadı")
		}

		filename := fmt.Sprintf("mutabakat_%s_%d-%02d.xlsx", normalizeFilename(branch.Name), year, month)
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
		return c.Send(buf.Bytes())
	}
}

// normalizeFilename: dosya adında sorun çıkaran karakterleri temizler
func normalizeFilename(s string) string {
	replacer := strings.NewReplacer(
		"ç", "c", "Ç", "C",
		"ğ", "g", "Ğ", "G",
		"ı", "i", "İ", "I",
		"ö", "o", "Ö", "O",
		"ş", "s", "Ş", "S",
		"ü", "u", "Ü", "U",
		" ", "_", "/", "-",
	)
	return strings.ToLower(replacer.Replace(s))
}

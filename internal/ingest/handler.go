package ingest

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"mutabakat-backend/internal/audit"
	"mutabakat-backend/internal/auth"
	"mutabakat-backend/internal/database"
	"mutabakat-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// Toplu veri girişi: POS ve stok sisteminden alınan aylık xlsx dökümleri.
// Satış dökümü kolonları: YEMEK ADI | BOY | KANAL | SATIŞ | İADE
// Kullanım dökümü kolonları: MALZEME KODU | MALZEME ADI | MİKTAR
// Eşleşmeyen satırlar atlanır ve yanıtta raporlanır; yükleme yarıda kesilmez.

func openWorkbook(c *fiber.Ctx) ([][]string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Dosya yüklenemedi: "+err.Error())
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Sadece .xlsx dosyaları yüklenebilir")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Dosya açılamadı: "+err.Error())
	}
	defer file.Close()

	excelFile, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Excel dosyası okunamadı: "+err.Error())
	}
	defer excelFile.Close()

	sheetList := excelFile.GetSheetList()
	if len(sheetList) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Excel dosyasında sheet bulunamadı")
	}

	rows, err := excelFile.GetRows(sheetList[0])
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Sheet okunamadı: "+err.Error())
	}
	if len(rows) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Excel dosyası boş")
	}

	return rows, nil
}

// isHeaderRow: ilk satır başlık satırı mı
func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.ToUpper(strings.TrimSpace(row[0]))
	headers := []string{"YEMEK", "ÜRÜN", "MALZEME", "PRODUCT", "MATERIAL", "DISH", "KOD", "CODE"}
	for _, h := range headers {
		if strings.Contains(first, h) {
			return true
		}
	}
	return false
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func parseAmount(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	// Türkçe ondalık virgülü de kabul et: "1.234,5" -> "1234.5"
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func parseMode(s string) (models.SalesMode, bool) {
	switch normalizeTurkish(s) {
	case "salon", "masa", "restoran":
		return models.SalesModeDineIn, true
	case "paket", "paket servis", "gel al":
		return models.SalesModeTakeaway, true
	case "online", "yemeksepeti", "getir", "trendyol":
		return models.SalesModeOnline, true
	}
	return "", false
}

// POST /api/ingest/sales?year=2025&month=5
// Aylık satış dökümünü yükler. Her satır (yemek, kanal) upsert'idir; kanal
// farklıysa ayrı satır yazılır, asla ezmez.
func UploadSalesWorkbookHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := auth.ResolveBranchIDFromQuery(c)
		if err != nil {
			return err
		}

		year, month, err := parseYearMonth(c)
		if err != nil {
			return err
		}

		rows, err := openWorkbook(c)
		if err != nil {
			return err
		}

		// Şubenin yemeklerini bir kez çek, normalize isimle indexle
		var dishes []models.DishVariant
		if err := database.DB.Where("branch_id = ?", branchID).Find(&dishes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yemekler okunamadı")
		}
		dishByKey := make(map[string]models.DishVariant, len(dishes))
		for _, d := range dishes {
			key := normalizeName(d.Name) + "|" + normalizeName(d.Spec)
			dishByKey[key] = d
		}

		startIndex := 0
		if isHeaderRow(rows[0]) {
			startIndex = 1
			log.Printf("İlk satır başlık satırı olarak algılandı, atlanıyor")
		}

		matchedCount := 0
		unmatched := make([]string, 0)
		for i := startIndex; i < len(rows); i++ {
			row := rows[i]
			name := cell(row, 0)
			if name == "" {
				continue
			}
			spec := cell(row, 1)

			dish, found := dishByKey[normalizeName(name)+"|"+normalizeName(spec)]
			if !found {
				unmatched = append(unmatched, fmt.Sprintf("satır %d: %s", i+1, name))
				continue
			}

			mode, ok := parseMode(cell(row, 2))
			if !ok {
				unmatched = append(unmatched, fmt.Sprintf("satır %d: kanal tanınmadı (%s)", i+1, cell(row, 2)))
				continue
			}

			saleAmount, err1 := parseAmount(cell(row, 3))
			returnAmount, err2 := parseAmount(cell(row, 4))
			if err1 != nil || err2 != nil || saleAmount < 0 || returnAmount < 0 {
				unmatched = append(unmatched, fmt.Sprintf("satır %d: miktar okunamadı", i+1))
				continue
			}

			var sale models.DishSale
			err := database.DB.First(&sale, "branch_id = ? AND dish_variant_id = ? AND year = ? AND month = ? AND mode = ?",
				branchID, dish.ID, year, month, mode).Error
			if err == nil {
				sale.SaleAmount = saleAmount
				sale.ReturnAmount = returnAmount
				if err := database.DB.Save(&sale).Error; err != nil {
					log.Printf("Satış satırı güncellenemedi (dish_id=%d): %v", dish.ID, err)
					continue
				}
			} else {
				sale = models.DishSale{
					BranchID:      branchID,
					DishVariantID: dish.ID,
					Year:          year,
					Month:         month,
					Mode:          mode,
					SaleAmount:    saleAmount,
					ReturnAmount:  returnAmount,
				}
				if err := database.DB.Create(&sale).Error; err != nil {
					log.Printf("Satış satırı yazılamadı (dish_id=%d): %v", dish.ID, err)
					continue
				}
			}
			matchedCount++
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    &branchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "sales_import",
				EntityID:    0,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Satış dökümü yüklendi: %d/%d, %d satır işlendi, %d eşleşmedi", month, year, matchedCount, len(unmatched)),
			})
		}

		return c.JSON(fiber.Map{
			"success":        true,
			"matched_count":  matchedCount,
			"unmatched_rows": unmatched,
			"message":        fmt.Sprintf("%d satış satırı işlendi. %d satır eşleşmedi.", matchedCount, len(unmatched)),
		})
	}
}

// POST /api/ingest/usage?year=2025&month=5
// Aylık sistem kullanım dökümünü yükler. Önce malzeme koduyla, kod boşsa
// normalize edilmiş isimle eşleştirir.
func UploadUsageWorkbookHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := auth.ResolveBranchIDFromQuery(c)
		if err != nil {
			return err
		}

		year, month, err := parseYearMonth(c)
		if err != nil {
			return err
		}

		rows, err := openWorkbook(c)
		if err != nil {
			return err
		}

		var materials []models.Material
		if err := database.DB.Where("branch_id = ?", branchID).Find(&materials).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzemeler okunamadı")
		}
		byCode := make(map[string]models.Material, len(materials))
		byName := make(map[string]models.Material, len(materials))
		for _, m := range materials {
			byCode[normalizeTurkish(m.Code)] = m
			byName[normalizeName(m.Name)] = m
		}

		startIndex := 0
		if isHeaderRow(rows[0]) {
			startIndex = 1
			log.Printf("İlk satır başlık satırı olarak algılandı, atlanıyor")
		}

		matchedCount := 0
		unmatched := make([]string, 0)
		for i := startIndex; i < len(rows); i++ {
			row := rows[i]
			code := cell(row, 0)
			name := cell(row, 1)
			if code == "" && name == "" {
				continue
			}

			material, found := byCode[normalizeTurkish(code)]
			if !found {
				material, found = byName[normalizeName(name)]
			}
			if !found {
				unmatched = append(unmatched, fmt.Sprintf("satır %d: %s %s", i+1, code, name))
				continue
			}

			quantity, perr := parseAmount(cell(row, 2))
			if perr != nil {
				unmatched = append(unmatched, fmt.Sprintf("satır %d: miktar okunamadı", i+1))
				continue
			}

			var usage models.SystemUsage
			err := database.DB.First(&usage, "branch_id = ? AND material_id = ? AND year = ? AND month = ?",
				branchID, material.ID, year, month).Error
			if err == nil {
				usage.Quantity = quantity
				if err := database.DB.Save(&usage).Error; err != nil {
					log.Printf("Kullanım satırı güncellenemedi (material_id=%d): %v", material.ID, err)
					continue
				}
			} else {
				usage = models.SystemUsage{
					BranchID:   branchID,
					MaterialID: material.ID,
					Year:       year,
					Month:      month,
					Quantity:   quantity,
				}
				if err := database.DB.Create(&usage).Error; err != nil {
					log.Printf("Kullanım satırı yazılamadı (material_id=%d): %v", material.ID, err)
					continue
				}
			}
			matchedCount++
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    &branchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "usage_import",
				EntityID:    0,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Kullanım dökümü yüklendi: %d/%d, %d satır işlendi, %d eşleşmedi", month, year, matchedCount, len(unmatched)),
			})
		}

		return c.JSON(fiber.Map{
			"success":        true,
			"matched_count":  matchedCount,
			"unmatched_rows": unmatched,
			"message":        fmt.Sprintf("%d kullanım satırı işlendi. %d satır eşleşmedi.", matchedCount, len(unmatched)),
		})
	}
}

func parseYearMonth(c *fiber.Ctx) (int, int, error) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "year geçersiz")
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "month geçersiz")
	}
	return year, month, nil
}

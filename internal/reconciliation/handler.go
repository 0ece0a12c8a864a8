package reconciliation

import (
	"encoding/json"
	"fmt"
	"strconv"

	"mutabakat-backend/internal/audit"
	"mutabakat-backend/internal/auth"
	"mutabakat-backend/internal/config"
	"mutabakat-backend/internal/database"
	"mutabakat-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type RunRequest struct {
	Year      int      `json:"year"`
	Month     int      `json:"month"`
	Tolerance *float64 `json:"tolerance"` // boşsa config'deki eşik
	BranchID  *uint    `json:"branch_id"` // super_admin için
}

type VarianceRecordResponse struct {
	ID                  uint                  `json:"id"`
	BranchID            uint                  `json:"branch_id"`
	MaterialID          uint                  `json:"material_id"`
	MaterialCode        string                `json:"material_code"`
	MaterialName        string                `json:"material_name"`
	MaterialUnit        string                `json:"material_unit"`
	Year                int                   `json:"year"`
	Month               int                   `json:"month"`
	TheoreticalDirect   float64               `json:"theoretical_direct"`
	TheoreticalCombo    float64               `json:"theoretical_combo"`
	SystemUsage         *float64              `json:"system_usage"`
	InventoryAdjustment float64               `json:"inventory_adjustment"`
	VarianceQuantity    float64               `json:"variance_quantity"`
	VarianceRate        *float64              `json:"variance_rate"`
	Status              models.VarianceStatus `json:"status"`
	Tolerance           float64               `json:"tolerance"`
	UnitPrice           *float64              `json:"unit_price"`
	MonetaryImpact      *float64              `json:"monetary_impact"`
	Warnings            []string              `json:"warnings"`
}

func toVarianceResponse(r models.VarianceRecord) VarianceRecordResponse {
	var warnings []string
	if r.Warnings != "" {
		_ = json.Unmarshal([]byte(r.Warnings), &warnings)
	}
	if warnings == nil {
		warnings = []string{}
	}

	return VarianceRecordResponse{
		ID:                  r.ID,
		BranchID:            r.BranchID,
		MaterialID:          r.MaterialID,
		MaterialCode:        r.Material.Code,
		MaterialName:        r.Material.Name,
		MaterialUnit:        r.Material.Unit,
		Year:                r.Year,
		Month:               r.Month,
		TheoreticalDirect:   r.TheoreticalDirect,
		TheoreticalCombo:    r.TheoreticalCombo,
		SystemUsage:         r.SystemUsage,
		InventoryAdjustment: r.InventoryAdjustment,
		VarianceQuantity:    r.VarianceQuantity,
		VarianceRate:        r.VarianceRate,
		Status:              r.Status,
		Tolerance:           r.Tolerance,
		UnitPrice:           r.UnitPrice,
		MonetaryImpact:      r.MonetaryImpact,
		Warnings:            warnings,
	}
}

// POST /api/reconciliation/run
// Aylık mutabakatı çalıştırır ve sonucu kalıcılaştırır. Aynı ay tekrar
// çalıştırılırsa eski kayıtların TAMAMI silinip yenileri yazılır (idempotent);
// kısmi birleştirme yapılmaz.
func RunHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RunRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Year < 2000 || body.Month < 1 || body.Month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz yıl veya ay")
		}

		branchID, err := auth.ResolveBranchID(c, body.BranchID)
		if err != nil {
			return err
		}

		var branch models.Branch
		if err := database.DB.First(&branch, "id = ?", branchID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Şube bulunamadı (ID: %d)", branchID))
		}

		tolerance := cfg.ReconTolerance
		if body.Tolerance != nil {
			if *body.Tolerance < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "tolerance negatif olamaz")
			}
			tolerance = *body.Tolerance
		}

		fs, err := LoadFactSet(database.DB, branchID, body.Year, body.Month)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mutabakat verileri yüklenemedi: "+err.Error())
		}

		records := Run(fs, Options{Tolerance: tolerance, Workers: cfg.ReconWorkers})

		// Eski kayıtları sil + yenilerini yaz, tek transaction'da
		tx := database.DB.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		if err := tx.Where("branch_id = ? AND year = ? AND month = ?", branchID, body.Year, body.Month).
			Delete(&models.VarianceRecord{}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Önceki kayıtlar silinemedi")
		}
		if len(records) > 0 {
			if err := tx.Create(&records).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Mutabakat kayıtları yazılamadı")
			}
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mutabakat kayıtları yazılamadı")
		}

		// Durum özeti
		summary := map[models.VarianceStatus]int{}
		for _, r := range records {
			summary[r.Status]++
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    &branchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "reconciliation_run",
				EntityID:    0,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Mutabakat çalıştırıldı: %s %d/%d, %d malzeme", branch.Name, body.Month, body.Year, len(records)),
				Before:      nil,
				After:       summary,
			})
		}

		// Yanıt için malzeme bilgisini fact set'ten doldur (ek sorgu yok)
		materialByID := make(map[uint]models.Material, len(fs.Materials))
		for _, m := range fs.Materials {
			materialByID[m.ID] = m
		}
		resp := make([]VarianceRecordResponse, 0, len(records))
		for _, r := range records {
			r.Material = materialByID[r.MaterialID]
			resp = append(resp, toVarianceResponse(r))
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"branch_id": branchID,
			"year":      body.Year,
			"month":     body.Month,
			"tolerance": tolerance,
			"summary": fiber.Map{
				"total":       len(records),
				"normal":      summary[models.StatusNormal],
				"fazla":       summary[models.StatusExcess],
				"eksik":       summary[models.StatusShortfall],
				"veri_hatasi": summary[models.StatusDataError],
			},
			"records": resp,
		})
	}
}

// GET /api/reconciliation/records?year=2025&month=5&status=fazla
func ListVarianceRecordsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := auth.ResolveBranchIDFromQuery(c)
		if err != nil {
			return err
		}

		year, month, err := parseYearMonthQuery(c)
		if err != nil {
			return err
		}

		dbq := database.DB.
			Preload("Material").
			Where("branch_id = ? AND year = ? AND month = ?", branchID, year, month)

		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}

		var records []models.VarianceRecord
		if err := dbq.Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mutabakat kayıtları listelenemedi")
		}

		resp := make([]VarianceRecordResponse, 0, len(records))
		for _, r := range records {
			resp = append(resp, toVarianceResponse(r))
		}

		return c.JSON(resp)
	}
}

// GET /api/reconciliation/records/detail?material_id=1&year=2025&month=5
// Yemek bazlı teorik kullanım dökümü. Rakamlar motorla aynı formülden yeniden
// hesaplanır; kayıttaki toplamları değiştirmez, sadece şeffaflaştırır.
func DishUsageDetailHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := auth.ResolveBranchIDFromQuery(c)
		if err != nil {
			return err
		}

		year, month, err := parseYearMonthQuery(c)
		if err != nil {
			return err
		}

		var materialID uint
		if _, err := fmt.Sscan(c.Query("material_id"), &materialID); err != nil || materialID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "material_id zorunlu")
		}

		var material models.Material
		if err := database.DB.First(&material, "id = ? AND branch_id = ?", materialID, branchID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Malzeme bulunamadı")
		}

		fs, err := LoadFactSet(database.DB, branchID, year, month)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mutabakat verileri yüklenemedi: "+err.Error())
		}

		lines, problems := DishUsageDetail(fs, materialID)
		if problems == nil {
			problems = []string{}
		}
		if lines == nil {
			lines = []DetailLine{}
		}

		return c.JSON(fiber.Map{
			"material_id":   material.ID,
			"material_code": material.Code,
			"material_name": material.Name,
			"material_unit": material.Unit,
			"year":          year,
			"month":         month,
			"lines":         lines,
			"problems":      problems,
		})
	}
}

func parseYearMonthQuery(c *fiber.Ctx) (int, int, error) {
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

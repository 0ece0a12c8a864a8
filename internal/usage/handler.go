package usage

import (
	"fmt"
	"strconv"
	"time"

	"mutabakat-backend/internal/audit"
	"mutabakat-backend/internal/auth"
	"mutabakat-backend/internal/database"
	"mutabakat-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SystemUsageRequest struct {
	MaterialID uint    `json:"material_id"`
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	Quantity   float64 `json:"quantity"`
	BranchID   *uint   `json:"branch_id"`
}

// POST /api/usage
// Sistem kullanımı şube+malzeme+ay anahtarında tektir; aynı anahtara ikinci
// giriş eskisinin üzerine yazar (düzeltme senaryosu).
func CreateSystemUsageHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SystemUsageRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.MaterialID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "material_id zorunlu")
		}
		if body.Year < 2000 || body.Month < 1 || body.Month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz yıl veya ay")
		}

		branchID, err := auth.ResolveBranchID(c, body.BranchID)
		if err != nil {
			return err
		}

		var material models.Material
		if err := database.DB.First(&material, "id = ? AND branch_id = ?", body.MaterialID, branchID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Malzeme bulunamadı (ID: %d)", body.MaterialID))
		}

		var usage models.SystemUsage
		var before *models.SystemUsage
		action := models.AuditActionCreate
		err = database.DB.First(&usage, "branch_id = ? AND material_id = ? AND year = ? AND month = ?",
			branchID, body.MaterialID, body.Year, body.Month).Error
		if err == nil {
			prev := usage
			before = &prev
			action = models.AuditActionUpdate
			usage.Quantity = body.Quantity
			if err := database.DB.Save(&usage).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Kullanım kaydedilemedi")
			}
		} else {
			usage = models.SystemUsage{
				BranchID:   branchID,
				MaterialID: body.MaterialID,
				Year:       body.Year,
				Month:      body.Month,
				Quantity:   body.Quantity,
			}
			if err := database.DB.Create(&usage).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Kullanım kaydedilemedi")
			}
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			logOpts := audit.LogOptions{
				BranchID:    &branchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "system_usage",
				EntityID:    usage.ID,
				Action:      action,
				Description: fmt.Sprintf("Sistem kullanımı: %s %d/%d = %.3f %s", material.Name, usage.Month, usage.Year, usage.Quantity, material.Unit),
				After:       usage,
			}
			if before != nil {
				logOpts.Before = *before
			}
			_ = audit.WriteLog(logOpts)
		}

		status := fiber.StatusCreated
		if action == models.AuditActionUpdate {
			status = fiber.StatusOK
		}
		return c.Status(status).JSON(usage)
	}
}

// GET /api/usage?year=2025&month=5
func ListSystemUsageHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := auth.ResolveBranchIDFromQuery(c)
		if err != nil {
			return err
		}

		year, month, err := parseYearMonth(c)
		if err != nil {
			return err
		}

		var usages []models.SystemUsage
		if err := database.DB.
			Preload("Material").
			Where("branch_id = ? AND year = ? AND month = ?", branchID, year, month).
			Order("material_id ASC").
			Find(&usages).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanımlar listelenemedi")
		}

		return c.JSON(usages)
	}
}

type StockCountRequest struct {
	MaterialID uint    `json:"material_id"`
	CountDate  string  `json:"count_date"` // YYYY-MM-DD
	Quantity   float64 `json:"quantity"`
	Note       string  `json:"note"`
	BranchID   *uint   `json:"branch_id"`
}

// POST /api/stock-counts
// Sayımlar üzerine yazılmaz; aynı güne ikinci sayım ayrı kayıttır ve
// mutabakatta ikisi de aya dahil edilir.
func CreateStockCountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body StockCountRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.MaterialID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "material_id zorunlu")
		}

		countDate, err := time.Parse("2006-01-02", body.CountDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "count_date geçersiz (YYYY-MM-DD bekleniyor)")
		}
		if body.Quantity < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity negatif olamaz")
		}

		branchID, err := auth.ResolveBranchID(c, body.BranchID)
		if err != nil {
			return err
		}

		var material models.Material
		if err := database.DB.First(&material, "id = ? AND branch_id = ?", body.MaterialID, branchID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Malzeme bulunamadı (ID: %d)", body.MaterialID))
		}

		count := models.StockCount{
			BranchID:   branchID,
			MaterialID: body.MaterialID,
			CountDate:  countDate,
			Quantity:   body.Quantity,
			Note:       body.Note,
		}
		if err := database.DB.Create(&count).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sayım kaydedilemedi")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    &branchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "stock_count",
				EntityID:    count.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Sayım: %s %s = %.3f %s", material.Name, countDate.Format("2006-01-02"), count.Quantity, material.Unit),
				After:       count,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(count)
	}
}

// DELETE /api/stock-counts/:id
func DeleteStockCountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ID")
		}

		var count models.StockCount
		if err := database.DB.Preload("Material").First(&count, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sayım bulunamadı")
		}

		branchID, err := auth.ResolveBranchID(c, &count.BranchID)
		if err != nil {
			return err
		}
		if count.BranchID != branchID {
			return fiber.NewError(fiber.StatusForbidden, "Bu sayım başka bir şubeye ait")
		}

		if err := database.DB.Delete(&count).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sayım silinemedi")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    &branchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "stock_count",
				EntityID:    count.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Sayım silindi: %s %s", count.Material.Name, count.CountDate.Format("2006-01-02")),
				Before:      count,
			})
		}

		return c.JSON(fiber.Map{"success": true})
	}
}

// GET /api/stock-counts?year=2025&month=5&material_id=3
func ListStockCountsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := auth.ResolveBranchIDFromQuery(c)
		if err != nil {
			return err
		}

		year, month, err := parseYearMonth(c)
		if err != nil {
			return err
		}

		monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		nextMonth := monthStart.AddDate(0, 1, 0)

		dbq := database.DB.
			Preload("Material").
			Where("branch_id = ? AND count_date >= ? AND count_date < ?", branchID, monthStart, nextMonth)
		if mid := c.Query("material_id"); mid != "" {
			dbq = dbq.Where("material_id = ?", mid)
		}

		var counts []models.StockCount
		if err := dbq.Order("count_date ASC, id ASC").Find(&counts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sayımlar listelenemedi")
		}

		return c.JSON(counts)
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

package sales

import (
	"fmt"

	"mutabakat-backend/internal/audit"
	"mutabakat-backend/internal/auth"
	"mutabakat-backend/internal/database"
	"mutabakat-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateDishSaleRequest struct {
	DishVariantID uint             `json:"dish_variant_id"`
	Year          int              `json:"year"`
	Month         int              `json:"month"`
	Mode          models.SalesMode `json:"mode"`
	SaleAmount    float64          `json:"sale_amount"`
	ReturnAmount  float64          `json:"return_amount"`
	BranchID      *uint            `json:"branch_id"` // super_admin için
}

type DishSaleResponse struct {
	ID            uint             `json:"id"`
	BranchID      uint             `json:"branch_id"`
	DishVariantID uint             `json:"dish_variant_id"`
	DishName      string           `json:"dish_name"`
	DishSpec      string           `json:"dish_spec"`
	Year          int              `json:"year"`
	Month         int              `json:"month"`
	Mode          models.SalesMode `json:"mode"`
	SaleAmount    float64          `json:"sale_amount"`
	ReturnAmount  float64          `json:"return_amount"`
	NetSales      float64          `json:"net_sales"`
}

func validMode(m models.SalesMode) bool {
	switch m {
	case models.SalesModeDineIn, models.SalesModeTakeaway, models.SalesModeOnline:
		return true
	}
	return false
}

// POST /api/dish-sales
// Aynı (yemek, yıl, ay, kanal) için ikinci kayıt GÜNCELLEMEDİR; farklı kanal
// her zaman yeni satırdır. Kanal unique key'in parçası olduğu için bir kanalın
// kaydı diğerini ezemez.
func CreateDishSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateDishSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.DishVariantID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "dish_variant_id zorunlu")
		}
		if body.Year < 2000 || body.Month < 1 || body.Month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz yıl veya ay")
		}
		if !validMode(body.Mode) {
			return fiber.NewError(fiber.StatusBadRequest, "mode 'salon', 'paket' veya 'online' olmalı")
		}
		if body.SaleAmount < 0 || body.ReturnAmount < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Satış ve iade miktarı negatif olamaz")
		}

		branchID, err := auth.ResolveBranchID(c, body.BranchID)
		if err != nil {
			return err
		}

		var dish models.DishVariant
		if err := database.DB.First(&dish, "id = ? AND branch_id = ?", body.DishVariantID, branchID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Yemek çeşidi bu şubede bulunamadı")
		}

		// Tam key ile mevcut satırı ara
		var sale models.DishSale
		err = database.DB.Where(
			"branch_id = ? AND dish_variant_id = ? AND year = ? AND month = ? AND mode = ?",
			branchID, body.DishVariantID, body.Year, body.Month, body.Mode,
		).First(&sale).Error

		action := models.AuditActionCreate
		var before any
		if err == nil {
			action = models.AuditActionUpdate
			b := sale
			before = b
			sale.SaleAmount = body.SaleAmount
			sale.ReturnAmount = body.ReturnAmount
			if err := database.DB.Save(&sale).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Satış kaydı güncellenemedi")
			}
		} else {
			sale = models.DishSale{
				BranchID:      branchID,
				DishVariantID: body.DishVariantID,
				Year:          body.Year,
				Month:         body.Month,
				Mode:          body.Mode,
				SaleAmount:    body.SaleAmount,
				ReturnAmount:  body.ReturnAmount,
			}
			if err := database.DB.Create(&sale).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Satış kaydı oluşturulamadı")
			}
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    &branchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "dish_sale",
				EntityID:    sale.ID,
				Action:      action,
				Description: fmt.Sprintf("Satış: %s [%s] %d/%d = %.2f", dish.DisplayName(), sale.Mode, sale.Month, sale.Year, sale.NetSales()),
				Before:      before,
				After:       sale,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(DishSaleResponse{
			ID:            sale.ID,
			BranchID:      sale.BranchID,
			DishVariantID: sale.DishVariantID,
			DishName:      dish.Name,
			DishSpec:      dish.Spec,
			Year:          sale.Year,
			Month:         sale.Month,
			Mode:          sale.Mode,
			SaleAmount:    sale.SaleAmount,
			ReturnAmount:  sale.ReturnAmount,
			NetSales:      sale.NetSales(),
		})
	}
}

// GET /api/dish-sales?year=2025&month=5
func ListDishSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := auth.ResolveBranchIDFromQuery(c)
		if err != nil {
			return err
		}

		year, month, err := parseYearMonth(c)
		if err != nil {
			return err
		}

		var rows []models.DishSale
		if err := database.DB.
			Preload("DishVariant").
			Where("branch_id = ? AND year = ? AND month = ?", branchID, year, month).
			Order("dish_variant_id, mode").
			Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satışlar listelenemedi")
		}

		resp := make([]DishSaleResponse, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, DishSaleResponse{
				ID:            r.ID,
				BranchID:      r.BranchID,
				DishVariantID: r.DishVariantID,
				DishName:      r.DishVariant.Name,
				DishSpec:      r.DishVariant.Spec,
				Year:          r.Year,
				Month:         r.Month,
				Mode:          r.Mode,
				SaleAmount:    r.SaleAmount,
				ReturnAmount:  r.ReturnAmount,
				NetSales:      r.NetSales(),
			})
		}

		return c.JSON(resp)
	}
}

func parseYearMonth(c *fiber.Ctx) (int, int, error) {
	yearStr := c.Query("year")
	monthStr := c.Query("month")
	if yearStr == "" || monthStr == "" {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "year ve month zorunlu")
	}

	var year, month int
	if _, err := fmt.Sscan(yearStr, &year); err != nil || year < 2000 {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "year geçersiz")
	}
	if _, err := fmt.Sscan(monthStr, &month); err != nil || month < 1 || month > 12 {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "month geçersiz")
	}
	return year, month, nil
}

package sales

import (
	"fmt"

	"mutabakat-backend/internal/audit"
	"mutabakat-backend/internal/auth"
	"mutabakat-backend/internal/database"
	"mutabakat-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateComboSaleRequest struct {
	ComboPackageID uint    `json:"combo_package_id"`
	Year           int     `json:"year"`
	Month          int     `json:"month"`
	SaleAmount     float64 `json:"sale_amount"` // satılan paket adedi (brüt)
	BranchID       *uint   `json:"branch_id"`   // super_admin için
}

type ComboSaleResponse struct {
	ID             uint    `json:"id"`
	BranchID       uint    `json:"branch_id"`
	ComboPackageID uint    `json:"combo_package_id"`
	ComboName      string  `json:"combo_name"`
	DishVariantID  uint    `json:"dish_variant_id"`
	DishName       string  `json:"dish_name"`
	DishSpec       string  `json:"dish_spec"`
	Year           int     `json:"year"`
	Month          int     `json:"month"`
	SaleAmount     float64 `json:"sale_amount"`
}

// POST /api/combo-sales
// Bir menü paketinin aylık satışını bileşen yemeklerine açar: her bileşen için
// sale_amount = paket satışı × paket başına porsiyon. Aynı (paket, yemek, ay)
// için tekrar kayıt, satırın yenisiyle değiştirilmesidir. Menü iadesi
// modellenmez; brüt satış olduğu gibi yazılır.
func CreateComboSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateComboSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.ComboPackageID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "combo_package_id zorunlu")
		}
		if body.Year < 2000 || body.Month < 1 || body.Month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz yıl veya ay")
		}
		if body.SaleAmount < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "sale_amount negatif olamaz")
		}

		branchID, err := auth.ResolveBranchID(c, body.BranchID)
		if err != nil {
			return err
		}

		var combo models.ComboPackage
		if err := database.DB.
			Preload("Components").
			Preload("Components.DishVariant").
			First(&combo, "id = ? AND branch_id = ?", body.ComboPackageID, branchID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Menü paketi bu şubede bulunamadı")
		}
		if len(combo.Components) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Menü paketinin bileşeni tanımlı değil")
		}

		// Açılım tek transaction'da: paketin o ayki eski bileşen satırları
		// silinir, yenileri yazılır
		tx := database.DB.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		if err := tx.Where(
			"branch_id = ? AND combo_package_id = ? AND year = ? AND month = ?",
			branchID, combo.ID, body.Year, body.Month,
		).Delete(&models.ComboSale{}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Eski menü satışları silinemedi")
		}

		created := make([]models.ComboSale, 0, len(combo.Components))
		for _, comp := range combo.Components {
			row := models.ComboSale{
				BranchID:       branchID,
				ComboPackageID: combo.ID,
				DishVariantID:  comp.DishVariantID,
				Year:           body.Year,
				Month:          body.Month,
				SaleAmount:     body.SaleAmount * comp.Quantity,
			}
			if err := tx.Create(&row).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Menü satışı kaydedilemedi")
			}
			row.DishVariant = comp.DishVariant
			created = append(created, row)
		}

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Menü satışı kaydedilemedi")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    &branchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "combo_sale",
				EntityID:    combo.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Menü satışı: %s %d/%d = %.0f paket (%d bileşen)", combo.Name, body.Month, body.Year, body.SaleAmount, len(created)),
				Before:      nil,
				After:       created,
			})
		}

		resp := make([]ComboSaleResponse, 0, len(created))
		for _, r := range created {
			resp = append(resp, ComboSaleResponse{
				ID:             r.ID,
				BranchID:       r.BranchID,
				ComboPackageID: r.ComboPackageID,
				ComboName:      combo.Name,
				DishVariantID:  r.DishVariantID,
				DishName:       r.DishVariant.Name,
				DishSpec:       r.DishVariant.Spec,
				Year:           r.Year,
				Month:          r.Month,
				SaleAmount:     r.SaleAmount,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(resp)
	}
}

// GET /api/combo-sales?year=2025&month=5
func ListComboSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := auth.ResolveBranchIDFromQuery(c)
		if err != nil {
			return err
		}

		year, month, err := parseYearMonth(c)
		if err != nil {
			return err
		}

		var rows []models.ComboSale
		if err := database.DB.
			Preload("ComboPackage").
			Preload("DishVariant").
			Where("branch_id = ? AND year = ? AND month = ?", branchID, year, month).
			Order("combo_package_id, dish_variant_id").
			Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Menü satışları listelenemedi")
		}

		resp := make([]ComboSaleResponse, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, ComboSaleResponse{
				ID:             r.ID,
				BranchID:       r.BranchID,
				ComboPackageID: r.ComboPackageID,
				ComboName:      r.ComboPackage.Name,
				DishVariantID:  r.DishVariantID,
				DishName:       r.DishVariant.Name,
				DishSpec:       r.DishVariant.Spec,
				Year:           r.Year,
				Month:          r.Month,
				SaleAmount:     r.SaleAmount,
			})
		}

		return c.JSON(resp)
	}
}

package catalog

import (
	"fmt"
	"strings"

	"mutabakat-backend/internal/audit"
	"mutabakat-backend/internal/auth"
	"mutabakat-backend/internal/database"
	"mutabakat-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ComboComponentRequest struct {
	DishVariantID uint    `json:"dish_variant_id"`
	Quantity      float64 `json:"quantity"` // paket başına porsiyon, boşsa 1
}

type ComboPackageRequest struct {
	Name       string                  `json:"name"`
	BranchID   *uint                   `json:"branch_id"`
	Components []ComboComponentRequest `json:"components"`
}

// POST /api/combos
// Menü paketi bileşenleriyle birlikte tek seferde tanımlanır.
func CreateComboPackageHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ComboPackageRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name zorunlu")
		}
		if len(body.Components) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "En az bir bileşen gerekli")
		}

		branchID, err := auth.ResolveBranchID(c, body.BranchID)
		if err != nil {
			return err
		}

		var existing models.ComboPackage
		if err := database.DB.First(&existing, "branch_id = ? AND name = ?", branchID, body.Name).Error; err == nil {
			return fiber.NewError(fiber.StatusConflict, fmt.Sprintf("Bu menü zaten var: %s", body.Name))
		}

		// Bileşen yemekleri doğrula
		seen := map[uint]bool{}
		components := make([]models.ComboComponent, 0, len(body.Components))
		for _, comp := range body.Components {
			if comp.DishVariantID == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "dish_variant_id zorunlu")
			}
			if seen[comp.DishVariantID] {
				return fiber.NewError(fiber.StatusBadRequest, "Aynı yemek menüde iki kez yer alamaz")
			}
			seen[comp.DishVariantID] = true

			var dish models.DishVariant
			if err := database.DB.First(&dish, "id = ? AND branch_id = ?", comp.DishVariantID, branchID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Yemek bulunamadı (ID: %d)", comp.DishVariantID))
			}

			qty := comp.Quantity
			if qty == 0 {
				qty = 1
			}
			if qty < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "quantity negatif olamaz")
			}

			components = append(components, models.ComboComponent{
				DishVariantID: comp.DishVariantID,
				Quantity:      qty,
			})
		}

		combo := models.ComboPackage{
			BranchID:   branchID,
			Name:       body.Name,
			Components: components,
		}
		if err := database.DB.Create(&combo).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Menü oluşturulamadı")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    &branchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "combo_package",
				EntityID:    combo.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Menü: %s (%d bileşen)", combo.Name, len(components)),
				After:       combo,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(combo)
	}
}

// PUT /api/combos/:id/components
// Bileşen listesini komple değiştirir. Geçmiş aylara işlenmiş menü satışları
// etkilenmez; değişiklik bir sonraki satış girişinden itibaren geçerlidir.
func ReplaceComboComponentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ID")
		}

		var combo models.ComboPackage
		if err := database.DB.Preload("Components").First(&combo, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Menü bulunamadı")
		}

		branchID, err := auth.ResolveBranchID(c, &combo.BranchID)
		if err != nil {
			return err
		}
		if combo.BranchID != branchID {
			return fiber.NewError(fiber.StatusForbidden, "Bu menü başka bir şubeye ait")
		}

		var body ComboPackageRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if len(body.Components) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "En az bir bileşen gerekli")
		}

		before := combo.Components

		tx := database.DB.Begin()
		if err := tx.Where("combo_package_id = ?", combo.ID).Delete(&models.ComboComponent{}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Bileşenler güncellenemedi")
		}

		seen := map[uint]bool{}
		newComponents := make([]models.ComboComponent, 0, len(body.Components))
		for _, comp := range body.Components {
			if comp.DishVariantID == 0 || seen[comp.DishVariantID] {
				tx.Rollback()
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veya tekrar eden bileşen")
			}
			seen[comp.DishVariantID] = true

			var dish models.DishVariant
			if err := tx.First(&dish, "id = ? AND branch_id = ?", comp.DishVariantID, branchID).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Yemek bulunamadı (ID: %d)", comp.DishVariantID))
			}

			qty := comp.Quantity
			if qty == 0 {
				qty = 1
			}
			newComponents = append(newComponents, models.ComboComponent{
				ComboPackageID: combo.ID,
				DishVariantID:  comp.DishVariantID,
				Quantity:       qty,
			})
		}

		if err := tx.Create(&newComponents).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Bileşenler güncellenemedi")
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bileşenler güncellenemedi")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    &branchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "combo_package",
				EntityID:    combo.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Menü bileşenleri güncellendi: %s", combo.Name),
				Before:      before,
				After:       newComponents,
			})
		}

		combo.Components = newComponents
		return c.JSON(combo)
	}
}

// GET /api/combos
func ListComboPackagesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := auth.ResolveBranchIDFromQuery(c)
		if err != nil {
			return err
		}

		var combos []models.ComboPackage
		if err := database.DB.
			Preload("Components.DishVariant").
			Where("branch_id = ?", branchID).
			Order("name ASC").
			Find(&combos).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Menüler listelenemedi")
		}

		return c.JSON(combos)
	}
}

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

type DishVariantRequest struct {
	Name     string `json:"name"`
	Spec     string `json:"spec"` // boy/özellik; boş bırakılabilir
	BranchID *uint  `json:"branch_id"`
}

// POST /api/dishes
// Aynı isim + boy ikinci kez eklenemez; "İskender" ve "İskender (büyük)"
// ayrı kayıtlardır.
func CreateDishVariantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body DishVariantRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Spec = strings.TrimSpace(body.Spec)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name zorunlu")
		}

		branchID, err := auth.ResolveBranchID(c, body.BranchID)
		if err != nil {
			return err
		}

		var existing models.DishVariant
		if err := database.DB.First(&existing, "branch_id = ? AND name = ? AND spec = ?",
			branchID, body.Name, body.Spec).Error; err == nil {
			return fiber.NewError(fiber.StatusConflict, fmt.Sprintf("Bu yemek zaten var: %s", existing.DisplayName()))
		}

		dish := models.DishVariant{
			BranchID: branchID,
			Name:     body.Name,
			Spec:     body.Spec,
		}
		if err := database.DB.Create(&dish).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yemek oluşturulamadı")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    &branchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "dish_variant",
				EntityID:    dish.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Yemek: %s", dish.DisplayName()),
				After:       dish,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(dish)
	}
}

// DELETE /api/dishes/:id
func DeleteDishVariantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ID")
		}

		var dish models.DishVariant
		if err := database.DB.First(&dish, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Yemek bulunamadı")
		}

		branchID, err := auth.ResolveBranchID(c, &dish.BranchID)
		if err != nil {
			return err
		}
		if dish.BranchID != branchID {
			return fiber.NewError(fiber.StatusForbidden, "Bu yemek başka bir şubeye ait")
		}

		var linkCount int64
		database.DB.Model(&models.RecipeLink{}).Where("dish_variant_id = ?", dish.ID).Count(&linkCount)
		if linkCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Reçetesi olan yemek silinemez, önce reçeteleri kaldırın")
		}
		var saleCount int64
		database.DB.Model(&models.DishSale{}).Where("dish_variant_id = ?", dish.ID).Count(&saleCount)
		if saleCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Satış kaydı olan yemek silinemez")
		}

		if err := database.DB.Delete(&dish).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yemek silinemedi")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    &branchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "dish_variant",
				EntityID:    dish.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Yemek silindi: %s", dish.DisplayName()),
				Before:      dish,
			})
		}

		return c.JSON(fiber.Map{"success": true})
	}
}

// GET /api/dishes?q=iskender
func ListDishVariantsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := auth.ResolveBranchIDFromQuery(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Where("branch_id = ?", branchID).Order("name ASC, spec ASC")
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			dbq = dbq.Where("name ILIKE ?", "%"+q+"%")
		}

		var dishes []models.DishVariant
		if err := dbq.Find(&dishes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yemekler listelenemedi")
		}

		return c.JSON(dishes)
	}
}

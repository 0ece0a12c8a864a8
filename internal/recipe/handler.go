package recipe

import (
	"fmt"

	"mutabakat-backend/internal/audit"
	"mutabakat-backend/internal/auth"
	"mutabakat-backend/internal/database"
	"mutabakat-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateRecipeLinkRequest struct {
	DishVariantID      uint     `json:"dish_variant_id"`
	MaterialID         uint     `json:"material_id"`
	StandardQuantity   *float64 `json:"standard_quantity"`
	LossRate           *float64 `json:"loss_rate"`
	UnitConversionRate *float64 `json:"unit_conversion_rate"`
	BranchID           *uint    `json:"branch_id"` // super_admin için
}

type RecipeLinkResponse struct {
	ID                 uint     `json:"id"`
	BranchID           uint     `json:"branch_id"`
	DishVariantID      uint     `json:"dish_variant_id"`
	DishName           string   `json:"dish_name"`
	DishSpec           string   `json:"dish_spec"`
	MaterialID         uint     `json:"material_id"`
	MaterialCode       string   `json:"material_code"`
	MaterialName       string   `json:"material_name"`
	MaterialUnit       string   `json:"material_unit"`
	StandardQuantity   *float64 `json:"standard_quantity"`
	LossRate           *float64 `json:"loss_rate"`
	UnitConversionRate *float64 `json:"unit_conversion_rate"`
}

func toRecipeLinkResponse(l models.RecipeLink) RecipeLinkResponse {
	return RecipeLinkResponse{
		ID:                 l.ID,
		BranchID:           l.BranchID,
		DishVariantID:      l.DishVariantID,
		DishName:           l.DishVariant.Name,
		DishSpec:           l.DishVariant.Spec,
		MaterialID:         l.MaterialID,
		MaterialCode:       l.Material.Code,
		MaterialName:       l.Material.Name,
		MaterialUnit:       l.Material.Unit,
		StandardQuantity:   l.StandardQuantity,
		LossRate:           l.LossRate,
		UnitConversionRate: l.UnitConversionRate,
	}
}

// POST /api/recipes
func CreateRecipeLinkHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRecipeLinkRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.DishVariantID == 0 || body.MaterialID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "dish_variant_id ve material_id zorunlu")
		}

		branchID, err := auth.ResolveBranchID(c, body.BranchID)
		if err != nil {
			return err
		}

		// Yemek ve malzeme aynı şubede mi kontrol et
		var dish models.DishVariant
		if err := database.DB.First(&dish, "id = ? AND branch_id = ?", body.DishVariantID, branchID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Yemek çeşidi bu şubede bulunamadı")
		}
		var material models.Material
		if err := database.DB.First(&material, "id = ? AND branch_id = ?", body.MaterialID, branchID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Malzeme bu şubede bulunamadı")
		}

		if body.LossRate != nil && *body.LossRate <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "loss_rate pozitif olmalı")
		}

		link := models.RecipeLink{
			BranchID:           branchID,
			DishVariantID:      body.DishVariantID,
			MaterialID:         body.MaterialID,
			StandardQuantity:   body.StandardQuantity,
			LossRate:           body.LossRate,
			UnitConversionRate: body.UnitConversionRate,
		}

		if err := database.DB.Create(&link).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Reçete satırı oluşturulamadı (aynı yemek+malzeme için zaten var olabilir)")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    &branchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "recipe_link",
				EntityID:    link.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Reçete: %s -> %s", dish.DisplayName(), material.Name),
				Before:      nil,
				After:       link,
			})
		}

		link.DishVariant = dish
		link.Material = material
		return c.Status(fiber.StatusCreated).JSON(toRecipeLinkResponse(link))
	}
}

// PUT /api/recipes/:id
func UpdateRecipeLinkHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var link models.RecipeLink
		if err := database.DB.Preload("DishVariant").Preload("Material").First(&link, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Reçete satırı bulunamadı")
		}

		branchID, err := auth.ResolveBranchID(c, &link.BranchID)
		if err != nil {
			return err
		}
		if link.BranchID != branchID {
			return fiber.NewError(fiber.StatusForbidden, "Bu reçeteye erişim yetkiniz yok")
		}

		var body CreateRecipeLinkRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.LossRate != nil && *body.LossRate <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "loss_rate pozitif olmalı")
		}

		before := link

		// Sadece katsayılar güncellenebilir; (yemek, malzeme) kimliği değişmez.
		// Kimlik değişecekse satır silinip yeniden oluşturulur.
		link.StandardQuantity = body.StandardQuantity
		link.LossRate = body.LossRate
		link.UnitConversionRate = body.UnitConversionRate

		if err := database.DB.Save(&link).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Reçete satırı güncellenemedi")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    &link.BranchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "recipe_link",
				EntityID:    link.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Reçete güncellendi: %s -> %s", link.DishVariant.DisplayName(), link.Material.Name),
				Before:      before,
				After:       link,
			})
		}

		return c.JSON(toRecipeLinkResponse(link))
	}
}

// DELETE /api/recipes/:id
func DeleteRecipeLinkHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var link models.RecipeLink
		if err := database.DB.Preload("DishVariant").Preload("Material").First(&link, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Reçete satırı bulunamadı")
		}

		branchID, err := auth.ResolveBranchID(c, &link.BranchID)
		if err != nil {
			return err
		}
		if link.BranchID != branchID {
			return fiber.NewError(fiber.StatusForbidden, "Bu reçeteye erişim yetkiniz yok")
		}

		if err := database.DB.Delete(&link).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Reçete satırı silinemedi")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    &link.BranchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "recipe_link",
				EntityID:    link.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Reçete silindi: %s -> %s", link.DishVariant.DisplayName(), link.Material.Name),
				Before:      link,
				After:       link,
			})
		}

		return c.JSON(fiber.Map{"message": "Reçete satırı silindi"})
	}
}

// GET /api/recipes?dish_variant_id=&material_id=
func ListRecipeLinksHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := auth.ResolveBranchIDFromQuery(c)
		if err != nil {
			return err
		}

		dbq := database.DB.
			Preload("DishVariant").
			Preload("Material").
			Where("branch_id = ?", branchID)

		if dishIDStr := c.Query("dish_variant_id"); dishIDStr != "" {
			var did uint
			if _, err := fmt.Sscan(dishIDStr, &did); err == nil && did > 0 {
				dbq = dbq.Where("dish_variant_id = ?", did)
			}
		}
		if materialIDStr := c.Query("material_id"); materialIDStr != "" {
			var mid uint
			if _, err := fmt.Sscan(materialIDStr, &mid); err == nil && mid > 0 {
				dbq = dbq.Where("material_id = ?", mid)
			}
		}

		var links []models.RecipeLink
		if err := dbq.Order("dish_variant_id, material_id").Find(&links).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Reçeteler listelenemedi")
		}

		resp := make([]RecipeLinkResponse, 0, len(links))
		for _, l := range links {
			resp = append(resp, toRecipeLinkResponse(l))
		}

		return c.JSON(resp)
	}
}

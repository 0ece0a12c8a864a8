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

type MaterialRequest struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Unit     string `json:"unit"`
	BranchID *uint  `json:"branch_id"`
}

// POST /api/materials
func CreateMaterialHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body MaterialRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Code = strings.TrimSpace(body.Code)
		body.Name = strings.TrimSpace(body.Name)
		body.Unit = strings.TrimSpace(body.Unit)
		if body.Code == "" || body.Name == "" || body.Unit == "" {
			return fiber.NewError(fiber.StatusBadRequest, "code, name ve unit zorunlu")
		}

		branchID, err := auth.ResolveBranchID(c, body.BranchID)
		if err != nil {
			return err
		}

		var existing models.Material
		if err := database.DB.First(&existing, "branch_id = ? AND code = ?", branchID, body.Code).Error; err == nil {
			return fiber.NewError(fiber.StatusConflict, fmt.Sprintf("Bu kodla malzeme zaten var: %s", body.Code))
		}

		material := models.Material{
			BranchID: branchID,
			Code:     body.Code,
			Name:     body.Name,
			Unit:     body.Unit,
		}
		if err := database.DB.Create(&material).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme oluşturulamadı")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    &branchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "material",
				EntityID:    material.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Malzeme: %s (%s)", material.Name, material.Code),
				After:       material,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(material)
	}
}

// PUT /api/materials/:id
// Kod değiştirilemez; dış sistem eşleşmesi koda bağlıdır.
func UpdateMaterialHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ID")
		}

		var material models.Material
		if err := database.DB.First(&material, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Malzeme bulunamadı")
		}

		branchID, err := auth.ResolveBranchID(c, &material.BranchID)
		if err != nil {
			return err
		}
		if material.BranchID != branchID {
			return fiber.NewError(fiber.StatusForbidden, "Bu malzeme başka bir şubeye ait")
		}

		var body MaterialRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		before := material
		if name := strings.TrimSpace(body.Name); name != "" {
			material.Name = name
		}
		if unit := strings.TrimSpace(body.Unit); unit != "" {
			material.Unit = unit
		}
		if err := database.DB.Save(&material).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme güncellenemedi")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    &branchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "material",
				EntityID:    material.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Malzeme güncellendi: %s (%s)", material.Name, material.Code),
				Before:      before,
				After:       material,
			})
		}

		return c.JSON(material)
	}
}

// DELETE /api/materials/:id
// Reçete veya fark kaydı olan malzeme silinemez.
func DeleteMaterialHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ID")
		}

		var material models.Material
		if err := database.DB.First(&material, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Malzeme bulunamadı")
		}

		branchID, err := auth.ResolveBranchID(c, &material.BranchID)
		if err != nil {
			return err
		}
		if material.BranchID != branchID {
			return fiber.NewError(fiber.StatusForbidden, "Bu malzeme başka bir şubeye ait")
		}

		var linkCount int64
		database.DB.Model(&models.RecipeLink{}).Where("material_id = ?", material.ID).Count(&linkCount)
		if linkCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Reçetesi olan malzeme silinemez, önce reçeteleri kaldırın")
		}
		var varCount int64
		database.DB.Model(&models.VarianceRecord{}).Where("material_id = ?", material.ID).Count(&varCount)
		if varCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Mutabakat kaydı olan malzeme silinemez")
		}

		if err := database.DB.Delete(&material).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme silinemedi")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    &branchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "material",
				EntityID:    material.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Malzeme silindi: %s (%s)", material.Name, material.Code),
				Before:      material,
			})
		}

		return c.JSON(fiber.Map{"success": true})
	}
}

// GET /api/materials?q=un
func ListMaterialsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := auth.ResolveBranchIDFromQuery(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Where("branch_id = ?", branchID).Order("code ASC")
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			like := "%" + q + "%"
			dbq = dbq.Where("name ILIKE ? OR code ILIKE ?", like, like)
		}

		var materials []models.Material
		if err := dbq.Find(&materials).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzemeler listelenemedi")
		}

		return c.JSON(materials)
	}
}

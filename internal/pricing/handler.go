package pricing

import (
	"fmt"
	"time"

	"mutabakat-backend/internal/audit"
	"mutabakat-backend/internal/auth"
	"mutabakat-backend/internal/database"
	"mutabakat-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreatePriceRequest struct {
	MaterialID    uint    `json:"material_id"`
	EffectiveDate string  `json:"effective_date"` // "2025-04-01"
	UnitPrice     float64 `json:"unit_price"`
	BranchID      *uint   `json:"branch_id"` // super_admin için
}

type PriceResponse struct {
	ID            uint    `json:"id"`
	BranchID      uint    `json:"branch_id"`
	MaterialID    uint    `json:"material_id"`
	MaterialCode  string  `json:"material_code"`
	MaterialName  string  `json:"material_name"`
	EffectiveDate string  `json:"effective_date"`
	UnitPrice     float64 `json:"unit_price"`
	IsActive      bool    `json:"is_active"`
}

// POST /api/material-prices
// Fiyat güncellenmez, yeni etkinlik tarihli kayıt eklenir (fiyat geçmişi korunur).
func CreatePriceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePriceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.MaterialID == 0 || body.UnitPrice < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "material_id zorunlu, unit_price negatif olamaz")
		}

		branchID, err := auth.ResolveBranchID(c, body.BranchID)
		if err != nil {
			return err
		}

		var material models.Material
		if err := database.DB.First(&material, "id = ? AND branch_id = ?", body.MaterialID, branchID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Malzeme bu şubede bulunamadı")
		}

		d, err := time.Parse("2006-01-02", body.EffectiveDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		price := models.MaterialPrice{
			BranchID:      branchID,
			MaterialID:    body.MaterialID,
			EffectiveDate: d,
			UnitPrice:     body.UnitPrice,
			IsActive:      true,
		}

		if err := database.DB.Create(&price).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Fiyat oluşturulamadı (aynı tarih için zaten var olabilir)")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    &branchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "material_price",
				EntityID:    price.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Fiyat: %s %.4f (%s itibarıyla)", material.Name, price.UnitPrice, body.EffectiveDate),
				Before:      nil,
				After:       price,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(PriceResponse{
			ID:            price.ID,
			BranchID:      price.BranchID,
			MaterialID:    price.MaterialID,
			MaterialCode:  material.Code,
			MaterialName:  material.Name,
			EffectiveDate: price.EffectiveDate.Format("2006-01-02"),
			UnitPrice:     price.UnitPrice,
			IsActive:      price.IsActive,
		})
	}
}

// PUT /api/material-prices/:id/deactivate
// Hatalı girilmiş bir fiyat satırını çözümlemeden çıkarır; satır silinmez.
func DeactivatePriceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var price models.MaterialPrice
		if err := database.DB.Preload("Material").First(&price, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Fiyat bulunamadı")
		}

		branchID, err := auth.ResolveBranchID(c, &price.BranchID)
		if err != nil {
			return err
		}
		if price.BranchID != branchID {
			return fiber.NewError(fiber.StatusForbidden, "Bu fiyata erişim yetkiniz yok")
		}

		before := price
		price.IsActive = false
		if err := database.DB.Save(&price).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fiyat pasife alınamadı")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    &price.BranchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "material_price",
				EntityID:    price.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Fiyat pasife alındı: %s (%s)", price.Material.Name, price.EffectiveDate.Format("2006-01-02")),
				Before:      before,
				After:       price,
			})
		}

		return c.JSON(fiber.Map{"message": "Fiyat pasife alındı"})
	}
}

// GET /api/material-prices?material_id=1
func ListPricesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := auth.ResolveBranchIDFromQuery(c)
		if err != nil {
			return err
		}

		dbq := database.DB.
			Preload("Material").
			Where("branch_id = ?", branchID)

		if materialIDStr := c.Query("material_id"); materialIDStr != "" {
			var mid uint
			if _, err := fmt.Sscan(materialIDStr, &mid); err == nil && mid > 0 {
				dbq = dbq.Where("material_id = ?", mid)
			}
		}

		var prices []models.MaterialPrice
		if err := dbq.Order("material_id, effective_date DESC").Find(&prices).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fiyatlar listelenemedi")
		}

		resp := make([]PriceResponse, 0, len(prices))
		for _, p := range prices {
			resp = append(resp, PriceResponse{
				ID:            p.ID,
				BranchID:      p.BranchID,
				MaterialID:    p.MaterialID,
				MaterialCode:  p.Material.Code,
				MaterialName:  p.Material.Name,
				EffectiveDate: p.EffectiveDate.Format("2006-01-02"),
				UnitPrice:     p.UnitPrice,
				IsActive:      p.IsActive,
			})
		}

		return c.JSON(resp)
	}
}

// GET /api/material-prices/resolve?material_id=1&as_of=2025-05-15
// Verilen tarihte geçerli fiyatı döner; yoksa priced=false.
func ResolvePriceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := auth.ResolveBranchIDFromQuery(c)
		if err != nil {
			return err
		}

		var materialID uint
		if _, err := fmt.Sscan(c.Query("material_id"), &materialID); err != nil || materialID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "material_id zorunlu")
		}

		asOf, err := time.Parse("2006-01-02", c.Query("as_of"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "as_of formatı 'YYYY-MM-DD' olmalı")
		}

		var prices []models.MaterialPrice
		if err := database.DB.
			Where("branch_id = ? AND material_id = ?", branchID, materialID).
			Find(&prices).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fiyatlar okunamadı")
		}

		unitPrice, ok := Resolve(prices, asOf)
		if !ok {
			return c.JSON(fiber.Map{
				"material_id": materialID,
				"as_of":       asOf.Format("2006-01-02"),
				"priced":      false,
			})
		}

		return c.JSON(fiber.Map{
			"material_id": materialID,
			"as_of":       asOf.Format("2006-01-02"),
			"priced":      true,
			"unit_price":  unitPrice,
		})
	}
}

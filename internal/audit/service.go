package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"mutabakat-backend/internal/database"
	"mutabakat-backend/internal/models"
)

type LogOptions struct {
	BranchID    *uint
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

func WriteLog(opts LogOptions) error {
	// PostgreSQL jsonb için boş string yerine "null" JSON string'i kullanmalıyız
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	log := models.AuditLog{
		BranchID:    opts.BranchID,
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
		Undone:      false,
		IsUndone:    false,
	}

	if err := database.DB.Create(&log).Error; err != nil {
		return fmt.Errorf("audit log kaydedilemedi: %w", err)
	}

	return nil
}

// UndoLog - Bir audit log'u geri al. Mutabakat çalıştırmaları geri alınamaz;
// aynı ay yeniden çalıştırıldığında zaten eski kayıtların tamamı değişir.
func UndoLog(logID uint, userID uint, userName string) error {
	var log models.AuditLog
	if err := database.DB.First(&log, "id = ?", logID).Error; err != nil {
		return fmt.Errorf("log bulunamadı: %w", err)
	}

	if log.IsUndone {
		return fmt.Errorf("bu işlem zaten geri alınmış")
	}

	if log.EntityType == "reconciliation_run" {
		return fmt.Errorf("mutabakat çalıştırması geri alınamaz, ayı yeniden çalıştırın")
	}

	switch log.Action {
	case models.AuditActionCreate:
		if err := deleteEntity(log.EntityType, log.EntityID); err != nil {
			return fmt.Errorf("entity silinemedi: %w", err)
		}

	case models.AuditActionUpdate:
		if err := restoreEntity(log.EntityType, log.EntityID, log.BeforeData); err != nil {
			return fmt.Errorf("entity geri yüklenemedi: %w", err)
		}

	case models.AuditActionDelete:
		if err := recreateEntity(log.EntityType, log.AfterData); err != nil {
			return fmt.Errorf("entity geri oluşturulamadı: %w", err)
		}

	default:
		return fmt.Errorf("bu işlem türü geri alınamaz")
	}

	now := time.Now()
	log.IsUndone = true
	log.UndoneBy = &userID
	log.UndoneAt = &now

	if err := database.DB.Save(&log).Error; err != nil {
		return fmt.Errorf("log güncellenemedi: %w", err)
	}

	undoLog := models.AuditLog{
		BranchID:    log.BranchID,
		UserID:      userID,
		UserName:    userName,
		EntityType:  log.EntityType,
		EntityID:    log.EntityID,
		Action:      models.AuditActionUndo,
		Description: fmt.Sprintf("Geri alındı: %s", log.Description),
		BeforeData:  log.AfterData,
		AfterData:   log.BeforeData,
		Undone:      true,
		IsUndone:    false,
	}

	if err := database.DB.Create(&undoLog).Error; err != nil {
		return fmt.Errorf("undo log kaydedilemedi: %w", err)
	}

	return nil
}

func deleteEntity(entityType string, entityID uint) error {
	switch entityType {
	case "dish_sale":
		return database.DB.Delete(&models.DishSale{}, "id = ?", entityID).Error
	case "combo_sale":
		return database.DB.Delete(&models.ComboSale{}, "id = ?", entityID).Error
	case "system_usage":
		return database.DB.Delete(&models.SystemUsage{}, "id = ?", entityID).Error
	case "stock_count":
		return database.DB.Delete(&models.StockCount{}, "id = ?", entityID).Error
	case "material_price":
		return database.DB.Delete(&models.MaterialPrice{}, "id = ?", entityID).Error
	case "recipe_link":
		return database.DB.Delete(&models.RecipeLink{}, "id = ?", entityID).Error
	default:
		return fmt.Errorf("bilinmeyen entity tipi: %s", entityType)
	}
}

func recreateEntity(entityType string, dataJSON string) error {
	switch entityType {
	case "dish_sale":
		var sale models.DishSale
		if err := json.Unmarshal([]byte(dataJSON), &sale); err != nil {
			return err
		}
		sale.ID = 0
		return database.DB.Create(&sale).Error

	case "combo_sale":
		var sale models.ComboSale
		if err := json.Unmarshal([]byte(dataJSON), &sale); err != nil {
			return err
		}
		sale.ID = 0
		return database.DB.Create(&sale).Error

	case "system_usage":
		var usage models.SystemUsage
		if err := json.Unmarshal([]byte(dataJSON), &usage); err != nil {
			return err
		}
		usage.ID = 0
		return database.DB.Create(&usage).Error

	case "stock_count":
		var count models.StockCount
		if err := json.Unmarshal([]byte(dataJSON), &count); err != nil {
			return err
		}
		count.ID = 0
		return database.DB.Create(&count).Error

	case "material_price":
		var price models.MaterialPrice
		if err := json.Unmarshal([]byte(dataJSON), &price); err != nil {
			return err
		}
		price.ID = 0
		return database.DB.Create(&price).Error

	case "recipe_link":
		var link models.RecipeLink
		if err := json.Unmarshal([]byte(dataJSON), &link); err != nil {
			return err
		}
		link.ID = 0
		return database.DB.Create(&link).Error

	default:
		return fmt.Errorf("bilinmeyen entity tipi: %s", entityType)
	}
}

func restoreEntity(entityType string, entityID uint, dataJSON string) error {
	switch entityType {
	case "dish_sale":
		var sale models.DishSale
		if err := json.Unmarshal([]byte(dataJSON), &sale); err != nil {
			return err
		}
		return database.DB.Model(&models.DishSale{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"branch_id":       sale.BranchID,
			"dish_variant_id": sale.DishVariantID,
			"year":            sale.Year,
			"month":           sale.Month,
			"mode":            sale.Mode,
			"sale_amount":     sale.SaleAmount,
			"return_amount":   sale.ReturnAmount,
		}).Error

	case "system_usage":
		var usage models.SystemUsage
		if err := json.Unmarshal([]byte(dataJSON), &usage); err != nil {
			return err
		}
		return database.DB.Model(&models.SystemUsage{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"branch_id":   usage.BranchID,
			"material_id": usage.MaterialID,
			"year":        usage.Year,
			"month":       usage.Month,
			"quantity":    usage.Quantity,
		}).Error

	case "stock_count":
		var count models.StockCount
		if err := json.Unmarshal([]byte(dataJSON), &count); err != nil {
			return err
		}
		return database.DB.Model(&models.StockCount{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"branch_id":   count.BranchID,
			"material_id": count.MaterialID,
			"count_date":  count.CountDate,
			"quantity":    count.Quantity,
			"note":        count.Note,
		}).Error

	case "recipe_link":
		var link models.RecipeLink
		if err := json.Unmarshal([]byte(dataJSON), &link); err != nil {
			return err
		}
		return database.DB.Model(&models.RecipeLink{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"branch_id":            link.BranchID,
			"dish_variant_id":      link.DishVariantID,
			"material_id":          link.MaterialID,
			"standard_quantity":    link.StandardQuantity,
			"loss_rate":            link.LossRate,
			"unit_conversion_rate": link.UnitConversionRate,
		}).Error

	default:
		return fmt.Errorf("bilinmeyen entity tipi: %s", entityType)
	}
}

package bank

import (
	"fmt"
	"strings"
	"time"

	"mutabakat-backend/internal/audit"
	"mutabakat-backend/internal/auth"
	"mutabakat-backend/internal/database"
	"mutabakat-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateAccountRequest struct {
	Type          models.AccountType `json:"type"` // bank / credit_card
	Name          string             `json:"name"`
	AccountNumber string             `json:"account_number"`
	Balance       float64            `json:"balance"`
	BranchID      *uint              `json:"branch_id"`
}

// POST /api/bank/accounts
func CreateAccountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateAccountRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name zorunlu")
		}
		if body.Type != models.AccountTypeBank && body.Type != models.AccountTypeCreditCard {
			return fiber.NewError(fiber.StatusBadRequest, "type 'bank' veya 'credit_card' olmalı")
		}

		branchID, err := auth.ResolveBranchID(c, body.BranchID)
		if err != nil {
			return err
		}

		account := models.BankAccount{
			BranchID:      branchID,
			Type:          body.Type,
			Name:          body.Name,
			AccountNumber: body.AccountNumber,
			Balance:       body.Balance,
			IsActive:      true,
		}
		if err := database.DB.Create(&account).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hesap oluşturulamadı")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    &branchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "bank_account",
				EntityID:    account.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Banka hesabı: %s", account.Name),
				After:       account,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(account)
	}
}

type UpdateAccountRequest struct {
	Name          *string `json:"name"`
	AccountNumber *string `json:"account_number"`
	IsActive      *bool   `json:"is_active"`
}

// PUT /api/bank/accounts/:id
// Bakiye buradan değiştirilemez; bakiyeyi sadece işlemler hareket ettirir.
func UpdateAccountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ID")
		}

		var account models.BankAccount
		if err := database.DB.First(&account, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Hesap bulunamadı")
		}

		branchID, err := auth.ResolveBranchID(c, &account.BranchID)
		if err != nil {
			return err
		}
		if account.BranchID != branchID {
			return fiber.NewError(fiber.StatusForbidden, "Bu hesap başka bir şubeye ait")
		}

		var body UpdateAccountRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		before := account
		if body.Name != nil && strings.TrimSpace(*body.Name) != "" {
			account.Name = strings.TrimSpace(*body.Name)
		}
		if body.AccountNumber != nil {
			account.AccountNumber = *body.AccountNumber
		}
		if body.IsActive != nil {
			account.IsActive = *body.IsActive
		}
		if err := database.DB.Save(&account).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hesap güncellenemedi")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    &branchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "bank_account",
				EntityID:    account.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Banka hesabı güncellendi: %s", account.Name),
				Before:      before,
				After:       account,
			})
		}

		return c.JSON(account)
	}
}

// GET /api/bank/accounts
func ListAccountsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := auth.ResolveBranchIDFromQuery(c)
		if err != nil {
			return err
		}

		var accounts []models.BankAccount
		if err := database.DB.
			Where("branch_id = ? AND is_active = ?", branchID, true).
			Order("name ASC").
			Find(&accounts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hesaplar listelenemedi")
		}

		return c.JSON(accounts)
	}
}

type CreateTransactionRequest struct {
	BankAccountID uint    `json:"bank_account_id"`
	Amount        float64 `json:"amount"` // pozitif giriş, negatif çıkış
	Date          string  `json:"date"`   // YYYY-MM-DD
	Description   string  `json:"description"`
}

// classifyTransaction: açıklama metnine göre basit kural tabanlı kategori.
// İlk eşleşen kural kazanır.
func classifyTransaction(description string, amount float64) models.TransactionCategory {
	desc := strings.ToLower(description)

	revenueKeywords := []string{"pos", "ciro", "kart tahsilat", "yemeksepeti", "getir", "trendyol"}
	for _, kw := range revenueKeywords {
		if strings.Contains(desc, kw) {
			return models.TxnCategoryRevenue
		}
	}

	salaryKeywords := []string{"maas", "maaş", "personel", "bordro"}
	for _, kw := range salaryKeywords {
		if strings.Contains(desc, kw) {
			return models.TxnCategorySalary
		}
	}

	supplierKeywords := []string{"tedarik", "fatura", "gida", "gıda", "toptan", "hal "}
	for _, kw := range supplierKeywords {
		if strings.Contains(desc, kw) && amount < 0 {
			return models.TxnCategorySupplier
		}
	}

	return models.TxnCategoryOther
}

// POST /api/bank/transactions
// İşlem kaydedilir, kategori otomatik atanır ve hesap bakiyesi güncellenir.
func CreateTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTransactionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.BankAccountID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "bank_account_id zorunlu")
		}
		date, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date geçersiz (YYYY-MM-DD bekleniyor)")
		}

		var account models.BankAccount
		if err := database.DB.First(&account, "id = ?", body.BankAccountID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Hesap bulunamadı")
		}

		branchID, err := auth.ResolveBranchID(c, &account.BranchID)
		if err != nil {
			return err
		}
		if account.BranchID != branchID {
			return fiber.NewError(fiber.StatusForbidden, "Bu hesap başka bir şubeye ait")
		}

		txn := models.BankTransaction{
			BankAccountID: account.ID,
			Amount:        body.Amount,
			Date:          date,
			Description:   strings.TrimSpace(body.Description),
			Category:      classifyTransaction(body.Description, body.Amount),
		}

		tx := database.DB.Begin()
		if err := tx.Create(&txn).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem kaydedilemedi")
		}
		if err := tx.Model(&models.BankAccount{}).
			Where("id = ?", account.ID).
			Update("balance", account.Balance+body.Amount).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Bakiye güncellenemedi")
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem kaydedilemedi")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    &branchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "bank_transaction",
				EntityID:    txn.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Banka işlemi: %s %.2f [%s]", account.Name, txn.Amount, txn.Category),
				After:       txn,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(txn)
	}
}

// GET /api/bank/transactions?account_id=1&category=tedarikci
func ListTransactionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := auth.ResolveBranchIDFromQuery(c)
		if err != nil {
			return err
		}

		dbq := database.DB.
			Joins("JOIN bank_accounts ON bank_accounts.id = bank_transactions.bank_account_id").
			Where("bank_accounts.branch_id = ?", branchID).
			Preload("BankAccount")

		if accountID := c.Query("account_id"); accountID != "" {
			dbq = dbq.Where("bank_transactions.bank_account_id = ?", accountID)
		}
		if category := c.Query("category"); category != "" {
			dbq = dbq.Where("bank_transactions.category = ?", category)
		}

		var txns []models.BankTransaction
		if err := dbq.Order("bank_transactions.date DESC, bank_transactions.id DESC").
			Find(&txns).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlemler listelenemedi")
		}

		return c.JSON(txns)
	}
}

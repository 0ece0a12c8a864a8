package admin

import (
	"fmt"
	"strings"

	"mutabakat-backend/internal/audit"
	"mutabakat-backend/internal/auth"
	"mutabakat-backend/internal/database"
	"mutabakat-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type BranchRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// POST /api/admin/branches  (sadece super_admin)
func CreateBranchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body BranchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Şube adı zorunlu")
		}

		var existing models.Branch
		if err := database.DB.First(&existing, "name = ?", body.Name).Error; err == nil {
			return fiber.NewError(fiber.StatusConflict, "Bu isimde şube zaten var")
		}

		branch := models.Branch{
			Name:    body.Name,
			Address: body.Address,
			Phone:   body.Phone,
		}
		if err := database.DB.Create(&branch).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şube oluşturulamadı")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    &branch.ID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "branch",
				EntityID:    branch.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Şube: %s", branch.Name),
				After:       branch,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(branch)
	}
}

// PUT /api/admin/branches/:id  (sadece super_admin)
func UpdateBranchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ID")
		}

		var branch models.Branch
		if err := database.DB.First(&branch, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Şube bulunamadı")
		}

		var body BranchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		before := branch
		if name := strings.TrimSpace(body.Name); name != "" {
			branch.Name = name
		}
		if body.Address != "" {
			branch.Address = body.Address
		}
		if body.Phone != "" {
			branch.Phone = body.Phone
		}
		if err := database.DB.Save(&branch).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şube güncellenemedi")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    &branch.ID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "branch",
				EntityID:    branch.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Şube güncellendi: %s", branch.Name),
				Before:      before,
				After:       branch,
			})
		}

		return c.JSON(branch)
	}
}

// GET /api/admin/branches  (sadece super_admin)
func ListBranchesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var branches []models.Branch
		if err := database.DB.Order("name ASC").Find(&branches).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şubeler listelenemedi")
		}
		return c.JSON(branches)
	}
}

type BranchAdminRequest struct {
	BranchID uint   `json:"branch_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/admin/branch-admins  (sadece super_admin)
// Şube yöneticisi yaratır; bu kullanıcı JWT'sindeki şubeye kilitli çalışır.
func CreateBranchAdminHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body BranchAdminRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		body.Name = strings.TrimSpace(body.Name)
		if body.BranchID == 0 || body.Name == "" || body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "branch_id, name, email ve password zorunlu")
		}
		if len(body.Password) < 8 {
			return fiber.NewError(fiber.StatusBadRequest, "Şifre en az 8 karakter olmalı")
		}

		var branch models.Branch
		if err := database.DB.First(&branch, "id = ?", body.BranchID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Şube bulunamadı")
		}

		var existing models.User
		if err := database.DB.First(&existing, "email = ?", body.Email).Error; err == nil {
			return fiber.NewError(fiber.StatusConflict, "Bu email zaten kayıtlı")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
		}

		user := models.User{
			BranchID:     &body.BranchID,
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         models.RoleBranchAdmin,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı oluşturulamadı")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    &body.BranchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "user",
				EntityID:    user.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Şube yöneticisi: %s (%s)", user.Name, branch.Name),
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":        user.ID,
			"branch_id": user.BranchID,
			"name":      user.Name,
			"email":     user.Email,
			"role":      user.Role,
		})
	}
}

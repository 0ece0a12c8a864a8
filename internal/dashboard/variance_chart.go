package dashboard

import (
	"strconv"
	"time"

	"mutabakat-backend/internal/auth"
	"mutabakat-backend/internal/database"
	"mutabakat-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type VarianceChartPoint struct {
	Label          string  `json:"label"` // "2025-05"
	Year           int     `json:"year"`
	Month          int     `json:"month"`
	NormalCount    int     `json:"normal_count"`
	ExcessCount    int     `json:"excess_count"`
	ShortfallCount int     `json:"shortfall_count"`
	DataErrorCount int     `json:"data_error_count"`
	MonetaryImpact float64 `json:"monetary_impact"` // fiyatlanabilen kayıtların mutlak etki toplamı
}

type VarianceChartResponse struct {
	BranchID    uint                 `json:"branch_id"`
	From        string               `json:"from"`
	To          string               `json:"to"`
	Points      []VarianceChartPoint `json:"points"`
	TotalImpact float64              `json:"total_impact"`
}

// GET /api/dashboard/variance-chart?count=6&branch_id=1
// Son N ayın fark özetini döner. Mutabakatı çalıştırılmamış aylar sıfır
// sayımla yer alır; grafikte boşluk bırakılmaz.
func VarianceChartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := auth.ResolveBranchIDFromQuery(c)
		if err != nil {
			return err
		}

		count := 6
		if countStr := c.Query("count"); countStr != "" {
			n, err := strconv.Atoi(countStr)
			if err != nil || n < 1 || n > 36 {
				return fiber.NewError(fiber.StatusBadRequest, "count 1-36 arası olmalı")
			}
			count = n
		}

		now := time.Now()
		// Ay listesi: en eskiden bu aya
		months := make([]time.Time, 0, count)
		cursor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(count - 1), 0)
		for i := 0; i < count; i++ {
			months = append(months, cursor)
			cursor = cursor.AddDate(0, 1, 0)
		}

		from := months[0]
		var records []models.VarianceRecord
		if err := database.DB.
			Where("branch_id = ? AND (year > ? OR (year = ? AND month >= ?))",
				branchID, from.Year(), from.Year(), int(from.Month())).
			Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mutabakat kayıtları okunamadı")
		}

		pointIndex := make(map[string]*VarianceChartPoint, count)
		points := make([]VarianceChartPoint, count)
		for i, m := range months {
			points[i] = VarianceChartPoint{
				Label: m.Format("2006-01"),
				Year:  m.Year(),
				Month: int(m.Month()),
			}
			pointIndex[points[i].Label] = &points[i]
		}

		totalImpact := 0.0
		for _, r := range records {
			label := time.Date(r.Year, time.Month(r.Month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
			p, ok := pointIndex[label]
			if !ok {
				continue
			}
			switch r.Status {
			case models.StatusNormal:
				p.NormalCount++
			case models.StatusExcess:
				p.ExcessCount++
			case models.StatusShortfall:
				p.ShortfallCount++
			case models.StatusDataError:
				p.DataErrorCount++
			}
			if r.MonetaryImpact != nil && r.Status != models.StatusNormal {
				impact := *r.MonetaryImpact
				if impact < 0 {
					impact = -impact
				}
				p.MonetaryImpact += impact
				totalImpact += impact
			}
		}

		return c.JSON(VarianceChartResponse{
			BranchID:    branchID,
			From:        points[0].Label,
			To:          points[count-1].Label,
			Points:      points,
			TotalImpact: totalImpact,
		})
	}
}

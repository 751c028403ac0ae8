package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Nombre de périodes (jours, mois ou années) couvertes par la courbe
// d'inscriptions, période courante comprise.
const statsWindow = 15

// UserStats est implémenté par store.UserStore.
type UserStats interface {
	Count(ctx context.Context) (int64, error)
	SignupCounts(ctx context.Context, since time.Time, dateFormat string) (map[string]int, error)
}

// ProductStats est implémenté par store.ProductStore.
type ProductStats interface {
	CountVariants(ctx context.Context) (int, error)
}

// OrderStats est implémenté par store.OrderStore.
type OrderStats interface {
	TotalRevenue(ctx context.Context) (float64, error)
	RevenueByMonth(ctx context.Context) (map[int]float64, error)
	CountByMonth(ctx context.Context) (map[int]int, error)
}

type Handler struct {
	Users    UserStats
	Products ProductStats
	Orders   OrderStats
}

func NewHandler(users UserStats, products ProductStats, orders OrderStats) *Handler {
	return &Handler{Users: users, Products: products, Orders: orders}
}

// StatPoint est un point de la courbe d'inscriptions.
type StatPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Stats agrège le tableau de bord du back-office. Le paramètre period
// (day, month, year) choisit le pas de la courbe d'inscriptions.
func (h *Handler) Stats(c *gin.Context) {
	period := c.DefaultQuery("period", "day")
	if period != "day" && period != "month" && period != "year" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Période invalide (day, month ou year)"})
		return
	}

	ctx := c.Request.Context()
	now := time.Now()

	mongoFormat, _ := periodFormats(period)
	since := windowStart(now, period)

	signups, err := h.Users.SignupCounts(ctx, since, mongoFormat)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lors du calcul des statistiques"})
		return
	}

	totalUsers, err := h.Users.Count(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lors du calcul des statistiques"})
		return
	}

	totalVariants, err := h.Products.CountVariants(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lors du calcul des statistiques"})
		return
	}

	totalRevenue, err := h.Orders.TotalRevenue(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lors du calcul des statistiques"})
		return
	}

	revenueByMonth, err := h.Orders.RevenueByMonth(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lors du calcul des statistiques"})
		return
	}

	ordersByMonth, err := h.Orders.CountByMonth(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lors du calcul des statistiques"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":               fillMissingPeriods(signups, period, now),
		"totalUsers":          totalUsers,
		"totalVariants":       totalVariants,
		"totalRevenueAmount":  totalRevenue,
		"revenueByMonthArray": monthlyFloats(revenueByMonth),
		"ordersByMonthArray":  monthlyInts(ordersByMonth),
	})
}

// periodFormats retourne le format $dateToString côté Mongo et le layout Go
// équivalent pour une période donnée.
func periodFormats(period string) (mongoFormat, layout string) {
	switch period {
	case "month":
		return "%Y-%m", "2006-01"
	case "year":
		return "%Y", "2006"
	default:
		return "%Y-%m-%d", "2006-01-02"
	}
}

// windowStart ramène now au début de sa période puis recule de statsWindow-1
// pas, de sorte que la fenêtre couvre statsWindow périodes, courante incluse.
func windowStart(now time.Time, period string) time.Time {
	switch period {
	case "month":
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return first.AddDate(0, -(statsWindow - 1), 0)
	case "year":
		first := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return first.AddDate(-(statsWindow - 1), 0, 0)
	default:
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return midnight.AddDate(0, 0, -(statsWindow - 1))
	}
}

// fillMissingPeriods déroule la fenêtre complète et comble à zéro les
// périodes sans inscription.
func fillMissingPeriods(counts map[string]int, period string, now time.Time) []StatPoint {
	_, layout := periodFormats(period)

	points := make([]StatPoint, 0, statsWindow)
	cursor := windowStart(now, period)
	for i := 0; i < statsWindow; i++ {
		key := cursor.Format(layout)
		points = append(points, StatPoint{Date: key, Count: counts[key]})

		switch period {
		case "month":
			cursor = cursor.AddDate(0, 1, 0)
		case "year":
			cursor = cursor.AddDate(1, 0, 0)
		default:
			cursor = cursor.AddDate(0, 0, 1)
		}
	}
	return points
}

// monthlyFloats projette la map mois → montant sur un tableau de 12 cases
// (janvier en tête).
func monthlyFloats(byMonth map[int]float64) [12]float64 {
	var out [12]float64
	for month, value := range byMonth {
		if month >= 1 && month <= 12 {
			out[month-1] = value
		}
	}
	return out
}

func monthlyInts(byMonth map[int]int) [12]int {
	var out [12]int
	for month, value := range byMonth {
		if month >= 1 && month <= 12 {
			out[month-1] = value
		}
	}
	return out
}

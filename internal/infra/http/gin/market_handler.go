package ginserver

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"kisansetu/internal/app/dto"
	marketsvc "kisansetu/internal/app/services/market"
	domainmarket "kisansetu/internal/domain/market"
)

type MarketHTTP interface {
	Prices(c *gin.Context)
}

type MarketHandler struct {
	Service *marketsvc.Service
	Logger  *slog.Logger
}

// Prices serves the market-price dashboard. Public, read-only.
func (h MarketHandler) Prices(c *gin.Context) {
	filter := domainmarket.Filter{
		Commodity: strings.TrimSpace(c.Query("commodity")),
		State:     strings.TrimSpace(c.Query("state")),
		Limit:     parseLimit(c.Query("limit")),
	}
	prices, err := h.Service.Query(c.Request.Context(), filter)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("market price query failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "error fetching market prices"})
		return
	}
	items := make([]dto.MarketPrice, 0, len(prices))
	for _, price := range prices {
		items = append(items, dto.NewMarketPrice(price))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "prices": items, "count": len(items)})
}

func parseLimit(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value <= 0 {
		return 0
	}
	return value
}

var _ MarketHTTP = MarketHandler{}

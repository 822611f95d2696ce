package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"kisansetu/internal/app/dto"
	listingsvc "kisansetu/internal/app/services/listings"
	domainlistings "kisansetu/internal/domain/listings"
)

type ListingHTTP interface {
	Create(c *gin.Context)
	MyListings(c *gin.Context)
	All(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type ListingHandler struct {
	Service *listingsvc.Service
	Logger  *slog.Logger
}

type createListingRequest struct {
	Commodity     string  `json:"commodity"`
	Variety       string  `json:"variety"`
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit"`
	ExpectedPrice float64 `json:"expectedPrice"`
	Description   string  `json:"description"`
	Location      string  `json:"location"`
}

type updateListingRequest struct {
	Commodity     *string  `json:"commodity"`
	Variety       *string  `json:"variety"`
	Quantity      *float64 `json:"quantity"`
	Unit          *string  `json:"unit"`
	ExpectedPrice *float64 `json:"expectedPrice"`
	Description   *string  `json:"description"`
	Location      *string  `json:"location"`
}

func (h ListingHandler) Create(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}
	listing, err := h.Service.Create(c.Request.Context(), listingsvc.CreateParams{
		FarmerID:      p.ID,
		Commodity:     req.Commodity,
		Variety:       req.Variety,
		Quantity:      req.Quantity,
		Unit:          req.Unit,
		ExpectedPrice: req.ExpectedPrice,
		Description:   req.Description,
		Location:      req.Location,
	})
	if err != nil {
		h.respondListingError(c, err, "create listing")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "listing created successfully", "listing": dto.NewListing(*listing)})
}

func (h ListingHandler) MyListings(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	listings, err := h.Service.ByFarmer(c.Request.Context(), p.ID)
	if err != nil {
		h.respondListingError(c, err, "fetch listings")
		return
	}
	items := make([]dto.Listing, 0, len(listings))
	for _, listing := range listings {
		items = append(items, dto.NewListing(listing))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "listings": items, "count": len(items)})
}

// All is the public catalog, farmer profiles attached, newest first.
func (h ListingHandler) All(c *gin.Context) {
	views, err := h.Service.All(c.Request.Context())
	if err != nil {
		h.respondListingError(c, err, "fetch listings")
		return
	}
	items := make([]dto.ListingDetail, 0, len(views))
	for _, view := range views {
		items = append(items, dto.NewListingDetail(view))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "listings": items, "count": len(items)})
}

func (h ListingHandler) Get(c *gin.Context) {
	view, err := h.Service.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondListingError(c, err, "fetch listing")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "listing": dto.NewListingDetail(*view)})
}

func (h ListingHandler) Update(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	var req updateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}
	listing, err := h.Service.Update(c.Request.Context(), c.Param("id"), p.ID, listingsvc.UpdateParams{
		Commodity:     req.Commodity,
		Variety:       req.Variety,
		Quantity:      req.Quantity,
		Unit:          req.Unit,
		ExpectedPrice: req.ExpectedPrice,
		Description:   req.Description,
		Location:      req.Location,
	})
	if err != nil {
		h.respondListingError(c, err, "update listing")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "listing updated successfully", "listing": dto.NewListing(*listing)})
}

func (h ListingHandler) Delete(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), c.Param("id"), p.ID); err != nil {
		h.respondListingError(c, err, "delete listing")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "listing deleted successfully"})
}

func (h ListingHandler) respondListingError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, domainlistings.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "listing not found"})
	case errors.Is(err, domainlistings.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "not authorized to modify this listing"})
	case errors.Is(err, domainlistings.ErrCommodityRequired),
		errors.Is(err, domainlistings.ErrLocationRequired),
		errors.Is(err, domainlistings.ErrInvalidQuantity),
		errors.Is(err, domainlistings.ErrInvalidPrice),
		errors.Is(err, domainlistings.ErrInvalidUnit):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("listing request failed", "action", action, "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "error " + action})
	}
}

var _ ListingHTTP = ListingHandler{}

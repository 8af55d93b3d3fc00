package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"thriftee/internal/app/dto"
	catalogsvc "thriftee/internal/app/services/catalog"
	chatsvc "thriftee/internal/app/services/chat"
	domainchat "thriftee/internal/domain/chat"
	domainitems "thriftee/internal/domain/items"
)

// ItemHandler wires listing browse and lifecycle operations to HTTP.
type ItemHandler struct {
	Catalog *catalogsvc.Service
	Chat    *chatsvc.Service
	Now     func() time.Time
	Logger  *slog.Logger
}

// Browse responds with a filtered, newest-first reveal window of unsold
// listings. All filter parameters are optional; absent ones match everything.
func (h ItemHandler) Browse(c *gin.Context) {
	if h.Catalog == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	filter := domainitems.Filter{
		MinPrice:        parseInt64(c.Query("min_price")),
		MaxPrice:        parseInt64(c.Query("max_price")),
		MinQuality:      parseInt(c.Query("min_quality")),
		City:            strings.TrimSpace(c.Query("city")),
		RequireReceipt:  parseBool(c.Query("receipt")),
		RequireDelivery: parseBool(c.Query("delivery")),
		RequireVerified: parseBool(c.Query("verified")),
		Query:           c.Query("q"),
	}
	page, err := h.Catalog.BrowseItems(c.Request.Context(), filter, parseInt(c.Query("visible")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapItemBrowse(page, h.now()))
}

func (h ItemHandler) Get(c *gin.Context) {
	if h.Catalog == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	item, err := h.Catalog.Item(c.Request.Context(), domainitems.ID(c.Param("id")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapItemCard(item, h.now()))
}

type createItemRequest struct {
	Name          string   `json:"name"`
	Price         int64    `json:"price"`
	City          string   `json:"city"`
	Locality      string   `json:"locality"`
	Images        []string `json:"images"`
	QualityRating int      `json:"quality_rating"`
	HasReceipt    bool     `json:"has_receipt"`
	HasDelivery   bool     `json:"has_delivery"`
	IsVerified    bool     `json:"is_verified"`
}

func (h ItemHandler) Create(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	if h.Catalog == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	item, err := h.Catalog.CreateItem(c.Request.Context(), catalogsvc.CreateItemParams{
		SellerID:      p.ID,
		Name:          req.Name,
		Price:         req.Price,
		City:          req.City,
		Locality:      req.Locality,
		Images:        req.Images,
		QualityRating: req.QualityRating,
		HasReceipt:    req.HasReceipt,
		HasDelivery:   req.HasDelivery,
		IsVerified:    req.IsVerified,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapItemCard(item, h.now()))
}

func (h ItemHandler) Delete(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	if err := h.Catalog.DeleteItem(c.Request.Context(), domainitems.ID(c.Param("id")), p.ID); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h ItemHandler) MarkSold(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	item, err := h.Catalog.MarkItemSold(c.Request.Context(), domainitems.ID(c.Param("id")), p.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapItemCard(item, h.now()))
}

// UploadPhoto accepts a multipart file, stores it and attaches the public
// URL to the listing.
func (h ItemHandler) UploadPhoto(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	header, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is unreadable"})
		return
	}
	defer file.Close()

	itemID := c.Param("id")
	key := path.Join("items", itemID, uuid.NewString()+path.Ext(header.Filename))
	item, err := h.Catalog.AddItemImage(c.Request.Context(), domainitems.ID(itemID), p.ID, key, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapItemCard(item, h.now()))
}

// StartChat bootstraps the conversation between the caller and the item's
// seller. Repeat calls return the existing thread.
func (h ItemHandler) StartChat(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	if h.Chat == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "chat unavailable"})
		return
	}
	item, err := h.Catalog.Item(c.Request.Context(), domainitems.ID(c.Param("id")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	room, err := h.Chat.Start(c.Request.Context(), string(item.ID), item.SellerID, p.ID)
	if err != nil {
		h.respondChatError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapChatRoom(room))
}

func (h ItemHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainitems.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
	case errors.Is(err, domainitems.ErrNotOwned):
		c.JSON(http.StatusForbidden, gin.H{"error": "not the seller"})
	case errors.Is(err, domainitems.ErrAlreadySold):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domainitems.ErrNameRequired),
		errors.Is(err, domainitems.ErrCityRequired),
		errors.Is(err, domainitems.ErrNegativePrice),
		errors.Is(err, domainitems.ErrQualityRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("item operation failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h ItemHandler) respondChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainchat.ErrSelfChat):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot chat with yourself"})
	case errors.Is(err, chatsvc.ErrBootstrapFailed):
		if h.Logger != nil {
			h.Logger.Error("chat bootstrap failed", "error", err)
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not start chat"})
	default:
		if h.Logger != nil {
			h.Logger.Error("chat bootstrap failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start chat"})
	}
}

func (h ItemHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func parseInt(raw string) int {
	value, _ := strconv.Atoi(strings.TrimSpace(raw))
	if value < 0 {
		return 0
	}
	return value
}

func parseInt64(raw string) int64 {
	value, _ := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if value < 0 {
		return 0
	}
	return value
}

func parseBool(raw string) bool {
	value, _ := strconv.ParseBool(strings.TrimSpace(raw))
	return value
}

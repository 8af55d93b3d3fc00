package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"thriftee/internal/app/dto"
	catalogsvc "thriftee/internal/app/services/catalog"
	chatsvc "thriftee/internal/app/services/chat"
	domainchat "thriftee/internal/domain/chat"
	domainrequests "thriftee/internal/domain/requests"
)

// RequestHandler wires want-to-buy posts to HTTP.
type RequestHandler struct {
	Catalog *catalogsvc.Service
	Chat    *chatsvc.Service
	Now     func() time.Time
	Logger  *slog.Logger
}

func (h RequestHandler) Browse(c *gin.Context) {
	if h.Catalog == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	filter := domainrequests.Filter{
		MinBudget:       parseInt64(c.Query("min_budget")),
		MaxBudget:       parseInt64(c.Query("max_budget")),
		MinQuality:      parseInt(c.Query("min_quality")),
		City:            strings.TrimSpace(c.Query("city")),
		RequireDelivery: parseBool(c.Query("delivery")),
		Query:           c.Query("q"),
	}
	page, err := h.Catalog.BrowseRequests(c.Request.Context(), filter, parseInt(c.Query("visible")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapRequestBrowse(page, h.now()))
}

func (h RequestHandler) Get(c *gin.Context) {
	if h.Catalog == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	request, err := h.Catalog.Request(c.Request.Context(), domainrequests.ID(c.Param("id")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapRequestCard(request, h.now()))
}

type createRequestRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Budget         int64  `json:"budget"`
	City           string `json:"city"`
	Locality       string `json:"locality"`
	QualityMin     int    `json:"quality_min"`
	DeliveryNeeded bool   `json:"delivery_needed"`
}

func (h RequestHandler) Create(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	if h.Catalog == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	var req createRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	request, err := h.Catalog.CreateRequest(c.Request.Context(), catalogsvc.CreateRequestParams{
		BuyerID:        p.ID,
		Title:          req.Title,
		Description:    req.Description,
		Budget:         req.Budget,
		City:           req.City,
		Locality:       req.Locality,
		QualityMin:     req.QualityMin,
		DeliveryNeeded: req.DeliveryNeeded,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapRequestCard(request, h.now()))
}

func (h RequestHandler) Delete(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	if err := h.Catalog.DeleteRequest(c.Request.Context(), domainrequests.ID(c.Param("id")), p.ID); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// StartChat opens the conversation between the caller and the request's
// poster, keyed by the request id.
func (h RequestHandler) StartChat(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	if h.Chat == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "chat unavailable"})
		return
	}
	request, err := h.Catalog.Request(c.Request.Context(), domainrequests.ID(c.Param("id")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	room, err := h.Chat.Start(c.Request.Context(), string(request.ID), request.BuyerID, p.ID)
	if err != nil {
		h.respondChatError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapChatRoom(room))
}

func (h RequestHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainrequests.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
	case errors.Is(err, domainrequests.ErrNotOwned):
		c.JSON(http.StatusForbidden, gin.H{"error": "not the poster"})
	case errors.Is(err, domainrequests.ErrTitleRequired),
		errors.Is(err, domainrequests.ErrCityRequired),
		errors.Is(err, domainrequests.ErrNegativeBudget),
		errors.Is(err, domainrequests.ErrQualityRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("request operation failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h RequestHandler) respondChatError(c *gin.Context, err error) {
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

func (h RequestHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

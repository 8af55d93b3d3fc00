package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"path"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"thriftee/internal/app/dto"
	authsvc "thriftee/internal/app/services/auth"
	catalogsvc "thriftee/internal/app/services/catalog"
	domainuser "thriftee/internal/domain/user"
)

// MeHandler serves the caller's own profile, listings and posts.
type MeHandler struct {
	Auth    *authsvc.Service
	Catalog *catalogsvc.Service
	Avatars authsvc.Uploader
	Now     func() time.Time
	Logger  *slog.Logger
}

type updateProfileRequest struct {
	Name string `json:"name"`
	City string `json:"city"`
}

func (h MeHandler) UpdateProfile(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	if h.Auth == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "profile service unavailable"})
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	account, err := h.Auth.UpdateProfile(c.Request.Context(), domainuser.ID(p.ID), authsvc.UpdateProfileParams{
		Name: req.Name,
		City: req.City,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapUserProfile(account))
}

func (h MeHandler) UploadAvatar(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	if h.Auth == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "profile service unavailable"})
		return
	}
	header, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is unreadable"})
		return
	}
	defer file.Close()

	key := path.Join("avatars", p.ID, uuid.NewString()+path.Ext(header.Filename))
	account, err := h.Auth.SetAvatar(c.Request.Context(), domainuser.ID(p.ID), h.Avatars, key, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapUserProfile(account))
}

func (h MeHandler) MyItems(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	if h.Catalog == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	items, err := h.Catalog.ItemsBySeller(c.Request.Context(), p.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	now := h.now()
	cards := make([]dto.ItemCard, 0, len(items))
	for _, item := range items {
		cards = append(cards, dto.MapItemCard(item, now))
	}
	c.JSON(http.StatusOK, gin.H{"items": cards})
}

func (h MeHandler) MyRequests(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	if h.Catalog == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	posts, err := h.Catalog.RequestsByBuyer(c.Request.Context(), p.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	now := h.now()
	cards := make([]dto.RequestCard, 0, len(posts))
	for _, post := range posts {
		cards = append(cards, dto.MapRequestCard(post, now))
	}
	c.JSON(http.StatusOK, gin.H{"requests": cards})
}

func (h MeHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainuser.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, domainuser.ErrNameRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("profile operation failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h MeHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

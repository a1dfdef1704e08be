package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/askme/queries"
	"github.com/cppla/askme/utils"
)

const (
	// SidebarCacheKey holds the cached popular tags and best members.
	SidebarCacheKey = "cache:sidebar"
	sidebarCacheTTL = time.Minute
)

// SidebarController serves the popular tags and best members block.
type SidebarController struct {
	store *queries.Store
}

// NewSidebarController creates a new SidebarController instance.
func NewSidebarController(db *gorm.DB) *SidebarController {
	return &SidebarController{store: queries.New(db)}
}

// GetSidebar returns popular tags and best members.
func (s *SidebarController) GetSidebar(ctx *gin.Context) {
	sb, err := loadSidebar(ctx.Request.Context(), s.store)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to load sidebar")
		return
	}
	utils.Success(ctx, sb)
}

func loadSidebar(ctx context.Context, store *queries.Store) (queries.Sidebar, error) {
	return utils.CacheRemember(ctx, SidebarCacheKey, sidebarCacheTTL, func() (queries.Sidebar, error) {
		return store.LoadSidebar(ctx)
	})
}

// sidebarOrEmpty never fails a listing because of the sidebar.
func sidebarOrEmpty(ctx context.Context, store *queries.Store) queries.Sidebar {
	sb, err := loadSidebar(ctx, store)
	if err != nil {
		utils.Sugar.Warnf("sidebar unavailable: %v", err)
		return queries.Sidebar{Tags: []string{}, Members: []queries.Member{}}
	}
	return sb
}

func invalidateSidebar(ctx context.Context) {
	utils.InvalidateByPrefix(ctx, SidebarCacheKey)
}

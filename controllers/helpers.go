package controllers

import (
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/cppla/askme/middleware"
	"github.com/cppla/askme/queries"
	"github.com/cppla/askme/utils"
)

var validate = validator.New()

func getUserID(ctx *gin.Context) (uint, bool) {
	return middleware.UserID(ctx)
}

// parseID reads a positive numeric path parameter.
func parseID(ctx *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// safeNext only allows local absolute paths as redirect targets.
func safeNext(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, "\\") {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return raw
}

func validEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

func validUsername(s string) bool {
	return validate.Var(s, "required,alphanum") == nil
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// listingPayload is the body every paginated listing answers with.
func listingPayload(items interface{}, page utils.Page, sidebar queries.Sidebar) gin.H {
	return gin.H{
		"items":      items,
		"pagination": page.Meta(),
		"sidebar":    sidebar,
	}
}

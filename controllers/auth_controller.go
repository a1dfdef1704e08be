package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/askme/models"
	"github.com/cppla/askme/utils"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 30
	minNicknameLen = 2
	maxNicknameLen = 30
)

// AuthController handles sign up, login and logout with a cookie session.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

type loginForm struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"-"`
	Next     string `form:"next" json:"next"`
}

// LoginForm returns an empty login form, or sends signed in users on their way.
func (a *AuthController) LoginForm(ctx *gin.Context) {
	next := safeNext(ctx.Query("next"))
	if _, ok := getUserID(ctx); ok {
		ctx.Redirect(http.StatusFound, next)
		return
	}
	utils.Success(ctx, gin.H{"form": loginForm{Next: next}})
}

// Login verifies user credentials and starts a session.
func (a *AuthController) Login(ctx *gin.Context) {
	var form loginForm
	if err := ctx.ShouldBind(&form); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}
	form.Username = strings.TrimSpace(form.Username)
	if form.Next == "" {
		form.Next = ctx.Query("next")
	}
	form.Next = safeNext(form.Next)

	errs := utils.FieldErrors{}
	if form.Username == "" {
		errs.Add("username", "This field is required.")
	}
	if form.Password == "" {
		errs.Add("password", "This field is required.")
	}
	if errs.Any() {
		utils.FormError(ctx, 40004, form, errs)
		return
	}

	var user models.User
	err := a.db.WithContext(ctx.Request.Context()).Where("username = ?", form.Username).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Sugar.Errorf("load user %q: %v", form.Username, err)
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to load user")
		return
	}
	if err != nil || !utils.CheckPassword(user.PasswordHash, form.Password) {
		errs.Add("__all__", "Please enter a correct username and password.")
		utils.FormError(ctx, 40106, form, errs)
		return
	}

	if err := utils.StartSession(ctx, user.ID, user.Username); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to start session")
		return
	}
	ctx.Redirect(http.StatusFound, form.Next)
}

type signupForm struct {
	Username  string `form:"username" json:"username"`
	Email     string `form:"email" json:"email"`
	Nickname  string `form:"nickname" json:"nickname"`
	Password1 string `form:"password1" json:"-"`
	Password2 string `form:"password2" json:"-"`
}

// SignupForm returns an empty sign up form.
func (a *AuthController) SignupForm(ctx *gin.Context) {
	if _, ok := getUserID(ctx); ok {
		ctx.Redirect(http.StatusFound, "/")
		return
	}
	utils.Success(ctx, gin.H{"form": signupForm{}})
}

// Signup creates the account and its profile, then signs the user in.
func (a *AuthController) Signup(ctx *gin.Context) {
	var form signupForm
	if err := ctx.ShouldBind(&form); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}
	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.ToLower(strings.TrimSpace(form.Email))
	form.Nickname = utils.SanitizePlain(form.Nickname)

	db := a.db.WithContext(ctx.Request.Context())
	errs := utils.FieldErrors{}
	switch {
	case form.Username == "":
		errs.Add("username", "Please enter a username.")
	case runeLen(form.Username) > maxUsernameLen:
		errs.Add("username", "Username is too long (max 30 characters).")
	case runeLen(form.Username) < minUsernameLen:
		errs.Add("username", "Username must be at least 3 characters long.")
	case !validUsername(form.Username):
		errs.Add("username", "Username can only contain letters and numbers.")
	}
	switch {
	case form.Email == "":
		errs.Add("email", "Please enter your email.")
	case !validEmail(form.Email):
		errs.Add("email", "Please enter a valid email address.")
	}
	switch {
	case form.Nickname == "":
		errs.Add("nickname", "Please enter a nickname.")
	case runeLen(form.Nickname) < minNicknameLen:
		errs.Add("nickname", "Nickname must be at least 2 characters long.")
	case runeLen(form.Nickname) > maxNicknameLen:
		errs.Add("nickname", "Nickname is too long (max 30 characters).")
	}
	switch {
	case form.Password1 == "":
		errs.Add("password1", "This field is required.")
	case len(form.Password1) < utils.MinPasswordLength:
		errs.Add("password1", "This password is too short. It must contain at least 6 characters.")
	}
	if form.Password2 == "" {
		errs.Add("password2", "This field is required.")
	} else if form.Password1 != "" && form.Password1 != form.Password2 {
		errs.Add("password2", "Passwords do not match.")
	}

	if _, bad := errs["username"]; !bad {
		if taken, err := exists(db, &models.User{}, "username = ?", form.Username); err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to check username")
			return
		} else if taken {
			errs.Add("username", "This username is already taken.")
		}
	}
	if _, bad := errs["email"]; !bad {
		if taken, err := exists(db, &models.User{}, "email = ?", form.Email); err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to check email")
			return
		} else if taken {
			errs.Add("email", "This email is already registered. Please use a different email or login.")
		}
	}
	if errs.Any() {
		utils.FormError(ctx, 40002, form, errs)
		return
	}

	hash, err := utils.HashPassword(form.Password1)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to hash password")
		return
	}

	user := models.User{
		Username:     form.Username,
		Email:        form.Email,
		PasswordHash: hash,
		Profile:      &models.UserProfile{Nickname: form.Nickname},
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost a race with a concurrent sign up
			errs.Add("username", "This username or email is already registered.")
			utils.FormError(ctx, 40901, form, errs)
			return
		}
		utils.Sugar.Errorf("create user: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to create user")
		return
	}
	invalidateSidebar(ctx.Request.Context())

	if err := utils.StartSession(ctx, user.ID, user.Username); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to start session")
		return
	}
	ctx.Redirect(http.StatusFound, "/")
}

// Logout revokes the session token until expiration and clears the cookie.
func (a *AuthController) Logout(ctx *gin.Context) {
	utils.EndSession(ctx)
	ctx.Redirect(http.StatusFound, safeNext(ctx.Query("next")))
}

func exists(db *gorm.DB, model interface{}, query string, args ...interface{}) (bool, error) {
	var n int64
	err := db.Model(model).Where(query, args...).Count(&n).Error
	return n > 0, err
}

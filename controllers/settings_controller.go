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

// SettingsController lets the signed in user edit login, email, nickname and avatar.
type SettingsController struct {
	db *gorm.DB
}

// NewSettingsController creates a new SettingsController instance.
func NewSettingsController(db *gorm.DB) *SettingsController {
	return &SettingsController{db: db}
}

type settingsForm struct {
	Login    string `form:"login" json:"login"`
	Email    string `form:"email" json:"email"`
	Nickname string `form:"nickname" json:"nickname"`
}

// GetSettings returns the current values of the settings form.
func (s *SettingsController) GetSettings(ctx *gin.Context) {
	user, profile, ok := s.loadUser(ctx)
	if !ok {
		return
	}
	utils.Success(ctx, gin.H{
		"form":    settingsForm{Login: user.Username, Email: user.Email, Nickname: profile.Nickname},
		"profile": profile,
	})
}

// UpdateSettings validates and stores the settings form, including an optional avatar upload.
func (s *SettingsController) UpdateSettings(ctx *gin.Context) {
	user, profile, ok := s.loadUser(ctx)
	if !ok {
		return
	}

	var form settingsForm
	if err := ctx.ShouldBind(&form); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}
	form.Login = strings.TrimSpace(form.Login)
	form.Email = strings.ToLower(strings.TrimSpace(form.Email))
	form.Nickname = utils.SanitizePlain(form.Nickname)

	db := s.db.WithContext(ctx.Request.Context())
	errs := utils.FieldErrors{}
	switch {
	case form.Login == "":
		errs.Add("login", "Username is required.")
	case runeLen(form.Login) < minUsernameLen:
		errs.Add("login", "Username must be at least 3 characters long.")
	case runeLen(form.Login) > maxUsernameLen:
		errs.Add("login", "Username is too long (max 30 characters).")
	case !validUsername(form.Login):
		errs.Add("login", "Username can only contain letters and numbers.")
	}
	switch {
	case form.Email == "":
		errs.Add("email", "This field is required.")
	case !validEmail(form.Email):
		errs.Add("email", "Enter a valid email address.")
	}
	switch {
	case form.Nickname == "":
		errs.Add("nickname", "This field is required.")
	case runeLen(form.Nickname) > maxNicknameLen:
		errs.Add("nickname", "Nickname is too long (max 30 characters).")
	}

	if _, bad := errs["login"]; !bad {
		taken, err := exists(db, &models.User{}, "username = ? AND id <> ?", form.Login, user.ID)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to check username")
			return
		}
		if taken {
			errs.Add("login", "Sorry, this username is already taken!")
		}
	}
	if _, bad := errs["email"]; !bad {
		taken, err := exists(db, &models.User{}, "email = ? AND id <> ?", form.Email, user.ID)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to check email")
			return
		}
		if taken {
			errs.Add("email", "Sorry, this email address already registered!")
		}
	}

	avatarURL := profile.AvatarURL
	var uploaded string
	if fh, err := ctx.FormFile("avatar"); err == nil && !errs.Any() {
		url, err := utils.SaveAvatar(fh)
		switch {
		case errors.Is(err, utils.ErrAvatarTooLarge):
			errs.Add("avatar", "Avatar file is too large.")
		case errors.Is(err, utils.ErrAvatarInvalid):
			errs.Add("avatar", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
		case err != nil:
			utils.Sugar.Errorf("save avatar: %v", err)
			utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to save avatar")
			return
		default:
			avatarURL, uploaded = url, url
		}
	}
	if errs.Any() {
		utils.FormError(ctx, 40031, form, errs)
		return
	}

	oldUsername := user.Username
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(user).Updates(map[string]interface{}{
			"username": form.Login,
			"email":    form.Email,
		}).Error; err != nil {
			return err
		}
		return tx.Model(profile).Updates(map[string]interface{}{
			"nickname":   form.Nickname,
			"avatar_url": avatarURL,
		}).Error
	})
	if err != nil && uploaded != "" {
		if rmErr := utils.RemoveAvatar(uploaded); rmErr != nil {
			utils.Sugar.Warnf("remove orphaned avatar %s: %v", uploaded, rmErr)
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		errs.Add("login", "Sorry, this username or email is already taken!")
		utils.FormError(ctx, 40901, form, errs)
		return
	}
	if err != nil {
		utils.Sugar.Errorf("update settings for user %d: %v", user.ID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to update settings")
		return
	}
	invalidateSidebar(ctx.Request.Context())

	// The session token carries the username, so it is reissued after a rename.
	if form.Login != oldUsername {
		if err := utils.StartSession(ctx, user.ID, form.Login); err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to start session")
			return
		}
	}
	ctx.Redirect(http.StatusFound, "/settings/")
}

// loadUser fetches the current user and its profile, creating the profile when missing.
func (s *SettingsController) loadUser(ctx *gin.Context) (*models.User, *models.UserProfile, bool) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return nil, nil, false
	}
	db := s.db.WithContext(ctx.Request.Context())

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40402, "user not found")
			return nil, nil, false
		}
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load user")
		return nil, nil, false
	}

	var profile models.UserProfile
	if err := db.Where(models.UserProfile{UserID: user.ID}).FirstOrCreate(&profile).Error; err != nil {
		utils.Sugar.Errorf("get or create profile for user %d: %v", user.ID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load profile")
		return nil, nil, false
	}
	return &user, &profile, true
}

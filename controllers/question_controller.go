package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/askme/config"
	"github.com/cppla/askme/models"
	"github.com/cppla/askme/queries"
	"github.com/cppla/askme/utils"
	"github.com/cppla/askme/voting"
)

const (
	maxTitleLen   = 255
	maxContentLen = 4000
	maxTagLen     = 50
)

// QuestionController serves listings, question details, answers and asking.
type QuestionController struct {
	db    *gorm.DB
	store *queries.Store
}

// NewQuestionController creates a new QuestionController instance.
func NewQuestionController(db *gorm.DB) *QuestionController {
	return &QuestionController{db: db, store: queries.New(db)}
}

// Index lists the newest questions.
func (q *QuestionController) Index(ctx *gin.Context) {
	q.renderListing(ctx, q.store.NewQuestions(), gin.H{"listing": "new"})
}

// Hot lists questions by total rating.
func (q *QuestionController) Hot(ctx *gin.Context) {
	q.renderListing(ctx, q.store.BestQuestions(), gin.H{"listing": "hot"})
}

// Active lists questions by number of answers.
func (q *QuestionController) Active(ctx *gin.Context) {
	q.renderListing(ctx, q.store.HotQuestions(), gin.H{"listing": "active"})
}

// Unanswered lists questions still waiting for an answer.
func (q *QuestionController) Unanswered(ctx *gin.Context) {
	q.renderListing(ctx, q.store.UnansweredQuestions(), gin.H{"listing": "unanswered"})
}

// ByTag lists questions carrying the tag in the path.
func (q *QuestionController) ByTag(ctx *gin.Context) {
	name := strings.TrimSpace(ctx.Param("name"))
	exists, err := q.store.TagExists(ctx.Request.Context(), name)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load tag")
		return
	}
	if !exists {
		utils.Error(ctx, http.StatusNotFound, 40403, "tag not found")
		return
	}
	q.renderListing(ctx, q.store.WithTags(name), gin.H{"listing": "tag", "tag": name})
}

func (q *QuestionController) renderListing(ctx *gin.Context, listing *queries.Listing[models.Question], extra gin.H) {
	rctx := ctx.Request.Context()
	total, err := listing.Count(rctx)
	if err != nil {
		utils.Sugar.Errorf("count questions: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to count questions")
		return
	}
	page := utils.Paginate(ctx.Query("page"), config.Get().QuestionsPerPage, total)
	items, err := listing.Fetch(rctx, page.Limit(), page.Offset())
	if err != nil {
		utils.Sugar.Errorf("list questions: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to list questions")
		return
	}

	payload := listingPayload(items, page, sidebarOrEmpty(rctx, q.store))
	for k, v := range extra {
		payload[k] = v
	}
	utils.Success(ctx, payload)
}

// Detail returns one question with a page of its best answers.
func (q *QuestionController) Detail(ctx *gin.Context) {
	question, ok := q.loadQuestion(ctx)
	if !ok {
		return
	}

	rctx := ctx.Request.Context()
	answers := q.store.BestAnswers(question.ID)
	total, err := answers.Count(rctx)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to count answers")
		return
	}
	page := utils.Paginate(ctx.Query("page"), config.Get().AnswersPerPage, total)
	items, err := answers.Fetch(rctx, page.Limit(), page.Offset())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to list answers")
		return
	}

	payload := listingPayload(items, page, sidebarOrEmpty(rctx, q.store))
	payload["question"] = question
	if _, authed := getUserID(ctx); authed {
		payload["answer_form"] = answerForm{}
	}
	utils.Success(ctx, payload)
}

type answerForm struct {
	Content string `form:"content" json:"content"`
}

// CreateAnswer adds an answer by the current user and jumps to it.
func (q *QuestionController) CreateAnswer(ctx *gin.Context) {
	question, ok := q.loadQuestion(ctx)
	if !ok {
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var form answerForm
	if err := ctx.ShouldBind(&form); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}
	form.Content = utils.Sanitize(form.Content)

	errs := utils.FieldErrors{}
	switch {
	case form.Content == "":
		errs.Add("content", "This field is required.")
	case runeLen(form.Content) > maxContentLen:
		errs.Add("content", fmt.Sprintf("Ensure this value has at most %d characters.", maxContentLen))
	}
	if errs.Any() {
		utils.FormError(ctx, 40020, form, errs)
		return
	}

	answer := models.Answer{
		Content:    form.Content,
		AuthorID:   &userID,
		QuestionID: question.ID,
		IsActive:   true,
	}
	if err := q.db.WithContext(ctx.Request.Context()).Create(&answer).Error; err != nil {
		utils.Sugar.Errorf("create answer: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to create answer")
		return
	}
	invalidateSidebar(ctx.Request.Context())

	ctx.Redirect(http.StatusFound, fmt.Sprintf("%s#answer-%d", voting.QuestionPath(question.ID), answer.ID))
}

type askForm struct {
	Title   string `form:"title" json:"title"`
	Content string `form:"content" json:"content"`
	Tags    string `form:"tags" json:"tags"`
}

// AskForm returns an empty question form.
func (q *QuestionController) AskForm(ctx *gin.Context) {
	utils.Success(ctx, gin.H{
		"form":    askForm{},
		"sidebar": sidebarOrEmpty(ctx.Request.Context(), q.store),
	})
}

// Ask creates a question with its tags and redirects to it.
func (q *QuestionController) Ask(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var form askForm
	if err := ctx.ShouldBind(&form); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}
	title := utils.SanitizePlain(form.Title)
	content := utils.Sanitize(form.Content)
	tagNames := utils.SplitCommaList(utils.SanitizePlain(form.Tags))

	errs := utils.FieldErrors{}
	switch {
	case title == "":
		errs.Add("title", "This field is required.")
	case runeLen(title) > maxTitleLen:
		errs.Add("title", fmt.Sprintf("Ensure this value has at most %d characters.", maxTitleLen))
	}
	switch {
	case content == "":
		errs.Add("content", "This field is required.")
	case runeLen(content) > maxContentLen:
		errs.Add("content", fmt.Sprintf("Ensure this value has at most %d characters.", maxContentLen))
	}
	for _, name := range tagNames {
		if runeLen(name) > maxTagLen {
			errs.Add("tags", fmt.Sprintf("Each tag has at most %d characters.", maxTagLen))
		}
	}
	if errs.Any() {
		utils.FormError(ctx, 40021, form, errs)
		return
	}

	question := models.Question{
		Title:    title,
		Content:  content,
		AuthorID: &userID,
		IsActive: true,
	}
	err := q.db.WithContext(ctx.Request.Context()).Transaction(func(tx *gorm.DB) error {
		for _, name := range tagNames {
			tag, err := getOrCreateTag(tx, name)
			if err != nil {
				return err
			}
			question.Tags = append(question.Tags, tag)
		}
		return tx.Create(&question).Error
	})
	if err != nil {
		utils.Sugar.Errorf("create question: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50027, "failed to create question")
		return
	}
	invalidateSidebar(ctx.Request.Context())

	ctx.Redirect(http.StatusFound, voting.QuestionPath(question.ID))
}

// getOrCreateTag tolerates a concurrent insert of the same name.
func getOrCreateTag(tx *gorm.DB, name string) (models.Tag, error) {
	var tag models.Tag
	err := tx.Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = tx.Where("name = ?", name).Take(&tag).Error
	}
	return tag, err
}

func (q *QuestionController) loadQuestion(ctx *gin.Context) (*models.Question, bool) {
	id, ok := parseID(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40401, "question not found")
		return nil, false
	}
	question, err := q.store.QuestionByID(ctx.Request.Context(), id)
	if errors.Is(err, queries.ErrNotFound) {
		utils.Error(ctx, http.StatusNotFound, 40401, "question not found")
		return nil, false
	}
	if err != nil {
		utils.Sugar.Errorf("load question %d: %v", id, err)
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load question")
		return nil, false
	}
	return question, true
}

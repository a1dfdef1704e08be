package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/askme/queries"
	"github.com/cppla/askme/utils"
	"github.com/cppla/askme/voting"
)

// VoteController toggles likes on questions and answers.
type VoteController struct {
	store   *queries.Store
	toggler *voting.Toggler
}

// NewVoteController creates a new VoteController instance.
func NewVoteController(db *gorm.DB) *VoteController {
	return &VoteController{store: queries.New(db), toggler: voting.NewToggler(db)}
}

type voteForm struct {
	VoteType string `form:"vote_type" json:"vote_type"`
}

// VoteQuestion likes or unlikes a question, then returns to the index or the question.
func (v *VoteController) VoteQuestion(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	questionID, ok := parseID(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40401, "question not found")
		return
	}
	vt, ok := bindVoteType(ctx)
	if !ok {
		return
	}

	_, err := v.toggler.Question(ctx.Request.Context(), userID, questionID, vt)
	if errors.Is(err, voting.ErrTargetNotFound) {
		utils.Error(ctx, http.StatusNotFound, 40401, "question not found")
		return
	}
	if err != nil {
		utils.Sugar.Errorf("vote question %d: %v", questionID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to record vote")
		return
	}
	ctx.Redirect(http.StatusFound, voting.QuestionRedirect(questionID, vt))
}

// VoteAnswer likes or unlikes an answer, then returns to its question.
func (v *VoteController) VoteAnswer(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	answerID, ok := parseID(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40404, "answer not found")
		return
	}
	vt, ok := bindVoteType(ctx)
	if !ok {
		return
	}

	rctx := ctx.Request.Context()
	questionID, err := v.store.AnswerQuestionID(rctx, answerID)
	if errors.Is(err, queries.ErrNotFound) {
		utils.Error(ctx, http.StatusNotFound, 40404, "answer not found")
		return
	}
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load answer")
		return
	}

	_, err = v.toggler.Answer(rctx, userID, answerID, vt)
	if errors.Is(err, voting.ErrTargetNotFound) {
		utils.Error(ctx, http.StatusNotFound, 40404, "answer not found")
		return
	}
	if err != nil {
		utils.Sugar.Errorf("vote answer %d: %v", answerID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to record vote")
		return
	}
	ctx.Redirect(http.StatusFound, voting.AnswerRedirect(questionID))
}

func bindVoteType(ctx *gin.Context) (voting.VoteType, bool) {
	var form voteForm
	if err := ctx.ShouldBind(&form); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return "", false
	}
	vt, err := voting.ParseVoteType(form.VoteType)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid vote type")
		return "", false
	}
	return vt, true
}

package api

import (
	"errors"
	"strconv"
	"time"

	"budgetbuddy/database"
	"budgetbuddy/middleware"
	"budgetbuddy/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// MLHandler proxies forecast and insight requests to the ML microservice.
// Transaction data is loaded here and shipped to the service; responses
// are passed through untouched.
type MLHandler struct {
	ml *service.MLClient
}

// NewMLHandler creates an ML proxy handler.
func NewMLHandler(ml *service.MLClient) *MLHandler {
	return &MLHandler{ml: ml}
}

func (h *MLHandler) respond(c *gin.Context, data interface{}, err error) {
	if err != nil {
		if errors.Is(err, service.ErrMLUnavailable) {
			ServiceUnavailable(c, "ml service unavailable")
			return
		}
		InternalError(c, SafeErrorMessage(err, "ml request failed"))
		return
	}
	Success(c, data)
}

func (h *MLHandler) userTransactions(c *gin.Context, userID uint) ([]service.MLTransaction, bool) {
	txns, err := service.NewLedger(database.DB).ListTransactions(userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "load transactions failed"))
		return nil, false
	}
	return service.ToMLTransactions(txns), true
}

// Health reports whether the ML service is reachable.
// @Summary ML health
// @Tags ml
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "ml status"
// @Failure 503 {object} Response "ml service unavailable"
// @Router /api/v1/ml/health [get]
func (h *MLHandler) Health(c *gin.Context) {
	data, err := h.ml.Health()
	h.respond(c, data, err)
}

// Train sends the user's transaction history to the model trainer.
// @Summary Train model
// @Tags ml
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "training result"
// @Failure 400 {object} Response "no transactions to train on"
// @Failure 503 {object} Response "ml service unavailable"
// @Router /api/v1/ml/train [post]
func (h *MLHandler) Train(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	txns, ok := h.userTransactions(c, userID)
	if !ok {
		return
	}
	if len(txns) == 0 {
		BadRequest(c, "no transactions to train on")
		return
	}

	data, err := h.ml.Train(userID, txns)
	h.respond(c, data, err)
}

// Predictions returns savings forecasts, training the model on the fly if
// needed.
// @Summary Savings predictions
// @Tags ml
// @Produce json
// @Security BearerAuth
// @Param months query int false "months to forecast" default(6)
// @Success 200 {object} Response "predictions"
// @Failure 503 {object} Response "ml service unavailable"
// @Router /api/v1/ml/predictions [get]
func (h *MLHandler) Predictions(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	months, _ := strconv.Atoi(c.DefaultQuery("months", "6"))

	txns, ok := h.userTransactions(c, userID)
	if !ok {
		return
	}

	data, err := h.ml.PredictionsWithTraining(userID, txns, months)
	h.respond(c, data, err)
}

// GoalTimelineRequest asks how long a savings target will take.
type GoalTimelineRequest struct {
	TargetAmount   float64 `json:"target_amount" binding:"required,gt=0" example:"10000"`
	CurrentSavings float64 `json:"current_savings" binding:"gte=0" example:"2000"`
	MonthlySavings float64 `json:"monthly_savings" binding:"required,gt=0" example:"500"`
}

// GoalTimeline proxies the goal timeline estimate.
// @Summary Goal timeline
// @Tags ml
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GoalTimelineRequest true "goal parameters"
// @Success 200 {object} Response "timeline"
// @Failure 503 {object} Response "ml service unavailable"
// @Router /api/v1/ml/goals/timeline [post]
func (h *MLHandler) GoalTimeline(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req GoalTimelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	data, err := h.ml.GoalTimeline(userID,
		decimal.NewFromFloat(req.TargetAmount),
		decimal.NewFromFloat(req.CurrentSavings),
		decimal.NewFromFloat(req.MonthlySavings))
	h.respond(c, data, err)
}

// ReversePlanRequest asks what monthly savings a target implies.
type ReversePlanRequest struct {
	TargetAmount   float64 `json:"target_amount" binding:"required,gt=0" example:"10000"`
	CurrentSavings float64 `json:"current_savings" binding:"gte=0" example:"2000"`
	TargetDate     string  `json:"target_date" binding:"required" example:"2026-06-01"`
}

// ReversePlan proxies the reverse planner.
// @Summary Reverse plan
// @Tags ml
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ReversePlanRequest true "goal parameters"
// @Success 200 {object} Response{data=service.ReversePlanResult} "plan"
// @Failure 503 {object} Response "ml service unavailable"
// @Router /api/v1/ml/goals/reverse-plan [post]
func (h *MLHandler) ReversePlan(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req ReversePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}
	if _, err := time.Parse("2006-01-02", req.TargetDate); err != nil {
		BadRequest(c, "target_date must be YYYY-MM-DD")
		return
	}

	result, err := h.ml.ReversePlan(userID,
		decimal.NewFromFloat(req.TargetAmount),
		decimal.NewFromFloat(req.CurrentSavings),
		req.TargetDate)
	h.respond(c, result, err)
}

// Insights generates personalized insights from the user's history.
// @Summary Generate insights
// @Tags ml
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "insights"
// @Failure 400 {object} Response "no transactions to analyze"
// @Failure 503 {object} Response "ml service unavailable"
// @Router /api/v1/ml/insights [post]
func (h *MLHandler) Insights(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	txns, ok := h.userTransactions(c, userID)
	if !ok {
		return
	}
	if len(txns) == 0 {
		BadRequest(c, "no transactions to analyze")
		return
	}

	data, err := h.ml.Insights(userID, txns)
	h.respond(c, data, err)
}

// InsightsSummary returns the rolled-up insights for the user.
// @Summary Insights summary
// @Tags ml
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "summary"
// @Failure 503 {object} Response "ml service unavailable"
// @Router /api/v1/ml/insights/summary [get]
func (h *MLHandler) InsightsSummary(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	data, err := h.ml.InsightsSummary(userID)
	h.respond(c, data, err)
}

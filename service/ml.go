package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"budgetbuddy/config"
	"budgetbuddy/models"

	"github.com/shopspring/decimal"
)

// ErrMLUnavailable is returned when the ML microservice cannot be
// reached. Handlers map it to 503 instead of treating it as an internal
// failure.
var ErrMLUnavailable = errors.New("ml service unavailable")

// MLClient talks to the external ML microservice that computes forecasts
// and insights. This layer is a plain JSON-over-HTTP proxy; no model
// logic lives here.
type MLClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewMLClient creates a client from the ML configuration.
func NewMLClient(cfg *config.MLConfig) *MLClient {
	return &MLClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// MLTransaction is the transaction shape the ML service expects.
type MLTransaction struct {
	ID       uint    `json:"id"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Type     string  `json:"type"`
	Date     string  `json:"date"`
	Note     string  `json:"note"`
}

// ToMLTransactions converts stored transactions into the ML wire shape.
func ToMLTransactions(txns []models.Transaction) []MLTransaction {
	out := make([]MLTransaction, 0, len(txns))
	for _, t := range txns {
		category := t.Category
		if category == "" {
			category = "Uncategorized"
		}
		out = append(out, MLTransaction{
			ID:       t.ID,
			Amount:   t.Amount.InexactFloat64(),
			Category: category,
			Type:     t.Type,
			Date:     t.Date.Format("2006-01-02"),
			Note:     t.Note,
		})
	}
	return out
}

// ReversePlanResult is the reverse planner's answer: the monthly savings
// needed to reach a target by a date.
type ReversePlanResult struct {
	MonthlySavings float64 `json:"monthly_savings"`
	Feasible       bool    `json:"feasible"`
	Message        string  `json:"message"`
}

func (c *MLClient) do(method, path string, body interface{}) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode ml request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build ml request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMLUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read ml response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("ml service returned %d: %s", resp.StatusCode, string(data))
	}
	return data, nil
}

// Health checks whether the ML service is up.
func (c *MLClient) Health() (json.RawMessage, error) {
	return c.do(http.MethodGet, "/health", nil)
}

// Train feeds a user's transaction history to the model trainer.
func (c *MLClient) Train(userID uint, txns []MLTransaction) (json.RawMessage, error) {
	return c.do(http.MethodPost, "/train", map[string]interface{}{
		"user_id":      userID,
		"transactions": txns,
	})
}

// Predictions fetches savings forecasts for the coming months.
func (c *MLClient) Predictions(userID uint, months int) (json.RawMessage, error) {
	if months <= 0 {
		months = 6
	}
	return c.do(http.MethodGet, fmt.Sprintf("/predict/%d?months=%d", userID, months), nil)
}

// PredictionsWithTraining fetches predictions, training the model first
// when the service has none for this user yet.
func (c *MLClient) PredictionsWithTraining(userID uint, txns []MLTransaction, months int) (json.RawMessage, error) {
	result, err := c.Predictions(userID, months)
	if err == nil {
		return result, nil
	}
	if errors.Is(err, ErrMLUnavailable) {
		return nil, err
	}
	if _, trainErr := c.Train(userID, txns); trainErr != nil {
		return nil, trainErr
	}
	return c.Predictions(userID, months)
}

// GoalTimeline asks how long reaching a savings target will take.
func (c *MLClient) GoalTimeline(userID uint, targetAmount, currentSavings, monthlySavings decimal.Decimal) (json.RawMessage, error) {
	return c.do(http.MethodPost, "/goals/timeline", map[string]interface{}{
		"user_id":         userID,
		"target_amount":   targetAmount.InexactFloat64(),
		"current_savings": currentSavings.InexactFloat64(),
		"monthly_savings": monthlySavings.InexactFloat64(),
	})
}

// ReversePlan asks what monthly savings a target and a deadline imply.
func (c *MLClient) ReversePlan(userID uint, targetAmount, currentSavings decimal.Decimal, targetDate string) (*ReversePlanResult, error) {
	data, err := c.do(http.MethodPost, "/goals/reverse-plan", map[string]interface{}{
		"user_id":         userID,
		"target_amount":   targetAmount.InexactFloat64(),
		"current_savings": currentSavings.InexactFloat64(),
		"target_date":     targetDate,
	})
	if err != nil {
		return nil, err
	}
	var result ReversePlanResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode reverse plan: %w", err)
	}
	return &result, nil
}

// Insights generates personalized insights from a transaction history.
func (c *MLClient) Insights(userID uint, txns []MLTransaction) (json.RawMessage, error) {
	return c.do(http.MethodPost, "/insights", map[string]interface{}{
		"user_id":      userID,
		"transactions": txns,
	})
}

// InsightsSummary fetches the rolled-up insights for a user.
func (c *MLClient) InsightsSummary(userID uint) (json.RawMessage, error) {
	return c.do(http.MethodGet, fmt.Sprintf("/insights/summary/%d", userID), nil)
}

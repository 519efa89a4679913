package logic

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/gridironhq/props-api/internal/models"
)

// ReasoningConfig tunes the reasoning call.
type ReasoningConfig struct {
	Timeout time.Duration
}

type reasoningService struct {
	reasoner Reasoner
	cfg      ReasoningConfig
	validate *validator.Validate
	logger   *zap.SugaredLogger
}

func NewReasoningService(reasoner Reasoner, cfg ReasoningConfig, logger *zap.Logger) ReasoningService {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &reasoningService{
		reasoner: reasoner,
		cfg:      cfg,
		validate: validator.New(),
		logger:   logger.Sugar(),
	}
}

// PredictProp sends the assembled context to the reasoning provider and
// strictly validates the structured response. Any contract violation fails
// the whole request; there is no partial-acceptance mode and no in-request
// retry.
func (s *reasoningService) PredictProp(ctx context.Context, prop models.PropContext, bundle *models.ContextBundle, similar []models.SimilarSituation) (*models.ReasoningResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	prompt := buildPredictionPrompt(prop, bundle, similar)

	s.logger.Infow("Reasoning request",
		"player", prop.Player,
		"stat_type", prop.StatType,
		"line", prop.Line)

	raw, err := s.reasoner.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("reasoning call: %w", err)
	}

	result, err := parseReasoningResponse(raw)
	if err != nil {
		s.logger.Errorw("Reasoning response rejected",
			"player", prop.Player,
			"error", err,
			"response_preview", preview(raw, 200))
		return nil, err
	}

	if err := s.validate.Struct(result); err != nil {
		return nil, fmt.Errorf("reasoning response validation: %w", err)
	}

	result.Model = s.reasoner.Model()

	s.logger.Infow("Reasoning response accepted",
		"player", prop.Player,
		"prediction", result.Prediction,
		"confidence", result.Confidence)

	return result, nil
}

// rawReasoningResponse uses pointers so a missing required field is
// distinguishable from a zero value.
type rawReasoningResponse struct {
	Prediction     *string  `json:"prediction"`
	Confidence     *float64 `json:"confidence"`
	ProjectedValue *float64 `json:"projected_value"`
	Reasoning      *string  `json:"reasoning"`
	KeyFactors     []string `json:"key_factors"`
	RiskFactors    []string `json:"risk_factors"`
	ComparableGame string   `json:"comparable_game"`
}

// parseReasoningResponse extracts the JSON object from the provider's text
// (between the first '{' and the last '}') and enforces the response
// contract: all four required fields present, direction one of OVER/UNDER,
// confidence in [0,100].
func parseReasoningResponse(text string) (*models.ReasoningResult, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON object found in reasoning response")
	}

	var raw rawReasoningResponse
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("parse reasoning response: %w", err)
	}

	switch {
	case raw.Prediction == nil:
		return nil, fmt.Errorf("reasoning response missing required field: prediction")
	case raw.Confidence == nil:
		return nil, fmt.Errorf("reasoning response missing required field: confidence")
	case raw.ProjectedValue == nil:
		return nil, fmt.Errorf("reasoning response missing required field: projected_value")
	case raw.Reasoning == nil:
		return nil, fmt.Errorf("reasoning response missing required field: reasoning")
	}

	if *raw.Prediction != models.DirectionOver && *raw.Prediction != models.DirectionUnder {
		return nil, fmt.Errorf("invalid prediction direction: %q", *raw.Prediction)
	}
	if *raw.Confidence < 0 || *raw.Confidence > 100 {
		return nil, fmt.Errorf("confidence out of range: %v", *raw.Confidence)
	}

	return &models.ReasoningResult{
		Prediction:     *raw.Prediction,
		Confidence:     int(math.Round(*raw.Confidence)),
		ProjectedValue: *raw.ProjectedValue,
		Reasoning:      *raw.Reasoning,
		KeyFactors:     raw.KeyFactors,
		RiskFactors:    raw.RiskFactors,
		ComparableGame: raw.ComparableGame,
	}, nil
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

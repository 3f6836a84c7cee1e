package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"salescast/logging"
	"salescast/models"
	"salescast/scoring"
)

// PredictHandler serves live predictions from a scorer. A nil scorer means
// no model could be loaded at startup.
type PredictHandler struct {
	scorer scoring.Scorer
	logger *zap.Logger
}

// NewPredictHandler creates a handler around scorer.
func NewPredictHandler(scorer scoring.Scorer, logger *zap.Logger) *PredictHandler {
	return &PredictHandler{scorer: scorer, logger: logging.OrNop(logger)}
}

// HandlePredict scores one form submission.
// POST /predict
func (h *PredictHandler) HandlePredict(c *fiber.Ctx) error {
	if h.scorer == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": scoring.ErrUnavailable.Error()})
	}

	var body map[string]any
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	req, err := scoring.ParseRequest(body)
	if err != nil {
		var invalid *scoring.InvalidRequestError
		if errors.As(err, &invalid) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": invalid.Message})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	amount, err := h.scorer.Score(c.UserContext(), req)
	if err != nil {
		h.logger.Error("scoring failed", zap.String("model", h.scorer.Name()), zap.Error(err))
		if errors.Is(err, scoring.ErrUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": scoring.ErrUnavailable.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	h.logger.Debug("prediction served", zap.String("model", h.scorer.Name()), zap.Float64("prediction", amount))
	return c.JSON(models.PredictionResponse{Prediction: &amount})
}

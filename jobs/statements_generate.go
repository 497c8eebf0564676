package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/rentfolio/rentfolio/internal/statements"
)

// NewGenerateStatementsHandler builds the handler for statement runs.
// Malformed payloads are dropped; run failures are retried by the queue.
func NewGenerateStatementsHandler(service *statements.Service, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload GenerateStatementsPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			logger.Error("statement task payload", slog.Any("error", err))
			return asynq.SkipRetry
		}
		result, err := service.GenerateForYear(ctx, payload.PartnerID, payload.Year, payload.Regenerate)
		if err != nil {
			logger.Error("statement run failed",
				slog.String("partner_id", payload.PartnerID),
				slog.Int("year", payload.Year),
				slog.Any("error", err))
			return err
		}
		logger.Info("statement run complete",
			slog.String("partner_id", payload.PartnerID),
			slog.Int("year", payload.Year),
			slog.Int("generated", result.Generated),
			slog.Int("skipped", result.Skipped))
		return nil
	}
}

package commands

import (
	"context"
	"fmt"
)

type HistoryRequest struct {
	Limit int `json:"limit,omitempty"`
}

// HistoryCommand returns the most recent dispatches, newest first
func HistoryCommand(ctx context.Context, req HistoryRequest) *CommandResponse {
	if req.Limit < 0 {
		return NewErrorResponse(fmt.Errorf("limit cannot be negative, got %d", req.Limit))
	}

	r, err := requireRouter()
	if err != nil {
		return NewErrorResponse(err)
	}

	results, err := r.History(ctx, req.Limit)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("failed to get dispatch history: %w", err))
	}

	return NewSuccessResponse(results)
}

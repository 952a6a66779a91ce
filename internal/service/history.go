package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/BarkinBalci/churn-prediction-service/internal/dto"
	"github.com/BarkinBalci/churn-prediction-service/internal/repository"
)

const maxHourlyRangeSeconds = 90 * 24 * 3600

var validHistoryGroupBy = map[string]bool{"risk_level": true, "hour": true, "day": true}

// PredictionHistory retrieves aggregated audited predictions from the warehouse
func (s *PredictionService) PredictionHistory(ctx context.Context, req *dto.GetHistoryRequest) (*dto.GetHistoryResponse, error) {
	if s.history == nil {
		return nil, ErrHistoryUnavailable
	}

	if req.From > req.To {
		s.log.Warn("Invalid time range for history",
			zap.Int64("from", req.From),
			zap.Int64("to", req.To))
		return nil, newValidationError("from", "must be less than or equal to to")
	}

	if req.GroupBy != "" {
		if !validHistoryGroupBy[req.GroupBy] {
			return nil, newValidationError("group_by", "invalid value %s (supported: risk_level, hour, day)", req.GroupBy)
		}

		rangeSeconds := req.To - req.From
		if req.GroupBy == "hour" && rangeSeconds > maxHourlyRangeSeconds {
			return nil, newValidationError("group_by", "time range too large for hourly grouping (max 90 days, got %d days)", rangeSeconds/(24*3600))
		}
	}

	query := repository.HistoryQuery{
		From:    req.From,
		To:      req.To,
		GroupBy: req.GroupBy,
	}

	s.log.Info("Querying prediction history",
		zap.Int64("from", req.From),
		zap.Int64("to", req.To),
		zap.String("group_by", req.GroupBy))

	result, err := s.history.GetHistory(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get history from repository: %w", err)
	}

	response := &dto.GetHistoryResponse{
		From:               req.From,
		To:                 req.To,
		TotalCount:         result.TotalCount,
		AverageProbability: result.AverageProbability,
		GroupBy:            req.GroupBy,
		Groups:             make([]dto.HistoryGroupData, 0, len(result.Groups)),
	}

	for _, group := range result.Groups {
		response.Groups = append(response.Groups, dto.HistoryGroupData{
			GroupValue:         group.GroupValue,
			TotalCount:         group.TotalCount,
			AverageProbability: group.AverageProbability,
		})
	}

	return response, nil
}

package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/BarkinBalci/churn-prediction-service/internal/domain"
	"github.com/BarkinBalci/churn-prediction-service/internal/repository"
)

const createPredictionsTable = `
	CREATE TABLE IF NOT EXISTS predictions (
		record_id String,
		customer_id String,
		prediction UInt8,
		probability Float64,
		risk_level LowCardinality(String),
		cache_hit Bool,
		model_version LowCardinality(String),
		customer_data String,
		timestamp DateTime64(3),
		processed_at DateTime64(3) DEFAULT now64(3),
		version UInt64
	) ENGINE = ReplacingMergeTree(version)
	PRIMARY KEY (record_id)
	ORDER BY (record_id)
	PARTITION BY toYYYYMM(timestamp)
	SETTINGS index_granularity = 8192
	`

// Repository implements PredictionRepository for ClickHouse
type Repository struct {
	client *Client
	log    *zap.Logger
}

// NewRepository creates a new ClickHouse repository
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return &Repository{
		client: client,
		log:    log,
	}
}

// InitSchema creates the predictions table with a ReplacingMergeTree engine so redelivered records collapse
func (r *Repository) InitSchema(ctx context.Context) error {
	if err := r.client.Conn().Exec(ctx, createPredictionsTable); err != nil {
		return fmt.Errorf("failed to create predictions table: %w", err)
	}

	r.log.Info("ClickHouse schema initialized successfully")
	return nil
}

// InsertBatch inserts a batch of prediction records into ClickHouse
func (r *Repository) InsertBatch(ctx context.Context, records []*domain.PredictionRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	batch, err := r.client.Conn().PrepareBatch(ctx, `INSERT INTO predictions (
		record_id, customer_id, prediction, probability, risk_level,
		cache_hit, model_version, customer_data, timestamp, version)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare batch: %w", err)
	}

	version := uint64(time.Now().UnixNano())
	insertedCount := 0
	for _, record := range records {
		customerData := string(record.CustomerData)
		if customerData == "" {
			customerData = "{}"
		}

		err := batch.Append(
			record.RecordID,
			record.CustomerID,
			uint8(record.Prediction),
			record.Probability,
			string(record.RiskLevel),
			record.CacheHit,
			record.ModelVersion,
			customerData,
			record.Timestamp,
			version,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to append prediction to batch: %w", err)
		}
		insertedCount++
	}

	if err := batch.Send(); err != nil {
		return 0, fmt.Errorf("failed to send batch: %w", err)
	}

	return insertedCount, nil
}

// Ping checks if the ClickHouse connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Conn().Ping(ctx)
}

// Close closes the ClickHouse connection
func (r *Repository) Close() error {
	return r.client.Close()
}

// groupExpression maps a group_by value to its select and group clauses
func groupExpression(groupBy string) (selectField, groupByClause, orderBy string, err error) {
	switch groupBy {
	case "risk_level":
		return "risk_level", "GROUP BY risk_level", "ORDER BY total_count DESC", nil
	case "hour":
		return "formatDateTime(toStartOfHour(timestamp), '%Y-%m-%d %H:00:00')",
			"GROUP BY toStartOfHour(timestamp)",
			"ORDER BY group_value ASC", nil
	case "day":
		return "formatDateTime(toStartOfDay(timestamp), '%Y-%m-%d')",
			"GROUP BY toStartOfDay(timestamp)",
			"ORDER BY group_value ASC", nil
	default:
		return "", "", "", fmt.Errorf("unsupported group_by value: %s (supported: risk_level, hour, day)", groupBy)
	}
}

// GetHistory retrieves aggregated predictions from ClickHouse
func (r *Repository) GetHistory(ctx context.Context, query repository.HistoryQuery) (*repository.HistoryResult, error) {
	result := &repository.HistoryResult{
		Groups: []repository.HistoryGroupResult{},
	}

	whereClause := "WHERE timestamp >= toDateTime64(?, 3) AND timestamp <= toDateTime64(?, 3)"
	args := []interface{}{query.From, query.To}

	overallQuery := fmt.Sprintf(`
		SELECT
			count() as total_count,
			ifNotFinite(avg(probability), 0) as average_probability
		FROM predictions FINAL
		%s
	`, whereClause)

	row := r.client.Conn().QueryRow(ctx, overallQuery, args...)
	if err := row.Scan(&result.TotalCount, &result.AverageProbability); err != nil {
		return nil, fmt.Errorf("failed to query overall history: %w", err)
	}

	if query.GroupBy == "" {
		return result, nil
	}

	selectField, groupByClause, orderBy, err := groupExpression(query.GroupBy)
	if err != nil {
		return nil, err
	}

	groupedQuery := fmt.Sprintf(`
		SELECT
			%s as group_value,
			count() as total_count,
			avg(probability) as average_probability
		FROM predictions FINAL
		%s
		%s
		%s
	`, selectField, whereClause, groupByClause, orderBy)

	rows, err := r.client.Conn().Query(ctx, groupedQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query grouped history: %w", err)
	}
	defer func(rows driver.Rows) {
		if err := rows.Close(); err != nil {
			r.log.Error("Failed to close grouped history rows", zap.Error(err))
		}
	}(rows)

	for rows.Next() {
		var group repository.HistoryGroupResult
		if err := rows.Scan(&group.GroupValue, &group.TotalCount, &group.AverageProbability); err != nil {
			return nil, fmt.Errorf("failed to scan grouped history row: %w", err)
		}
		result.Groups = append(result.Groups, group)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating grouped history rows: %w", err)
	}

	return result, nil
}

// churnctl is the operator CLI for the churn prediction service.
//
// Usage:
//
//	churnctl score --model models/churn_model.yaml --input customers.json
//	churnctl cache flush --cache-host localhost --cache-port 6379
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/BarkinBalci/churn-prediction-service/internal/cache"
	"github.com/BarkinBalci/churn-prediction-service/internal/classifier"
	"github.com/BarkinBalci/churn-prediction-service/internal/dto"
	"github.com/BarkinBalci/churn-prediction-service/internal/logger"
	"github.com/BarkinBalci/churn-prediction-service/internal/model"
	"github.com/BarkinBalci/churn-prediction-service/internal/service"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "churnctl",
		Usage:   "Operate the churn prediction service",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"SERVICE_LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			scoreCommand(),
			cacheCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(c *cli.Context) (*zap.Logger, error) {
	return logger.New("development", c.String("log-level"))
}

func scoreCommand() *cli.Command {
	return &cli.Command{
		Name:  "score",
		Usage: "Score a JSON array of customers offline against a model artifact",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "model",
				Aliases: []string{"m"},
				Value:   "models/churn_model.yaml",
				Usage:   "Path to the model artifact",
				EnvVars: []string{"MODEL_PATH"},
			},
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Path to a JSON array of customers (- for stdin)",
				Required: true,
			},
			&cli.Float64Flag{
				Name:    "threshold",
				Value:   0,
				Usage:   "Decision threshold",
				EnvVars: []string{"MODEL_DECISION_THRESHOLD"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "table",
				Usage:   "Output format (table, json)",
			},
		},
		Action: func(c *cli.Context) error {
			log, err := newLogger(c)
			if err != nil {
				return err
			}

			predictor, err := model.LoadLinearPredictor(c.String("model"))
			if err != nil {
				return err
			}

			input, err := readInput(c.String("input"))
			if err != nil {
				return err
			}

			svc := service.NewPredictionService(service.Options{
				Predictor: predictor,
				Threshold: classifier.NewThreshold(c.Float64("threshold")),
				RiskBands: classifier.DefaultRiskBands(),
				Version:   predictor.Info().Version,
			}, log)

			report, err := scoreCustomers(c.Context, svc, input)
			if err != nil {
				return err
			}

			switch c.String("format") {
			case "json":
				enc := json.NewEncoder(c.App.Writer)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			case "table":
				return printTable(c.App.Writer, report)
			default:
				return fmt.Errorf("unsupported format: %s", c.String("format"))
			}
		},
	}
}

func cacheCommand() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the prediction cache",
		Subcommands: []*cli.Command{
			{
				Name:  "flush",
				Usage: "Invalidate every cached prediction",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "cache-host",
						Value:   "localhost",
						Usage:   "Redis/Valkey host",
						EnvVars: []string{"CACHE_HOST"},
					},
					&cli.StringFlag{
						Name:    "cache-port",
						Value:   "6379",
						Usage:   "Redis/Valkey port",
						EnvVars: []string{"CACHE_PORT"},
					},
					&cli.IntFlag{
						Name:    "cache-db",
						Value:   0,
						Usage:   "Redis database number",
						EnvVars: []string{"CACHE_DB"},
					},
					&cli.StringFlag{
						Name:    "cache-password",
						Usage:   "Redis password",
						EnvVars: []string{"CACHE_PASSWORD"},
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Value: 30 * time.Second,
						Usage: "Overall flush timeout",
					},
				},
				Action: func(c *cli.Context) error {
					log, err := newLogger(c)
					if err != nil {
						return err
					}

					backend := cache.NewRedisBackend(cache.RedisOptions{
						Addr:     fmt.Sprintf("%s:%s", c.String("cache-host"), c.String("cache-port")),
						Password: c.String("cache-password"),
						DB:       c.Int("cache-db"),
						Timeout:  5 * time.Second,
					})
					store := cache.NewStore(backend, time.Hour, c.Duration("timeout"), log)
					defer store.Close()

					removed, err := store.InvalidateAll(c.Context)
					if err != nil {
						return fmt.Errorf("failed to flush cache: %w", err)
					}

					fmt.Fprintf(c.App.Writer, "Removed %d cached predictions\n", removed)
					return nil
				},
			},
		},
	}
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}

// scoreCustomers decodes each array element independently so one bad customer does not hide the rest
func scoreCustomers(ctx context.Context, svc *service.PredictionService, data []byte) (*dto.BatchPredictionResponse, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("input must be a JSON array of customers: %w", err)
	}

	report := &dto.BatchPredictionResponse{
		Predictions: make([]dto.BatchPredictionItem, len(raw)),
		Total:       len(raw),
	}

	var (
		customers []*dto.CustomerFeatures
		positions []int
	)
	for i, item := range raw {
		var features dto.CustomerFeatures
		if err := json.Unmarshal(item, &features); err != nil {
			report.Predictions[i] = failedItem(i, "validation_error", err.Error())
			continue
		}
		customers = append(customers, &features)
		positions = append(positions, i)
	}

	results, err := svc.PredictBatch(ctx, customers)
	if err != nil {
		return nil, err
	}

	for j, result := range results {
		i := positions[j]
		if result.Err != nil {
			code := "prediction_error"
			var verr *service.ValidationError
			if errors.As(result.Err, &verr) {
				code = "validation_error"
			}
			report.Predictions[i] = failedItem(i, code, result.Err.Error())
			continue
		}
		report.Predictions[i] = dto.BatchPredictionItem{Index: i, Status: "ok", Result: result.Response}
		report.Successful++
	}
	report.Failed = report.Total - report.Successful

	return report, nil
}

func failedItem(index int, code, message string) dto.BatchPredictionItem {
	return dto.BatchPredictionItem{
		Index:  index,
		Status: "error",
		Error:  &dto.ErrorResponse{Error: code, Message: message},
	}
}

func printTable(w io.Writer, report *dto.BatchPredictionResponse) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tSTATUS\tPREDICTION\tPROBABILITY\tRISK\tERROR")
	for _, item := range report.Predictions {
		if item.Result != nil {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%.4f\t%s\t\n",
				item.Index, item.Status, item.Result.ChurnPrediction, item.Result.ChurnProbability, item.Result.RiskLevel)
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t-\t-\t-\t%s\n", item.Index, item.Status, item.Error.Message)
	}
	fmt.Fprintf(tw, "\nTotal: %d  Successful: %d  Failed: %d\n", report.Total, report.Successful, report.Failed)
	return tw.Flush()
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ettlab/ettcast/internal/dbg"
	"github.com/ettlab/ettcast/pkg/dataset"
	"github.com/ettlab/ettcast/pkg/dataset/duckdb"
	"github.com/ettlab/ettcast/pkg/dataset/historical"
	"github.com/ettlab/ettcast/pkg/eval"
	"github.com/ettlab/ettcast/pkg/forecast"
	"github.com/ettlab/ettcast/pkg/forecast/ar"
	"github.com/ettlab/ettcast/pkg/forecast/remote"
	"github.com/ettlab/ettcast/pkg/frame"
)

func main() {
	dataPath := flag.String("data", "data/etth1.bin", "ETT data file, a .bin dump or a DuckDB database")
	endpoint := flag.String("endpoint", "", "websocket endpoint of a served foundation model, empty to skip")
	flag.Parse()

	logger := dbg.NewLogger(true)
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	records, err := loadRecords(ctx, *dataPath)
	if err != nil {
		logger.Fatal("error loading records", zap.Error(err))
	}

	full, err := dataset.FromRecords(records)
	if err != nil {
		logger.Fatal("error building frame", zap.Error(err))
	}
	logger.Info("dataset loaded",
		zap.Int("rows", full.Len()),
		zap.Strings("series", full.SeriesNames()),
		zap.Time("start", full.Start()),
		zap.Time("end", full.End()))

	// Withhold the final week.
	cutoff := full.End().Add(-time.Duration(Horizon-1) * SamplingInterval)
	train, holdout := eval.Split(full, cutoff)
	logger.Info("split",
		zap.Time("cutoff", cutoff),
		zap.Int("train_rows", train.Len()),
		zap.Int("holdout_rows", holdout.Len()))

	arModel := ar.NewModel(ar.WithOrder(ArOrder))
	if err := runModel(ctx, logger, fmt.Sprintf("ar(%d)", ArOrder), arModel, train, holdout, cutoff); err != nil {
		logger.Fatal("autoregressive evaluation failed", zap.Error(err))
	}

	if *endpoint == "" {
		logger.Info("no endpoint configured, skipping foundation model")
		return
	}

	client, err := remote.Dial(logger, *endpoint,
		remote.WithModel(RemoteModel),
		remote.WithFreq(SamplingFreq),
		remote.WithTimeout(RemoteRequestTimeout))
	if err != nil {
		logger.Fatal("error dialing model endpoint", zap.Error(err))
	}
	defer client.Close()

	// Context-length sweep over one connection.
	for _, contextLength := range ContextLengths {
		client.SetContextLength(contextLength)
		name := fmt.Sprintf("%s ctx=%d", RemoteModel, contextLength)
		if err := runModel(ctx, logger, name, client, train, holdout, cutoff); err != nil {
			logger.Error("foundation model evaluation failed",
				zap.Int("context_length", contextLength), zap.Error(err))
		}
	}
}

// loadRecords reads the evaluation window either from a binary dump written by
// cmd/ettdump or, for any other extension, from a DuckDB database holding an
// "ett" table.
func loadRecords(ctx context.Context, path string) ([]dataset.Record, error) {
	if strings.HasSuffix(path, ".bin") {
		source := historical.NewSource[historical.BinaryRow](path)
		if err := source.Open(); err != nil {
			return nil, err
		}
		defer source.Close()
		return historical.LoadRecords(source, WindowStart, WindowEnd.Add(SamplingInterval), SamplingInterval)
	}

	reader := duckdb.NewReader(path)
	if err := reader.Connect(); err != nil {
		return nil, err
	}
	defer reader.Close()
	return reader.LoadRecords(ctx, "ett", WindowStart, WindowEnd, SamplingInterval)
}

func runModel(ctx context.Context, logger *zap.Logger, name string, model forecast.Forecaster, train, holdout *frame.Frame, cutoff time.Time) error {
	if err := model.Fit(ctx, train); err != nil {
		return fmt.Errorf("fit: %w", err)
	}

	result, err := model.Predict(ctx, Horizon)
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}

	pred, err := dataset.FromForecast(result.Values, result.SeriesIDs, result.Anchor, result.Interval)
	if err != nil {
		return fmt.Errorf("forecast frame: %w", err)
	}

	scores, err := eval.Score(pred, holdout)
	if err != nil {
		return fmt.Errorf("score: %w", err)
	}

	report := eval.NewReport(name, cutoff, Horizon, scores)
	report.TrainStart = train.Start()
	report.TrainEnd = train.End()
	report.Print(logger)
	return nil
}

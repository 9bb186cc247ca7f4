package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"stataid/app"
	"stataid/domain/assumptions"
	"stataid/domain/core"
	"stataid/internal/config"
	"stataid/internal/container"
	"stataid/internal/logging"
)

// runtime is the container built for one command invocation
type runtime struct {
	opts      *options
	container *container.Container
}

func newRuntime(ctx context.Context, opts *options) (*runtime, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	logger := zap.NewNop()
	if opts.verbose {
		if logger, err = logging.New(cfg.Log.Level, "console"); err != nil {
			return nil, err
		}
	}

	c, err := container.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	db, err := container.OpenDatabase(cfg)
	if err != nil {
		return nil, err
	}
	if db != nil {
		if err := c.InitWithDatabase(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	}
	return &runtime{opts: opts, container: c}, nil
}

// request builds an analysis request from the data file argument and flags
func (rt *runtime) request(args []string) (app.AnalyzeRequest, error) {
	req := app.AnalyzeRequest{
		ValidationID: core.ID(rt.opts.validationID),
		GroupColumn:  rt.opts.groupColumn,
		GroupingHint: rt.opts.groupingHint,
		Intent:       rt.opts.intent,
	}
	for _, q := range rt.opts.questions {
		req.Questions = append(req.Questions, assumptions.QuestionID(q))
	}

	if len(args) > 0 {
		ds, err := rt.container.Reader.ReadFile(args[0])
		if err != nil {
			return req, err
		}
		req.Dataset = ds
	} else if req.ValidationID == "" {
		return req, fmt.Errorf("%w: a data file or --validation-id is required", core.ErrMalformedInput)
	}

	if rt.opts.resultsFile != "" {
		results, err := loadResults(rt.opts.resultsFile)
		if err != nil {
			return req, err
		}
		req.TestResults = results
	}
	return req, nil
}

func (rt *runtime) close() {
	rt.container.Shutdown(context.Background())
}

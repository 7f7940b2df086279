package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"loan-predictor/internal/common/camunda"
	"loan-predictor/internal/common/config"
	"loan-predictor/internal/common/logger"
	"loan-predictor/internal/common/observability"
	"loan-predictor/internal/scoring"
	"loan-predictor/internal/web"
	predictloanapproval "loan-predictor/internal/workers/loan/predict-loan-approval"
)

func newServeCommand(opts *globalOptions) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web form and JSON API, and the job worker when camunda is enabled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts, address)
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "listen address (overrides server.address)")

	return cmd
}

func runServe(parent context.Context, opts *globalOptions, address string) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if address != "" {
		cfg.Server.Address = address
	}

	log := newLogger(cfg, "")
	log.Info("starting loan predictor", map[string]interface{}{
		"environment": cfg.App.Environment,
		"address":     cfg.Server.Address,
	})

	var obs *observability.Observability
	if cfg.Metrics.Enabled {
		obs, err = observability.New(cfg.Metrics.ServiceName)
		if err != nil {
			log.Warn("opentelemetry metrics disabled", map[string]interface{}{"error": err})
			obs = nil
		}
		defer func() {
			if err := obs.Shutdown(context.Background()); err != nil {
				log.Warn("opentelemetry shutdown failed", map[string]interface{}{"error": err})
			}
		}()
	}

	predictor, err := loadPredictor(cfg, log, obs)
	if err != nil {
		return err
	}

	var limiter *web.Limiter
	if cfg.RateLimit.Enabled {
		limiter = web.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst,
			config.GetDuration(cfg.RateLimit.IdleTimeout))
	}

	server, err := web.NewServer(predictor, web.Options{
		Address:         cfg.Server.Address,
		ReadTimeout:     config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout:    config.GetDuration(cfg.Server.WriteTimeout),
		ShutdownTimeout: config.GetDuration(cfg.Server.ShutdownTimeout),
		MaxBodyBytes:    cfg.Server.MaxBodyBytes,
		Limiter:         limiter,
		Version:         version,
	}, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx)
	})

	if cfg.Camunda.Enabled {
		if config.IsWorkerEnabled(cfg, predictloanapproval.TaskType) {
			wcfg := predictloanapproval.ConfigFromApp(cfg)
			g.Go(func() error {
				return runWorker(gctx, cfg, wcfg, predictor, log)
			})
		} else {
			log.Info("worker disabled", map[string]interface{}{logger.FieldTaskType: predictloanapproval.TaskType})
		}
	}

	err = g.Wait()
	log.Info("loan predictor stopped", nil)
	return err
}

// runWorker keeps the predict-loan-approval job worker open until ctx ends.
func runWorker(ctx context.Context, cfg *config.Config, wcfg *predictloanapproval.Config, predictor *scoring.Predictor, log logger.Logger) error {
	if err := wcfg.Validate(); err != nil {
		return err
	}

	client, err := camunda.NewClient(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
	}, log)
	if err != nil {
		return err
	}
	defer client.Close()

	handler := predictloanapproval.NewHandler(wcfg, predictor, log)
	w := camunda.NewWorker(client.GetClient(), predictloanapproval.TaskType, camunda.WorkerOptions{
		MaxJobsActive: wcfg.MaxJobsActive,
		Timeout:       wcfg.Timeout,
	}, handler, log)

	<-ctx.Done()
	w.Stop()
	return nil
}

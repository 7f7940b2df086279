// Package cli wires configuration, the classifier artifact and the
// transports into the loan-predictor command.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"loan-predictor/internal/classifier"
	"loan-predictor/internal/common/config"
	"loan-predictor/internal/common/logger"
	"loan-predictor/internal/common/observability"
	"loan-predictor/internal/scoring"
)

const app = "loan-predictor"

// Actual version can be specified in build command.
var version = "dev"

type globalOptions struct {
	configFile string
	logLevel   string
	logFormat  string
	modelPath  string
}

// NewRootCommand builds the command tree. Each call returns fresh flag state.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   app,
		Short: "Loan approval predictor: web form, JSON API and job worker around a trained classifier",
		Long: `loan-predictor scores loan applications with a pre-trained binary classifier.

Applicant attributes are encoded into the classifier's feature schema, the
classifier returns approve or reject, and the applicant is compared against
reference averages for income, loan amount, credit score and debt burden.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default: configs/config.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log format: json or console (overrides config)")
	root.PersistentFlags().StringVar(&opts.modelPath, "model", "", "classifier artifact path (overrides model.artifact_path)")

	root.AddCommand(
		newServeCommand(opts),
		newPredictCommand(opts),
		newSchemaCommand(opts),
		newVersionCommand(),
	)

	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}

func (o *globalOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configFile != "" {
		cfg, err = config.LoadFromFile(o.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if o.logLevel != "" {
		cfg.Logging.Level = strings.ToLower(o.logLevel)
	}
	if o.logFormat != "" {
		cfg.Logging.Format = strings.ToLower(o.logFormat)
	}
	if o.modelPath != "" {
		cfg.Model.ArtifactPath = o.modelPath
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, output string) logger.Logger {
	if output == "" {
		output = cfg.Logging.Output
	}
	return logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format, output).
		WithFields(map[string]interface{}{"app": cfg.App.Name, "version": version})
}

// loadPredictor loads the artifact once; a missing or incompatible schema is
// fatal for every command.
func loadPredictor(cfg *config.Config, log logger.Logger, obs *observability.Observability) (*scoring.Predictor, error) {
	model, err := classifier.Load(cfg.Model.ArtifactPath)
	if err != nil {
		log.Error("failed to load classifier artifact", map[string]interface{}{
			"path":  cfg.Model.ArtifactPath,
			"error": err,
		})
		return nil, err
	}

	info := model.Info()
	log.Info("classifier artifact loaded", map[string]interface{}{
		"path":                   cfg.Model.ArtifactPath,
		"name":                   info.Name,
		logger.FieldModelVersion: info.Version,
		"features":               model.Schema().Len(),
	})

	return scoring.NewPredictor(model, log, obs), nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version: %s\n", app, version)
		},
	}
}

// Main runs the CLI and exits non-zero on failure.
func Main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", app, err)
		os.Exit(1)
	}
}

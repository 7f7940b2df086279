package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"loan-predictor/internal/common/validation"
	"loan-predictor/internal/scoring"
)

func newPredictCommand(opts *globalOptions) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Score one application read from a JSON file or stdin",
		Example: `  loan-predictor predict --input application.json
  echo '{"age": 30, ...}' | loan-predictor predict --input -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := cmd.InOrStdin()
			if input != "-" {
				f, err := os.Open(input)
				if err != nil {
					return fmt.Errorf("open input: %w", err)
				}
				defer f.Close()
				in = f
			}
			return runPredict(cmd.Context(), opts, in, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "application JSON file, - for stdin")

	return cmd
}

func runPredict(ctx context.Context, opts *globalOptions, in io.Reader, out io.Writer) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg, "stderr")

	predictor, err := loadPredictor(cfg, log, nil)
	if err != nil {
		return err
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	req, _, stdErr := validation.DecodeApplication(data)
	if stdErr != nil {
		return stdErr
	}

	prediction, err := predictor.PredictRequest(ctx, req, scoring.SourceCLI)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(prediction)
}

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newSchemaCommand(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the classifier's ordered feature schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			predictor, err := loadPredictor(cfg, newLogger(cfg, "stderr"), nil)
			if err != nil {
				return err
			}

			info := predictor.Info()
			names := predictor.Schema().Names()
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]interface{}{
					"name":         info.Name,
					"version":      info.Version,
					"algorithm":    info.Algorithm,
					"featureNames": names,
				})
			}

			fmt.Fprintf(out, "# %s %s (%d features)\n", info.Name, info.Version, len(names))
			for i, name := range names {
				fmt.Fprintf(out, "%2d  %s\n", i, name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}

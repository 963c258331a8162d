// Package cli implements the resindex command, a one-shot load that prints
// the resource payload.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/resources/internal/config"
	"github.com/cory-johannsen/resources/internal/observability"
	"github.com/cory-johannsen/resources/internal/resource"
)

// NewRootCommand builds the resindex command writing the payload to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	var (
		cfgFile string
		format  string
	)

	cmd := &cobra.Command{
		Use:   "resindex",
		Short: "Load a resource definition document and print its indices",
		Long: `resindex fetches a resource definition document once, derives the skill,
cost and equipment indices, and prints the merged payload.

The source is taken from --source, RES_SOURCE_LOCATION or the config file, in
that order. It may be an http(s) URL, a file URL or a local path.

Example:
  resindex --source static/resources.yaml --format yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "config file (defaults and environment only when empty)")
	cmd.Flags().String("source", "", "source location of the resource document")
	cmd.Flags().Duration("timeout", 0, "bound on one http(s) fetch (0 = none)")
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or yaml")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		if format != "json" && format != "yaml" {
			return fmt.Errorf("unknown format %q (supported: json, yaml)", format)
		}

		v := config.New(cfgFile)
		if cfgFile != "" {
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("reading config file: %w", err)
			}
		}
		if err := v.BindPFlag("source.location", cmd.Flags().Lookup("source")); err != nil {
			return err
		}
		if err := v.BindPFlag("source.timeout", cmd.Flags().Lookup("timeout")); err != nil {
			return err
		}
		cfg, err := config.LoadFromViper(v)
		if err != nil {
			return err
		}

		logger, err := observability.NewLogger(cfg.Logging, "resindex")
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()

		loader, err := resource.NewLoader(cfg.Source.Location, logger, resource.WithTimeout(cfg.Source.Timeout))
		if err != nil {
			return err
		}
		payload, err := loader.LoadPayload(cmd.Context())
		if err != nil {
			return err
		}
		return writePayload(out, format, payload)
	}

	return cmd
}

func writePayload(out io.Writer, format string, p resource.Payload) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("encoding payload: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("encoding payload: %w", err)
		}
		return nil
	}
}

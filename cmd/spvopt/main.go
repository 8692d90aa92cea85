// Command spvopt optimizes SPIR-V binary modules.
//
// Usage:
//
//	spvopt run [-o out.spv] [--passes p1,p2] [--config pipeline.yaml] <in.spv>
//	spvopt dis <in.spv>
//	spvopt passes
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/spvopt"
	"github.com/gogpu/spvopt/dis"
	"github.com/gogpu/spvopt/ir"
	"github.com/gogpu/spvopt/opt"
)

const spvoptVersion = "0.1.0-dev"

// pipelineConfig is the YAML schema accepted by --config.
type pipelineConfig struct {
	Passes []string `yaml:"passes"`
}

func main() {
	root := &cobra.Command{
		Use:           "spvopt",
		Short:         "SPIR-V module optimizer",
		Version:       spvoptVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCommand())
	root.AddCommand(newDisCommand())
	root.AddCommand(newPassesCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRunCommand() *cobra.Command {
	var (
		output     string
		passNames  []string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "run <input.spv>",
		Short: "Run optimization passes over a module",
		Long: `Run optimization passes over a module.

The pipeline defaults to eliminate-dead-constants. Override it with
--passes, or with a YAML config file:

  passes:
    - eliminate-dead-constants
    - strip-debug-info`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := spvopt.DefaultOptions()
			if configPath != "" {
				cfg, err := loadConfig(configPath)
				if err != nil {
					return err
				}
				opts.Passes = cfg.Passes
			}
			if len(passNames) > 0 {
				opts.Passes = passNames
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			optimized, err := spvopt.OptimizeWithOptions(data, opts)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = os.Stdout.Write(optimized)
				return err
			}
			if err := os.WriteFile(output, optimized, 0644); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d -> %d bytes\n", output, len(data), len(optimized))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringSliceVar(&passNames, "passes", nil, "comma-separated pass names (overrides --config)")
	cmd.Flags().StringVar(&configPath, "config", "", "YAML pipeline config file")

	return cmd
}

func newDisCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dis <input.spv>",
		Short: "Disassemble a module to text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			module, err := ir.Decode(data)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), dis.Disassemble(module))
			return nil
		},
	}
}

func newPassesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "passes",
		Short: "List registered passes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(opt.PassNames(), "\n"))
			return nil
		},
	}
}

func loadConfig(path string) (*pipelineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg pipelineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if len(cfg.Passes) == 0 {
		return nil, fmt.Errorf("config %s lists no passes", path)
	}
	for _, name := range cfg.Passes {
		if _, err := opt.NewPass(name); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}
	return &cfg, nil
}

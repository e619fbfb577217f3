package main

import (
	"fmt"
	"os"

	"github.com/SaiNageswarS/go-ioc-boot/ioc"
	"github.com/spf13/cobra"
)

// swapped by tests
var (
	runBenchFn       = RunBench
	checkGraphFn     = CheckGraph
	generateConfigFn = GenerateConfig
)

func main() {
	if err := NewRoot().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func NewRoot() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ioc-bench",
		Short:         "Exercise the go-ioc-boot container against a demo service graph",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var opts benchOptions
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Resolve the demo graph concurrently and report counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runBenchFn(cmd.Context(), cmd.OutOrStdout(), opts)
			return err
		},
	}
	runCmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "INI file with container settings")
	runCmd.Flags().IntVarP(&opts.Workers, "workers", "w", 4, "concurrent workers")
	runCmd.Flags().IntVarP(&opts.Iterations, "iterations", "n", 1000, "total resolutions")
	runCmd.Flags().BoolVar(&opts.Weak, "weak", false, "use the weak singleton cache")
	runCmd.Flags().Float64Var(&opts.Rate, "rate", 0, "resolutions per second across workers (0 = unlimited)")
	runCmd.Flags().BoolVar(&opts.ShowMetrics, "metrics", false, "print container metrics when done")

	var withCycle bool
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Resolve every binding of the demo graph and report failures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkGraphFn(cmd.OutOrStdout(), withCycle)
		},
	}
	checkCmd.Flags().BoolVar(&withCycle, "cycle", false, "add a circular pair of services")

	var data iniTemplateData
	initCmd := &cobra.Command{
		Use:   "init-config [folder]",
		Short: "Write a starter ioc.ini",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ioc.ParseLifetime(data.DefaultLifetime); err != nil {
				return err
			}
			folder := "."
			if len(args) == 1 {
				folder = args[0]
			}
			return generateConfigFn(folder, data)
		},
	}
	initCmd.Flags().StringVar(&data.Namespace, "namespace", "ioc", "metrics namespace")
	initCmd.Flags().StringVar(&data.DefaultLifetime, "lifetime", "transient", "default lifetime (transient|singleton)")
	initCmd.Flags().BoolVar(&data.WeakSingletons, "weak", false, "enable the weak singleton cache")

	rootCmd.AddCommand(runCmd, checkCmd, initCmd)
	return rootCmd
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"vitalstat/adapters/excel"
	"vitalstat/internal"
	"vitalstat/internal/config"
	"vitalstat/internal/exporter"
	"vitalstat/internal/groups"
	"vitalstat/internal/loader"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vitalstat",
		Short: "Extraction and statistics for physiological monitoring workbooks",
	}

	rootCmd.AddCommand(
		newInspectCmd(),
		newGroupEffectsCmd(),
		newTimeEffectsCmd(),
		newDescribeCmd(),
		newPremortemCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [workbook]",
		Short: "Load one monitoring workbook and print its contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, err := excel.OpenWorkbook(args[0])
			if err != nil {
				return err
			}
			defer reader.Close()

			info, err := reader.Information()
			if err != nil {
				return err
			}
			fmt.Println(info)
			fmt.Println()

			table, err := reader.ReadTable()
			if err != nil {
				return err
			}
			for _, property := range table.Properties() {
				slice, err := table.PropertySlice(property)
				if err != nil {
					return err
				}
				fmt.Printf("%s:", property)
				for i, label := range slice.Times {
					fmt.Printf(" %s=%v", label, slice.Values[i])
				}
				fmt.Println()
			}
			return nil
		},
	}
}

func newGroupEffectsCmd() *cobra.Command {
	var output string
	var properties []string

	cmd := &cobra.Command{
		Use:   "group-effects [groups-dir]",
		Short: "Evaluate group effects over directory-defined groups and export the report",
		Long: `Each immediate subdirectory of groups-dir defines one group pooling the
monitoring workbooks it contains. The global group effect and the pairwise
posthoc comparison are evaluated per property and written to a report
workbook, one sheet per property.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, props, err := loadGroups(cmd, args[0], properties)
			if err != nil {
				return err
			}
			path := reportPath(output, "group_effects.xlsx")
			return exporter.New(g).ExportGroupEffects(cmd.Context(), path, props)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Report path (default: group_effects.xlsx in the output directory)")
	cmd.Flags().StringSliceVar(&properties, "properties", nil, "Properties to evaluate (default: all loaded)")
	return cmd
}

func newTimeEffectsCmd() *cobra.Command {
	var output string
	var properties []string

	cmd := &cobra.Command{
		Use:   "time-effects [groups-dir]",
		Short: "Evaluate per-group time effects and export the report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, props, err := loadGroups(cmd, args[0], properties)
			if err != nil {
				return err
			}
			path := reportPath(output, "time_effects.xlsx")
			return exporter.New(g).ExportTimeEffects(cmd.Context(), path, props)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Report path (default: time_effects.xlsx in the output directory)")
	cmd.Flags().StringSliceVar(&properties, "properties", nil, "Properties to evaluate (default: all loaded)")
	return cmd
}

func newDescribeCmd() *cobra.Command {
	var output string
	var properties []string
	var statistics []string

	cmd := &cobra.Command{
		Use:   "describe [groups-dir]",
		Short: "Export per-group descriptive statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, props, err := loadGroups(cmd, args[0], properties)
			if err != nil {
				return err
			}
			var selected []string
			if len(statistics) > 0 {
				selected = statistics
			}
			path := reportPath(output, "descriptive_statistics.xlsx")
			return exporter.New(g).ExportDescriptiveStatistics(cmd.Context(), path, props, selected)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Report path (default: descriptive_statistics.xlsx in the output directory)")
	cmd.Flags().StringSliceVar(&properties, "properties", nil, "Properties to evaluate (default: all loaded)")
	cmd.Flags().StringSliceVar(&statistics, "statistics", nil, "Statistics to compute (default: all registered)")
	return cmd
}

func newPremortemCmd() *cobra.Command {
	var window int

	cmd := &cobra.Command{
		Use:   "premortem [groups-dir] [property]",
		Short: "Evaluate the endpoint-aligned time effect for one property",
		Long: `Re-anchors each subject's series on its last observed sample so
death-censored subjects with unequal series lengths become comparable, then
runs the repeated-measures test and posthoc comparison per group.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := loadGroups(cmd, args[0], []string{args[1]})
			if err != nil {
				return err
			}
			if window == 0 {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				window = cfg.Stats.PremortemWindow
			}

			results, names, err := g.EvaluatePremortemTimeEffect(args[1], window)
			if err != nil {
				return err
			}
			for i, result := range results {
				fmt.Printf("group %s: p=%v (subjects: %s)\n", names[i], result.PValue, strings.Join(result.Subjects, ", "))
				fmt.Printf("  %s\n", strings.Join(result.Labels, "\t"))
				for r, label := range result.Pairwise.Labels {
					fmt.Printf("  %s", label)
					for c := range result.Pairwise.Labels {
						fmt.Printf("\t%v", result.Pairwise.Values[r][c])
					}
					fmt.Println()
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&window, "window", "n", 0, "Window size (default: configured VITALSTAT_PREMORTEM_WINDOW)")
	return cmd
}

// loadGroups loads the directory-defined groups and resolves the property
// selection against the loaded subjects.
func loadGroups(cmd *cobra.Command, root string, properties []string) (*groups.Registry, []string, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	internal.DefaultLogger.SetLevel(internal.ParseLogLevel(cfg.Logging.Level))

	l := loader.New(cfg.Data.Parallelism)
	reg, g, err := l.LoadGroups(cmd.Context(), root)
	if err != nil {
		return nil, nil, err
	}
	if g.Len() == 0 {
		return nil, nil, fmt.Errorf("no group could be built from %s", root)
	}

	props := properties
	if len(props) == 0 {
		props = reg.Properties()
	}
	if len(props) == 0 {
		return nil, nil, fmt.Errorf("no property loaded from %s", root)
	}
	return g, props, nil
}

// reportPath resolves the output path, falling back to the configured
// output directory.
func reportPath(output, fallback string) string {
	if output != "" {
		return output
	}
	cfg, err := config.Load()
	if err != nil {
		return fallback
	}
	if !strings.HasSuffix(fallback, ".xlsx") {
		fallback += ".xlsx"
	}
	return filepath.Join(cfg.Output.Dir, fallback)
}

package main

import (
	"fmt"
	"regexp"

	"github.com/4thel00z/trufflehunt/internal"
	"github.com/spf13/cobra"
)

func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "trufflehunt [flags] git-url",
		Short:         "Find secrets hidden in the depths of git",
		Long:          `Walk every branch of a repository's history, diff each commit pair once, and flag high-entropy strings and known credential patterns.`,
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          makeScanRunner(),
	}

	addScanFlags(rootCmd)
	rootCmd.AddCommand(NewWatchCmd())

	return rootCmd
}

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Output findings as JSON lines")
	cmd.Flags().Bool("regex", false, "Enable high signal regex checks")
	cmd.Flags().String("rules", "", "Rule file replacing the built-in regexes (JSON or YAML)")
	cmd.Flags().Bool("entropy", true, "Enable entropy checks")
	cmd.Flags().String("since-commit", "", "Only scan commits newer than this hash")
	cmd.Flags().Int("max-depth", internal.DefaultMaxDepth, "Max commit depth per branch")
	cmd.Flags().BoolP("force-clone", "f", false, "Clone even when the repository is already on disk")
	cmd.Flags().Bool("status-on-failures", false, "Exit non-zero when any finding was produced")
	cmd.Flags().String("output-dir", "", "Directory for persisted finding records (default: temp dir)")
}

func makeScanRunner() func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		doRegex, _ := cmd.Flags().GetBool("regex")
		rulesPath, _ := cmd.Flags().GetString("rules")
		doEntropy, _ := cmd.Flags().GetBool("entropy")
		sinceCommit, _ := cmd.Flags().GetString("since-commit")
		maxDepth, _ := cmd.Flags().GetInt("max-depth")
		forceClone, _ := cmd.Flags().GetBool("force-clone")
		statusOnFailures, _ := cmd.Flags().GetBool("status-on-failures")
		outputDir, _ := cmd.Flags().GetString("output-dir")

		var rules map[string]*regexp.Regexp
		if rulesPath != "" {
			loaded, err := internal.LoadRules(rulesPath)
			if err != nil {
				return err
			}
			rules = loaded
			doRegex = true
		}

		opts := internal.DefaultScanOptions()
		opts.SinceCommit = sinceCommit
		opts.MaxDepth = maxDepth
		opts.Entropy = doEntropy
		opts.Patterns = doRegex
		opts.Rules = rules
		opts.ForceClone = forceClone
		opts.OutputDir = outputDir
		opts.Observe = func(f internal.Finding) {
			_ = internal.PrintFinding(cmd.OutOrStdout(), f, asJSON)
		}

		svc := internal.NewScanService()
		report, err := svc.Scan(cmd.Context(), args[0], opts)
		if err != nil {
			if report == nil {
				return err
			}
			// Persistence trouble only; the scan itself completed.
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}

		if statusOnFailures && report.HasFindings() {
			return internal.ErrIssuesFound
		}
		return nil
	}
}

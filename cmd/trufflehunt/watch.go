package main

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/4thel00z/trufflehunt/internal"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch path",
		Short: "Watch a local repository and rescan on new history",
		Long:  `Watch a local repository's refs and rescan its history whenever they change, reporting only findings not seen before.`,
		Args:  cobra.ExactArgs(1),
		RunE:  makeWatchRunner(),
	}

	cmd.Flags().Duration("debounce", 500*time.Millisecond, "Debounce window for batching ref changes")
	cmd.Flags().Bool("json", false, "Output findings as JSON lines")
	cmd.Flags().Bool("regex", false, "Enable high signal regex checks")
	cmd.Flags().String("rules", "", "Rule file replacing the built-in regexes (JSON or YAML)")
	cmd.Flags().Bool("entropy", true, "Enable entropy checks")
	cmd.Flags().Int("max-depth", internal.DefaultMaxDepth, "Max commit depth per branch")
	return cmd
}

func makeWatchRunner() func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		path := args[0]
		debounce, _ := cmd.Flags().GetDuration("debounce")
		asJSON, _ := cmd.Flags().GetBool("json")
		doRegex, _ := cmd.Flags().GetBool("regex")
		rulesPath, _ := cmd.Flags().GetString("rules")
		doEntropy, _ := cmd.Flags().GetBool("entropy")
		maxDepth, _ := cmd.Flags().GetInt("max-depth")

		gitDir := filepath.Join(path, ".git")
		if _, err := os.Stat(gitDir); os.IsNotExist(err) {
			return fmt.Errorf("not a git repository: %s", path)
		}

		var rules map[string]*regexp.Regexp
		if rulesPath != "" {
			loaded, err := internal.LoadRules(rulesPath)
			if err != nil {
				return err
			}
			rules = loaded
			doRegex = true
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer watcher.Close()

		if err := addWatchDirs(watcher, gitDir); err != nil {
			return fmt.Errorf("add watch dirs: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for new history...\n", path)

		opts := internal.DefaultScanOptions()
		opts.MaxDepth = maxDepth
		opts.Entropy = doEntropy
		opts.Patterns = doRegex
		opts.Rules = rules
		opts.Persist = false

		svc := internal.NewScanService()
		seen := make(map[[md5.Size]byte]struct{})

		rescan := func() {
			opts.Observe = func(f internal.Finding) {
				key := md5.Sum([]byte(f.CommitHash + "\x00" + f.Reason + "\x00" + f.Path + "\x00" + strings.Join(f.StringsFound, "\x00")))
				if _, ok := seen[key]; ok {
					return
				}
				seen[key] = struct{}{}
				_ = internal.PrintFinding(cmd.OutOrStdout(), f, asJSON)
			}
			if _, err := svc.Scan(cmd.Context(), path, opts); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "rescan: %v\n", err)
			}
		}

		rescan()

		timer := time.NewTimer(0)
		if !timer.Stop() {
			<-timer.C
		}

		for {
			select {
			case <-cmd.Context().Done():
				return nil
			case _, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				timer.Reset(debounce)
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "watch: %v\n", err)
			case <-timer.C:
				rescan()
			}
		}
	}
}

// addWatchDirs registers the ref storage of a repository: HEAD and
// packed-refs live in .git, loose refs in the refs tree.
func addWatchDirs(watcher *fsnotify.Watcher, gitDir string) error {
	if err := watcher.Add(gitDir); err != nil {
		return err
	}

	refsDir := filepath.Join(gitDir, "refs")
	return filepath.Walk(refsDir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return watcher.Add(p)
		}
		return nil
	})
}

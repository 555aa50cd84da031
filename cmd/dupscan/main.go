package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	dupscan "github.com/mattkeenan/dupscan/pkg"
)

var (
	ofFiles     []string
	withinDirs  []string
	hashName    string
	workers     int
	bufferSize  string
	symlinkMode string
	verbosity   int
	debugFlags  string
	jsonOutput  bool
	noProgress  bool
)

var rootCmd = &cobra.Command{
	Use:   "dupscan",
	Short: "Find duplicate files by content",
	Long: `dupscan finds duplicate files by comparing content digests.

Use both --of and --within to check the given directories for
duplicates of the given files. If only --of is used, the files'
parent directories will be checked. If only --within is used, the
directories will be checked for any duplicate files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(ofFiles) == 0 && len(withinDirs) == 0 {
			return fmt.Errorf("nothing to check: use --of and/or --within")
		}
		return runCheck()
	},
	SilenceUsage: true,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage dupscan configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := dupscan.DefaultConfigDir()
		if err != nil {
			return err
		}
		config, err := dupscan.LoadConfig(configDir)
		if err != nil {
			return err
		}
		if err := config.Save(); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", config.Path())
		return nil
	},
}

func init() {
	rootCmd.Flags().StringSliceVarP(&ofFiles, "of", "o", nil, "Files to check for duplicates")
	rootCmd.Flags().StringSliceVarP(&withinDirs, "within", "w", nil, "Directories to check within")
	rootCmd.Flags().StringVar(&hashName, "hash", "", "Hash algorithm (sha1, sha256, sha512)")
	rootCmd.Flags().IntVar(&workers, "workers", 0, "Number of concurrent hash workers")
	rootCmd.Flags().StringVar(&bufferSize, "buffer", "", "Hash read buffer size (e.g. 2M)")
	rootCmd.Flags().StringVar(&symlinkMode, "symlink", "", "File symlink handling (follow, skip)")
	rootCmd.Flags().IntVarP(&verbosity, "verbose", "v", 0, "Verbose level (0-3)")
	rootCmd.Flags().StringVar(&debugFlags, "debug", "", "Debug flags (e.g. scan,hash)")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit results as JSON")
	rootCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// checkerFlags translates set CLI flags into engine overrides
func checkerFlags() map[string]string {
	flags := map[string]string{}
	if hashName != "" {
		flags["hash"] = hashName
	}
	if workers > 0 {
		flags["hash_workers"] = fmt.Sprintf("%d", workers)
	}
	if bufferSize != "" {
		flags["hash_buffer"] = bufferSize
	}
	if symlinkMode != "" {
		flags["symlink"] = symlinkMode
	}
	if verbosity > 0 {
		flags["v"] = fmt.Sprintf("%d", verbosity)
	}
	if debugFlags != "" {
		flags["debug"] = debugFlags
	}
	return flags
}

func runCheck() error {
	checker, err := dupscan.NewChecker(checkerFlags())
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	if !noProgress && !jsonOutput {
		checker.SetProgress(func(done, total int) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionShowCount(),
					progressbar.OptionSetWidth(15),
					progressbar.OptionSetDescription("Hashing files..."),
				)
			}
			bar.Add(1)
		})
	}

	var results *dupscan.DupResults
	if len(ofFiles) == 0 {
		results, err = checker.Within(withinDirs)
	} else {
		results, err = checker.Of(ofFiles, withinDirs)
	}
	if err != nil {
		return err
	}

	if bar != nil {
		bar.Finish()
		fmt.Fprintln(os.Stderr)
	}

	if jsonOutput {
		return printJSON(results)
	}
	printHuman(results)
	return nil
}

func printHuman(results *dupscan.DupResults) {
	for _, warning := range results.Warnings {
		fmt.Fprintf(os.Stderr, "warning: could not check %v\n", warning)
	}

	if len(results.Groups) == 0 {
		fmt.Println("No duplicate files found.")
		return
	}

	for _, group := range results.Groups {
		fmt.Println()
		fmt.Printf("Duplicates with hash %s:\n", group.Hash)
		for _, file := range group.Files {
			fmt.Println(file)
		}
	}
}

func printJSON(results *dupscan.DupResults) error {
	warnings := make([]string, 0, len(results.Warnings))
	for _, warning := range results.Warnings {
		warnings = append(warnings, warning.Error())
	}

	payload := struct {
		Groups   []dupscan.DupGroup `json:"groups"`
		Warnings []string           `json:"warnings"`
	}{
		Groups:   results.Groups,
		Warnings: warnings,
	}
	if payload.Groups == nil {
		payload.Groups = []dupscan.DupGroup{}
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dupscan: %v\n", err)
		os.Exit(1)
	}
}

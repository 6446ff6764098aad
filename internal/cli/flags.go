package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// GlobalFlags holds global flag values
type GlobalFlags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
}

var globalFlags GlobalFlags

// AddGlobalFlags adds global flags to the root command
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&globalFlags.ConfigFile,
		"config",
		"",
		"config file (default is $HOME/.config/dirzip/config.yaml)",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Verbose,
		"verbose",
		"v",
		false,
		"log debug details to stderr",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Quiet,
		"quiet",
		"q",
		false,
		"suppress non-error output",
	)
}

// PlanFlags holds the flags shared by every command that walks a source
type PlanFlags struct {
	Source         string
	Dest           string
	IncludeBaseDir bool
	FollowSymlinks bool
	Exclude        []string
	CaseMatching   string
	Output         string
}

func addPlanFlags(cmd *cobra.Command, f *PlanFlags) {
	cmd.Flags().StringVarP(&f.Source, "src", "s", "", "directory to archive (required)")
	cmd.Flags().StringVarP(&f.Dest, "dest", "d", "", "zip file to create")
	cmd.Flags().BoolVar(&f.IncludeBaseDir, "include-base-dir", false, "prefix entries with the source directory name")
	cmd.Flags().BoolVarP(&f.FollowSymlinks, "follow-symlinks", "L", false, "archive symlink targets instead of skipping links")
	cmd.Flags().StringArrayVarP(&f.Exclude, "exclude", "e", []string{}, "names or source-relative paths to exclude")
	cmd.Flags().StringVar(&f.CaseMatching, "case", "", "exclude case matching: platform, sensitive, insensitive")
	cmd.Flags().StringVarP(&f.Output, "output", "o", "", "output format: human, json, progress")
	cmd.MarkFlagRequired("src")

	// Compatibility spellings, see normalizeLegacyArgs
	cmd.Flags().BoolVar(&f.IncludeBaseDir, "includebasedir", false, "alias for --include-base-dir")
	cmd.Flags().BoolVar(&f.FollowSymlinks, "followsymlinks", false, "alias for --follow-symlinks")
	cmd.Flags().MarkHidden("includebasedir")
	cmd.Flags().MarkHidden("followsymlinks")
}

var legacyBoolFlags = map[string]bool{
	"--includebasedir": true,
	"--followsymlinks": true,
}

// normalizeLegacyArgs rewrites the single-word argument forms into what
// pflag parses: "--includebasedir false" becomes "--includebasedir=false"
// and "--exclude a b" becomes "--exclude a --exclude b".
func normalizeLegacyArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return append(out, args[i:]...)
		}
		out = append(out, arg)

		switch {
		case legacyBoolFlags[arg] && i+1 < len(args):
			if v := strings.ToLower(args[i+1]); v == "true" || v == "false" {
				out[len(out)-1] = arg + "=" + v
				i++
			}
		case arg == "--exclude" && i+1 < len(args):
			out = append(out, args[i+1])
			i++
			for i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				out = append(out, "--exclude", args[i+1])
				i++
			}
		}
	}
	return out
}

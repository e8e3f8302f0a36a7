package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/autobrr/go-mkvnav/internal/cli"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "mkvnav",
	Short:         "Matroska chapter navigation and DVD menu command interpreter.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var rawDump bool

var chaptersCmd = &cobra.Command{
	Use:   "chapters <file> [file...]",
	Short: "Print chapter trees",
	Long:  cli.ChaptersHelp,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		exit(cli.Chapters(args, rawDump, cmd.OutOrStdout(), cmd.ErrOrStderr()))
	},
}

var sessionOpts cli.Options

var playCmd = &cobra.Command{
	Use:   "play <file> [file...]",
	Short: "Run a playback session",
	Long:  cli.PlayHelp,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		exit(cli.Play(cmd.Context(), args, sessionOpts, cmd.OutOrStdout(), cmd.ErrOrStderr()))
	},
}

var execCmd = &cobra.Command{
	Use:   "exec <file> [file...] <command>",
	Short: "Run one DVD command",
	Long:  cli.ExecHelp,
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		last := len(args) - 1
		exit(cli.Exec(args[:last], args[last], sessionOpts, cmd.OutOrStdout(), cmd.ErrOrStderr()))
	},
}

var disasmCmd = &cobra.Command{
	Use:   "disasm <hex> [hex...]",
	Short: "Disassemble DVD commands",
	Long:  cli.DisasmHelp,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		exit(cli.Disasm(args, cmd.OutOrStdout(), cmd.ErrOrStderr()))
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update mkvnav",
	Long:  "Update mkvnav to latest version (release builds only).",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSelfUpdate(cmd.Context())
	},
	DisableFlagsInUseLine: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print go-mkvnav version information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli.Version(cmd.OutOrStdout())
		return nil
	},
	DisableFlagsInUseLine: true,
}

func init() {
	cli.SetVersion(resolveVersion())

	// glog registers -v, -logtostderr and friends on the standard flag set.
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	chaptersCmd.Flags().BoolVar(&rawDump, "raw", false, "dump the parsed structures instead of the tree")
	playCmd.Flags().AddFlagSet(sessionFlags())
	execCmd.Flags().AddFlagSet(sessionFlags())
	playCmd.Flags().StringSliceVar(&sessionOpts.Keys, "key", nil, "menu key to press: up, down, left, right, activate")

	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)
	rootCmd.SetHelpTemplate(cli.HelpTemplate)
	rootCmd.AddCommand(chaptersCmd, playCmd, execCmd, disasmCmd, updateCmd, versionCmd)
}

func sessionFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("session", pflag.ContinueOnError)
	flags.StringVar(&sessionOpts.Config, "config", "", "session configuration file (YAML)")
	flags.Uint64Var(&sessionOpts.Enter, "enter", 0, "UID of the chapter to start from")
	flags.BoolVar(&sessionOpts.Trace, "trace", false, "print interpreter events")
	flags.BoolVar(&sessionOpts.Color, "color", true, "color trace output")
	return flags
}

func main() {
	_ = flag.CommandLine.Parse(nil)
	defer glog.Flush()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		glog.Flush()
		os.Exit(1)
	}
}

func exit(code int) {
	glog.Flush()
	if code != 0 {
		os.Exit(code)
	}
}

func runSelfUpdate(ctx context.Context) error {
	if version == "" || version == "dev" {
		return errors.New("self-update is only available in release builds")
	}

	if _, err := semver.ParseTolerant(version); err != nil {
		return fmt.Errorf("could not parse version: %w", err)
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug("autobrr/go-mkvnav"))
	if err != nil {
		return fmt.Errorf("error occurred while detecting version: %w", err)
	}
	if !found {
		return fmt.Errorf("latest version for %s/%s could not be found from github repository", "autobrr/go-mkvnav", version)
	}

	if latest.LessOrEqual(version) {
		fmt.Printf("Current binary is the latest version: %s\n", cli.FormatVersion(version))
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("error occurred while updating binary: %w", err)
	}

	fmt.Printf("Successfully updated to version: %s\n", cli.FormatVersion(latest.Version()))
	return nil
}

func resolveVersion() string {
	if version != "" && version != "dev" {
		return normalizeVersion(version)
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return normalizeVersion(info.Main.Version)
		}
	}
	return "dev"
}

func normalizeVersion(value string) string {
	return strings.TrimPrefix(value, "v")
}

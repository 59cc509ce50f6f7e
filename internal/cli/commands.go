package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/arthur-debert/build-runfiles/internal/version"
	"github.com/arthur-debert/build-runfiles/pkg/config"
	"github.com/arthur-debert/build-runfiles/pkg/errors"
	"github.com/arthur-debert/build-runfiles/pkg/logging"
	"github.com/arthur-debert/build-runfiles/pkg/report"
	"github.com/arthur-debert/build-runfiles/pkg/runfiles"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// ProgramName is the name diagnostics are reported under
const ProgramName = "build-runfiles"

// flags holds the parsed command line
type flags struct {
	verbosity         int
	allowRelative     bool
	useMetadata       bool
	windowsCompatible bool
	dryRun            bool
	reportFormat      string
	configFile        string
	logFile           string
	printConfig       bool
}

// overrides maps the flags the user actually set onto config keys, so an
// unset flag never shadows the config file or environment
func (f *flags) overrides(cmd *cobra.Command) map[string]interface{} {
	out := map[string]interface{}{}
	if cmd.Flags().Changed("verbose") {
		out["log.verbosity"] = f.verbosity
	}
	if cmd.Flags().Changed("log-file") {
		out["log.file"] = f.logFile
	}
	if cmd.Flags().Changed("report") {
		out["report.format"] = f.reportFormat
	}
	return out
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	var (
		f   flags
		cfg *config.Config
	)

	rootCmd := &cobra.Command{
		Use:     MsgRootUse,
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.Version,
		Args: func(cmd *cobra.Command, args []string) error {
			if f.printConfig {
				return cobra.NoArgs(cmd, args)
			}
			if len(args) != 2 {
				cmd.PrintErr(cmd.UsageString())
				return errors.Newf(errors.ErrInvalidInput, MsgErrArgs, len(args))
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(config.LoadOptions{
				File:      f.configFile,
				Overrides: f.overrides(cmd),
			})
			if err != nil {
				return fmt.Errorf(MsgErrLoadConfig, err)
			}

			logging.Setup(logging.Options{
				Verbosity: cfg.Log.Verbosity,
				File:      cfg.Log.File,
				Console:   cmd.ErrOrStderr(),
			})
			log.Debug().Str("command", cmd.Name()).Msg(MsgDebugCommandStarted)
			log.Debug().
				Str("manifestName", cfg.Manifest.Name).
				Str("trashFallback", cfg.Trash.Fallback).
				Str("report", cfg.Report.Format).
				Msg(MsgDebugConfigLoaded)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.printConfig {
				_, err := fmt.Fprint(cmd.OutOrStdout(), config.DefaultsContent())
				return err
			}
			return run(cmd, args, &f, cfg)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	// Flags must precede INPUT and RUNFILES
	rootCmd.Flags().SetInterspersed(false)

	rootCmd.Flags().CountVarP(&f.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.Flags().BoolVar(&f.allowRelative, "allow_relative", false, MsgFlagAllowRelative)
	rootCmd.Flags().BoolVar(&f.useMetadata, "use_metadata", false, MsgFlagUseMetadata)
	rootCmd.Flags().BoolVar(&f.windowsCompatible, "windows_compatible", false, MsgFlagWindowsCompatible)
	rootCmd.Flags().BoolVar(&f.dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.Flags().StringVar(&f.reportFormat, "report", "", MsgFlagReport)
	rootCmd.Flags().StringVar(&f.configFile, "config", "", MsgFlagConfig)
	rootCmd.Flags().StringVar(&f.logFile, "log-file", "", MsgFlagLogFile)
	rootCmd.Flags().BoolVar(&f.printConfig, "print-config", false, MsgFlagPrintConfig)

	rootCmd.SetUsageTemplate(MsgUsageTemplate)
	rootCmd.SetVersionTemplate(fmt.Sprintf(MsgVersionTemplate, version.Commit, version.Date))

	return rootCmd
}

func run(cmd *cobra.Command, args []string, f *flags, cfg *config.Config) error {
	input, err := filepath.Abs(args[0])
	if err != nil {
		return errors.WrapIO(err, "resolving", args[0])
	}

	format, err := report.ParseFormat(cfg.Report.Format)
	if err != nil {
		return err
	}

	creator, err := runfiles.New(runfiles.Options{
		Root:              args[1],
		ManifestPath:      input,
		AllowRelative:     f.allowRelative,
		UseMetadata:       f.useMetadata,
		WindowsCompatible: f.windowsCompatible,
		DryRun:            f.dryRun,
		ManifestName:      cfg.Manifest.Name,
		StagingSuffix:     cfg.Manifest.Suffix,
		TrashFallback:     cfg.Trash.EnabledHere(),
		TrashDir:          cfg.Trash.Dir,
		TrashAttempts:     cfg.Trash.Attempts,
	})
	if err != nil {
		return err
	}

	logger := logging.WithFields(map[string]interface{}{
		"component": "cli",
		"input":     input,
		"runfiles":  creator.Root(),
		"dryRun":    f.dryRun,
	})
	logger.Info().Msg(MsgInfoRunStarted)

	rep, runErr := creator.Run(cmd.Context())
	if runErr != nil {
		logger.Info().
			Stringer("stage", creator.Stage()).
			Str("code", string(errors.GetErrorCode(runErr))).
			Dict("details", zerolog.Dict().Fields(errors.GetErrorDetails(runErr))).
			Msg(MsgInfoRunFailed)
	} else {
		logger.Info().
			Int("pruned", len(rep.Pruned)).
			Int("created", len(rep.Created)).
			Msg(MsgInfoRunFinished)
	}

	renderer, err := report.NewRenderer(cmd.OutOrStdout(), noColor(cmd.OutOrStdout()))
	if err != nil {
		return fmt.Errorf(MsgErrRender, err)
	}
	if err := renderer.Render(rep, format); err != nil {
		return fmt.Errorf(MsgErrRender, err)
	}
	return runErr
}

// Execute runs the command line in args and reports any failure on
// stderr. It returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		renderer, rerr := report.NewRenderer(stderr, noColor(stderr))
		if rerr != nil {
			fmt.Fprintln(stderr, report.Diagnostic(ProgramName, cmd.Flags().Args(), err))
			return 1
		}
		renderer.RenderError(ProgramName, cmd.Flags().Args(), err)
		return 1
	}
	return 0
}

func noColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	return !ok || report.NoColor(f)
}

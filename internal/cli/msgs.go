package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort = "Build or refresh a runfiles tree from a manifest"
	MsgRootUse   = "build-runfiles [flags] INPUT RUNFILES"

	// Flag descriptions
	MsgFlagVerbose           = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagAllowRelative     = "Allow relative link targets in the manifest"
	MsgFlagUseMetadata       = "Treat every other manifest line as metadata"
	MsgFlagWindowsCompatible = "Use hard links and junctions instead of symlinks"
	MsgFlagDryRun            = "Preview changes without executing them"
	MsgFlagReport            = "Print a report after the run (text, yaml, toml)"
	MsgFlagConfig            = "Read configuration from this file"
	MsgFlagLogFile           = "Also write logs to this file (\"auto\" for the state directory)"
	MsgFlagPrintConfig       = "Print the default configuration file and exit"

	// Error messages
	MsgErrArgs       = "expected INPUT and RUNFILES, got %d argument(s)"
	MsgErrLoadConfig = "failed to load configuration: %w"
	MsgErrRender     = "failed to render report: %w"

	// Version output, appended to cobra's version line
	MsgVersionTemplate = "{{.Name}} version {{.Version}}\ncommit: %s\nbuilt:  %s\n"

	// Run messages
	MsgInfoRunStarted  = "Building runfiles tree"
	MsgInfoRunFailed   = "Run failed"
	MsgInfoRunFinished = "Run finished"

	// Debug messages
	MsgDebugCommandStarted = "Command started"
	MsgDebugConfigLoaded   = "Configuration loaded"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/root-example.txt
	msgRootExampleRaw string
	MsgRootExample    = strings.TrimRight(msgRootExampleRaw, "\n")

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)

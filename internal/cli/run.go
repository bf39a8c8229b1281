package cli

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/eventforge/asyncgen/internal/cli/shared"
	"github.com/eventforge/asyncgen/internal/config"
	"github.com/eventforge/asyncgen/internal/discovery"
	clierrors "github.com/eventforge/asyncgen/internal/errors"
	"github.com/eventforge/asyncgen/internal/generate"
	"github.com/eventforge/asyncgen/internal/loader"
	"github.com/eventforge/asyncgen/internal/progress"
	"github.com/spf13/cobra"
)

// settings are the effective options of one command run: the loaded config
// with command-line flags applied.
type settings struct {
	cfg    *config.Configuration
	format config.OutputFormat
	policy discovery.CollisionPolicy
	debug  bool
}

// loadSettings loads the config file named by --config and applies the
// global flags over it.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, clierrors.ConfigParseError(configPath, err)
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.OutputFormat, _ = flags.GetString("format")
	}
	if flags.Changed("collision") {
		cfg.CollisionPolicy, _ = flags.GetString("collision")
	}
	if flags.Changed("no-progress") {
		noProgress, _ := flags.GetBool("no-progress")
		cfg.ShowProgress = !noProgress
	}
	if flags.Changed("fail-on-warnings") {
		cfg.FailOnWarnings, _ = flags.GetBool("fail-on-warnings")
	}

	s := &settings{cfg: cfg}
	s.debug, _ = flags.GetBool("debug")
	if s.format, err = config.NormalizeOutputFormat(cfg.OutputFormat); err != nil {
		return nil, clierrors.NewArgumentError(err.Error())
	}
	if s.policy, err = cfg.Policy(); err != nil {
		return nil, clierrors.InvalidCollisionPolicy(cfg.CollisionPolicy)
	}
	return s, nil
}

// observer returns the progress display when it can be shown: text output
// to a terminal.
func (s *settings) observer(cmd *cobra.Command) progress.Observer {
	if !s.cfg.ShowProgress || s.format != config.OutputFormatText {
		return progress.Nop{}
	}
	caps := progress.DetectTerminalCapabilities(os.Stderr)
	if !caps.IsTTY {
		return progress.Nop{}
	}
	return progress.NewProgressDisplay(cmd.ErrOrStderr(), caps)
}

// runPipeline runs the analysis over the document named by args. On
// validation failure the partial result is returned with the error so the
// findings can be rendered.
func runPipeline(cmd *cobra.Command, args []string, validateOnly bool) (*generate.Result, *settings, error) {
	if len(args) == 0 {
		return nil, nil, clierrors.MissingDocumentArgument(cmd.Name())
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return nil, nil, err
	}

	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return nil, s, clierrors.MissingSpecFile(path)
	}
	target, err := s.cfg.Target()
	if err != nil {
		return nil, s, clierrors.NewConfigError(err.Error())
	}

	p := generate.New(loader.DirSource{Root: filepath.Dir(path)}, generate.Options{
		Policy:         s.policy,
		Target:         &target,
		MaxFiles:       s.cfg.MaxFiles,
		FailOnWarnings: s.cfg.FailOnWarnings,
		ValidateOnly:   validateOnly,
		Logger:         shared.NewLogger(cmd.ErrOrStderr(), s.debug),
		Observer:       s.observer(cmd),
	})
	res, err := p.Run(cmd.Context(), filepath.Base(path))
	return res, s, err
}

// fail reports err on stderr and returns the exit error carrying its code.
func fail(cmd *cobra.Command, err error) error {
	var cliErr *clierrors.CLIError
	if errors.Is(err, generate.ErrValidationFailed) {
		cliErr = clierrors.NewValidationError(err.Error(),
			"Fix the errors listed above",
			"Warnings only fail the run with --fail-on-warnings or fail_on_warnings in the config")
	} else {
		cliErr = clierrors.FromDomain(err)
	}
	clierrors.FprintError(cmd.ErrOrStderr(), cliErr)
	return shared.NewExitError(exitCodeFor(err), err)
}

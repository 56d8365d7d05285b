package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/spf13/cobra"

	"duststorm-setup/internal/config"
	"duststorm-setup/internal/fsutil"
	"duststorm-setup/internal/logger"
	"duststorm-setup/internal/prompt"
	"duststorm-setup/internal/provision"
)

// rootCmd is the single command of the setup tool. The CLI contract uses
// multi-character short flags (-nc, -ns, -nt, -vs), which pflag cannot
// express, so flag parsing is disabled and the raw argument vector goes
// through config.ParseArgs instead. Cobra still renders usage and help.
var rootCmd = &cobra.Command{
	Use:   "duststorm-setup",
	Short: "Duststorm SDK development environment setup",
	Long: `duststorm-setup bootstraps a Duststorm development environment: it clones
the SDK repository set, downloads and unpacks the game build, and installs a
C++ toolchain, either natively on Windows or into a Wine prefix elsewhere.

Flags:
  -h,  --help                Show this help and exit.
  -nc, --no-colour           Disable coloured output.
  -d,  --debug               Enable debug logging.
  -s,  --sdk                 Install the SDK without asking.
  -ns, --no-sdk              Skip the SDK without asking.
  -t,  --tools               Install the toolchain without asking.
  -nt, --no-tools            Skip the toolchain without asking.
  -i,  --install-dir <path>  SDK install directory.
  -b,  --build-tools         Use the build-tools-only installer.
  -vs, --visual-studio       Use the full Visual Studio installer.
  -w,  --wine-prefix <path>  Wine prefix directory (non-Windows hosts).
  -m,  --manifest <path>     Override the built-in repository manifest.

Decisions not settled by flags are asked interactively on the controlling
terminal. Any provisioning failure aborts the run; what was already created
is left in place.`,
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := config.ParseArgs(args)
		if err != nil {
			return err
		}
		if opts.ShowHelp {
			return cmd.Help()
		}

		logger.Init(opts.Debug, opts.NoColour)

		manifest := config.DefaultManifest()
		if opts.ManifestPath != "" {
			manifest, err = config.LoadManifest(opts.ManifestPath)
			if err != nil {
				return err
			}
		}

		return newRunner().run(cmd.Context(), opts, manifest)
	},
}

// Execute parses the command line and runs the setup pipeline, translating
// errors into process exit codes: 2 for usage errors, an explicitly carried
// code when one was supplied, and 1 for everything else.
func Execute() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCodeFor(err)
	}
	return 0
}

// exitCodeFor maps an error to the process exit code: usage errors exit 2,
// an explicitly supplied code wins otherwise, and everything else is the
// generic fatal code 1.
func exitCodeFor(err error) int {
	var usageErr *config.UsageError
	if errors.As(err, &usageErr) {
		return 2
	}
	var exitErr *config.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// asker is the slice of prompt.Prompter the pipeline needs.
type asker interface {
	Confirm(question string, def bool) (bool, error)
	AskPath(question string) (string, error)
}

// runner executes the linear provisioning pipeline. Its collaborators are
// fields so tests can substitute scripted prompts and provisioners; the
// prompter is created lazily so fully flag-driven runs never touch the
// controlling terminal.
type runner struct {
	goos     string
	newAsker func() (asker, error)
	prompter asker

	provisionSDK  func(ctx context.Context, m config.Manifest, dir string) error
	provisionVS   func(ctx context.Context, m config.Manifest, buildToolsOnly bool) error
	provisionWine func(ctx context.Context, m config.Manifest, prefix string) error
}

func newRunner() *runner {
	return &runner{
		goos: runtime.GOOS,
		newAsker: func() (asker, error) {
			return prompt.Terminal()
		},
		provisionSDK: func(ctx context.Context, m config.Manifest, dir string) error {
			return provision.NewSDK(m).Run(ctx, dir)
		},
		provisionVS: func(ctx context.Context, m config.Manifest, buildToolsOnly bool) error {
			return provision.NewToolchain(m).Run(ctx, buildToolsOnly)
		},
		provisionWine: func(ctx context.Context, m config.Manifest, prefix string) error {
			return provision.NewWine(m).Run(ctx, prefix)
		},
	}
}

// run walks the pipeline in its fixed order: SDK decision and provisioning,
// host classification, toolchain decision and provisioning. No step is ever
// revisited.
func (r *runner) run(ctx context.Context, opts config.Options, m config.Manifest) error {
	installSDK, err := r.resolve(opts.InstallSDK, "Install the Duststorm SDK?", true)
	if err != nil {
		return err
	}
	if installSDK {
		dir, err := r.resolvePath(opts.InstallDir, "Where should the SDK be installed?")
		if err != nil {
			return err
		}
		if err := r.provisionSDK(ctx, m, dir); err != nil {
			return err
		}
	}

	// Host classification decides which toolchain path is eligible and how
	// the question is worded.
	windowsHost := r.goos == "windows"
	question := "Set up a Wine environment for the Windows compiler toolchain?"
	if windowsHost {
		question = "Install the Visual Studio C++ toolchain?"
	}

	installTools, err := r.resolve(opts.InstallTools, question, true)
	if err != nil {
		return err
	}
	if !installTools {
		return nil
	}

	if windowsHost {
		buildToolsOnly, err := r.resolve(opts.BuildToolsOnly,
			"Install only the build tools instead of the full Visual Studio?", true)
		if err != nil {
			return err
		}
		return r.provisionVS(ctx, m, buildToolsOnly)
	}

	prefix, err := r.resolvePath(opts.WinePrefix, "Where should the Wine prefix live?")
	if err != nil {
		return err
	}
	return r.provisionWine(ctx, m, prefix)
}

// resolve turns a tri-state decision into a boolean, asking interactively
// only when the flags left it open.
func (r *runner) resolve(t config.TriState, question string, def bool) (bool, error) {
	if t.Resolved() {
		return t.Bool(), nil
	}
	a, err := r.ask()
	if err != nil {
		return false, err
	}
	return a.Confirm(question, def)
}

// resolvePath returns the flag-supplied path, or prompts for one, and
// canonicalizes either to an absolute symlink-free form.
func (r *runner) resolvePath(flagValue, question string) (string, error) {
	path := flagValue
	if path == "" {
		a, err := r.ask()
		if err != nil {
			return "", err
		}
		path, err = a.AskPath(question)
		if err != nil {
			return "", err
		}
	}
	return fsutil.CanonicalPath(path)
}

func (r *runner) ask() (asker, error) {
	if r.prompter == nil {
		a, err := r.newAsker()
		if err != nil {
			return nil, err
		}
		r.prompter = a
	}
	return r.prompter, nil
}

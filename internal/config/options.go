package config

import "fmt"

// TriState is a decision that may still be undecided. Flags resolve a
// decision up front; anything left Unset is asked interactively before the
// corresponding provisioning step runs.
type TriState int

const (
	Unset TriState = iota
	Yes
	No
)

// Resolved reports whether the decision has been made.
func (t TriState) Resolved() bool { return t != Unset }

// Bool converts a resolved decision to a plain boolean. Calling it on an
// Unset value is a programming error and always returns false.
func (t TriState) Bool() bool { return t == Yes }

// Options is the invocation configuration resolved from the argument
// vector. It is built once by ParseArgs and then threaded, read-only,
// through the provisioning pipeline. Decisions the flags did not settle
// stay Unset and are answered by interactive prompts later.
type Options struct {
	InstallSDK     TriState // clone the repository set and fetch the game archive
	InstallTools   TriState // provision a compiler toolchain (native or Wine)
	BuildToolsOnly TriState // Yes: build-tools bootstrapper, No: full Visual Studio

	InstallDir   string // SDK install directory, empty until flag or prompt supplies it
	WinePrefix   string // Wine prefix directory, empty until flag or prompt supplies it
	ManifestPath string // optional YAML manifest overriding the built-in repository set

	NoColour bool
	Debug    bool
	ShowHelp bool
}

// UsageError is a command-line usage problem: an unknown flag or a flag
// missing its value. The process exits with code 2 and the error text, and
// performs no provisioning.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

// ExitError carries an explicit process exit code alongside the underlying
// error. Errors without one exit with the default code 1.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// ParseArgs consumes the full argument vector (without the program name)
// and resolves it into Options. Every flag may be repeated; the last
// occurrence wins. An unrecognized token terminates parsing immediately.
func ParseArgs(args []string) (Options, error) {
	var opts Options

	// Help wins over everything else on the line, including flags that
	// would otherwise be usage errors.
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			opts.ShowHelp = true
			return opts, nil
		}
	}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-nc", "--no-colour":
			opts.NoColour = true
		case "-d", "--debug":
			opts.Debug = true
		case "-s", "--sdk":
			opts.InstallSDK = Yes
		case "-ns", "--no-sdk":
			opts.InstallSDK = No
		case "-t", "--tools":
			opts.InstallTools = Yes
		case "-nt", "--no-tools":
			opts.InstallTools = No
		case "-b", "--build-tools":
			opts.BuildToolsOnly = Yes
		case "-vs", "--visual-studio":
			opts.BuildToolsOnly = No
		case "-i", "--install-dir":
			v, err := flagValue(args, &i)
			if err != nil {
				return opts, err
			}
			opts.InstallDir = v
		case "-w", "--wine-prefix":
			v, err := flagValue(args, &i)
			if err != nil {
				return opts, err
			}
			opts.WinePrefix = v
		case "-m", "--manifest":
			v, err := flagValue(args, &i)
			if err != nil {
				return opts, err
			}
			opts.ManifestPath = v
		default:
			return opts, &UsageError{Msg: "Invalid parameter was provided: " + args[i]}
		}
	}
	return opts, nil
}

// flagValue consumes the value following a value-taking flag, advancing the
// parse index past it.
func flagValue(args []string, i *int) (string, error) {
	if *i+1 >= len(args) {
		return "", &UsageError{Msg: fmt.Sprintf("Missing value for parameter: %s", args[*i])}
	}
	*i++
	return args[*i], nil
}

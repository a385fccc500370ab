package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/coregx/regrep"
	"github.com/coregx/regrep/grep"
)

// Exit statuses.
const (
	exitMatch   = 0
	exitNoMatch = 1
	exitTrouble = 2
)

const usageLine = "Usage: regrep [flags] PATTERN [FILE...]"

// envPrefix prefixes environment variables, e.g. REGREP_INVERT_MATCH.
const envPrefix = "REGREP"

// run executes one invocation and returns the exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	status := exitMatch
	cmd := newRootCmd(stdin, stdout, stderr, &status)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(stderr, "regrep: %v\n", err)
		return exitTrouble
	}
	return status
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer, status *int) *cobra.Command {
	conf := viper.New()
	cmd := &cobra.Command{
		Use:   "regrep [flags] PATTERN [FILE...]",
		Short: "regrep: print lines that match a pattern",
		Long: `
regrep searches each FILE, or standard input when no FILE is given, for lines
that match PATTERN and prints them.

Patterns support literals, '.', [classes], \d \w \s (and \D \W \S), anchors ^ and $,
alternation, (groups), (?:groups), the greedy quantifiers ? + * and backreferences \1..\N.

Every flag can also be set in the file named by --config or through an environment
variable such as REGREP_INVERT_MATCH=true (prefix REGREP_, dashes become underscores).
`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := runSearch(cmd.Context(), conf, args, stdin, stdout, stderr)
			*status = code
			return err
		},
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Wrap(err, usageLine)
	})

	f := cmd.Flags()
	addFlags(f)
	if err := conf.BindPFlags(f); err != nil {
		panic(err)
	}
	conf.SetEnvPrefix(envPrefix)
	conf.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	conf.AutomaticEnv()
	return cmd
}

// addFlags defines every command line flag.
func addFlags(f *flag.FlagSet) {
	// -h selects --no-filename as in grep, so help gets no shorthand.
	f.Bool("help", false, "Show this help.")
	f.BoolP("extended-regexp", "E", false, "Accepted for compatibility; patterns are always extended.")
	f.StringP("regexp", "e", "", "Use PATTERN as the pattern.")
	f.BoolP("recursive", "r", false, "Search directories recursively.")
	f.BoolP("invert-match", "v", false, "Select non-matching lines.")
	f.BoolP("count", "c", false, "Print only a count of selected lines per file.")
	f.BoolP("only-matching", "o", false, "Print only the matched parts of a line.")
	f.BoolP("line-number", "n", false, "Prefix each line with its line number.")
	f.BoolP("with-filename", "H", false, "Print the file name for each match.")
	f.BoolP("no-filename", "h", false, "Never print file names.")
	f.BoolP("quiet", "q", false, "Print nothing; exit 0 on the first match.")
	f.String("color", "auto", "Highlight matches: auto, always or never.")
	f.Lookup("color").NoOptDefVal = "auto"
	f.IntP("workers", "j", runtime.GOMAXPROCS(0), "Number of files searched concurrently.")
	f.Bool("crlf", false, "Treat CRLF as the line terminator.")
	f.Bool("no-prefilter", false, "Disable literal prefilters.")
	f.String("config", "",
		"Configuration file. Takes precedence over default values, but is "+
			"overridden to values set with environment variables and flags.")
	f.String("log-level", "warn", "Log level: debug, info, warn or error.")
}

// runSearch compiles the pattern and runs the search. It returns the exit
// status and, for trouble, the error to print.
func runSearch(ctx context.Context, conf *viper.Viper, args []string, stdin io.Reader,
	stdout, stderr io.Writer) (int, error) {
	if cfg := conf.GetString("config"); cfg != "" {
		conf.SetConfigFile(cfg)
		if err := conf.ReadInConfig(); err != nil {
			return exitTrouble, errors.Wrapf(err, "while reading config %s", cfg)
		}
	}

	logger, err := newLogger(conf.GetString("log-level"), stderr)
	if err != nil {
		return exitTrouble, err
	}
	defer func() {
		_ = logger.Sync()
	}()

	pattern, paths, err := patternAndPaths(conf, args)
	if err != nil {
		return exitTrouble, err
	}

	config := regrep.DefaultConfig()
	config.EnablePrefilter = !conf.GetBool("no-prefilter")
	re, err := regrep.CompileWithConfig(pattern, config)
	if err != nil {
		return exitTrouble, err
	}
	logger.Debug("compiled pattern",
		zap.String("pattern", pattern),
		zap.Int("groups", re.NumSubexp()),
		zap.Stringer("strategy", re.Strategy()))

	opts, err := searchOptions(conf, stdout)
	if err != nil {
		return exitTrouble, err
	}
	opts.Stderr = stderr

	sum, err := grep.New(re, opts, logger).Run(ctx, paths, stdin, stdout)
	if err != nil {
		return exitTrouble, err
	}
	return exitStatus(sum, opts.Quiet), nil
}

// patternAndPaths takes the pattern from -e or the first argument.
func patternAndPaths(conf *viper.Viper, args []string) (string, []string, error) {
	if conf.IsSet("regexp") {
		return conf.GetString("regexp"), args, nil
	}
	if len(args) == 0 {
		return "", nil, errors.New(usageLine)
	}
	return args[0], args[1:], nil
}

// searchOptions maps flags onto grep.Options.
func searchOptions(conf *viper.Viper, stdout io.Writer) (grep.Options, error) {
	opts := grep.Options{
		Invert:       conf.GetBool("invert-match"),
		Count:        conf.GetBool("count"),
		OnlyMatching: conf.GetBool("only-matching"),
		LineNumbers:  conf.GetBool("line-number"),
		Quiet:        conf.GetBool("quiet"),
		Recursive:    conf.GetBool("recursive"),
		Workers:      conf.GetInt("workers"),
		StripCR:      conf.GetBool("crlf"),
	}
	switch {
	case conf.GetBool("no-filename"):
		opts.WithFilename = grep.FilenameNever
	case conf.GetBool("with-filename"):
		opts.WithFilename = grep.FilenameAlways
	}

	switch mode := conf.GetString("color"); mode {
	case "always":
		opts.Color = true
	case "never":
	case "auto", "":
		opts.Color = isTerminal(stdout)
	default:
		return opts, errors.Errorf("invalid --color value %q", mode)
	}
	return opts, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// exitStatus follows grep: trouble wins unless a quiet run found a match.
func exitStatus(sum grep.Summary, quiet bool) int {
	switch {
	case quiet && sum.Matched > 0:
		return exitMatch
	case sum.Errors > 0:
		return exitTrouble
	case sum.Matched > 0:
		return exitMatch
	default:
		return exitNoMatch
	}
}

// newLogger builds a console logger writing to w at level.
func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid --log-level")
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), lvl)
	return zap.New(core).Named("regrep"), nil
}

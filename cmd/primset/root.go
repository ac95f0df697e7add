package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
	"unicode"

	"github.com/Masterminds/sprig"
	"github.com/cyraxred/primset"
	"github.com/cyraxred/primset/internal/core"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// envPrefix is prepended to the upper-cased flag names to form the environment variables.
const envPrefix = "PRIMSET"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "primset",
	Short: "Exercise the primitive-keyed ordered sets.",
	Long: `primset stores unique integer keys in an arena-backed red-black tree. The commands
run randomized workloads against it and load sorted sequences in bulk. Every flag can
also be set through the environment, e.g. PRIMSET_TRIALS=8 for --trials.`,
}

// versionCmd prints the API version and the Git commit hash
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information and exit.",
	Long:  ``,
	Args:  cobra.MaximumNArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "Version: %d\nGit:     %s\n", primset.BinaryVersion, primset.BinaryGitHash)
	},
}

// bindFlags makes the flags of the command readable through viper, with the
// environment taking over the defaults.
func bindFlags(flags *pflag.FlagSet) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}
	return v
}

// addCommonFlags registers the flags shared by all the commands which build sets.
func addCommonFlags(flags *pflag.FlagSet) {
	flags.String("coloring", primset.ColoringBalanced.String(),
		"Level coloring of the bulk rebuilds: add, remove or balanced.")
	flags.String("template", "", "Path to the text/template file which renders the report "+
		"instead of the default YAML. Sprig functions are available.")
}

// newLogger builds the logger which receives the compaction events.
// format is either "zap" or "plain".
func newLogger(format string, verbose bool) (primset.Logger, error) {
	switch format {
	case "plain":
		// stdout carries the report
		logger := core.NewLogger()
		logger.I.SetOutput(os.Stderr)
		logger.W.SetOutput(os.Stderr)
		if !verbose {
			logger.I.SetOutput(io.Discard)
		}
		return logger, nil
	case "zap", "":
	default:
		return nil, errors.Errorf("unknown log format %q, must be one of zap, plain", format)
	}
	var logger *zap.Logger
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		logger, err = config.Build()
	}
	if err != nil {
		return nil, err
	}
	return primset.NewZapLogger(logger), nil
}

// syncLogger flushes the buffered log entries if the logger supports it.
func syncLogger(logger primset.Logger) {
	if syncer, ok := logger.(interface{ Sync() error }); ok {
		_ = syncer.Sync()
	}
}

// loadTemplate reads the report template; the empty path means the default YAML.
func loadTemplate(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	actual, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}
	text, err := os.ReadFile(actual)
	if err != nil {
		return "", err
	}
	return string(text), nil
}

// trimRightSpace removes the trailing whitespace characters.
func trimRightSpace(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// rpad adds padding to the right of a string.
func rpad(s string, padding int) string {
	return fmt.Sprintf(fmt.Sprintf("%%-%ds", padding), s)
}

// tmpl was adapted from cobra/cobra.go
func tmpl(w io.Writer, text string, data interface{}) error {
	var templateFuncs = template.FuncMap{
		"trim":                    strings.TrimSpace,
		"trimRightSpace":          trimRightSpace,
		"trimTrailingWhitespaces": trimRightSpace,
		"rpad":                    rpad,
		"gt":                      cobra.Gt,
		"eq":                      cobra.Eq,
	}
	for k, v := range sprig.TxtFuncMap() {
		templateFuncs[k] = v
	}
	t := template.New("top")
	t.Funcs(templateFuncs)
	if _, err := t.Parse(text); err != nil {
		return err
	}
	return t.Execute(w, data)
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(sortCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

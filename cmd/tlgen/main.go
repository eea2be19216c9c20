package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"tlgen/internal/bench"
	"tlgen/internal/eqn"
	"tlgen/internal/format"
	"tlgen/internal/settings"
	"tlgen/internal/tlcd"
)

// command describes a CLI subcommand.
type command struct {
	name  string
	short string
	usage string
	long  string
	run   func(args []string) error
}

var commands = []command{
	{
		name:  "export",
		short: "Write a netlist as a threshold-logic circuit description",
		usage: "tlgen export [--format name] [--root dir] [-q] <input> <output>",
		long: `Read a netlist (.bench or .eqn) and write it in the TLCD format.

Every gate must be a threshold function of at most six inputs. Object
names must not start with 0 or 1 and must not contain ( ) ! * +; if one
does, nothing is written. Latches are counted in the header but only the
combinational part is written.

Flags:
  --format name   reader to use regardless of the input extension
  --root dir      directory holding .tlgen/settings.yaml (default ".")
  -q, --quiet     no progress bar
`,
		run: runExport,
	},
	{
		name:  "batch",
		short: "Export every netlist matching a glob",
		usage: "tlgen batch [--format name] [--root dir] <glob> <outdir>",
		long: `Export every file matching <glob> (** crosses directories) to
<outdir>/<name>.tlcd. Inputs that would write the same output file (for
example a/x.bench and b/x.eqn) are all reported as failures. Failures are
reported and the remaining files are still exported.
`,
		run: runBatch,
	},
	{
		name:  "inspect",
		short: "Summarize a TLCD file as YAML",
		usage: "tlgen inspect [--gates] <file.tlcd>",
		long: `Parse a TLCD file, check its section sizes against the header and
print a YAML summary. With --gates every gate line is listed, weights in
fanin order.
`,
		run: runInspect,
	},
	{
		name:  "config",
		short: "Edit .tlgen/settings.yaml interactively",
		usage: "tlgen config [root]",
		long: `Prompt for the generator name, timestamp format, log level and
progress bar setting and write <root>/.tlgen/settings.yaml. An empty
answer keeps the current value.
`,
		run: runConfig,
	},
}

// readers is the registry of available netlist readers.
var readers = format.NewRegistry(bench.Reader{}, eqn.Reader{})

// Swapped by tests.
var (
	appFs  afero.Fs  = afero.NewOsFs()
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "tlgen - threshold-logic circuit export\n\n")
	fmt.Fprintf(w, "Usage:\n  tlgen <command> [arguments]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", cmd.name, cmd.short)
	}
	fmt.Fprintf(w, "\nRun 'tlgen help <command>' for details on a specific command.\n")
}

func printCommandHelp(w io.Writer, name string) {
	for _, cmd := range commands {
		if cmd.name == name {
			fmt.Fprintf(w, "Usage: %s\n\n%s", cmd.usage, cmd.long)
			return
		}
	}
	fmt.Fprintf(w, "tlgen: unknown command %q\n\nRun 'tlgen help' for usage.\n", name)
}

func dispatch(args []string) error {
	if len(args) == 0 || args[0] == "--help" || args[0] == "-h" {
		printUsage(stdout)
		return nil
	}
	if args[0] == "help" {
		if len(args) >= 2 {
			printCommandHelp(stdout, args[1])
		} else {
			printUsage(stdout)
		}
		return nil
	}
	for _, cmd := range commands {
		if cmd.name == args[0] {
			return cmd.run(args[1:])
		}
	}
	return fmt.Errorf("unknown command %q\n\nRun 'tlgen help' for usage.", args[0])
}

// ---------------------------------------------------------------------------
// shared setup
// ---------------------------------------------------------------------------

// env is what every export needs: settings, a logger and the readers.
type env struct {
	set    *settings.Settings
	log    *logrus.Logger
	forced string
	quiet  bool
}

// exportFlags registers the flags shared by export and batch.
func exportFlags(name string) (*pflag.FlagSet, *string, *string, *bool) {
	fl := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fl.SetOutput(io.Discard)
	forced := fl.String("format", "", "reader to use regardless of extension")
	root := fl.String("root", ".", "directory holding .tlgen/settings.yaml")
	quiet := fl.BoolP("quiet", "q", false, "no progress bar")
	return fl, forced, root, quiet
}

func newEnv(root, forced string, quiet bool) (*env, error) {
	set, err := settings.Load(appFs, root)
	if err != nil {
		return nil, err
	}
	if forced != "" {
		if _, ok := readers[forced]; !ok {
			return nil, fmt.Errorf("unknown format %q (known formats: %s)", forced, strings.Join(readers.Names(), ", "))
		}
	}
	log := logrus.New()
	log.Out = stderr
	log.SetLevel(set.Level())
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return &env{set: set, log: log, forced: forced, quiet: quiet}, nil
}

func (e *env) reader(input string) (format.Reader, error) {
	if e.forced != "" {
		return readers[e.forced], nil
	}
	return readers.ForPath(input, e.set.FormatOverrides())
}

// exportFile reads input and writes its TLCD rendering to output.
func (e *env) exportFile(input, output string) error {
	r, err := e.reader(input)
	if err != nil {
		return err
	}
	f, err := appFs.Open(input)
	if err != nil {
		return fmt.Errorf("open %s: %w", input, err)
	}
	ntk, err := r.Read(f, format.NetworkName(input))
	f.Close()
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	opts := tlcd.Options{
		Tool:       e.set.ToolName(),
		TimeFormat: e.set.TimeFormat(),
		Logger:     e.log.WithField("input", input),
	}
	if !e.quiet && e.set.ShowProgress() && isTerminal(stderr) {
		bar := newProgressBar(stderr, ntk.Name)
		opts.Progress = bar.update
		defer bar.finish()
	}
	return tlcd.Export(appFs, ntk, output, opts)
}

// ---------------------------------------------------------------------------
// export
// ---------------------------------------------------------------------------

func runExport(args []string) error {
	const usage = "usage: tlgen export [--format name] [--root dir] [-q] <input> <output>"
	fl, forced, root, quiet := exportFlags("export")
	if err := fl.Parse(args); err != nil {
		return fmt.Errorf("%v\n%s", err, usage)
	}
	if fl.NArg() != 2 {
		return errors.New(usage)
	}
	e, err := newEnv(*root, *forced, *quiet)
	if err != nil {
		return err
	}
	input, output := fl.Arg(0), fl.Arg(1)
	if err := e.exportFile(input, output); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s\n", output)
	return nil
}

// ---------------------------------------------------------------------------
// batch
// ---------------------------------------------------------------------------

func runBatch(args []string) error {
	const usage = "usage: tlgen batch [--format name] [--root dir] <glob> <outdir>"
	fl, forced, root, quiet := exportFlags("batch")
	if err := fl.Parse(args); err != nil {
		return fmt.Errorf("%v\n%s", err, usage)
	}
	if fl.NArg() != 2 {
		return errors.New(usage)
	}
	e, err := newEnv(*root, *forced, *quiet)
	if err != nil {
		return err
	}
	pattern, outDir := fl.Arg(0), fl.Arg(1)

	inputs, err := globFiles(appFs, pattern)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		fmt.Fprintf(stdout, "no files match %q\n", pattern)
		return nil
	}
	if err := appFs.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", outDir, err)
	}

	claims := outputClaims(inputs, outDir)
	var failed int
	for _, input := range inputs {
		output := batchOutput(input, outDir)
		if owners := claims[output]; len(owners) > 1 {
			e.log.WithField("input", input).Errorf("output %s is shared by %s", output, strings.Join(owners, ", "))
			failed++
			continue
		}
		if err := e.exportFile(input, output); err != nil {
			e.log.WithField("input", input).Error(err)
			failed++
			continue
		}
		fmt.Fprintf(stdout, "  %s → %s\n", input, output)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(inputs))
	}
	return nil
}

// batchOutput is the file batch writes for input.
func batchOutput(input, outDir string) string {
	return filepath.Join(outDir, format.NetworkName(input)+".tlcd")
}

// outputClaims groups inputs by output path. An output with more than one
// input is a collision; none of those inputs is exported.
func outputClaims(inputs []string, outDir string) map[string][]string {
	claims := make(map[string][]string, len(inputs))
	for _, input := range inputs {
		output := batchOutput(input, outDir)
		claims[output] = append(claims[output], input)
	}
	return claims
}

// globFiles returns the regular files matching a doublestar pattern, in
// walk order.
func globFiles(fs afero.Fs, pattern string) ([]string, error) {
	pattern = filepath.ToSlash(pattern)
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}
	base, _ := doublestar.SplitPattern(pattern)
	var matches []string
	err := afero.Walk(fs, filepath.FromSlash(base), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ok, err := doublestar.Match(pattern, filepath.ToSlash(path))
		if err != nil {
			return err
		}
		if ok {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	return matches, nil
}

// ---------------------------------------------------------------------------
// inspect
// ---------------------------------------------------------------------------

// summary is what inspect prints.
type summary struct {
	File    string      `yaml:"file"`
	Comment string      `yaml:"comment,omitempty"`
	Header  tlcd.Header `yaml:"header"`
	Inputs  []string    `yaml:"inputs"`
	Outputs []string    `yaml:"outputs"`
	Gates   []tlcd.Gate `yaml:"gates,omitempty"`
}

func runInspect(args []string) error {
	const usage = "usage: tlgen inspect [--gates] <file.tlcd>"
	fl := pflag.NewFlagSet("inspect", pflag.ContinueOnError)
	fl.SetOutput(io.Discard)
	gates := fl.Bool("gates", false, "list every gate")
	if err := fl.Parse(args); err != nil {
		return fmt.Errorf("%v\n%s", err, usage)
	}
	if fl.NArg() != 1 {
		return errors.New(usage)
	}
	path := fl.Arg(0)

	f, err := appFs.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	file, err := tlcd.Parse(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	out := summary{
		File:    path,
		Comment: file.Comment,
		Header:  file.Header,
		Inputs:  file.Inputs,
		Outputs: file.Outputs,
	}
	if *gates {
		out.Gates = file.Gates
	}
	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return enc.Close()
}

// ---------------------------------------------------------------------------
// config
// ---------------------------------------------------------------------------

func runConfig(args []string) error {
	root := "."
	if len(args) > 1 {
		return errors.New("usage: tlgen config [root]")
	}
	if len(args) == 1 {
		root = args[0]
	}
	cur, err := settings.Load(appFs, root)
	if err != nil {
		return err
	}
	answers, err := promptQuestions(configQuestions(cur))
	if err != nil {
		return fmt.Errorf("prompt: %w", err)
	}
	next, err := applyAnswers(cur, answers)
	if err != nil {
		return err
	}
	if err := next.Save(appFs, root); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s\n", settings.Path(root))
	return nil
}

func main() {
	if err := dispatch(os.Args[1:]); err != nil {
		fmt.Fprintf(stderr, "tlgen: %v\n", err)
		os.Exit(1)
	}
}

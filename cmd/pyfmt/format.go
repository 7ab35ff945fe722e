package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"pyfmt/internal/diag"
	"pyfmt/internal/diagfmt"
	"pyfmt/internal/driver"
	"pyfmt/internal/mode"
	"pyfmt/internal/observ"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] <path> [path...]",
	Short: "Format Python source files",
	Long: `Format rewrites the given files and every *.py and *.pyi file found in the
given directories. Each changed file is parsed again and compared with the
original, so a reformat never changes what the program means.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFmt,
}

func init() {
	fmtCmd.Flags().Bool("check", false, "don't write the files back, exit with 1 if some would change")
	fmtCmd.Flags().Bool("diff", false, "don't write the files back, print a diff for each file that would change")
	fmtCmd.Flags().Bool("stdout", false, "print formatted code to stdout instead of rewriting files")
	fmtCmd.Flags().Bool("fast", false, "skip the equivalence and stability checks")
	fmtCmd.Flags().Int("jobs", 0, "number of files formatted in parallel (0 = GOMAXPROCS)")
	fmtCmd.Flags().StringSlice("target-version", nil, "Python versions the output must support (py33..py313)")
	fmtCmd.Flags().Bool("skip-string-normalization", false, "don't normalize string prefixes")
	fmtCmd.Flags().Bool("no-cache", false, "ignore and don't update the on-disk cache")
	fmtCmd.Flags().Bool("clear-cache", false, "drop every cached entry before formatting")
	fmtCmd.Flags().String("exclude", "", "regular expression of directories to skip")
	fmtCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	fmtCmd.Flags().String("format", "text", "output format (text|json)")
}

// fmtSettings is the merged result of pyproject.toml and command line flags.
type fmtSettings struct {
	opts         driver.FormatOptions
	outputFormat string
	ui           uiMode
	quiet        bool
	timings      bool
	color        bool
	noCache      bool
	clearCache   bool
}

func readFmtSettings(cmd *cobra.Command, cfg *loadedConfig) (*fmtSettings, error) {
	flags := cmd.Flags()
	s := &fmtSettings{}
	var err error

	if s.opts.Check, err = flags.GetBool("check"); err != nil {
		return nil, err
	}
	if s.opts.Diff, err = flags.GetBool("diff"); err != nil {
		return nil, err
	}
	if s.opts.Stdout, err = flags.GetBool("stdout"); err != nil {
		return nil, err
	}
	if s.noCache, err = flags.GetBool("no-cache"); err != nil {
		return nil, err
	}
	if s.clearCache, err = flags.GetBool("clear-cache"); err != nil {
		return nil, err
	}
	if s.outputFormat, err = flags.GetString("format"); err != nil {
		return nil, err
	}
	uiFlag, err := flags.GetString("ui")
	if err != nil {
		return nil, err
	}
	if s.ui, err = readUIMode(uiFlag); err != nil {
		return nil, err
	}

	// Флаги перекрывают pyproject.toml
	s.opts.Fast = cfg.Config.Fast
	if flags.Changed("fast") {
		if s.opts.Fast, err = flags.GetBool("fast"); err != nil {
			return nil, err
		}
	}
	s.opts.Jobs = cfg.Config.Jobs
	if flags.Changed("jobs") {
		if s.opts.Jobs, err = flags.GetInt("jobs"); err != nil {
			return nil, err
		}
	}
	s.opts.Options.SkipStringNormalization = cfg.Config.SkipStringNormalization
	if flags.Changed("skip-string-normalization") {
		if s.opts.Options.SkipStringNormalization, err = flags.GetBool("skip-string-normalization"); err != nil {
			return nil, err
		}
	}
	s.opts.Options.TargetVersions = cfg.Targets
	if flags.Changed("target-version") {
		items, err := flags.GetStringSlice("target-version")
		if err != nil {
			return nil, err
		}
		if s.opts.Options.TargetVersions, err = mode.ParseTargetVersions(items); err != nil {
			return nil, err
		}
	}
	s.opts.Exclude = cfg.Exclude
	if flags.Changed("exclude") {
		if s.opts.Exclude, err = compileExclude(flags.Lookup("exclude").Value.String()); err != nil {
			return nil, err
		}
	}
	if !cfg.cacheEnabled() {
		s.noCache = true
	}

	root := cmd.Root().PersistentFlags()
	if s.opts.MaxDiagnostics, err = root.GetInt("max-diagnostics"); err != nil {
		return nil, err
	}
	if s.quiet, err = root.GetBool("quiet"); err != nil {
		return nil, err
	}
	if s.timings, err = root.GetBool("timings"); err != nil {
		return nil, err
	}
	if s.color, err = useColor(cmd, os.Stderr); err != nil {
		return nil, err
	}

	switch {
	case s.opts.Stdout && (s.opts.Check || s.opts.Diff):
		return nil, fmt.Errorf("fmt: --stdout cannot be used with --check or --diff")
	case s.opts.Stdout && s.outputFormat != "text":
		return nil, fmt.Errorf("fmt: --stdout is only supported with text output")
	case s.outputFormat != "text" && s.outputFormat != "json":
		return nil, fmt.Errorf("fmt: unsupported output format %q", s.outputFormat)
	}
	return s, nil
}

func runFmt(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig(".")
	if err != nil {
		return err
	}
	s, err := readFmtSettings(cmd, cfg)
	if err != nil {
		return err
	}
	if s.timings {
		s.opts.Timer = observ.NewTimer()
	}
	if !s.noCache {
		cache, err := driver.OpenDiskCache("pyfmt")
		if err != nil {
			fmt.Fprintf(os.Stderr, "fmt: cache disabled: %v\n", err)
		} else {
			if s.clearCache {
				if err := cache.DropAll(); err != nil {
					return fmt.Errorf("fmt: failed to clear cache: %w", err)
				}
			}
			s.opts.Cache = cache
		}
	}

	var results []driver.FormatResult
	if shouldUseTUI(s.ui, s.opts.Stdout || s.opts.Diff || s.outputFormat != "text") {
		results, err = runFormatWithUI(cmd.Context(), args, s.opts)
	} else {
		results, err = driver.FormatPaths(cmd.Context(), args, s.opts)
	}
	if err != nil {
		if errors.Is(err, driver.ErrNoSourceFiles) {
			if !s.quiet {
				fmt.Fprintln(os.Stderr, "No Python files are present to be formatted. Nothing to do 😴")
			}
			return nil
		}
		return err
	}

	summary := driver.Summarize(results, s.opts.Check || s.opts.Diff)
	switch s.outputFormat {
	case "json":
		if err := renderFmtJSON(os.Stdout, results, summary); err != nil {
			return err
		}
	default:
		renderFmtText(os.Stdout, os.Stderr, results, s)
		if !s.quiet {
			fmt.Fprintln(os.Stderr, summaryLine(summary))
		}
	}
	if s.opts.Timer != nil {
		bag := diag.NewBag(1)
		bag.Add(driver.TimingDiagnostic("fmt", "", len(results), s.opts.Timer.Report()))
		diagfmt.Pretty(os.Stderr, bag, nil, diagfmt.PrettyOpts{Color: s.color, Context: -1})
		fmt.Fprint(os.Stderr, s.opts.Timer.Summary())
	}

	if code := summary.ReturnCode(); code != 0 {
		cmd.SilenceErrors = true
		return &exitError{code: code}
	}
	return nil
}

func summaryLine(s driver.Summary) string {
	head := "All done! ✨ 🍰 ✨"
	if s.Failed > 0 {
		head = "Oh no! 💥 💔 💥"
	}
	return head + "\n" + s.String()
}

func renderFmtText(stdout, stderr io.Writer, results []driver.FormatResult, s *fmtSettings) {
	pretty := diagfmt.PrettyOpts{
		Color:     s.color,
		Context:   1,
		PathMode:  diagfmt.PathModeAuto,
		ShowNotes: true,
	}
	for _, res := range results {
		if res.Bag != nil && res.Bag.Len() > 0 {
			res.Bag.Sort()
			diagfmt.Pretty(stderr, res.Bag, res.FileSet, pretty)
		}
		if res.Err != nil {
			if res.Bag == nil || res.Bag.Len() == 0 {
				fmt.Fprintf(stderr, "error: cannot format %s: %v\n", res.Path, res.Err)
			}
			continue
		}
		switch {
		case s.opts.Stdout:
			_, _ = stdout.Write(res.Formatted)
		case s.opts.Diff:
			if res.Diff != "" {
				fmt.Fprint(stdout, res.Diff)
			}
		case s.quiet:
		case res.Changed && s.opts.Check:
			fmt.Fprintf(stderr, "would reformat %s\n", res.Path)
		case res.Changed:
			fmt.Fprintf(stderr, "reformatted %s\n", res.Path)
		}
	}
}

type fmtJSONResult struct {
	Path        string   `json:"path"`
	Changed     bool     `json:"changed"`
	Cached      bool     `json:"cached,omitempty"`
	Lines       int      `json:"lines,omitempty"`
	ElapsedMS   float64  `json:"elapsed_ms"`
	Error       string   `json:"error,omitempty"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}

type fmtJSONPayload struct {
	Check   bool            `json:"check"`
	Summary string          `json:"summary"`
	Code    int             `json:"code"`
	Files   []fmtJSONResult `json:"files"`
}

func renderFmtJSON(w io.Writer, results []driver.FormatResult, summary driver.Summary) error {
	payload := fmtJSONPayload{
		Check:   summary.CheckOnly,
		Summary: summary.String(),
		Code:    summary.ReturnCode(),
		Files:   make([]fmtJSONResult, 0, len(results)),
	}
	for _, res := range results {
		jr := fmtJSONResult{
			Path:      res.Path,
			Changed:   res.Changed,
			Cached:    res.Cached,
			Lines:     res.Lines,
			ElapsedMS: float64(res.Elapsed.Microseconds()) / 1000,
		}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		}
		if res.Bag != nil {
			for _, d := range res.Bag.Items() {
				jr.Diagnostics = append(jr.Diagnostics, d.Code.ID()+": "+d.Message)
			}
		}
		payload.Files = append(payload.Files, jr)
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

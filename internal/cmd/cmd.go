package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/philipparndt/parambatch/internal/batch"
	"github.com/philipparndt/parambatch/internal/config"
	"github.com/philipparndt/parambatch/internal/document"
	"github.com/philipparndt/parambatch/internal/inspect"
	"github.com/philipparndt/parambatch/internal/logging"
	"github.com/philipparndt/parambatch/internal/occt"
	"github.com/philipparndt/parambatch/internal/preconditions"
	"github.com/philipparndt/parambatch/internal/ui"
	"github.com/philipparndt/parambatch/version"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

var errBatchFailed = errors.New("batch finished with failures")

type CLI struct {
	LogLevel  string `help:"Log level (debug, info, warn, error)" default:"info" env:"PARAMBATCH_LOG_LEVEL"`
	LogFormat string `help:"Log format (console, json)" default:"console" env:"PARAMBATCH_LOG_FORMAT"`
	Verbose   bool   `help:"Print every step instead of a progress bar" short:"v"`

	Run        *RunCmd        `cmd:"" help:"Export every model of a batch file as STEP and optionally post G-code"`
	Validate   *ValidateCmd   `cmd:"" help:"Check a batch file without exporting"`
	Inspect    *InspectCmd    `cmd:"" help:"Show the parameters and CAM setup of a design"`
	Completion *CompletionCmd `cmd:"" help:"Generate shell completion script"`
	Version    *VersionCmd    `cmd:"" help:"Show version information"`
}

// AfterApply configures logging before any command runs
func (cli *CLI) AfterApply() error {
	if _, err := logging.Setup(logging.Config{Level: cli.LogLevel, Format: cli.LogFormat}); err != nil {
		return err
	}
	ui.SetVerbose(cli.Verbose)
	return nil
}

type RunCmd struct {
	Batch  string `arg:"" help:"Batch file (JSON, JSON5 or YAML)"`
	Design string `help:"Design document (YAML)" short:"d" env:"PARAMBATCH_DESIGN"`
	Report string `help:"Write a JSON report to this file" short:"r"`
	STL    bool   `help:"Also export STL meshes next to the STEP files" name:"stl"`
}

// Help adds additional help text with examples
func (c *RunCmd) Help() string {
	return renderRunHelp()
}

func (c *RunCmd) Run() error {
	if err := preconditions.Check(c.Design); err != nil {
		return err
	}

	design, err := document.Open(c.Design, occt.NewKernel())
	if err != nil {
		return fmt.Errorf("failed to open design: %w", err)
	}
	app := document.NewApplication(design)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := batch.NewRunner(app, log.Logger)
	runner.ExportSTL = c.STL
	runner.Progress = func(done, total int, name string) {
		if ui.IsVerbose() {
			ui.PrintInfo(fmt.Sprintf("[%d/%d] %s", done, total, name))
			return
		}
		ui.PrintProgress(done, total, name)
	}

	ui.PrintTitle("parambatch")
	ui.PrintKeyValue("Design", design.Name())
	ui.PrintKeyValue("Batch", c.Batch)

	result, err := runner.Run(ctx, c.Batch)
	if err != nil {
		return err
	}

	ui.PrintSeparator()
	ui.PrintSummary(result)

	if c.Report != "" {
		if err := batch.WriteReport(c.Report, result); err != nil {
			return err
		}
		ui.PrintKeyValue("Report", relative(c.Report))
	}

	if !result.Success {
		return errBatchFailed
	}
	return nil
}

// relative converts to a path relative to the working directory if possible
func relative(path string) string {
	rel, err := filepath.Rel(".", path)
	if err != nil {
		return path
	}
	return rel
}

type ValidateCmd struct {
	Batch string `arg:"" help:"Batch file (JSON, JSON5 or YAML)"`
	Print bool   `help:"Print the decoded batch as YAML" short:"p"`
}

func (c *ValidateCmd) Run() error {
	cfg, err := config.NewLoader().LoadBatch(c.Batch)
	if err != nil {
		return err
	}

	ui.PrintHeader(fmt.Sprintf("Validating: %s", c.Batch))
	ui.PrintKeyValue("Unit", cfg.Unit)
	ui.PrintKeyValue("Output directory", relative(cfg.OutputDirectory))
	switch {
	case cfg.CAMConfigured():
		ui.PrintKeyValue("G-code", fmt.Sprintf("%s / %s -> %s", cfg.NCProgramName, cfg.OperationName, relative(cfg.GCodeDirectory)))
	case cfg.CAMPartial():
		ui.PrintWarning("CAM configuration is incomplete, G-code posting will be skipped")
	}

	problems := 0
	for i, set := range cfg.Models {
		switch {
		case set.DecodeErr != nil:
			problems++
			ui.PrintError(fmt.Sprintf("%d. %s: %v", i+1, set.Name, set.DecodeErr))
		case len(set.Missing()) > 0:
			problems++
			ui.PrintError(fmt.Sprintf("%d. %s: missing %v", i+1, set.Name, set.Missing()))
		default:
			ui.PrintItem(fmt.Sprintf("%d. %s", i+1, set.Name))
		}
	}

	if c.Print {
		if err := printYAML(cfg); err != nil {
			return err
		}
	}

	if problems > 0 {
		return fmt.Errorf("%d of %d model(s) would fail", problems, len(cfg.Models))
	}
	ui.PrintSuccess(fmt.Sprintf("%d model(s) ready", len(cfg.Models)))
	return nil
}

func printYAML(v any) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode batch: %w", err)
	}
	enc.Close()
	return quick.Highlight(os.Stdout, buf.String(), "yaml", "terminal256", "monokai")
}

type InspectCmd struct {
	File string `arg:"" help:"Design document to inspect"`
}

func (c *InspectCmd) Run() error {
	inspector := inspect.NewInspector()
	return inspector.Inspect(c.File)
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	info := version.Get()
	fmt.Println(info.String())
	return nil
}

// Parse parses command line arguments and executes the appropriate command
func Parse() {
	// .env is optional; kong reads the env tags afterwards
	_ = godotenv.Load()

	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("parambatch"),
		kong.Description("Parametric batch exporter for STEP and G-code"),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
}

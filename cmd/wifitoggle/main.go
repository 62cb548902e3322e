// Package main provides the wifitoggle command. It keeps exactly one of the
// router and extension wifi radios on, switching between them on each run.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/entrhq/wifitoggle/pkg/config"
	"github.com/entrhq/wifitoggle/pkg/console"
	"github.com/entrhq/wifitoggle/pkg/logging"
	"github.com/entrhq/wifitoggle/pkg/orchestrator"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigFile        string
	Check             bool
	Headful           bool
	Wait              bool
	Verbose           bool
	DriverPath        string
	RouterIP          string
	RouterUsername    string
	RouterPassword    string
	ExtensionIP       string
	ExtensionPassword string
}

func main() {
	cli, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	code := run(cli, os.Stdout, os.Stdin)
	_ = logging.Shutdown()
	os.Exit(code)
}

// parseFlags registers every flag under its short and long name.
func parseFlags(fs *flag.FlagSet, args []string) (*CLIConfig, error) {
	cli := &CLIConfig{}

	boolVar := func(p *bool, short, long, usage string) {
		fs.BoolVar(p, short, false, usage)
		fs.BoolVar(p, long, false, usage+" (shorthand -"+short+")")
	}
	stringVar := func(p *string, short, long, usage string) {
		fs.StringVar(p, short, "", usage)
		fs.StringVar(p, long, "", usage+" (shorthand -"+short+")")
	}

	boolVar(&cli.Check, "c", "check", "Only check the status and report. Do not toggle.")
	boolVar(&cli.Headful, "hf", "headful", "Do not run the browser in headless mode.")
	boolVar(&cli.Wait, "w", "wait", "Wait for confirmation before exiting.")
	stringVar(&cli.DriverPath, "cdp", "chrome_driver_path", "Path to a local Chrome/Chromium binary")
	stringVar(&cli.RouterIP, "ri", "router_ip", "Router's IP address")
	stringVar(&cli.RouterUsername, "ru", "router_username", "Login username for the router")
	stringVar(&cli.RouterPassword, "rp", "router_password", "Login password for the router")
	stringVar(&cli.ExtensionIP, "ei", "extension_ip", "Extension's IP address")
	stringVar(&cli.ExtensionPassword, "ep", "extension_password", "Login password for the extension")
	fs.StringVar(&cli.ConfigFile, "config", "", "Path to configuration file (YAML, default ~/.wifitoggle/config.yaml)")
	fs.BoolVar(&cli.Verbose, "verbose", false, "Show detailed output")

	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "wifitoggle - Toggles wifi between router and extension.\n\n")
		fmt.Fprintf(out, "Usage: wifitoggle [options]\n\n")
		fmt.Fprintf(out, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nEnvironment:\n")
		fmt.Fprintf(out, "  %s, %s, %s,\n", config.EnvRouterIP, config.EnvRouterUsername, config.EnvRouterPassword)
		fmt.Fprintf(out, "  %s, %s, %s\n", config.EnvExtensionIP, config.EnvExtensionPassword, config.EnvDriverPath)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cli, nil
}

// loadConfig layers the config file, the environment and the flags, in
// increasing precedence.
func loadConfig(cli *CLIConfig, getenv func(string) string) (config.Config, error) {
	path, optional := cli.ConfigFile, false
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return config.Config{}, err
		}
		optional = true
	}

	cfg, err := config.Load(path, optional)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv(getenv)

	override := func(dst *string, value string) {
		if value != "" {
			*dst = value
		}
	}
	override(&cfg.Browser.DriverPath, cli.DriverPath)
	override(&cfg.Router.IP, cli.RouterIP)
	override(&cfg.Router.Username, cli.RouterUsername)
	override(&cfg.Router.Password, cli.RouterPassword)
	override(&cfg.Extension.IP, cli.ExtensionIP)
	override(&cfg.Extension.Password, cli.ExtensionPassword)
	if cli.Headful {
		cfg.Browser.Headful = true
	}
	if cli.Verbose {
		cfg.Logging.Verbosity = "verbose"
	}
	return cfg, nil
}

// run executes one check or toggle and returns the process exit code.
func run(cli *CLIConfig, stdout io.Writer, stdin io.Reader) int {
	code := execute(cli, stdout)
	if cli.Wait {
		fmt.Fprint(stdout, "Press Enter to continue...")
		_, _ = bufio.NewReader(stdin).ReadString('\n')
	}
	return code
}

func execute(cli *CLIConfig, stdout io.Writer) int {
	cfg, err := loadConfig(cli, os.Getenv)
	out := console.New(console.ParseLevel(cfg.Logging.Verbosity), console.WithWriter(stdout))
	if err != nil {
		out.Errorf("failed to load configuration: %v", err)
		return 1
	}

	out.Field("Router IP", cfg.Router.IP)
	out.Field("Extension IP", cfg.Extension.IP)
	if dir, err := logging.GetLogDirectory(); err == nil {
		out.Verbosef("logs: %s (run %s)", dir, logging.GetRunID())
	}

	if err := cfg.Validate(); err != nil {
		out.Errorf("invalid configuration: %v", err)
		return 1
	}

	runner := orchestrator.NewRunner(cfg, orchestrator.WithProgress(out.Progress))
	defer out.Elapsed()

	if cli.Check {
		out.Progress("Checking wifi status...")
		status, err := runner.Check()
		if err != nil {
			out.Errorf("%v", err)
			return 1
		}
		out.Result(status.Report())
		if status.Ambiguous() {
			out.Warningf("both radios are %s", status.Router)
		}
		return 0
	}

	out.Progress("Toggling wifi...")
	outcome, err := runner.Toggle()
	if err != nil {
		out.Errorf("%v", err)
		return 1
	}
	out.Result(outcome.Report())
	return 0
}

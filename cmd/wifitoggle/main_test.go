package main

import (
	"bytes"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/wifitoggle/pkg/config"
)

func parse(t *testing.T, args ...string) *CLIConfig {
	t.Helper()
	fs := flag.NewFlagSet("wifitoggle", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cli, err := parseFlags(fs, args)
	require.NoError(t, err)
	return cli
}

func TestParseFlags_ShortAndLongNames(t *testing.T) {
	short := parse(t, "-c", "-hf", "-w", "-ri", "10.0.0.1", "-ep", "pw", "-cdp", "/usr/bin/chromium")
	long := parse(t, "--check", "--headful", "--wait", "--router_ip", "10.0.0.1", "--extension_password", "pw", "--chrome_driver_path", "/usr/bin/chromium")

	assert.Equal(t, short, long)
	assert.True(t, short.Check)
	assert.True(t, short.Headful)
	assert.True(t, short.Wait)
	assert.Equal(t, "10.0.0.1", short.RouterIP)
	assert.Equal(t, "pw", short.ExtensionPassword)
	assert.Equal(t, "/usr/bin/chromium", short.DriverPath)
}

func TestParseFlags_UnknownFlag(t *testing.T) {
	fs := flag.NewFlagSet("wifitoggle", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	_, err := parseFlags(fs, []string{"-x"})
	assert.Error(t, err)
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
router:
  ip: 10.0.0.1
  username: file-user
  password: file-pass
extension:
  ip: 10.0.0.2
`), 0600))

	env := map[string]string{
		config.EnvRouterUsername:    "env-user",
		config.EnvExtensionPassword: "env-pass",
		config.EnvRouterIP:          "10.0.0.9",
	}
	cli := parse(t, "-config", path, "-ri", "192.168.1.1", "-hf", "-verbose")

	cfg, err := loadConfig(cli, func(key string) string { return env[key] })
	require.NoError(t, err)

	assert.Equal(t, "192.168.1.1", cfg.Router.IP, "flag beats env and file")
	assert.Equal(t, "env-user", cfg.Router.Username, "env beats file")
	assert.Equal(t, "file-pass", cfg.Router.Password)
	assert.Equal(t, "10.0.0.2", cfg.Extension.IP)
	assert.Equal(t, "env-pass", cfg.Extension.Password)
	assert.True(t, cfg.Browser.Headful)
	assert.Equal(t, "verbose", cfg.Logging.Verbosity)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	cli := parse(t, "-config", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := loadConfig(cli, func(string) string { return "" })
	assert.Error(t, err)
}

func TestRun_InvalidConfigStillWaits(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{
		config.EnvRouterIP, config.EnvRouterUsername, config.EnvRouterPassword,
		config.EnvExtensionIP, config.EnvExtensionPassword, config.EnvDriverPath,
	} {
		t.Setenv(key, "")
	}

	var out bytes.Buffer
	cli := parse(t, "-w", "-ri", "10.0.0.1")
	code := run(cli, &out, strings.NewReader("\n"))

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "Router IP:")
	assert.Contains(t, out.String(), "10.0.0.1")
	assert.Contains(t, out.String(), "invalid configuration: missing configuration")
	assert.True(t, strings.HasSuffix(out.String(), "Press Enter to continue..."))
}

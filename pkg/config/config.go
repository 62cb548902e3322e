package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/wifitoggle/pkg/gateway"
)

// Config is everything one run needs: where the gateways are, how to log in,
// how to drive the browser and how long to wait.
type Config struct {
	Router    RouterConfig    `yaml:"router" json:"router"`
	Extension ExtensionConfig `yaml:"extension" json:"extension"`
	Browser   BrowserConfig   `yaml:"browser" json:"browser"`
	Timeouts  TimeoutConfig   `yaml:"timeouts" json:"timeouts"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
}

// RouterConfig addresses the router console.
type RouterConfig struct {
	IP       string                 `yaml:"ip" json:"ip"`
	Username string                 `yaml:"username" json:"username"`
	Password string                 `yaml:"password" json:"-"`
	Locators gateway.RouterLocators `yaml:"locators" json:"locators"`
}

// ExtensionConfig addresses the extension console.
type ExtensionConfig struct {
	IP       string                    `yaml:"ip" json:"ip"`
	Password string                    `yaml:"password" json:"-"`
	Locators gateway.ExtensionLocators `yaml:"locators" json:"locators"`
}

// BrowserConfig configures the automated browser.
type BrowserConfig struct {
	// DriverPath points at a local Chrome/Chromium binary (optional)
	DriverPath string `yaml:"driver_path" json:"driver_path"`

	// Headful shows the browser window instead of running headless
	Headful bool `yaml:"headful" json:"headful"`
}

// TimeoutConfig bounds every wait of a run.
type TimeoutConfig struct {
	Element          time.Duration `yaml:"element" json:"element"`
	RouterConfirm    time.Duration `yaml:"router_confirm" json:"router_confirm"`
	ExtensionConfirm time.Duration `yaml:"extension_confirm" json:"extension_confirm"`
	Settle           time.Duration `yaml:"settle" json:"settle"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Verbosity controls console output: quiet, normal, verbose
	Verbosity string `yaml:"verbosity" json:"verbosity"`
}

// Environment variables read by ApplyEnv.
const (
	EnvRouterIP          = "ROUTER_IP"
	EnvRouterUsername    = "ROUTER_USERNAME"
	EnvRouterPassword    = "ROUTER_PASSWORD"
	EnvExtensionIP       = "EXTENSION_IP"
	EnvExtensionPassword = "EXTENSION_PASSWORD"
	EnvDriverPath        = "CHROME_DRIVER_PATH"
)

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Router: RouterConfig{
			Locators: gateway.DefaultRouterLocators(),
		},
		Extension: ExtensionConfig{
			Locators: gateway.DefaultExtensionLocators(),
		},
		Timeouts: TimeoutConfig{
			Element:          6 * time.Second,
			RouterConfirm:    6 * time.Second,
			ExtensionConfirm: 10 * time.Second,
			Settle:           2 * time.Second,
		},
		Logging: LoggingConfig{
			Verbosity: "normal",
		},
	}
}

// DefaultPath returns ~/.wifitoggle/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".wifitoggle", "config.yaml"), nil
}

// Load reads the YAML file at path on top of Default. A missing file is not
// an error when optional is true.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	// partial locator blocks only override what they name
	cfg.Router.Locators = cfg.Router.Locators.Merge(gateway.DefaultRouterLocators())
	cfg.Extension.Locators = cfg.Extension.Locators.Merge(gateway.DefaultExtensionLocators())
	return cfg, nil
}

// ApplyEnv overrides fields with the environment variables that are set.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Router.IP, EnvRouterIP)
	set(&c.Router.Username, EnvRouterUsername)
	set(&c.Router.Password, EnvRouterPassword)
	set(&c.Extension.IP, EnvExtensionIP)
	set(&c.Extension.Password, EnvExtensionPassword)
	set(&c.Browser.DriverPath, EnvDriverPath)
}

// Validate checks that every required value is present.
func (c *Config) Validate() error {
	var missing []string
	check := func(value, name string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	check(c.Router.IP, "router ip")
	check(c.Router.Username, "router username")
	check(c.Router.Password, "router password")
	check(c.Extension.IP, "extension ip")
	check(c.Extension.Password, "extension password")
	if len(missing) > 0 {
		return fmt.Errorf("missing configuration: %s", strings.Join(missing, ", "))
	}

	// playwright treats a zero timeout as "wait forever"
	for _, t := range []struct {
		name string
		d    time.Duration
	}{
		{"element", c.Timeouts.Element},
		{"router_confirm", c.Timeouts.RouterConfirm},
		{"extension_confirm", c.Timeouts.ExtensionConfirm},
	} {
		if t.d <= 0 {
			return fmt.Errorf("timeouts.%s must be positive, got %s", t.name, t.d)
		}
	}
	if c.Timeouts.Settle < 0 {
		return fmt.Errorf("timeouts.settle cannot be negative")
	}

	switch c.Logging.Verbosity {
	case "", "quiet", "normal", "verbose":
	default:
		return fmt.Errorf("invalid verbosity: %s (must be 'quiet', 'normal' or 'verbose')", c.Logging.Verbosity)
	}
	return nil
}

// RouterEndpoint returns the router's console endpoint.
func (c *Config) RouterEndpoint() gateway.Endpoint[gateway.RouterLocators] {
	return gateway.Endpoint[gateway.RouterLocators]{
		BaseURL:  baseURL(c.Router.IP),
		Locators: c.Router.Locators,
	}
}

// ExtensionEndpoint returns the extension's console endpoint.
func (c *Config) ExtensionEndpoint() gateway.Endpoint[gateway.ExtensionLocators] {
	return gateway.Endpoint[gateway.ExtensionLocators]{
		BaseURL:  baseURL(c.Extension.IP),
		Locators: c.Extension.Locators,
	}
}

// RouterCredentials returns the router login.
func (c *Config) RouterCredentials() gateway.Credentials {
	return gateway.Credentials{Username: c.Router.Username, Password: c.Router.Password}
}

// ExtensionCredentials returns the extension login.
func (c *Config) ExtensionCredentials() gateway.Credentials {
	return gateway.Credentials{Password: c.Extension.Password}
}

// baseURL accepts a bare address or a full URL.
func baseURL(ip string) string {
	if strings.Contains(ip, "://") {
		return ip
	}
	return "http://" + ip
}

package manager

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/lidayx/lumina-sub000/pkg/bookmark"
	"github.com/lidayx/lumina-sub000/pkg/result"
)

var (
	once sync.Once
	v    *viper.Viper
)

// Settings is the decoded launcher configuration. Every field has a default;
// a missing config file is normal on first run.
type Settings struct {
	LogLevel   string            `mapstructure:"log_level"`
	StorePath  string            `mapstructure:"store_path"`
	TargetLang string            `mapstructure:"target_lang"`
	Aliases    map[string]string `mapstructure:"aliases"`
	FileRoots  []string          `mapstructure:"file_roots"`

	Browsers []bookmark.BrowserConfig `mapstructure:"browsers"`

	Bands result.Bands `mapstructure:"priority_bands"`

	CompletionDelayMs int `mapstructure:"completion_delay_ms"`
	NormalDelayMs     int `mapstructure:"normal_delay_ms"`
}

func (s Settings) CompletionDelay() time.Duration {
	return time.Duration(s.CompletionDelayMs) * time.Millisecond
}

func (s Settings) NormalDelay() time.Duration {
	return time.Duration(s.NormalDelayMs) * time.Millisecond
}

type ConfigManager struct{}

var Config = &ConfigManager{}

// Load reads lumina.yaml once per process. A missing file leaves the
// defaults in place; a malformed file aborts startup the way a bad flag
// would.
func (c *ConfigManager) Load() *viper.Viper {
	once.Do(func() {
		v = viper.New()

		configDir, err := os.UserConfigDir()
		if err != nil {
			configDir = os.TempDir()
		}
		v.SetConfigFile(filepath.Join(configDir, "lumina", "lumina.yaml"))
		v.SetConfigType("yaml")
		setDefaults(v)

		if err := v.ReadInConfig(); err != nil && !isMissingConfig(err) {
			panic(err)
		}
	})
	return v
}

func isMissingConfig(err error) bool {
	var pathErr *os.PathError
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &pathErr) || errors.As(err, &notFound)
}

// Settings decodes the loaded config into the typed form.
func (c *ConfigManager) Settings() Settings {
	var s Settings
	if err := c.Load().Unmarshal(&s); err != nil {
		panic(err)
	}
	s.Browsers = bookmark.NormalizeBrowsers(s.Browsers)
	return s
}

// Watch invokes onChange whenever the config file is rewritten.
func (c *ConfigManager) Watch(onChange func()) {
	cfg := c.Load()
	cfg.WatchConfig()
	cfg.OnConfigChange(func(fsnotify.Event) {
		onChange()
	})
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("store_path", defaultStorePath())
	v.SetDefault("target_lang", "en")
	v.SetDefault("completion_delay_ms", 150)
	v.SetDefault("normal_delay_ms", 300)

	bands := result.DefaultBands()
	v.SetDefault("priority_bands.feature_help", bands.FeatureHelp)
	v.SetDefault("priority_bands.command_item", bands.CommandItem)
	v.SetDefault("priority_bands.settings_open", bands.SettingsOpen)
	v.SetDefault("priority_bands.feature_success", bands.FeatureSuccess)
	v.SetDefault("priority_bands.clipboard", bands.Clipboard)
	v.SetDefault("priority_bands.calculator", bands.Calculator)
	v.SetDefault("priority_bands.discovered_command", bands.DiscoveredCommand)
	v.SetDefault("priority_bands.browser_default", bands.BrowserDefault)
	v.SetDefault("priority_bands.browser_choice", bands.BrowserChoice)
	v.SetDefault("priority_bands.feature_error", bands.FeatureError)
	v.SetDefault("priority_bands.varname_success", bands.VarnameSuccess)
	v.SetDefault("priority_bands.app", bands.App)
	v.SetDefault("priority_bands.file", bands.File)
	v.SetDefault("priority_bands.bookmark", bands.Bookmark)
	v.SetDefault("priority_bands.web_fallback", bands.WebFallback)
}

func defaultStorePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "lumina", "store")
}

package result

// Bands holds the per-source priority scores. The relative order is the
// ranking policy and must not be reshuffled; the magnitudes are tunable
// through config.
type Bands struct {
	FeatureHelp       float64 `mapstructure:"feature_help"`
	CommandItem       float64 `mapstructure:"command_item"`
	SettingsOpen      float64 `mapstructure:"settings_open"`
	FeatureSuccess    float64 `mapstructure:"feature_success"`
	Clipboard         float64 `mapstructure:"clipboard"`
	Calculator        float64 `mapstructure:"calculator"`
	DiscoveredCommand float64 `mapstructure:"discovered_command"`
	BrowserDefault    float64 `mapstructure:"browser_default"`
	BrowserChoice     float64 `mapstructure:"browser_choice"`
	FeatureError      float64 `mapstructure:"feature_error"`
	VarnameSuccess    float64 `mapstructure:"varname_success"`
	App               float64 `mapstructure:"app"`
	File              float64 `mapstructure:"file"`
	Bookmark          float64 `mapstructure:"bookmark"`
	WebFallback       float64 `mapstructure:"web_fallback"`
}

// DefaultBands returns the stock policy: feature help above everything else
// that can coexist with it, apps above files above bookmarks, web search as
// the fallback of last resort.
func DefaultBands() Bands {
	return Bands{
		FeatureHelp:       2600,
		CommandItem:       2200,
		SettingsOpen:      2000,
		FeatureSuccess:    1950,
		Clipboard:         1900,
		Calculator:        1800,
		DiscoveredCommand: 1500,
		BrowserDefault:    1400,
		BrowserChoice:     1000,
		FeatureError:      1000,
		VarnameSuccess:    1100,
		App:               800,
		File:              600,
		Bookmark:          400,
		WebFallback:       50,
	}
}

package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Sheet       SheetConfig       `toml:"sheet"`
	Credentials CredentialsConfig `toml:"credentials"`
	Media       MediaConfig       `toml:"media"`
	Import      ImportConfig      `toml:"import"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	Log         LogConfig         `toml:"log"`
}

// SheetConfig locates the row store.
//
// Range is the A1 range holding data rows; HeaderRows is the number of rows above it that are never processed or deleted.
type SheetConfig struct {
	SpreadsheetID string `toml:"spreadsheet_id"`
	SheetID       int64  `toml:"sheet_id"`
	Range         string `toml:"range"`
	HeaderRows    int    `toml:"header_rows"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Google GoogleConfig `toml:"google"`
}

// GoogleConfig contains Google OAuth2 client credentials and the token location.
type GoogleConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	TokenPath    string `toml:"token_path"`
}

// MediaConfig controls acquisition and transcoding.
type MediaConfig struct {
	WorkDir    string  `toml:"work_dir"`
	Format     string  `toml:"format"`
	Bitrate    string  `toml:"bitrate"`
	YTDLPPath  string  `toml:"ytdlp_path"`
	FFmpegPath string  `toml:"ffmpeg_path"`
	RateLimit  float64 `toml:"rate_limit"` // acquisitions per second
}

// ImportConfig controls handing finished files to the local music library.
type ImportConfig struct {
	Enabled bool   `toml:"enabled"`
	App     string `toml:"app"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains settings for the local OAuth callback server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values from [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate reports the first setting a sync run cannot do without.
func (c *Config) Validate() error {
	switch {
	case c.Sheet.SpreadsheetID == "" || strings.HasPrefix(c.Sheet.SpreadsheetID, "your_"):
		return fmt.Errorf("%w: sheet.spreadsheet_id is not set", ErrInvalidConfig)
	case c.Sheet.Range == "":
		return fmt.Errorf("%w: sheet.range is not set", ErrInvalidConfig)
	case c.Sheet.HeaderRows < 0:
		return fmt.Errorf("%w: sheet.header_rows must not be negative", ErrInvalidConfig)
	case c.Sheet.StartRow() > 0 && c.Sheet.StartRow() != c.Sheet.HeaderRows+1:
		return fmt.Errorf("%w: sheet.range starts at row %d but sheet.header_rows = %d puts the first data row at %d",
			ErrInvalidConfig, c.Sheet.StartRow(), c.Sheet.HeaderRows, c.Sheet.HeaderRows+1)
	case c.Media.Format == "":
		return fmt.Errorf("%w: media.format is not set", ErrInvalidConfig)
	}
	return nil
}

var a1Start = regexp.MustCompile(`^\$?[A-Za-z]{1,3}\$?(\d*)$`)

// StartRow returns the 1-based sheet row the A1 range begins at, or 0 when the range is not in A1 notation (e.g. a named range).
//
// A column-only range such as "Main!A:F" starts at row 1.
func (s SheetConfig) StartRow() int {
	cell := s.Range
	if i := strings.LastIndex(cell, "!"); i >= 0 {
		cell = cell[i+1:]
	}
	cell, _, _ = strings.Cut(cell, ":")

	m := a1Start.FindStringSubmatch(cell)
	if m == nil {
		return 0
	}
	if m[1] == "" {
		return 1
	}
	row, err := strconv.Atoi(m[1])
	if err != nil || row < 1 {
		return 0
	}
	return row
}

// HasGoogleCredentials reports whether a real OAuth client is configured.
func (c *Config) HasGoogleCredentials() bool {
	g := c.Credentials.Google
	return g.ClientID != "" && g.ClientSecret != "" && !strings.HasPrefix(g.ClientID, "your_")
}

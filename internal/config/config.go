package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/leonschreuder/gnucsh/internal/model"
)

// EnvPath names the environment variable that points at a config file.
const EnvPath = "GNUCSH_CONFIG"

// Config represents the gnucsh config.yaml file.
type Config struct {
	Display DisplayConfig `yaml:"display"`
	Import  ImportConfig  `yaml:"import"`
	Book    BookConfig    `yaml:"book"`
}

// DisplayConfig sets the column widths of entry listings.
type DisplayConfig struct {
	DateWidth        int `yaml:"date_width"`
	AmountWidth      int `yaml:"amount_width"`
	DescriptionWidth int `yaml:"description_width"`
}

// ImportConfig describes the files accepted by --import.
type ImportConfig struct {
	Delimiter  string `yaml:"delimiter"`
	DateFormat string `yaml:"date_format"` // Go reference layout
}

// BookConfig is used when creating a new book.
type BookConfig struct {
	Currency        string          `yaml:"currency"`
	DefaultAccounts []AccountConfig `yaml:"default_accounts"`
}

// AccountConfig is one top-level account created by init.
type AccountConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Layout returns the display widths as an entry layout.
func (c *Config) Layout() model.Layout {
	return model.Layout{
		DateWidth:        c.Display.DateWidth,
		AmountWidth:      c.Display.AmountWidth,
		DescriptionWidth: c.Display.DescriptionWidth,
	}
}

// Delimiter returns the import delimiter as a rune. Validate guarantees it
// is a single rune.
func (c *Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.Import.Delimiter)
	return r
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			DateWidth:        model.DefaultLayout.DateWidth,
			AmountWidth:      model.DefaultLayout.AmountWidth,
			DescriptionWidth: model.DefaultLayout.DescriptionWidth,
		},
		Import: ImportConfig{
			Delimiter:  ";",
			DateFormat: model.DateFormat,
		},
		Book: BookConfig{
			Currency: "EUR",
			DefaultAccounts: []AccountConfig{
				{Name: "Expenses", Type: string(model.AccountTypeExpense)},
				{Name: "Savings", Type: string(model.AccountTypeBank)},
				{Name: "Opening Balance", Type: string(model.AccountTypeEquity)},
			},
		},
	}
}

// LoadEnv loads .env from the working directory if there is one.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// Path picks the config file: flagPath, then $GNUCSH_CONFIG, then
// config.yaml in the user config directory. explicit is false only for the
// last fallback, where a missing file is not an error.
func Path(flagPath string) (path string, explicit bool) {
	if flagPath != "" {
		return flagPath, true
	}
	if p := os.Getenv(EnvPath); p != "" {
		return p, true
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(dir, "gnucsh", "config.yaml"), false
}

// Resolve loads the config selected by Path. A missing fallback file
// yields the defaults.
func Resolve(flagPath string) (*Config, error) {
	path, explicit := Path(flagPath)
	if path == "" {
		return Default(), nil
	}
	cfg, err := Load(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Load reads a config file from disk. Keys the file omits keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks the values a file may have set.
func (c *Config) Validate() error {
	var errs []error
	if c.Display.DateWidth <= 0 || c.Display.AmountWidth <= 0 || c.Display.DescriptionWidth <= 4 {
		errs = append(errs, errors.New("display widths must be positive and description_width above 4"))
	}
	if utf8.RuneCountInString(c.Import.Delimiter) != 1 {
		errs = append(errs, fmt.Errorf("import delimiter %q must be a single character", c.Import.Delimiter))
	}
	if c.Import.DateFormat == "" {
		errs = append(errs, errors.New("import date_format is empty"))
	}
	if c.Book.Currency == "" {
		errs = append(errs, errors.New("book currency is empty"))
	}
	for _, a := range c.Book.DefaultAccounts {
		if a.Name == "" {
			errs = append(errs, errors.New("default account without a name"))
		}
		if !model.AccountType(a.Type).Valid() {
			errs = append(errs, fmt.Errorf("default account %q has unknown type %q", a.Name, a.Type))
		}
	}
	return errors.Join(errs...)
}

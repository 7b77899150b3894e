// Package config loads the drivetug settings from DRIVETUG_* environment
// variables, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix of all environment variables.
const Prefix = "DRIVETUG"

// DefaultEnvFile is read when present and no other file is named.
const DefaultEnvFile = ".env"

type Config struct {
	Panes      int    `envconfig:"PANES" default:"3"`
	Output     string `envconfig:"OUTPUT" default:"0:/gm9/out"`
	QuickStep  int    `envconfig:"QUICK_STEP" default:"20"`
	ListLines  int    `envconfig:"LIST_LINES" default:"20"`
	ScreenRows int    `envconfig:"SCREEN_ROWS" default:"16"`
	HexWindow  int    `envconfig:"HEX_WINDOW" default:"0x4000"`
	Elevated   bool   `envconfig:"WRITE_ELEVATED" default:"false"`

	// Drives maps drive letters to host directories, "0:/srv/sd,1:/srv/nand".
	Drives    map[string]string `envconfig:"DRIVES"`
	Removable []string          `envconfig:"REMOVABLE" default:"0"`
	Primary   string            `envconfig:"PRIMARY" default:"0"`
	RAMSize   int64             `envconfig:"RAM_SIZE" default:"0x400000"`

	LogConfig
	MetricsConfig
	S3Config

	FTP  FTPConfig  `envconfig:"FTP"`
	HTTP HTTPConfig `envconfig:"HTTP"`
}

type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
	File  string `envconfig:"LOG_FILE" default:"drivetug.log"`
}

type MetricsConfig struct {
	Addr string `envconfig:"METRICS_ADDR"`
}

// S3Config attaches a bucket as a remote drive when Bucket is set.
type S3Config struct {
	Letter    string `envconfig:"S3_LETTER" default:"S"`
	Bucket    string `envconfig:"S3_BUCKET"`
	Prefix    string `envconfig:"S3_PREFIX"`
	Endpoint  string `envconfig:"S3_ENDPOINT"`
	Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	AccessKey string `envconfig:"S3_ACCESS_KEY"`
	SecretKey string `envconfig:"S3_SECRET_KEY"`
}

// FTPConfig attaches an FTP server as a remote drive when Addr is set.
// TLS is "", "explicit" or "implicit". Keys come from the field names,
// DRIVETUG_FTP_ADDR and so on.
type FTPConfig struct {
	Letter   string `default:"F"`
	Addr     string
	User     string `default:"anonymous"`
	Password string `default:"anonymous"`
	TLS      string
}

// HTTPConfig attaches a directory index as a read-only drive when URL is set.
type HTTPConfig struct {
	Letter string `default:"H"`
	URL    string
}

// DriveMount is one host directory attached as a drive.
type DriveMount struct {
	Letter string
	Dir    string
}

// Load reads envFile into the environment, without overriding variables
// already set, and processes the DRIVETUG_* variables. An empty envFile
// reads DefaultEnvFile if it exists.
func Load(envFile string) (*Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var osStat = os.Stat

func loadEnvFile(envFile string) error {
	if envFile == "" {
		if _, err := osStat(DefaultEnvFile); err != nil {
			return nil
		}
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("(config-godotenv) %w", err)
	}
	return nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Panes:      3,
		Output:     "0:/gm9/out",
		QuickStep:  20,
		ListLines:  20,
		ScreenRows: 16,
		HexWindow:  0x4000,
		Removable:  []string{"0"},
		Primary:    "0",
		RAMSize:    0x400000,
		LogConfig: LogConfig{
			Level: "info",
			File:  "drivetug.log",
		},
		S3Config: S3Config{
			Letter: "S",
			Region: "us-east-1",
		},
		FTP: FTPConfig{
			Letter:   "F",
			User:     "anonymous",
			Password: "anonymous",
		},
		HTTP: HTTPConfig{Letter: "H"},
	}
}

var (
	ErrInvalidPanes  = errors.New("at least one pane is required")
	ErrInvalidWindow = errors.New("hex window must be a multiple of 0x200 and at least 0x400")
	ErrInvalidLetter = errors.New("drive letters are single characters")
	ErrInvalidOutput = errors.New("output must be a drive path such as 0:/gm9/out")
	ErrInvalidTLS    = errors.New(`ftp tls must be "", "explicit" or "implicit"`)
)

func (c *Config) Validate() error {
	if c.Panes < 1 {
		return ErrInvalidPanes
	}
	if c.HexWindow < 0x400 || c.HexWindow%0x200 != 0 {
		return fmt.Errorf("%w: %#x", ErrInvalidWindow, c.HexWindow)
	}
	if !strings.Contains(c.Output, ":") {
		return fmt.Errorf("%w: %q", ErrInvalidOutput, c.Output)
	}
	for letter := range c.Drives {
		if len(letter) != 1 {
			return fmt.Errorf("%w: %q", ErrInvalidLetter, letter)
		}
	}
	if c.Bucket != "" && len(c.S3Config.Letter) != 1 {
		return fmt.Errorf("%w: %q", ErrInvalidLetter, c.S3Config.Letter)
	}
	if c.FTP.Addr != "" && len(c.FTP.Letter) != 1 {
		return fmt.Errorf("%w: %q", ErrInvalidLetter, c.FTP.Letter)
	}
	switch c.FTP.TLS {
	case "", "explicit", "implicit":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTLS, c.FTP.TLS)
	}
	if c.HTTP.URL != "" && len(c.HTTP.Letter) != 1 {
		return fmt.Errorf("%w: %q", ErrInvalidLetter, c.HTTP.Letter)
	}
	return nil
}

// Mounts returns the configured host drives ordered by letter.
func (c *Config) Mounts() []DriveMount {
	mounts := make([]DriveMount, 0, len(c.Drives))
	for letter, dir := range c.Drives {
		mounts = append(mounts, DriveMount{Letter: strings.ToUpper(letter), Dir: dir})
	}
	sort.Slice(mounts, func(i, j int) bool { return mounts[i].Letter < mounts[j].Letter })
	return mounts
}

// IsRemovable reports whether letter is configured as removable media.
func (c *Config) IsRemovable(letter string) bool {
	for _, l := range c.Removable {
		if strings.EqualFold(l, letter) {
			return true
		}
	}
	return false
}

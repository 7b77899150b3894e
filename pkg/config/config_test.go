package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DRIVETUG_PANES", "2")
	t.Setenv("DRIVETUG_HEX_WINDOW", "0x8000")
	t.Setenv("DRIVETUG_DRIVES", "1:/srv/nand,0:/srv/sd")
	t.Setenv("DRIVETUG_REMOVABLE", "0,a")
	t.Setenv("DRIVETUG_LOG_LEVEL", "debug")
	t.Setenv("DRIVETUG_S3_BUCKET", "backups")
	t.Setenv("DRIVETUG_FTP_ADDR", "ftp.example.com:2121")
	t.Setenv("DRIVETUG_FTP_TLS", "explicit")
	t.Setenv("DRIVETUG_HTTP_URL", "http://mirror.local/pub/")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Panes)
	assert.Equal(t, 0x8000, cfg.HexWindow)
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "backups", cfg.Bucket)
	assert.Equal(t, "S", cfg.S3Config.Letter)
	assert.Equal(t, FTPConfig{Letter: "F", Addr: "ftp.example.com:2121", User: "anonymous", Password: "anonymous", TLS: "explicit"}, cfg.FTP)
	assert.Equal(t, HTTPConfig{Letter: "H", URL: "http://mirror.local/pub/"}, cfg.HTTP)
	assert.Equal(t, []DriveMount{{"0", "/srv/sd"}, {"1", "/srv/nand"}}, cfg.Mounts())
	assert.True(t, cfg.IsRemovable("A"))
	assert.False(t, cfg.IsRemovable("1"))
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DRIVETUG_QUICK_STEP=5\nDRIVETUG_OUTPUT=1:/out\n"), 0o644))
	t.Setenv("DRIVETUG_OUTPUT", "0:/keep")
	t.Cleanup(func() { _ = os.Unsetenv("DRIVETUG_QUICK_STEP") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.QuickStep)
	assert.Equal(t, "0:/keep", cfg.Output, "environment wins over the file")

	_, err = Load(filepath.Join(dir, "missing.env"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	for _, tt := range []struct {
		name   string
		modify func(c *Config)
		want   error
	}{
		{"panes", func(c *Config) { c.Panes = 0 }, ErrInvalidPanes},
		{"window_small", func(c *Config) { c.HexWindow = 0x200 }, ErrInvalidWindow},
		{"window_unaligned", func(c *Config) { c.HexWindow = 0x4100 }, ErrInvalidWindow},
		{"output", func(c *Config) { c.Output = "/gm9/out" }, ErrInvalidOutput},
		{"drive_letter", func(c *Config) { c.Drives = map[string]string{"sd": "/x"} }, ErrInvalidLetter},
		{"s3_letter", func(c *Config) { c.Bucket, c.S3Config.Letter = "b", "" }, ErrInvalidLetter},
		{"ftp_letter", func(c *Config) { c.FTP.Addr, c.FTP.Letter = "h:21", "FF" }, ErrInvalidLetter},
		{"ftp_tls", func(c *Config) { c.FTP.TLS = "starttls" }, ErrInvalidTLS},
		{"http_letter", func(c *Config) { c.HTTP.URL, c.HTTP.Letter = "http://h", "" }, ErrInvalidLetter},
	} {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.True(t, errors.Is(cfg.Validate(), tt.want))
		})
	}
	assert.NoError(t, Default().Validate())
}

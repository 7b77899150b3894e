package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rivo/tview"

	"github.com/datatug/drivetug/pkg/config"
	"github.com/datatug/drivetug/pkg/engine"
	"github.com/datatug/drivetug/pkg/files"
	"github.com/datatug/drivetug/pkg/files/drives"
	"github.com/datatug/drivetug/pkg/files/ftpfile"
	"github.com/datatug/drivetug/pkg/files/httpfile"
	"github.com/datatug/drivetug/pkg/files/imagefs"
	"github.com/datatug/drivetug/pkg/files/osfile"
	"github.com/datatug/drivetug/pkg/files/ramfile"
	"github.com/datatug/drivetug/pkg/files/s3file"
	"github.com/datatug/drivetug/pkg/files/searchfs"
	"github.com/datatug/drivetug/pkg/fsutils"
	"github.com/datatug/drivetug/pkg/hexedit"
	"github.com/datatug/drivetug/pkg/logging"
	"github.com/datatug/drivetug/pkg/metrics"
	"github.com/datatug/drivetug/pkg/navigation"
	"github.com/datatug/drivetug/pkg/profiling"
	"github.com/datatug/drivetug/pkg/tui"
)

var (
	cpuProfile = flag.String("cpuprofile", "", "write cpu profile to `file`")
	memProfile = flag.String("memprofile", "", "write memory profile to `file`")
	pprofAddr  = flag.String("pprof", "", "start pprof http server on `address` (e.g. localhost:6060)")
	envFile    = flag.String("env", "", "read settings from `file` (default .env when present)")
)

// Letters of the drives drivetug adds on its own.
const (
	ramLetter    = "9"
	searchLetter = "Z"
)

var httpListenAndServe = http.ListenAndServe
var osExit = os.Exit
var stderr io.Writer = os.Stderr

func main() {
	flag.Parse()
	osExit(start())
}

func start() (code int) {
	if *pprofAddr != "" {
		go func() {
			err := httpListenAndServe(*pprofAddr, nil)
			if err != nil {
				_, _ = fmt.Fprintf(stderr, "pprof server error: %v\n", err)
			}
		}()
	}

	if *cpuProfile != "" {
		stopCPUProfiling := profiling.DoCPUProfiling(*cpuProfile)
		defer stopCPUProfiling()
	}

	if *memProfile != "" {
		writeMemProfile := profiling.DoMemProfiling(*memProfile)
		defer writeMemProfile()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, *envFile); err != nil {
		_, _ = fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	return 0
}

// application is the part of *tview.Application main drives.
type application interface {
	Run() error
	Stop()
}

var newApp = func() *tview.Application {
	return tview.NewApplication()
}

var run = func(ctx context.Context, envFile string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	logger, closer, err := logging.Setup(cfg.Level, cfg.File)
	if err != nil {
		return err
	}
	defer func() {
		_ = closer.Close()
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if cfg.Addr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Addr); err != nil {
				logger.Error("metrics server failed", "addr", cfg.Addr, "err", err)
			}
		}()
	}

	reg, search, err := buildRegistry(ctx, cfg, logger)
	if err != nil {
		return err
	}
	app := newApp()
	ui := tui.New(app)
	s, err := engine.New(ctx, reg, ui, ui, ui, sessionOptions(cfg, logger, search)...)
	if err != nil {
		return err
	}
	return runSession(ctx, app, ui, s)
}

func sessionOptions(cfg *config.Config, logger *slog.Logger, search *searchfs.Drive) []engine.Option {
	return []engine.Option{
		engine.WithLogger(logger),
		engine.WithNavigation(
			navigation.WithPanes(cfg.Panes),
			navigation.WithLines(cfg.ListLines),
			navigation.WithQuickStep(cfg.QuickStep),
		),
		engine.WithHexEditor(
			hexedit.WithScreenRows(cfg.ScreenRows),
			hexedit.WithEditWindow(cfg.HexWindow),
		),
		engine.WithStaging(cfg.Output),
		engine.WithSearch(search),
		engine.WithMounter(imagefs.Mounter{}),
		engine.WithWriteElevated(cfg.Elevated),
	}
}

type session interface {
	Run(ctx context.Context) error
}

// runSession runs the terminal loop on the calling goroutine and the
// session on another. Whichever ends first ends the other.
func runSession(ctx context.Context, app application, ui *tui.UI, s session) error {
	done := make(chan error, 1)
	go func() {
		err := s.Run(ctx)
		app.Stop()
		done <- err
	}()
	runErr := app.Run()
	ui.Close()
	err := <-done
	if errors.Is(err, tui.ErrClosed) || errors.Is(err, context.Canceled) {
		err = nil
	}
	return errors.Join(runErr, err)
}

var newS3Store = s3file.New

// buildRegistry attaches the configured host directories, the RAM drive and
// the search drive, followed by whichever remote drives are configured.
func buildRegistry(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*drives.Registry, *searchfs.Drive, error) {
	reg := drives.NewRegistry(drives.WithLogger(logger))
	for _, m := range cfg.Mounts() {
		dir, present, err := fsutils.HostDir(m.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("drive %s: %w", m.Letter, err)
		}
		if !present {
			logger.Warn("drive directory not present", "drive", m.Letter, "dir", dir)
		}
		store := osfile.NewStore(dir, osfile.WithClass(driveClass(cfg, m.Letter)))
		if err = reg.Attach(m.Letter, store); err != nil {
			return nil, nil, err
		}
	}
	if cfg.RAMSize > 0 {
		ram := ramfile.New(
			ramfile.WithLabel("RAMDRIVE"),
			ramfile.WithClass(files.DriveRAM|files.DriveStandard),
			ramfile.WithCapacity(cfg.RAMSize),
		)
		if err := reg.Attach(ramLetter, ram); err != nil {
			return nil, nil, err
		}
	}
	search := searchfs.New(0)
	if err := reg.Attach(searchLetter, search); err != nil {
		return nil, nil, err
	}
	if cfg.Bucket != "" {
		store, err := newS3Store(ctx, s3file.Config{
			Endpoint:  cfg.Endpoint,
			Region:    cfg.Region,
			Bucket:    cfg.Bucket,
			Prefix:    cfg.S3Config.Prefix,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("attach bucket %s: %w", cfg.Bucket, err)
		}
		if err = reg.Attach(cfg.S3Config.Letter, store); err != nil {
			return nil, nil, err
		}
	}
	if cfg.FTP.Addr != "" {
		store := ftpfile.NewStore(ftpfile.Config{
			Addr:     cfg.FTP.Addr,
			User:     cfg.FTP.User,
			Password: cfg.FTP.Password,
			TLS:      cfg.FTP.TLS,
		})
		if err := reg.Attach(cfg.FTP.Letter, store); err != nil {
			return nil, nil, err
		}
	}
	if cfg.HTTP.URL != "" {
		root, err := url.Parse(cfg.HTTP.URL)
		if err != nil || root.Host == "" {
			return nil, nil, fmt.Errorf("attach %q: not an http url", cfg.HTTP.URL)
		}
		if err = reg.Attach(cfg.HTTP.Letter, httpfile.NewStore(*root)); err != nil {
			return nil, nil, err
		}
	}
	return reg, search, nil
}

func driveClass(cfg *config.Config, letter string) files.DriveClass {
	class := files.DriveStandard
	if cfg.IsRemovable(letter) {
		class |= files.DriveRemovable
	} else {
		class |= files.DriveInternal
	}
	if strings.EqualFold(cfg.Primary, letter) {
		class |= files.DrivePrimary
	}
	return class
}

// Package profiling writes CPU and heap profiles for the -cpuprofile and
// -memprofile flags.
package profiling

import (
	"io"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
	"time"
)

var (
	osCreate              = os.Create
	pprofStartCPUProfile  = pprof.StartCPUProfile
	pprofStopCPUProfile   = pprof.StopCPUProfile
	pprofWriteHeapProfile = func(w io.Writer) error { return pprof.WriteHeapProfile(w) }
	memProfilingInterval  = 30 * time.Second
)

// DoCPUProfiling starts a CPU profile written to file. The returned func
// stops it and is never nil.
func DoCPUProfiling(file string) (stop func()) {
	f, err := osCreate(file)
	if err != nil {
		slog.Error("could not create CPU profile", "file", file, "err", err)
		return func() {}
	}
	if err = pprofStartCPUProfile(f); err != nil {
		slog.Error("could not start CPU profile", "err", err)
		_ = f.Close()
		return func() {}
	}
	return func() {
		pprofStopCPUProfile()
		if err := f.Close(); err != nil {
			slog.Warn("failed to close CPU profile", "file", file, "err", err)
		}
	}
}

// DoMemProfiling rewrites a heap profile to file every memProfilingInterval
// for the life of the process. The returned func writes one immediately.
func DoMemProfiling(file string) (write func()) {
	write = func() {
		f, err := osCreate(file)
		if err != nil {
			slog.Error("could not create memory profile", "file", file, "err", err)
			return
		}
		defer func() {
			_ = f.Close()
		}()
		runtime.GC()
		if err = pprofWriteHeapProfile(f); err != nil {
			slog.Error("could not write memory profile", "err", err)
		}
	}
	interval := memProfilingInterval
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			write()
		}
	}()
	return write
}

// Package profiling writes pprof CPU, heap and execution-trace profiles for
// a run.
package profiling

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Profiler owns the open profile files.
type Profiler struct {
	cpuFile   *os.File
	traceFile *os.File
}

// NewProfiler creates a Profiler.
func NewProfiler() *Profiler {
	return &Profiler{}
}

// StartCPU starts CPU profiling into path. The returned cleanup stops the
// profile and closes the file.
func (p *Profiler) StartCPU(path string) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create CPU profile file: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to start CPU profile: %w", err)
	}
	p.cpuFile = f

	return func() {
		pprof.StopCPUProfile()
		_ = p.cpuFile.Close()
		p.cpuFile = nil
	}, nil
}

// StartTrace starts an execution trace into path.
func (p *Profiler) StartTrace(path string) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace file: %w", err)
	}
	if err := trace.Start(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to start trace: %w", err)
	}
	p.traceFile = f

	return func() {
		trace.Stop()
		_ = p.traceFile.Close()
		p.traceFile = nil
	}, nil
}

// WriteHeap writes a heap snapshot to path after a GC.
func (p *Profiler) WriteHeap(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create heap profile file: %w", err)
	}
	defer func() { _ = f.Close() }()

	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("failed to write heap profile: %w", err)
	}
	return nil
}

// Session bundles the profiles requested for one command.
type Session struct {
	profiler *Profiler
	heapPath string
	stops    []func()
}

// Start begins the CPU and trace profiles whose paths are non-empty. The
// heap profile, when heapPath is set, is written by Stop.
func Start(cpuPath, heapPath, tracePath string) (*Session, error) {
	s := &Session{profiler: NewProfiler(), heapPath: heapPath}
	if cpuPath != "" {
		stop, err := s.profiler.StartCPU(cpuPath)
		if err != nil {
			return nil, err
		}
		s.stops = append(s.stops, stop)
	}
	if tracePath != "" {
		stop, err := s.profiler.StartTrace(tracePath)
		if err != nil {
			s.stopAll()
			return nil, err
		}
		s.stops = append(s.stops, stop)
	}
	return s, nil
}

// Stop ends running profiles and writes the heap profile. It is safe to call
// more than once.
func (s *Session) Stop() error {
	if s == nil {
		return nil
	}
	s.stopAll()
	if s.heapPath != "" {
		path := s.heapPath
		s.heapPath = ""
		return s.profiler.WriteHeap(path)
	}
	return nil
}

func (s *Session) stopAll() {
	for i := len(s.stops) - 1; i >= 0; i-- {
		s.stops[i]()
	}
	s.stops = nil
}

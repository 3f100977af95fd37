package js

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shiroyk/cookiecat/cookie"
	"golang.org/x/exp/slog"
)

const (
	// DefaultMaxTimeToWaitGetVM default retries time
	DefaultMaxTimeToWaitGetVM = 500 * time.Millisecond
	// DefaultMaxRetriesGetVM default retries times
	DefaultMaxRetriesGetVM = 3
)

// ErrSchedulerClosed the scheduler is closed error
var ErrSchedulerClosed = errors.New("scheduler is closed")

// Scheduler the VM pool
type Scheduler interface {
	// Get the VM
	Get() (VM, error)
	// Release the VM
	Release(VM)
	// Close the scheduler
	Close() error
}

// SchedulerOptions Scheduler options
type SchedulerOptions struct {
	InitialVMs         int           `yaml:"initial-vms"`
	MaxVMs             int           `yaml:"max-vms"`
	MaxRetriesGetVM    int           `yaml:"max-retries-get-vm"`
	MaxTimeToWaitGetVM time.Duration `yaml:"max-time-to-wait-get-vm"`
	UseStrict          bool          `yaml:"use-strict"`
	ModulePath         []string      `yaml:"module-path,omitempty"`

	// Jar the document cookie of every VM
	Jar cookie.CookieJar `yaml:"-"`
	// Logger the VM logger
	Logger *slog.Logger `yaml:"-"`
}

// DefaultSchedulerOptions the default Scheduler options
func DefaultSchedulerOptions() SchedulerOptions {
	return SchedulerOptions{
		InitialVMs:         1,
		MaxVMs:             runtime.GOMAXPROCS(0),
		MaxRetriesGetVM:    DefaultMaxRetriesGetVM,
		MaxTimeToWaitGetVM: DefaultMaxTimeToWaitGetVM,
	}
}

type schedulerImpl struct {
	mu                               sync.RWMutex
	vms                              chan VM
	initVMs, maxVMs, maxRetriesGetVM int
	unInitVMs                        atomic.Int64
	closed                           atomic.Bool
	maxTimeToWaitGetVM               time.Duration
	vmOptions                        Options
}

// NewScheduler returns a new Scheduler
func NewScheduler(opt SchedulerOptions) Scheduler {
	scheduler := &schedulerImpl{
		maxVMs:             max(opt.MaxVMs, 1),
		initVMs:            max(opt.InitialVMs, 1),
		maxRetriesGetVM:    opt.MaxRetriesGetVM,
		maxTimeToWaitGetVM: opt.MaxTimeToWaitGetVM,
		vmOptions: Options{
			Jar:        opt.Jar,
			Logger:     opt.Logger,
			ModulePath: opt.ModulePath,
			UseStrict:  opt.UseStrict,
		},
	}
	if scheduler.maxRetriesGetVM <= 0 {
		scheduler.maxRetriesGetVM = DefaultMaxRetriesGetVM
	}
	if scheduler.maxTimeToWaitGetVM <= 0 {
		scheduler.maxTimeToWaitGetVM = DefaultMaxTimeToWaitGetVM
	}
	scheduler.initVMs = min(scheduler.initVMs, scheduler.maxVMs)
	scheduler.vms = make(chan VM, scheduler.maxVMs)
	for i := 0; i < scheduler.initVMs; i++ {
		scheduler.vms <- NewVM(scheduler.vmOptions)
	}
	scheduler.unInitVMs.Store(int64(scheduler.maxVMs - scheduler.initVMs))
	return scheduler
}

// Get the VM, a new one is created while the pool is below MaxVMs.
func (s *schedulerImpl) Get() (VM, error) {
	if s.closed.Load() {
		return nil, ErrSchedulerClosed
	}

	select {
	case vm, ok := <-s.vms:
		if !ok {
			return nil, ErrSchedulerClosed
		}
		return vm, nil
	default:
	}

	if s.unInitVMs.Add(-1) >= 0 {
		return NewVM(s.vmOptions), nil
	}
	s.unInitVMs.Add(1)

	timer := time.NewTimer(s.maxTimeToWaitGetVM)
	defer timer.Stop()

	for i := 1; i <= s.maxRetriesGetVM; i++ {
		select {
		case vm, ok := <-s.vms:
			if !ok {
				return nil, ErrSchedulerClosed
			}
			return vm, nil
		case <-timer.C:
			slog.Warn(fmt.Sprintf("could not get VM in %v", time.Duration(i)*s.maxTimeToWaitGetVM))
			timer.Reset(s.maxTimeToWaitGetVM)
		}
	}
	return nil, fmt.Errorf("could not get VM in %v",
		time.Duration(s.maxRetriesGetVM)*s.maxTimeToWaitGetVM)
}

// Release the VM
func (s *schedulerImpl) Release(vm VM) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed.Load() {
		return
	}
	select {
	case s.vms <- vm:
	default:
	}
}

// Close the scheduler
func (s *schedulerImpl) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.CompareAndSwap(false, true) {
		close(s.vms)
	}
	return nil
}

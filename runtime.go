package kestrel

// Resumer is anything that can accept a completion job the way a
// [Scheduler] does. A network adapter living outside this package
// only needs to implement this to hand results back onto a Runtime's
// scheduler thread.
type Resumer interface {
	Post(fn func())
}

// Option configures a [Runtime] at construction time.
type Option func(*runtimeConfig)

type runtimeConfig struct {
	poolSize   int
	withTimer  bool
	withSignal bool
}

// WithPool sizes the Runtime's worker [Pool] to n goroutines. A
// Runtime has no pool unless this option (or the default) creates one;
// an n below 1 leaves the Runtime without a pool.
func WithPool(n int) Option {
	return func(c *runtimeConfig) { c.poolSize = n }
}

// WithTimer opts the Runtime into owning a [Timer].
func WithTimer() Option {
	return func(c *runtimeConfig) { c.withTimer = true }
}

// WithSignals opts the Runtime into owning a [SignalSet].
func WithSignals() Option {
	return func(c *runtimeConfig) { c.withSignal = true }
}

// Runtime bundles a [Scheduler] with the optional components built on
// top of it — a worker [Pool], a [Timer], a [SignalSet] — so an
// embedder can construct, run, and tear down the whole runtime as one
// unit instead of wiring each component by hand.
type Runtime struct {
	sched  *Scheduler
	pool   *Pool
	timer  *Timer
	signal *SignalSet
}

// NewRuntime builds a Runtime. By default it owns a [Pool] of 1
// worker and no [Timer] or [SignalSet]; pass [WithPool], [WithTimer],
// and/or [WithSignals] to change that.
func NewRuntime(opts ...Option) *Runtime {
	cfg := runtimeConfig{poolSize: 1}
	for _, opt := range opts {
		opt(&cfg)
	}

	sched := NewScheduler()
	rt := &Runtime{sched: sched}

	if cfg.poolSize > 0 {
		rt.pool = NewPool(sched, cfg.poolSize)
	}
	if cfg.withTimer {
		rt.timer = NewTimer(sched)
	}
	if cfg.withSignal {
		rt.signal = NewSignalSet(sched)
	}

	return rt
}

// Scheduler returns the Runtime's scheduler.
func (rt *Runtime) Scheduler() *Scheduler { return rt.sched }

// Pool returns the Runtime's worker pool, or nil if none was
// configured.
func (rt *Runtime) Pool() *Pool { return rt.pool }

// Timer returns the Runtime's timer, or nil if [WithTimer] was never
// passed to [NewRuntime].
func (rt *Runtime) Timer() *Timer { return rt.timer }

// Signals returns the Runtime's signal set, or nil if [WithSignals]
// was never passed to [NewRuntime].
func (rt *Runtime) Signals() *SignalSet { return rt.signal }

// Post forwards fn to the Runtime's scheduler. Runtime satisfies
// [Resumer].
func (rt *Runtime) Post(fn func()) { rt.sched.Post(fn) }

// Run drives the Runtime's scheduler loop. Blocks until [Runtime.Stop]
// is called and the queue drains. Call this from the one goroutine
// that owns the Runtime's cooperative thread.
func (rt *Runtime) Run() { rt.sched.Run() }

// Stop tears every owned component down in dependency order — signals
// and timer first, since both post completions onto the scheduler and
// must stop doing that before the pool and scheduler themselves stop —
// then the pool, then the scheduler. Idempotent: every component's own
// Stop is idempotent, and Runtime.Stop may be called more than once.
func (rt *Runtime) Stop() {
	if rt.signal != nil {
		rt.signal.Stop()
	}
	if rt.timer != nil {
		rt.timer.Stop()
	}
	if rt.pool != nil {
		rt.pool.Stop()
	}
	rt.sched.Stop()
}

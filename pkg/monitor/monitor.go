// Package monitor runs the top-level control loop: it owns the
// monitoring cadence, the warning escalation policy, and the
// emergency-transmission gate.
package monitor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Criz-007/miner-health-monitoring-system/pkg/telemetry"
	"github.com/Criz-007/miner-health-monitoring-system/pkg/vitals"
)

// State is the controller's position in the monitoring cycle.
type State uint8

const (
	StateSleeping State = iota
	StateWaking
	StateMonitoring
	StateExtendedMonitoring
	StateEmergency
	StateTransmitting
)

func (s State) String() string {
	switch s {
	case StateSleeping:
		return "SLEEPING"
	case StateWaking:
		return "WAKING"
	case StateMonitoring:
		return "MONITORING"
	case StateExtendedMonitoring:
		return "EXTENDED_MONITORING"
	case StateEmergency:
		return "EMERGENCY"
	case StateTransmitting:
		return "TRANSMITTING"
	default:
		return "UNKNOWN"
	}
}

// Config tunes the cadence and escalation policy.
type Config struct {
	NormalInterval    time.Duration `yaml:"normal_interval"`
	ExtendedInterval  time.Duration `yaml:"extended_interval"`
	EmergencyInterval time.Duration `yaml:"emergency_interval"`
	WarmupDelay       time.Duration `yaml:"warmup_delay"`
	// WarningEscalation is the consecutive-warning count that switches
	// the loop to extended monitoring.
	WarningEscalation int `yaml:"warning_escalation"`
}

// DefaultConfig returns the stock cadence.
func DefaultConfig() Config {
	return Config{
		NormalInterval:    35 * time.Second,
		ExtendedInterval:  10 * time.Second,
		EmergencyInterval: 5 * time.Second,
		WarmupDelay:       2 * time.Second,
		WarningEscalation: 2,
	}
}

// Context is the controller's cross-cycle memory. The controller is
// its single owner; no other component writes it.
type Context struct {
	State         State
	Interval      time.Duration
	WarningCount  int
	EmergencySent bool
	Cycles        uint64
	LastStatus    vitals.Status
}

// Source produces one vitals snapshot per call.
type Source interface {
	Acquire() vitals.Snapshot
}

// Power is the wake/sleep contract of a power-sequenced sensor.
type Power interface {
	Wakeup() error
	Sleep() error
}

// Controller drives the acquire/classify/escalate/transmit cycle.
type Controller struct {
	src     Source
	sender  telemetry.Sender
	th      vitals.Thresholds
	cfg     Config
	powered []Power

	ctx   Context
	log   *zap.Logger
	after func(time.Duration) <-chan time.Time
}

// Option customizes a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// WithPower registers sensors the controller wakes before each cycle
// and puts back to sleep afterwards.
func WithPower(p ...Power) Option {
	return func(c *Controller) { c.powered = append(c.powered, p...) }
}

// WithTimer overrides the interval timer, used by tests.
func WithTimer(after func(time.Duration) <-chan time.Time) Option {
	return func(c *Controller) { c.after = after }
}

// New creates a controller in the Sleeping state.
func New(src Source, sender telemetry.Sender, th vitals.Thresholds, cfg Config, opts ...Option) *Controller {
	c := &Controller{
		src:    src,
		sender: sender,
		th:     th,
		cfg:    cfg,
		ctx:    Context{State: StateSleeping, Interval: cfg.NormalInterval},
		log:    zap.NewNop(),
		after:  time.After,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Context returns a copy of the controller's cross-cycle state.
func (c *Controller) Context() Context { return c.ctx }

// Result describes one completed cycle.
type Result struct {
	Snapshot    vitals.Snapshot
	Status      vitals.Status
	Tally       vitals.Tally
	Interval    time.Duration
	Transmitted bool
}

// Step runs exactly one monitoring cycle: wake sensors, wait out the
// warm-up delay, acquire, classify, apply the escalation policy,
// transmit if the policy calls for it, and put the sensors back to
// sleep.
func (c *Controller) Step() Result {
	c.ctx.State = StateWaking
	for _, p := range c.powered {
		if err := p.Wakeup(); err != nil {
			c.log.Warn("sensor wakeup failed", zap.Error(err))
		}
	}

	// Samples taken before the warm-up delay elapses are not trusted;
	// every power-on waits it out.
	<-c.after(c.cfg.WarmupDelay)

	if c.ctx.WarningCount >= c.cfg.WarningEscalation {
		c.ctx.State = StateExtendedMonitoring
	} else {
		c.ctx.State = StateMonitoring
	}

	snap := c.src.Acquire()
	status, tally := vitals.Evaluate(snap, c.th)

	res := Result{Snapshot: snap, Status: status, Tally: tally}

	switch status {
	case vitals.StatusNormal:
		c.ctx.WarningCount = 0
		c.ctx.EmergencySent = false
		c.ctx.Interval = c.cfg.NormalInterval
		c.ctx.State = StateMonitoring

	case vitals.StatusWarning:
		c.ctx.WarningCount++
		if c.ctx.WarningCount >= c.cfg.WarningEscalation {
			c.ctx.Interval = c.cfg.ExtendedInterval
			c.ctx.State = StateExtendedMonitoring
			c.log.Warn("consecutive warnings, extending monitoring",
				zap.Int("warnings", c.ctx.WarningCount))
		} else {
			c.ctx.Interval = c.cfg.NormalInterval
		}

	case vitals.StatusCritical:
		c.ctx.Interval = c.cfg.ExtendedInterval
		c.ctx.State = StateExtendedMonitoring
		c.transmit(snap, status)
		res.Transmitted = true

	case vitals.StatusEmergency:
		c.ctx.Interval = c.cfg.EmergencyInterval
		c.ctx.State = StateEmergency
		if !c.ctx.EmergencySent {
			c.transmit(snap, status)
			c.ctx.EmergencySent = true
			res.Transmitted = true
		}
	}

	for _, p := range c.powered {
		if err := p.Sleep(); err != nil {
			c.log.Warn("sensor sleep failed", zap.Error(err))
		}
	}

	c.ctx.Cycles++
	c.ctx.LastStatus = status
	res.Interval = c.ctx.Interval

	c.log.Info("cycle complete",
		zap.Uint64("cycle", c.ctx.Cycles),
		zap.Stringer("status", status),
		zap.Stringer("state", c.ctx.State),
		zap.Duration("interval", c.ctx.Interval),
		zap.Bool("transmitted", res.Transmitted),
	)

	c.ctx.State = StateSleeping
	return res
}

// transmit encodes and sends one frame. Delivery failures are logged
// and otherwise ignored; the loop never blocks on the uplink.
func (c *Controller) transmit(snap vitals.Snapshot, status vitals.Status) {
	c.ctx.State = StateTransmitting
	p := telemetry.Encode(snap, status)
	if err := c.sender.Send(p[:], status == vitals.StatusEmergency); err != nil {
		c.log.Warn("telemetry send failed", zap.Error(err))
	}
}

// Run executes the monitoring loop until the context is cancelled.
// Each cycle carries its own warm-up wait inside Step.
func (c *Controller) Run(ctx context.Context) error {
	for {
		res := c.Step()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.after(res.Interval):
		}
	}
}

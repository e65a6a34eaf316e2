package particles

import (
	"fmt"
	"math"

	"github.com/kamstrup/intmap"
)

// Audit is an Observer that follows every life from birth to death and
// checks it against the configured lifespan.
type Audit struct {
	lifespan float64
	step     float64

	born *intmap.Map[uint32, float64] // particle index -> birth time of the current life

	Lives       int     // completed lives
	MinLifetime float64 // shortest completed life
	MaxLifetime float64 // longest completed life
	Violations  []string
}

// maxAuditViolations bounds the retained violation messages.
const maxAuditViolations = 32

// NewAudit creates an audit for lives of cfg.Lifespan measured in ticks of
// cfg.TickStep.
func NewAudit(cfg Config) *Audit {
	return &Audit{
		lifespan:    cfg.Lifespan,
		step:        cfg.TickStep,
		born:        intmap.New[uint32, float64](1024),
		MinLifetime: math.Inf(1),
	}
}

func (a *Audit) Enabled() bool { return true }

func (a *Audit) ObserveReset(generation uint64, count int) {
	a.born.Clear()
}

func (a *Audit) ObserveAdvance(pass uint64, now float64, transitions []Transition) {
	for _, t := range transitions {
		idx := uint32(t.Index)
		switch t.Kind {
		case StateAlive:
			if _, ok := a.born.Get(idx); ok {
				a.violate("particle %d born twice without dying (pass %d)", t.Index, pass)
			}
			a.born.Put(idx, now)
		case StateAwaitingRebirth:
			birth, ok := a.born.Get(idx)
			if !ok {
				// Alive before the audit was attached.
				continue
			}
			a.born.Del(idx)
			a.record(t.Index, now-birth)
		}
	}
}

func (a *Audit) record(index int, lifetime float64) {
	a.Lives++
	a.MinLifetime = min(a.MinLifetime, lifetime)
	a.MaxLifetime = max(a.MaxLifetime, lifetime)

	const tolerance = 1e-9
	if lifetime < a.lifespan-tolerance || lifetime >= a.lifespan+a.step+tolerance {
		a.violate("particle %d lived %v, want [%v, %v)", index, lifetime, a.lifespan, a.lifespan+a.step)
	}
}

func (a *Audit) violate(format string, args ...any) {
	if len(a.Violations) < maxAuditViolations {
		a.Violations = append(a.Violations, fmt.Sprintf(format, args...))
	}
}

// Tracked returns the number of lives in progress.
func (a *Audit) Tracked() int {
	return a.born.Len()
}

// Err summarizes violations, or returns nil if there were none.
func (a *Audit) Err() error {
	if len(a.Violations) == 0 {
		return nil
	}
	return fmt.Errorf("lifecycle audit: %d violation(s), first: %s", len(a.Violations), a.Violations[0])
}

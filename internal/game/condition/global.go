package condition

import "fmt"

// Participant is a fighter the curse can drain.
type Participant interface {
	Alive() bool
	// ApplyDamage removes amount health, bypassing any block.
	ApplyDamage(amount int) int
}

// CurseState is a read-only view of the match-wide curse.
type CurseState struct {
	Active    bool
	StartMs   int64
	LastTick  int64
	TickCount int
}

// TickResult reports what a call to GlobalEffects.Tick did.
type TickResult struct {
	// Ticked is true when periodic damage was applied this call.
	Ticked       bool
	TargetDamage int
	CasterDamage int
	// Ended is true when the curse deactivated this call.
	Ended bool
	// Reason is "expired" or "death" when Ended is true.
	Reason string
}

// GlobalEffects owns match-wide status effects. At most one curse is active at a time.
// It is not safe for concurrent use; the match loop serialises access.
type GlobalEffects struct {
	def    *ConditionDef
	state  CurseState
	caster Participant
	target Participant
}

// NewGlobalEffects creates GlobalEffects driven by the given curse definition.
//
// Precondition: curse must be non-nil with positive DurationMs.
func NewGlobalEffects(curse *ConditionDef) (*GlobalEffects, error) {
	if curse == nil {
		return nil, fmt.Errorf("NewGlobalEffects: curse definition must not be nil")
	}
	if err := curse.Validate(); err != nil {
		return nil, fmt.Errorf("NewGlobalEffects: %w", err)
	}
	return &GlobalEffects{def: curse}, nil
}

// CastCurse activates the curse. Recasting while active replaces the caster and
// target and restarts the timer.
//
// Postcondition: CurseActive() is true; TickCount is 0.
func (g *GlobalEffects) CastCurse(caster, target Participant, nowMs int64) {
	g.caster = caster
	g.target = target
	g.state = CurseState{Active: true, StartMs: nowMs, LastTick: nowMs}
}

// CurseActive reports whether the curse is in effect.
func (g *GlobalEffects) CurseActive() bool { return g.state.Active }

// IsCurseCaster reports whether p cast the active curse.
func (g *GlobalEffects) IsCurseCaster(p Participant) bool {
	return g.state.Active && g.caster == p
}

// Curse returns a snapshot of the curse state.
func (g *GlobalEffects) Curse() CurseState { return g.state }

// CurseRemaining returns the milliseconds left on the curse, clamped at 0.
func (g *GlobalEffects) CurseRemaining(nowMs int64) int64 {
	if !g.state.Active {
		return 0
	}
	left := g.def.DurationMs - (nowMs - g.state.StartMs)
	if left < 0 {
		return 0
	}
	return left
}

// Tick advances the curse. It deactivates when either participant is dead or
// the duration has elapsed; otherwise it applies periodic damage once per
// interval until MaxTicks is reached.
//
// Postcondition: TickCount <= def.MaxTicks.
func (g *GlobalEffects) Tick(nowMs int64) TickResult {
	if !g.state.Active {
		return TickResult{}
	}
	if !g.caster.Alive() || !g.target.Alive() {
		g.end()
		return TickResult{Ended: true, Reason: "death"}
	}
	if nowMs-g.state.StartMs >= g.def.DurationMs {
		g.end()
		return TickResult{Ended: true, Reason: "expired"}
	}
	if g.def.TickIntervalMs <= 0 || nowMs-g.state.LastTick < g.def.TickIntervalMs || g.state.TickCount >= g.def.MaxTicks {
		return TickResult{}
	}
	res := TickResult{Ticked: true}
	res.TargetDamage = g.target.ApplyDamage(g.def.TickDamage)
	if g.caster.Alive() {
		res.CasterDamage = g.caster.ApplyDamage(g.def.CasterTickDamage)
	}
	g.state.LastTick = nowMs
	g.state.TickCount++
	return res
}

// Reset clears any active curse.
func (g *GlobalEffects) Reset() { g.end() }

func (g *GlobalEffects) end() {
	g.state = CurseState{}
	g.caster = nil
	g.target = nil
}

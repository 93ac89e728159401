package combat

// Defense is the defender's state at the moment a hit resolves.
type Defense struct {
	Blocking  bool
	Exhausted bool
	Stamina   int
}

// guarding reports whether the block absorbs damage.
func (d Defense) guarding() bool { return d.Blocking && !d.Exhausted }

// HitResult is the outcome of resolving raw damage against a Defense.
//
// Invariant: when Blocked, Absorbed + Overflow == Raw.
type HitResult struct {
	Raw      int
	Absorbed int
	Overflow int
	// HealthDamage is the damage that reaches health.
	HealthDamage int
	// Blocked is true when an active block took the hit.
	Blocked bool
	// BrokeBlock is true when the hit emptied the block stamina.
	BrokeBlock bool
	// Hit is true when the defender is staggered.
	Hit bool
	// StaminaAfter is the defender's block stamina after the hit.
	StaminaAfter int
}

// ResolveHit applies raw damage against d. A guarding defender absorbs damage
// from stamina first; emptying the stamina breaks the block and converts any
// overflow into health damage. An unguarded defender takes the full amount.
//
// Precondition: d.Stamina >= 0.
// Postcondition: StaminaAfter >= 0; HealthDamage >= 0.
func ResolveHit(raw int, d Defense) HitResult {
	if raw < 0 {
		raw = 0
	}
	if !d.guarding() {
		return HitResult{Raw: raw, HealthDamage: raw, Hit: true, StaminaAfter: d.Stamina}
	}
	absorbed := min(raw, max(d.Stamina, 0))
	res := HitResult{
		Raw:          raw,
		Absorbed:     absorbed,
		Overflow:     raw - absorbed,
		Blocked:      true,
		StaminaAfter: d.Stamina - absorbed,
	}
	if res.StaminaAfter <= 0 {
		res.StaminaAfter = 0
		res.BrokeBlock = true
		res.Hit = true
		res.HealthDamage = res.Overflow
	}
	return res
}

// ResolveSteal applies a health-steal of amount against a defender with
// targetHealth remaining and returns the hit plus the health the caster gains.
// Against a guard only the overflow of a broken block can be stolen.
//
// Postcondition: 0 <= heal <= min(amount, targetHealth).
func ResolveSteal(amount int, d Defense, targetHealth int) (HitResult, int) {
	if amount < 0 {
		amount = 0
	}
	if d.guarding() {
		res := ResolveHit(amount, d)
		heal := 0
		if res.BrokeBlock {
			heal = min(amount, res.Overflow, max(targetHealth, 0))
		}
		return res, heal
	}
	dmg := min(amount, max(targetHealth, 0))
	return HitResult{Raw: amount, HealthDamage: dmg, Hit: true, StaminaAfter: d.Stamina}, dmg
}

// ScaleDamage multiplies raw by mult, truncating toward zero.
func ScaleDamage(raw int, mult float64) int {
	return int(float64(raw) * mult)
}

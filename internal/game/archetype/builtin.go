package archetype

var (
	warriorFrames = Frames{10, 8, 1, 7, 7, 3, 7, 3, 3}
	mageFrames    = Frames{8, 8, 1, 8, 8, 3, 7, 3, 3}
)

func builtinStats() []*Stats {
	return []*Stats{
		{
			Name:             "Knight",
			Description:      "Balanced fighter with stun special",
			Sheet:            "warrior",
			Sound:            "sword",
			Health:           100,
			Speed:            9,
			AttackRange:      2,
			AnimationSpeedMs: 60,
			Frames:           warriorFrames,
			Damage:           Damage{Primary: 15, Secondary: 10, Special: 0},
			DamageFrames:     DamageFrames{Primary: 5, Secondary: 3},
			BlockStamina:     60,
			Special:          Special{Kind: SpecialGlobalStun, CooldownMs: 6000, CastTimeMs: 500},
			ReactionTimeMs:   [2]int{50, 250},
		},
		{
			Name:             "Mage",
			Description:      "Ranged caster with screen-wide special attack",
			Sheet:            "mage",
			Sound:            "magic",
			Health:           80,
			Speed:            6,
			AttackRange:      4,
			AnimationSpeedMs: 60,
			Frames:           mageFrames,
			Damage:           Damage{Primary: 25, Secondary: 15, Special: 15},
			DamageFrames:     DamageFrames{Primary: 6, Secondary: 4},
			BlockStamina:     40,
			Special:          Special{Kind: SpecialGlobalAttack, CooldownMs: 4000, CastTimeMs: 500},
			ReactionTimeMs:   [2]int{100, 400},
		},
		{
			Name:             "Ranger",
			Description:      "Fast fighter with a screen-crossing dash",
			Sheet:            "warrior",
			Sound:            "sword",
			Health:           100,
			Speed:            10,
			AttackRange:      3,
			AnimationSpeedMs: 50,
			Frames:           warriorFrames,
			Damage:           Damage{Primary: 15, Secondary: 10, Special: 10},
			DamageFrames:     DamageFrames{Primary: 3, Secondary: 5},
			BlockStamina:     60,
			Special: Special{
				Kind: SpecialScreenDash, CooldownMs: 3000, CastTimeMs: 100,
				Dash: &DashParams{Speed: 25, Distance: 1500},
			},
			ReactionTimeMs: [2]int{100, 300},
		},
		{
			Name:             "Warlock",
			Description:      "Powerful mage with life drain special ability",
			Sheet:            "mage",
			Sound:            "magic",
			Health:           90,
			Speed:            6,
			AttackRange:      3,
			AnimationSpeedMs: 55,
			Frames:           mageFrames,
			Damage:           Damage{Primary: 15, Secondary: 15, Special: 25},
			DamageFrames:     DamageFrames{Primary: 4, Secondary: 5},
			BlockStamina:     45,
			Special: Special{
				Kind: SpecialHealthSteal, CooldownMs: 3000, CastTimeMs: 500,
				Steal: &StealParams{Amount: 25},
			},
			ReactionTimeMs: [2]int{150, 450},
		},
		{
			Name:             "Guardian",
			Description:      "Short-range fighter with pull-root capabilities",
			Sheet:            "warrior",
			Sound:            "sword",
			Health:           110,
			Speed:            7,
			AttackRange:      1.5,
			AnimationSpeedMs: 55,
			Frames:           warriorFrames,
			Damage:           Damage{Primary: 10, Secondary: 10, Special: 0},
			DamageFrames:     DamageFrames{Primary: 5, Secondary: 3},
			BlockStamina:     65,
			Special: Special{
				Kind: SpecialPullRoot, CooldownMs: 2500, CastTimeMs: 0,
				Pull: &PullParams{RootDurationMs: 2000, Distance: 100, Speed: 15},
			},
			ReactionTimeMs: [2]int{75, 200},
		},
		{
			Name:             "Sage",
			Description:      "Curse master with low damage but good burst state",
			Sheet:            "mage",
			Sound:            "magic",
			Health:           85,
			Speed:            9,
			AttackRange:      1.5,
			AnimationSpeedMs: 60,
			Frames:           mageFrames,
			Damage:           Damage{Primary: 10, Secondary: 5, Special: 0},
			DamageFrames:     DamageFrames{Primary: 5, Secondary: 4},
			BlockStamina:     60,
			Special: Special{
				Kind: SpecialCurse, CooldownMs: 10000, CastTimeMs: 1000,
				Curse: &CurseParams{DamageMultiplier: 2},
			},
			ReactionTimeMs: [2]int{50, 150},
		},
	}
}

package orders

// DefaultRules returns the trigger chain for additional orders, highest
// priority first: round, headcount, destination, then the four strategic
// point checks.
func DefaultRules() []*Rule {
	return []*Rule{
		{
			Name:         "round",
			Priority:     700,
			ConditionSrc: `Trigger.Round > 0 && Trigger.Round <= Round`,
		},
		{
			Name:         "headcount",
			Priority:     600,
			ConditionSrc: `Trigger.HeadcountThreshold >= 0 && Headcount <= Trigger.HeadcountThreshold`,
		},
		{
			Name:         "destination",
			Priority:     500,
			ConditionSrc: `Trigger.DestinationReached && BasicRouteCompleted()`,
		},
		{
			Name:         "enemy-captured-custom",
			Priority:     400,
			ConditionSrc: `Trigger.EnemyCapturedOwn && len(Trigger.StrategicPoints) > 0 && any(Trigger.StrategicPoints, HeldByEnemy(#))`,
		},
		{
			Name:         "enemy-captured-any",
			Priority:     300,
			ConditionSrc: `Trigger.EnemyCapturedOwn && len(Trigger.StrategicPoints) == 0 && any(OwnPoints(), HeldByEnemy(#))`,
		},
		{
			Name:         "own-captured-custom",
			Priority:     200,
			ConditionSrc: `Trigger.OwnCapturedEnemy && len(Trigger.StrategicPoints) > 0 && any(Trigger.StrategicPoints, HeldByOwnSide(#))`,
		},
		{
			Name:         "own-captured-any",
			Priority:     100,
			ConditionSrc: `Trigger.OwnCapturedEnemy && len(Trigger.StrategicPoints) == 0 && any(EnemyPoints(), HeldByOwnSide(#))`,
		},
	}
}

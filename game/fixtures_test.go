package game

func army(id int, units ...UnitStack) Combatant {
	return Combatant{
		ID:            id,
		Level:         1,
		Units:         units,
		Structures:    map[StructureType]int{},
		BonusPoints:   map[BonusType]int{},
		FortLevel:     1,
		FortHitpoints: 500,
		Race:          Human,
		Class:         Thief,
	}
}

func stack(t UnitType, level, quantity int) UnitStack {
	return UnitStack{Type: t, Level: level, Quantity: quantity}
}

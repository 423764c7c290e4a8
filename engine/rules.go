package engine

// HouseRules holds configurable game rule settings.
type HouseRules struct {
	HandSize          uint8 // cards dealt to each seat at game start
	StartingCountdown uint8 // countdown score every seat starts with
	MinPlayers        uint8
	MaxPlayers        uint8
	CountdownWild     bool // if true, the rank equal to the seat's own countdown is also wild
}

// DefaultHouseRules returns the standard countdown rules.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		HandSize:          8,
		StartingCountdown: 8,
		MinPlayers:        2,
		MaxPlayers:        4,
		CountdownWild:     false,
	}
}

// numPlayersOK reports whether n seats can play under these rules.
func (r *HouseRules) numPlayersOK(n int) bool {
	return n >= int(r.MinPlayers) && n <= int(r.MaxPlayers)
}

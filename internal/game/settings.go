package game

import "time"

const (
	MinPlayers     = 2
	MaxPlayersHard = 6
)

// Settings is fixed for the lifetime of a game.
type Settings struct {
	MaxPlayers         int           `json:"max_players"`
	StartingMoney      int           `json:"starting_money"`
	Salary             int           `json:"salary"`
	JailFine           int           `json:"jail_fine"`
	MaxJailTurns       int           `json:"max_jail_turns"`
	TurnTimeLimit      time.Duration `json:"turn_time_limit"`
	FreeParkingBonus   int           `json:"free_parking_bonus"`
	EnableHouseRules   bool          `json:"enable_house_rules"`
	IncomeTaxRate      float64       `json:"income_tax_rate"`
	// nil -> default
	RollAgainOnDoubles *bool `json:"roll_again_on_doubles,omitempty"`
	EvenBuilding       *bool `json:"even_building,omitempty"`
}

// Bool returns a pointer for the optional rule flags.
func Bool(v bool) *bool { return &v }

func (s Settings) rollAgain() bool { return s.RollAgainOnDoubles == nil || *s.RollAgainOnDoubles }

func (s Settings) evenBuilding() bool { return s.EvenBuilding == nil || *s.EvenBuilding }

func (s Settings) clone() Settings {
	s.RollAgainOnDoubles = Bool(s.rollAgain())
	s.EvenBuilding = Bool(s.evenBuilding())
	return s
}

func DefaultSettings() Settings {
	return Settings{
		MaxPlayers:         4,
		StartingMoney:      1500,
		Salary:             200,
		JailFine:           50,
		MaxJailTurns:       3,
		TurnTimeLimit:      120 * time.Second,
		RollAgainOnDoubles: Bool(true),
		EvenBuilding:       Bool(true),
	}
}

func (s Settings) normalize() Settings {
	return s.withDefaults(DefaultSettings())
}

// withDefaults fills zero values and unset rule flags from d and clamps
// out-of-range ones. A negative Salary disables salary. The result is
// stable under repeated calls.
func (s Settings) withDefaults(d Settings) Settings {
	if s.MaxPlayers == 0 {
		s.MaxPlayers = d.MaxPlayers
	}
	if s.MaxPlayers < MinPlayers {
		s.MaxPlayers = MinPlayers
	}
	if s.MaxPlayers > MaxPlayersHard {
		s.MaxPlayers = MaxPlayersHard
	}
	if s.StartingMoney <= 0 {
		s.StartingMoney = d.StartingMoney
	}
	if s.Salary == 0 {
		s.Salary = d.Salary
	}
	if s.JailFine <= 0 {
		s.JailFine = d.JailFine
	}
	if s.MaxJailTurns <= 0 {
		s.MaxJailTurns = d.MaxJailTurns
	}
	if s.TurnTimeLimit <= 0 {
		s.TurnTimeLimit = d.TurnTimeLimit
	}
	if s.FreeParkingBonus < 0 {
		s.FreeParkingBonus = 0
	}
	if s.IncomeTaxRate < 0 || s.IncomeTaxRate > 1 {
		s.IncomeTaxRate = 0
	}
	if s.RollAgainOnDoubles == nil {
		s.RollAgainOnDoubles = Bool(d.rollAgain())
	}
	if s.EvenBuilding == nil {
		s.EvenBuilding = Bool(d.evenBuilding())
	}
	return s
}

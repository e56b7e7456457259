package board

type DeckType string

const (
	DeckChance         DeckType = "chance"
	DeckCommunityChest DeckType = "community_chest"
)

type EffectKind string

const (
	EffectMoveTo             EffectKind = "move_to"
	EffectMoveRelative       EffectKind = "move_relative"
	EffectMoveToNearest      EffectKind = "move_to_nearest"
	EffectGainMoney          EffectKind = "gain_money"
	EffectLoseMoney          EffectKind = "lose_money"
	EffectGoToJail           EffectKind = "go_to_jail"
	EffectGetOutOfJailCard   EffectKind = "get_out_of_jail_card"
	EffectPayForBuildings    EffectKind = "pay_for_buildings"
	EffectCollectFromPlayers EffectKind = "collect_from_players"
)

// CardEffect is a tagged effect descriptor. Only the fields relevant to Kind are set.
type CardEffect struct {
	Kind     EffectKind `json:"kind"`
	Position int        `json:"position,omitempty"`
	Steps    int        `json:"steps,omitempty"`
	Amount   int        `json:"amount,omitempty"`
	// move_to_nearest
	Nearest        SpaceType `json:"nearest,omitempty"`
	RentMultiplier int       `json:"rent_multiplier,omitempty"`
	DiceMultiplier int       `json:"dice_multiplier,omitempty"`
	// pay_for_buildings
	PerHouse int `json:"per_house,omitempty"`
	PerHotel int `json:"per_hotel,omitempty"`
}

type Card struct {
	ID          string     `json:"id"`
	Deck        DeckType   `json:"deck"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Effect      CardEffect `json:"effect"`
}

var chanceCards = []Card{
	{ID: "chance_1", Title: "Advance to Start", Description: "Advance to Start and collect salary.", Effect: CardEffect{Kind: EffectMoveTo, Position: 0}},
	{ID: "chance_2", Title: "Kaohsiung Sanmin", Description: "Advance to Kaohsiung Sanmin. Collect salary if you pass Start.", Effect: CardEffect{Kind: EffectMoveTo, Position: 24}},
	{ID: "chance_3", Title: "Taoyuan Zhongli", Description: "Advance to Taoyuan Zhongli. Collect salary if you pass Start.", Effect: CardEffect{Kind: EffectMoveTo, Position: 11}},
	{ID: "chance_4", Title: "Nearest Station", Description: "Advance to the nearest station. If owned, pay twice the rent.", Effect: CardEffect{Kind: EffectMoveToNearest, Nearest: SpaceRailroad, RentMultiplier: 2}},
	{ID: "chance_5", Title: "Nearest Utility", Description: "Advance to the nearest utility. If owned, pay ten times the dice.", Effect: CardEffect{Kind: EffectMoveToNearest, Nearest: SpaceUtility, DiceMultiplier: 10}},
	{ID: "chance_6", Title: "Bank Dividend", Description: "The bank pays you a dividend of 200.", Effect: CardEffect{Kind: EffectGainMoney, Amount: 200}},
	{ID: "chance_7", Title: "Speeding Fine", Description: "Pay a speeding fine of 50.", Effect: CardEffect{Kind: EffectLoseMoney, Amount: 50}},
	{ID: "chance_8", Title: "School Fees", Description: "Pay school fees of 150.", Effect: CardEffect{Kind: EffectLoseMoney, Amount: 150}},
	{ID: "chance_9", Title: "Go to Jail", Description: "Go directly to jail. Do not pass Start.", Effect: CardEffect{Kind: EffectGoToJail}},
	{ID: "chance_10", Title: "Get Out of Jail Free", Description: "Keep this card until needed.", Effect: CardEffect{Kind: EffectGetOutOfJailCard}},
	{ID: "chance_11", Title: "Go Back", Description: "Go back three spaces.", Effect: CardEffect{Kind: EffectMoveRelative, Steps: -3}},
	{ID: "chance_12", Title: "Street Repairs", Description: "Pay 25 per house and 100 per hotel.", Effect: CardEffect{Kind: EffectPayForBuildings, PerHouse: 25, PerHotel: 100}},
	{ID: "chance_13", Title: "Building Loan", Description: "Your building loan matures. Collect 50.", Effect: CardEffect{Kind: EffectGainMoney, Amount: 50}},
	{ID: "chance_14", Title: "Parking Ticket", Description: "Pay a parking ticket of 50.", Effect: CardEffect{Kind: EffectLoseMoney, Amount: 50}},
	{ID: "chance_15", Title: "Taipei Station", Description: "Take a trip to Taipei Station. Collect salary if you pass Start.", Effect: CardEffect{Kind: EffectMoveTo, Position: 5}},
	{ID: "chance_16", Title: "Chairman", Description: "You have been elected chairman. Collect 50 from every player.", Effect: CardEffect{Kind: EffectCollectFromPlayers, Amount: 50}},
}

var communityChestCards = []Card{
	{ID: "community_1", Title: "Advance to Start", Description: "Advance to Start and collect salary.", Effect: CardEffect{Kind: EffectMoveTo, Position: 0}},
	{ID: "community_2", Title: "Bank Error", Description: "Bank error in your favor. Collect 200.", Effect: CardEffect{Kind: EffectGainMoney, Amount: 200}},
	{ID: "community_3", Title: "Doctor's Fee", Description: "Pay a doctor's fee of 100.", Effect: CardEffect{Kind: EffectLoseMoney, Amount: 100}},
	{ID: "community_4", Title: "Tax Refund", Description: "Income tax refund. Collect 20.", Effect: CardEffect{Kind: EffectGainMoney, Amount: 20}},
	{ID: "community_5", Title: "Holiday Fund", Description: "Holiday fund matures. Collect 100.", Effect: CardEffect{Kind: EffectGainMoney, Amount: 100}},
	{ID: "community_6", Title: "Hospital Fees", Description: "Pay hospital fees of 100.", Effect: CardEffect{Kind: EffectLoseMoney, Amount: 100}},
	{ID: "community_7", Title: "School Fees", Description: "Pay school fees of 50.", Effect: CardEffect{Kind: EffectLoseMoney, Amount: 50}},
	{ID: "community_8", Title: "Consultancy Fee", Description: "Receive a consultancy fee of 25.", Effect: CardEffect{Kind: EffectGainMoney, Amount: 25}},
	{ID: "community_9", Title: "Street Repairs", Description: "Pay 40 per house and 115 per hotel.", Effect: CardEffect{Kind: EffectPayForBuildings, PerHouse: 40, PerHotel: 115}},
	{ID: "community_10", Title: "Beauty Contest", Description: "You won second prize in a beauty contest. Collect 10.", Effect: CardEffect{Kind: EffectGainMoney, Amount: 10}},
	{ID: "community_11", Title: "Inheritance", Description: "You inherit 100.", Effect: CardEffect{Kind: EffectGainMoney, Amount: 100}},
	{ID: "community_12", Title: "Life Insurance", Description: "Life insurance matures. Collect 100.", Effect: CardEffect{Kind: EffectGainMoney, Amount: 100}},
	{ID: "community_13", Title: "Go to Jail", Description: "Go directly to jail. Do not pass Start.", Effect: CardEffect{Kind: EffectGoToJail}},
	{ID: "community_14", Title: "Get Out of Jail Free", Description: "Keep this card until needed.", Effect: CardEffect{Kind: EffectGetOutOfJailCard}},
	{ID: "community_15", Title: "Birthday", Description: "It is your birthday. Collect 10 from every player.", Effect: CardEffect{Kind: EffectCollectFromPlayers, Amount: 10}},
	{ID: "community_16", Title: "Stock Sale", Description: "From sale of stock you get 50.", Effect: CardEffect{Kind: EffectGainMoney, Amount: 50}},
}

func cloneDeck(src []Card, deck DeckType) []Card {
	out := make([]Card, len(src))
	for i, c := range src {
		c.Deck = deck
		out[i] = c
	}
	return out
}

// ChanceDeck returns a fresh, unshuffled copy of the chance deck.
func ChanceDeck() []Card { return cloneDeck(chanceCards, DeckChance) }

// CommunityChestDeck returns a fresh, unshuffled copy of the community chest deck.
func CommunityChestDeck() []Card { return cloneDeck(communityChestCards, DeckCommunityChest) }

// Deck returns a fresh copy of the named deck.
func Deck(t DeckType) []Card {
	switch t {
	case DeckChance:
		return ChanceDeck()
	case DeckCommunityChest:
		return CommunityChestDeck()
	}
	return nil
}

// DeckFor maps a card space type to its deck.
func DeckFor(t SpaceType) (DeckType, bool) {
	switch t {
	case SpaceChance:
		return DeckChance, true
	case SpaceCommunityChest:
		return DeckCommunityChest, true
	}
	return "", false
}

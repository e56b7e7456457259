package board

// Size - количество клеток на поле
const Size = 40

const (
	GoPosition          = 0
	JailPosition        = 10
	FreeParkingPosition = 20
	GoToJailPosition    = 30
)

type SpaceType string

const (
	SpaceStart          SpaceType = "start"
	SpaceProperty       SpaceType = "property"
	SpaceRailroad       SpaceType = "railroad"
	SpaceUtility        SpaceType = "utility"
	SpaceChance         SpaceType = "chance"
	SpaceCommunityChest SpaceType = "community_chest"
	SpaceTax            SpaceType = "tax"
	SpaceJail           SpaceType = "jail"
	SpaceGoToJail       SpaceType = "go_to_jail"
	SpaceFreeParking    SpaceType = "free_parking"
)

// Hotel is the rent tier index used once a hotel stands on a property.
const Hotel = 5

// MaxHouses per property before a hotel can be built.
const MaxHouses = 4

// Space is one board square. Rent holds six tiers for streets
// (base, 1-4 houses, hotel), four for railroads; utilities use Multipliers.
type Space struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Type          SpaceType `json:"type"`
	Group         string    `json:"group,omitempty"`
	Price         int       `json:"price,omitempty"`
	Rent          []int     `json:"rent,omitempty"`
	Multipliers   []int     `json:"multipliers,omitempty"`
	HouseCost     int       `json:"house_cost,omitempty"`
	HotelCost     int       `json:"hotel_cost,omitempty"`
	MortgageValue int       `json:"mortgage_value,omitempty"`
	TaxAmount     int       `json:"tax_amount,omitempty"`
	IncomeTax     bool      `json:"income_tax,omitempty"`
}

// Purchasable reports whether the space can be owned by a player.
func (s Space) Purchasable() bool {
	switch s.Type {
	case SpaceProperty, SpaceRailroad, SpaceUtility:
		return true
	}
	return false
}

func street(id int, name, group string, price int, rent [6]int, buildCost int) Space {
	return Space{
		ID:            id,
		Name:          name,
		Type:          SpaceProperty,
		Group:         group,
		Price:         price,
		Rent:          rent[:],
		HouseCost:     buildCost,
		HotelCost:     buildCost,
		MortgageValue: price / 2,
	}
}

func railroad(id int, name string) Space {
	return Space{
		ID:            id,
		Name:          name,
		Type:          SpaceRailroad,
		Group:         GroupRailroad,
		Price:         200,
		Rent:          []int{25, 50, 100, 200},
		MortgageValue: 100,
	}
}

func utility(id int, name string) Space {
	return Space{
		ID:            id,
		Name:          name,
		Type:          SpaceUtility,
		Group:         GroupUtility,
		Price:         150,
		Multipliers:   []int{4, 10},
		MortgageValue: 75,
	}
}

var spaces = [Size]Space{
	{ID: 0, Name: "Start", Type: SpaceStart},
	street(1, "Taipei Da'an", GroupBrown, 60, [6]int{2, 10, 30, 90, 160, 250}, 50),
	{ID: 2, Name: "Community Chest", Type: SpaceCommunityChest},
	street(3, "Taipei Xinyi", GroupBrown, 60, [6]int{4, 20, 60, 180, 320, 450}, 50),
	{ID: 4, Name: "Income Tax", Type: SpaceTax, TaxAmount: 200, IncomeTax: true},
	railroad(5, "Taipei Station"),
	street(6, "New Taipei Banqiao", GroupLightBlue, 100, [6]int{6, 30, 90, 270, 400, 550}, 50),
	{ID: 7, Name: "Chance", Type: SpaceChance},
	street(8, "New Taipei Xinzhuang", GroupLightBlue, 100, [6]int{6, 30, 90, 270, 400, 550}, 50),
	street(9, "New Taipei Zhonghe", GroupLightBlue, 120, [6]int{8, 40, 100, 300, 450, 600}, 50),
	{ID: 10, Name: "Jail", Type: SpaceJail},
	street(11, "Taoyuan Zhongli", GroupPink, 140, [6]int{10, 50, 150, 450, 625, 750}, 100),
	utility(12, "Electric Company"),
	street(13, "Taoyuan Taoyuan", GroupPink, 140, [6]int{10, 50, 150, 450, 625, 750}, 100),
	street(14, "Taoyuan Guishan", GroupPink, 160, [6]int{12, 60, 180, 500, 700, 900}, 100),
	railroad(15, "Kaohsiung Station"),
	street(16, "Taichung Xitun", GroupOrange, 180, [6]int{14, 70, 200, 550, 750, 950}, 100),
	{ID: 17, Name: "Community Chest", Type: SpaceCommunityChest},
	street(18, "Taichung Nantun", GroupOrange, 180, [6]int{14, 70, 200, 550, 750, 950}, 100),
	street(19, "Taichung Beitun", GroupOrange, 200, [6]int{16, 80, 220, 600, 800, 1000}, 100),
	{ID: 20, Name: "Free Parking", Type: SpaceFreeParking},
	street(21, "Kaohsiung Qianzhen", GroupRed, 220, [6]int{18, 90, 250, 700, 875, 1050}, 150),
	{ID: 22, Name: "Chance", Type: SpaceChance},
	street(23, "Kaohsiung Lingya", GroupRed, 220, [6]int{18, 90, 250, 700, 875, 1050}, 150),
	street(24, "Kaohsiung Sanmin", GroupRed, 240, [6]int{20, 100, 300, 750, 925, 1100}, 150),
	railroad(25, "Taichung Station"),
	street(26, "Tainan Anping", GroupYellow, 260, [6]int{22, 110, 330, 800, 975, 1150}, 150),
	street(27, "Tainan West Central", GroupYellow, 260, [6]int{22, 110, 330, 800, 975, 1150}, 150),
	utility(28, "Water Works"),
	street(29, "Tainan East", GroupYellow, 280, [6]int{24, 120, 360, 850, 1025, 1200}, 150),
	{ID: 30, Name: "Go To Jail", Type: SpaceGoToJail},
	street(31, "Taipei Songshan", GroupGreen, 300, [6]int{26, 130, 390, 900, 1100, 1275}, 200),
	street(32, "Taipei Neihu", GroupGreen, 300, [6]int{26, 130, 390, 900, 1100, 1275}, 200),
	{ID: 33, Name: "Community Chest", Type: SpaceCommunityChest},
	street(34, "Taipei Nangang", GroupGreen, 320, [6]int{28, 150, 450, 1000, 1200, 1400}, 200),
	railroad(35, "Tainan Station"),
	{ID: 36, Name: "Chance", Type: SpaceChance},
	street(37, "Taipei Zhongzheng", GroupDarkBlue, 350, [6]int{35, 175, 500, 1100, 1300, 1500}, 200),
	{ID: 38, Name: "Luxury Tax", Type: SpaceTax, TaxAmount: 100},
	street(39, "Taipei Datong", GroupDarkBlue, 400, [6]int{50, 200, 600, 1400, 1700, 2000}, 200),
}

// SpaceAt returns the space at position id. ok is false outside 0..39.
func SpaceAt(id int) (Space, bool) {
	if id < 0 || id >= Size {
		return Space{}, false
	}
	return spaces[id], true
}

// Spaces returns a copy of the whole board.
func Spaces() []Space {
	out := make([]Space, Size)
	copy(out, spaces[:])
	return out
}

// IsPurchasable reports whether space id can be bought.
func IsPurchasable(id int) bool {
	s, ok := SpaceAt(id)
	return ok && s.Purchasable()
}

// Wrap normalizes any integer onto the board.
func Wrap(pos int) int {
	pos %= Size
	if pos < 0 {
		pos += Size
	}
	return pos
}

// NearestOfType returns the first space of type t strictly ahead of from,
// wrapping past Start.
func NearestOfType(from int, t SpaceType) (int, bool) {
	for step := 1; step <= Size; step++ {
		id := Wrap(from + step)
		if spaces[id].Type == t {
			return id, true
		}
	}
	return 0, false
}

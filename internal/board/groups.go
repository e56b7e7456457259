package board

const (
	GroupBrown     = "brown"
	GroupLightBlue = "light_blue"
	GroupPink      = "pink"
	GroupOrange    = "orange"
	GroupRed       = "red"
	GroupYellow    = "yellow"
	GroupGreen     = "green"
	GroupDarkBlue  = "dark_blue"
	GroupRailroad  = "railroad"
	GroupUtility   = "utility"
)

// PropertyGroup lists the spaces that form one color (or railroad/utility) set.
type PropertyGroup struct {
	Name                   string `json:"name"`
	Properties             []int  `json:"properties"`
	HouseCost              int    `json:"house_cost,omitempty"`
	HotelCost              int    `json:"hotel_cost,omitempty"`
	MonopolyRentMultiplier int    `json:"monopoly_rent_multiplier"`
}

var groups = map[string]PropertyGroup{
	GroupBrown:     {Name: GroupBrown, Properties: []int{1, 3}, HouseCost: 50, HotelCost: 50, MonopolyRentMultiplier: 2},
	GroupLightBlue: {Name: GroupLightBlue, Properties: []int{6, 8, 9}, HouseCost: 50, HotelCost: 50, MonopolyRentMultiplier: 2},
	GroupPink:      {Name: GroupPink, Properties: []int{11, 13, 14}, HouseCost: 100, HotelCost: 100, MonopolyRentMultiplier: 2},
	GroupOrange:    {Name: GroupOrange, Properties: []int{16, 18, 19}, HouseCost: 100, HotelCost: 100, MonopolyRentMultiplier: 2},
	GroupRed:       {Name: GroupRed, Properties: []int{21, 23, 24}, HouseCost: 150, HotelCost: 150, MonopolyRentMultiplier: 2},
	GroupYellow:    {Name: GroupYellow, Properties: []int{26, 27, 29}, HouseCost: 150, HotelCost: 150, MonopolyRentMultiplier: 2},
	GroupGreen:     {Name: GroupGreen, Properties: []int{31, 32, 34}, HouseCost: 200, HotelCost: 200, MonopolyRentMultiplier: 2},
	GroupDarkBlue:  {Name: GroupDarkBlue, Properties: []int{37, 39}, HouseCost: 200, HotelCost: 200, MonopolyRentMultiplier: 2},
	GroupRailroad:  {Name: GroupRailroad, Properties: []int{5, 15, 25, 35}, MonopolyRentMultiplier: 1},
	GroupUtility:   {Name: GroupUtility, Properties: []int{12, 28}, MonopolyRentMultiplier: 1},
}

// Group returns the group with the given name.
func Group(name string) (PropertyGroup, bool) {
	g, ok := groups[name]
	if !ok {
		return PropertyGroup{}, false
	}
	g.Properties = append([]int(nil), g.Properties...)
	return g, true
}

// GroupOf returns the group a purchasable space belongs to.
func GroupOf(spaceID int) (PropertyGroup, bool) {
	s, ok := SpaceAt(spaceID)
	if !ok || s.Group == "" {
		return PropertyGroup{}, false
	}
	return Group(s.Group)
}

var groupOrder = []string{
	GroupBrown, GroupLightBlue, GroupPink, GroupOrange, GroupRed,
	GroupYellow, GroupGreen, GroupDarkBlue, GroupRailroad, GroupUtility,
}

// Groups returns every group in board order.
func Groups() []PropertyGroup {
	out := make([]PropertyGroup, 0, len(groupOrder))
	for _, name := range groupOrder {
		g, _ := Group(name)
		out = append(out, g)
	}
	return out
}

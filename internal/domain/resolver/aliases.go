package resolver

// Alias maps a normalized merchant name to a category slug.
//
// Aliases live in an ordered list rather than a map: similarity ties during
// fuzzy matching are broken by position, so order is part of the contract.
type Alias struct {
	Merchant string `yaml:"merchant"`
	Category string `yaml:"category"`
}

// DefaultAliases returns the built-in merchant alias table.
//
// Keys are lowercase, pre-trimmed. Callers that want a different table
// (tests, alternate card programs) construct a Resolver with their own list.
func DefaultAliases() []Alias {
	return []Alias{
		// Rideshare
		{"uber", "rideshare"},
		{"lyft", "rideshare"},
		{"uber eats", "rideshare"},
		{"lyft pink", "rideshare"},
		// Flights
		{"delta", "flights"},
		{"united", "flights"},
		{"american", "flights"},
		{"american airlines", "flights"},
		{"southwest", "flights"},
		{"jetblue", "flights"},
		{"frontier", "flights"},
		{"spirit airlines", "flights"},
		{"spirit", "flights"},
		{"hawaiian", "flights"},
		{"hawaiian airlines", "flights"},
		// Alaska Airlines
		{"alaska", "alaska_airlines"},
		{"alaska airlines", "alaska_airlines"},
		{"alaska air", "alaska_airlines"},
		// Prepaid hotels (AmexTravel.com)
		{"marriott", "prepaid_hotels"},
		{"hilton", "prepaid_hotels"},
		{"hyatt", "prepaid_hotels"},
		{"ihg", "prepaid_hotels"},
		{"airbnb", "prepaid_hotels"},
		{"four seasons", "prepaid_hotels"},
		{"westin", "prepaid_hotels"},
		{"sheraton", "prepaid_hotels"},
		{"w hotels", "prepaid_hotels"},
		{"ritz", "prepaid_hotels"},
		{"ritz carlton", "prepaid_hotels"},
		{"intercontinental", "prepaid_hotels"},
		// Grocery
		{"whole foods", "grocery"},
		{"safeway", "grocery"},
		{"kroger", "grocery"},
		{"albertsons", "grocery"},
		{"trader joe's", "grocery"},
		{"trader joes", "grocery"},
		{"sprouts", "grocery"},
		{"costco", "grocery"},
		{"aldi", "grocery"},
		{"publix", "grocery"},
		{"heb", "grocery"},
		{"meijer", "grocery"},
		{"wegmans", "grocery"},
		{"stop & shop", "grocery"},
		{"stop and shop", "grocery"},
		{"harris teeter", "grocery"},
		{"vons", "grocery"},
		{"ralphs", "grocery"},
		// Gas
		{"chevron", "gas"},
		{"shell", "gas"},
		{"exxon", "gas"},
		{"mobil", "gas"},
		{"arco", "gas"},
		{"bp", "gas"},
		{"76", "gas"},
		{"texaco", "gas"},
		{"sunoco", "gas"},
		{"marathon", "gas"},
		{"circle k", "gas"},
		{"wawa", "gas"},
		// Transit
		{"amtrak", "transit"},
		{"bart", "transit"},
		{"muni", "transit"},
		{"metro", "transit"},
		{"caltrain", "transit"},
		{"mta", "transit"},
		// EV charging
		{"tesla", "ev_charging"},
		{"tesla supercharger", "ev_charging"},
		{"blink", "ev_charging"},
		{"chargepoint", "ev_charging"},
		{"electrify", "ev_charging"},
		{"evgo", "ev_charging"},
	}
}

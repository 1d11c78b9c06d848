package entities

// Dataset is the flat document every collection is persisted in
type Dataset struct {
	Facilities     []Facility      `json:"facilities"`
	Users          []User          `json:"users"`
	Accommodations []Accommodation `json:"accommodations"`
	Bookings       []Booking       `json:"bookings"`
	Comments       []Comment       `json:"comments"`
	Favorites      []Favorite      `json:"favorites"`
}

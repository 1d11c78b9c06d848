// Package wire maps Data Access API payloads onto canonical entities.
//
// Stored documents and older clients disagree on identifier types (numeric
// json-server keys vs opaque strings) and on foreign-key spelling
// (accomodationId vs accommodationId). Decoding accepts every variant;
// encoding always emits the canonical entity JSON.
package wire

import (
	"bytes"
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/zatekoja/staybook/internal/domain/entities"
)

// ID decodes a JSON string or number into an opaque string identifier
type ID string

// UnmarshalJSON implements json.Unmarshaler
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	n, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("identifier must be a string or number, got %s", data)
	}
	*id = ID(strconv.FormatFloat(n, 'f', -1, 64))
	return nil
}

// FacilityRef decodes a facility reference given either as an identifier or
// as an embedded facility object
type FacilityRef string

// UnmarshalJSON implements json.Unmarshaler
func (r *FacilityRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			FacilityID ID `json:"facilityId"`
			ID         ID `json:"id"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*r = FacilityRef(first(obj.FacilityID, obj.ID))
		return nil
	}
	var id ID
	if err := id.UnmarshalJSON(data); err != nil {
		return err
	}
	*r = FacilityRef(id)
	return nil
}

// first returns the first non-empty identifier
func first(ids ...ID) string {
	for _, id := range ids {
		if id != "" {
			return string(id)
		}
	}
	return ""
}

type accommodationPayload struct {
	ID              ID            `json:"id"`
	AccomodationID  ID            `json:"accomodationId"`
	AccommodationID ID            `json:"accommodationId"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Location        string        `json:"location"`
	Price           float64       `json:"price"`
	Rating          float64       `json:"rating"`
	TypeOfPlace     string        `json:"typeOfPlace"`
	Category        string        `json:"category"`
	NumberOfGuest   int           `json:"numberOfGuest"`
	Image           string        `json:"image"`
	FacilityIDs     []FacilityRef `json:"facilityIds"`
}

func (p accommodationPayload) canonical() entities.Accommodation {
	a := entities.Accommodation{
		ID:          first(p.AccomodationID, p.AccommodationID, p.ID),
		Title:       p.Title,
		Description: p.Description,
		Location:    p.Location,
		Price:       p.Price,
		Rating:      p.Rating,
		Category:    p.TypeOfPlace,
		Capacity:    p.NumberOfGuest,
		Image:       p.Image,
		FacilityIDs: make([]string, 0, len(p.FacilityIDs)),
	}
	if a.Category == "" {
		a.Category = p.Category
	}
	for _, ref := range p.FacilityIDs {
		if ref != "" {
			a.FacilityIDs = append(a.FacilityIDs, string(ref))
		}
	}
	return a
}

type facilityPayload struct {
	ID         ID     `json:"id"`
	FacilityID ID     `json:"facilityId"`
	Name       string `json:"name"`
	Category   string `json:"category"`
}

func (p facilityPayload) canonical() entities.Facility {
	return entities.Facility{
		ID:       first(p.FacilityID, p.ID),
		Name:     p.Name,
		Category: p.Category,
	}
}

type userPayload struct {
	ID           ID     `json:"id"`
	UserID       ID     `json:"userId"`
	MobileNumber string `json:"mobileNumber"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	ProfileImage string `json:"profileImage"`
}

func (p userPayload) canonical() entities.User {
	return entities.User{
		ID:           first(p.UserID, p.ID),
		MobileNumber: p.MobileNumber,
		Email:        p.Email,
		Password:     p.Password,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		ProfileImage: p.ProfileImage,
	}
}

type commentPayload struct {
	ID              ID     `json:"id"`
	CommentID       ID     `json:"commentId"`
	UserID          ID     `json:"userId"`
	AccommodationID ID     `json:"accommodationId"`
	AccomodationID  ID     `json:"accomodationId"`
	Text            string `json:"text"`
	Rating          int    `json:"rating"`
}

func (p commentPayload) canonical() entities.Comment {
	return entities.Comment{
		ID:              first(p.CommentID, p.ID),
		UserID:          string(p.UserID),
		AccommodationID: first(p.AccommodationID, p.AccomodationID),
		Text:            p.Text,
		Rating:          p.Rating,
	}
}

type favoritePayload struct {
	ID              ID `json:"id"`
	FavoriteID      ID `json:"favoriteId"`
	UserID          ID `json:"userId"`
	AccommodationID ID `json:"accommodationId"`
	AccomodationID  ID `json:"accomodationId"`
}

func (p favoritePayload) canonical() entities.Favorite {
	return entities.Favorite{
		ID:              first(p.FavoriteID, p.ID),
		UserID:          string(p.UserID),
		AccommodationID: first(p.AccommodationID, p.AccomodationID),
	}
}

type bookingPayload struct {
	ID              ID      `json:"id"`
	BookingID       ID      `json:"bookingId"`
	UserID          ID      `json:"userId"`
	AccommodationID ID      `json:"accommodationId"`
	AccomodationID  ID      `json:"accomodationId"`
	BookingDate     string  `json:"bookingDate"`
	BookingTime     string  `json:"bookingTime"`
	PaymentMethod   string  `json:"paymentMethod"`
	TotalPrice      float64 `json:"totalPrice"`
}

func (p bookingPayload) canonical() entities.Booking {
	return entities.Booking{
		ID:              first(p.BookingID, p.ID),
		UserID:          string(p.UserID),
		AccommodationID: first(p.AccommodationID, p.AccomodationID),
		BookingDate:     p.BookingDate,
		BookingTime:     p.BookingTime,
		PaymentMethod:   p.PaymentMethod,
		TotalPrice:      p.TotalPrice,
	}
}

type datasetPayload struct {
	Facilities     []facilityPayload      `json:"facilities"`
	Users          []userPayload          `json:"users"`
	Accommodations []accommodationPayload `json:"accommodations"`
	Bookings       []bookingPayload       `json:"bookings"`
	Comments       []commentPayload       `json:"comments"`
	Favorites      []favoritePayload      `json:"favorites"`
}

func decodeOne[P any, T any](data []byte, convert func(P) T) (T, error) {
	var payload P
	if err := json.Unmarshal(data, &payload); err != nil {
		var zero T
		return zero, fmt.Errorf("decode payload: %w", err)
	}
	return convert(payload), nil
}

func decodeList[P any, T any](data []byte, convert func(P) T) ([]T, error) {
	var payloads []P
	if err := json.Unmarshal(data, &payloads); err != nil {
		return nil, fmt.Errorf("decode list payload: %w", err)
	}
	return convertAll(payloads, convert), nil
}

func convertAll[P any, T any](payloads []P, convert func(P) T) []T {
	out := make([]T, 0, len(payloads))
	for _, p := range payloads {
		out = append(out, convert(p))
	}
	return out
}

func DecodeAccommodations(data []byte) ([]entities.Accommodation, error) {
	return decodeList(data, accommodationPayload.canonical)
}

func DecodeAccommodation(data []byte) (entities.Accommodation, error) {
	return decodeOne(data, accommodationPayload.canonical)
}

func DecodeFacilities(data []byte) ([]entities.Facility, error) {
	return decodeList(data, facilityPayload.canonical)
}

func DecodeUsers(data []byte) ([]entities.User, error) {
	return decodeList(data, userPayload.canonical)
}

func DecodeUser(data []byte) (entities.User, error) {
	return decodeOne(data, userPayload.canonical)
}

func DecodeComments(data []byte) ([]entities.Comment, error) {
	return decodeList(data, commentPayload.canonical)
}

func DecodeComment(data []byte) (entities.Comment, error) {
	return decodeOne(data, commentPayload.canonical)
}

func DecodeFavorites(data []byte) ([]entities.Favorite, error) {
	return decodeList(data, favoritePayload.canonical)
}

func DecodeFavorite(data []byte) (entities.Favorite, error) {
	return decodeOne(data, favoritePayload.canonical)
}

func DecodeBookings(data []byte) ([]entities.Booking, error) {
	return decodeList(data, bookingPayload.canonical)
}

func DecodeBooking(data []byte) (entities.Booking, error) {
	return decodeOne(data, bookingPayload.canonical)
}

// DecodeDataset decodes a whole flat document
func DecodeDataset(data []byte) (*entities.Dataset, error) {
	var payload datasetPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return &entities.Dataset{
		Facilities:     convertAll(payload.Facilities, facilityPayload.canonical),
		Users:          convertAll(payload.Users, userPayload.canonical),
		Accommodations: convertAll(payload.Accommodations, accommodationPayload.canonical),
		Bookings:       convertAll(payload.Bookings, bookingPayload.canonical),
		Comments:       convertAll(payload.Comments, commentPayload.canonical),
		Favorites:      convertAll(payload.Favorites, favoritePayload.canonical),
	}, nil
}

// Encode marshals v using the canonical entity field names
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// EncodeIndent marshals v for human-edited documents
func EncodeIndent(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

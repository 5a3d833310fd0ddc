package travel

import "time"

const (
	MinRating = 1
	MaxRating = 5

	MinTravelers = 1
	MaxTravelers = 10
)

// Destination is a catalog entity. Catalog entities are never mutated after
// load; every read hands out values, not shared pointers into the catalog.
type Destination struct {
	ID                int      `json:"id" mapstructure:"id"`
	Name              string   `json:"name" mapstructure:"name"`
	Country           string   `json:"country" mapstructure:"country"`
	Description       string   `json:"description" mapstructure:"description"`
	ImageURL          string   `json:"imageUrl" mapstructure:"imageUrl"`
	Rating            int      `json:"rating" mapstructure:"rating"`
	PopularActivities []string `json:"popularActivities" mapstructure:"popularActivities"`
}

type Package struct {
	ID            int       `json:"id" mapstructure:"id"`
	DestinationID int       `json:"destinationId" mapstructure:"destinationId"`
	Name          string    `json:"name" mapstructure:"name"`
	Description   string    `json:"description" mapstructure:"description"`
	Duration      int       `json:"duration" mapstructure:"duration"`
	Price         float64   `json:"price" mapstructure:"price"`
	ImageURL      string    `json:"imageUrl" mapstructure:"imageUrl"`
	Itinerary     []string  `json:"itinerary" mapstructure:"itinerary"`
	Inclusions    []string  `json:"inclusions" mapstructure:"inclusions"`
	Exclusions    []string  `json:"exclusions" mapstructure:"exclusions"`
	AvailableFrom time.Time `json:"availableFrom" mapstructure:"availableFrom"`
	AvailableTo   time.Time `json:"availableTo" mapstructure:"availableTo"`
}

// Booking is the only mutable entity. The mutable field is Status; TotalPrice
// is frozen at creation and never recomputed.
type Booking struct {
	ID                int           `json:"id"`
	UserID            int           `json:"userId"`
	PackageID         int           `json:"packageId"`
	PackageName       string        `json:"packageName"`
	DestinationName   string        `json:"destinationName"`
	NumberOfTravelers int           `json:"numberOfTravelers"`
	TravelDate        time.Time     `json:"travelDate"`
	SpecialRequests   string        `json:"specialRequests,omitempty"`
	TotalPrice        float64       `json:"totalPrice"`
	BookingDate       time.Time     `json:"bookingDate"`
	Status            BookingStatus `json:"status"`
}

type User struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
}

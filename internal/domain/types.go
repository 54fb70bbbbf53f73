package domain

import "time"

type Restaurant struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	// Capacity is the number of seats still available, not a fixed maximum.
	Capacity       int    `json:"capacity"`
	OperatingHours string `json:"operatingHours"`
}

type Meal struct {
	ID           int64   `json:"id"`
	RestaurantID int64   `json:"restaurantId"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Date         Date    `json:"date"`
	MealType     string  `json:"mealType"` // breakfast, lunch, dinner
}

type ReservationStatus string

// StatusPending is never persisted: a reservation becomes ACTIVE as part of
// being created, so ACTIVE is the effective initial state.
const (
	StatusPending   ReservationStatus = "PENDING"
	StatusActive    ReservationStatus = "ACTIVE"
	StatusCompleted ReservationStatus = "COMPLETED"
	StatusCanceled  ReservationStatus = "CANCELED"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

type Reservation struct {
	ID              int64             `json:"id"`
	MealID          int64             `json:"mealId"`
	CustomerName    string            `json:"customerName"`
	CustomerEmail   string            `json:"customerEmail"`
	NumberOfPeople  int               `json:"numberOfPeople"`
	ReservationTime time.Time         `json:"reservationTime"`
	ReservationCode string            `json:"reservationCode"`
	Used            bool              `json:"isUsed"`
	Status          ReservationStatus `json:"status"`
}

// Forecast is a weather forecast for one location on one day. Persisted
// forecasts are unique per (Date, Location).
type Forecast struct {
	ID          int64   `json:"id,omitempty"`
	Date        Date    `json:"date"`
	Location    string  `json:"location"`
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
	Timestamp   int64   `json:"timestamp"`
}

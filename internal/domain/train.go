package domain

import "time"

// Train es una fila del listado de horarios. No se persiste.
type Train struct {
	TrainNumber             string `json:"train_number"`
	DepartureTime           string `json:"departure_time"`
	ArrivalTime             string `json:"arrival_time"`
	DepartureStationName    string `json:"departure_station_name"`
	ArrivalStationName      string `json:"arrival_station_name"`
	DurationMinutes         int    `json:"duration_minutes"`
	SpecialSeatAvailability string `json:"special_seat_availability"`
	NormalSeatAvailability  string `json:"normal_seat_availability"`
	ReservationAvailability string `json:"reservation_availability"`
	SpecialFare             int    `json:"special_fare"`
	NormalFare              int    `json:"normal_fare"`
}

type DateAvailability struct {
	Date       time.Time `json:"date"`
	IsBookable bool      `json:"is_bookable"`
}

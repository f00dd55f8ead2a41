package domain

import "time"

// SearchRecord guarda una busqueda de horarios realizada por un usuario.
type SearchRecord struct {
	ID            string    `json:"id"`
	OwnerHash     string    `json:"-"`
	DepartureCode string    `json:"departure_code"`
	ArrivalCode   string    `json:"arrival_code"`
	TravelDate    time.Time `json:"travel_date"`
	ResultCount   int       `json:"result_count"`
	CreatedAt     time.Time `json:"created_at"`
}

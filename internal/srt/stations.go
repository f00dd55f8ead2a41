package srt

import "srt-booking/internal/domain"

// Catalogo fijo de estaciones SRT. El listado del sitio casi no cambia, asi que
// este catalogo es la fuente de verdad del cliente; no es una cache.
var stationCatalog = []domain.Station{
	{Code: "0551", Name: "수서"},
	{Code: "0552", Name: "동탄"},
	{Code: "0553", Name: "평택지제"},
	{Code: "0502", Name: "천안아산"},
	{Code: "0297", Name: "오송"},
	{Code: "0010", Name: "대전"},
	{Code: "0015", Name: "동대구"},
	{Code: "0507", Name: "신경주"},
	{Code: "0020", Name: "울산"},
	{Code: "0025", Name: "부산"},
	{Code: "0508", Name: "광주송정"},
	{Code: "0509", Name: "목포"},
}

// Stations devuelve una copia del catalogo.
func Stations() []domain.Station {
	out := make([]domain.Station, len(stationCatalog))
	copy(out, stationCatalog)
	return out
}

func LookupStation(code string) (domain.Station, bool) {
	for _, s := range stationCatalog {
		if s.Code == code {
			return s, true
		}
	}
	return domain.Station{}, false
}

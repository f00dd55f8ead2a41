package srt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"srt-booking/internal/domain"
)

const (
	searchPath   = "/hpg/contents/search/list.do"
	searchPageID = "TK0101010000"
)

// Seoul es la zona horaria de fechas y horarios del sitio.
var Seoul = time.FixedZone("KST", 9*60*60)

// TrainQuery agrupa los parametros de una busqueda de horarios.
type TrainQuery struct {
	DepartureCode string
	ArrivalCode   string
	DepartAt      time.Time
}

func (q TrainQuery) form() url.Values {
	at := q.DepartAt.In(Seoul)
	form := url.Values{}
	form.Set("dptRsStnCd", q.DepartureCode)
	form.Set("arvRsStnCd", q.ArrivalCode)
	form.Set("dptDt", at.Format("20060102"))
	form.Set("dptTm", at.Format("150405"))
	form.Set("chtnDvCd", "1")    // solo ida
	form.Set("psgNum", "1")      // pasajeros
	form.Set("seatAttCd", "015") // clase general
	form.Set("arriveTime", "N")  // horario por salida
	form.Set("pageId", searchPageID)
	return form
}

// ParseDeparture combina una fecha YYYYMMDD y una hora HHMMSS (o HHMM) en KST.
// Una hora vacia equivale al inicio del dia.
func ParseDeparture(date, clock string) (time.Time, error) {
	clock = strings.TrimSpace(clock)
	switch len(clock) {
	case 0:
		clock = "000000"
	case 4:
		clock += "00"
	}
	t, err := time.ParseInLocation("20060102150405", strings.TrimSpace(date)+clock, Seoul)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse departure %q %q: %w", date, clock, err)
	}
	return t, nil
}

// Campos remotos de cada fila de dsOutput1.
const (
	fieldTrainNumber      = "stlbTrnNo"
	fieldDepartureTime    = "dptTm"
	fieldArrivalTime      = "arvTm"
	fieldDepartureStation = "dptRsStnNm"
	fieldArrivalStation   = "arvRsStnNm"
	fieldDuration         = "reqTime"
	fieldSpecialSeat      = "sprmRsvPsbStr"
	fieldNormalSeat       = "gnrmRsvPsbStr"
	fieldReservation      = "rsvPsbStr"
	fieldSpecialFare      = "sprmRsvPrc"
	fieldNormalFare       = "gnrmRsvPrc"
)

type searchEnvelope struct {
	OutDataSets *struct {
		Rows []map[string]any `json:"dsOutput1"`
	} `json:"outDataSets"`
}

// ParseTrainListing convierte la respuesta JSON de la busqueda. Las filas con
// campos obligatorios ausentes o numeros invalidos se descartan y se cuentan
// en dropped; nunca se inventa un valor por defecto.
func ParseTrainListing(body []byte) (trains []domain.Train, dropped int, err error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var env searchEnvelope
	if err := dec.Decode(&env); err != nil {
		return nil, 0, fmt.Errorf("%w: decode train listing: %v", ErrUnexpectedResponse, err)
	}
	if env.OutDataSets == nil {
		return []domain.Train{}, 0, nil
	}

	trains = make([]domain.Train, 0, len(env.OutDataSets.Rows))
	for _, row := range env.OutDataSets.Rows {
		train, err := parseTrainRow(row)
		if err != nil {
			dropped++
			continue
		}
		trains = append(trains, train)
	}
	return trains, dropped, nil
}

var errBadRow = errors.New("invalid train row")

func parseTrainRow(row map[string]any) (domain.Train, error) {
	var t domain.Train
	var ok bool
	if t.TrainNumber, ok = text(row, fieldTrainNumber); !ok || t.TrainNumber == "" {
		return domain.Train{}, errBadRow
	}
	if t.DepartureTime, ok = text(row, fieldDepartureTime); !ok {
		return domain.Train{}, errBadRow
	}
	if t.ArrivalTime, ok = text(row, fieldArrivalTime); !ok {
		return domain.Train{}, errBadRow
	}
	t.DepartureStationName, _ = text(row, fieldDepartureStation)
	t.ArrivalStationName, _ = text(row, fieldArrivalStation)
	t.SpecialSeatAvailability, _ = text(row, fieldSpecialSeat)
	t.NormalSeatAvailability, _ = text(row, fieldNormalSeat)
	t.ReservationAvailability, _ = text(row, fieldReservation)

	var err error
	if t.DurationMinutes, err = duration(row, fieldDuration); err != nil {
		return domain.Train{}, err
	}
	if t.SpecialFare, err = amount(row, fieldSpecialFare); err != nil {
		return domain.Train{}, err
	}
	if t.NormalFare, err = amount(row, fieldNormalFare); err != nil {
		return domain.Train{}, err
	}
	return t, nil
}

func text(row map[string]any, key string) (string, bool) {
	switch v := row[key].(type) {
	case string:
		return strings.TrimSpace(v), true
	case json.Number:
		return v.String(), true
	default:
		return "", false
	}
}

func amount(row map[string]any, key string) (int, error) {
	raw, ok := text(row, key)
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", errBadRow, key)
	}
	n, err := strconv.Atoi(strings.ReplaceAll(raw, ",", ""))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s=%q", errBadRow, key, raw)
	}
	return n, nil
}

// duration acepta HHMM de cuatro digitos o minutos enteros.
func duration(row map[string]any, key string) (int, error) {
	raw, ok := text(row, key)
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", errBadRow, key)
	}
	if len(raw) == 4 && isDigits(raw) {
		h, _ := strconv.Atoi(raw[:2])
		m, _ := strconv.Atoi(raw[2:])
		if m < 60 {
			return h*60 + m, nil
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s=%q", errBadRow, key, raw)
	}
	return n, nil
}

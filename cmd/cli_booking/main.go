package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"srt-booking/internal/config"
	"srt-booking/internal/domain"
	"srt-booking/internal/srt"
)

func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadSRTConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	client := srt.NewClient(srt.Options{
		BaseURL:         cfg.SRTBaseURL,
		UserAgent:       cfg.SRTUserAgent,
		Timeout:         cfg.SRTTimeout,
		DateWindow:      cfg.SRTDateWindowDays,
		DateConcurrency: cfg.SRTDateConcurrency,
	}, logger)

	handle, err := loginFlow(ctx, reader, client)
	if err != nil {
		log.Fatalf("login: %v", err)
	}
	defer client.Logout(ctx, handle)

	stations := client.Stations()
	for {
		fmt.Println("\n===== Reserva SRT =====")
		dep, ok := pickStation(reader, stations, "Estacion de salida")
		if !ok {
			return
		}
		arr, ok := pickStation(reader, stations, "Estacion de llegada")
		if !ok {
			return
		}

		if err := datesFlow(ctx, client, handle, dep, arr); err != nil {
			if handleSessionError(err) {
				return
			}
			fmt.Printf("Error consultando fechas: %v\n", err)
			continue
		}

		if err := trainsFlow(ctx, reader, client, handle, dep, arr); err != nil {
			if handleSessionError(err) {
				return
			}
			fmt.Printf("Error consultando horarios: %v\n", err)
		}

		fmt.Print("\nOtra busqueda? [s/N]: ")
		again, _ := reader.ReadString('\n')
		if !strings.EqualFold(strings.TrimSpace(again), "s") {
			return
		}
	}
}

func loginFlow(ctx context.Context, reader *bufio.Reader, client *srt.Client) (string, error) {
	for attempt := 0; attempt < 3; attempt++ {
		fmt.Print("Usuario (socio, email o telefono): ")
		user, _ := reader.ReadString('\n')
		fmt.Print("Contrasena: ")
		pass, _ := reader.ReadString('\n')

		handle, err := client.Login(ctx, strings.TrimSpace(user), strings.TrimSpace(pass))
		if err == nil {
			fmt.Println("Sesion iniciada.")
			return handle, nil
		}
		var credErr *srt.CredentialsError
		if errors.As(err, &credErr) {
			fmt.Printf("Login rechazado: %s\n", credErr.Message)
			continue
		}
		return "", err
	}
	return "", errors.New("too many failed attempts")
}

func pickStation(reader *bufio.Reader, stations []domain.Station, prompt string) (string, bool) {
	for {
		fmt.Println(prompt + ":")
		for i, s := range stations {
			fmt.Printf("[%d] %s (%s)\n", i+1, s.Name, s.Code)
		}
		fmt.Print("Selecciona (q para salir): ")
		line, _ := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if strings.EqualFold(line, "q") {
			return "", false
		}
		idx, err := strconv.Atoi(line)
		if err != nil || idx < 1 || idx > len(stations) {
			fmt.Println("Seleccion invalida.")
			continue
		}
		return stations[idx-1].Code, true
	}
}

func datesFlow(ctx context.Context, client *srt.Client, handle, dep, arr string) error {
	fmt.Println("Consultando fechas disponibles...")
	dates, err := client.AvailableDates(ctx, handle, dep, arr, time.Now())
	if err != nil {
		return err
	}
	for _, d := range dates {
		mark := "-"
		if d.IsBookable {
			mark = "O"
		}
		fmt.Printf("  %s %s\n", d.Date.Format("2006-01-02 (Mon)"), mark)
	}
	return nil
}

func trainsFlow(ctx context.Context, reader *bufio.Reader, client *srt.Client, handle, dep, arr string) error {
	fmt.Print("Fecha (YYYYMMDD): ")
	date, _ := reader.ReadString('\n')
	fmt.Print("Hora desde (HHMM, vacio = 0000): ")
	clock, _ := reader.ReadString('\n')

	departAt, err := srt.ParseDeparture(strings.TrimSpace(date), strings.TrimSpace(clock))
	if err != nil {
		return err
	}
	trains, err := client.SearchTrains(ctx, handle, dep, arr, departAt)
	if err != nil {
		return err
	}
	if len(trains) == 0 {
		fmt.Println("No hay trenes para esa fecha.")
		return nil
	}
	printTrains(trains)
	return nil
}

func printTrains(trains []domain.Train) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TREN\tSALIDA\tLLEGADA\tDURACION\tESPECIAL\tGENERAL\tTARIFA")
	for _, t := range trains {
		fmt.Fprintf(w, "%s\t%s %s\t%s %s\t%dmin\t%s\t%s\t%d/%d\n",
			t.TrainNumber,
			t.DepartureStationName, clockLabel(t.DepartureTime),
			t.ArrivalStationName, clockLabel(t.ArrivalTime),
			t.DurationMinutes,
			t.SpecialSeatAvailability,
			t.NormalSeatAvailability,
			t.SpecialFare, t.NormalFare,
		)
	}
	w.Flush()
}

// clockLabel formatea HHMMSS como HH:MM.
func clockLabel(raw string) string {
	if len(raw) < 4 {
		return raw
	}
	return raw[:2] + ":" + raw[2:4]
}

func handleSessionError(err error) bool {
	switch {
	case errors.Is(err, srt.ErrSessionExpired):
		fmt.Println("La sesion expiro. Vuelve a iniciar la CLI.")
		return true
	case errors.Is(err, srt.ErrNotAuthenticated):
		fmt.Println("No hay sesion activa.")
		return true
	}
	return false
}

// bookingexport dumps booking records from the database as CSV, for ad-hoc
// reporting on ticket demand.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/aarthigrand/cinebot/core/booking"
	coreconfig "github.com/aarthigrand/cinebot/core/config"
	"github.com/aarthigrand/cinebot/core/database"
	"github.com/aarthigrand/cinebot/core/logger"
)

func main() {
	var (
		cfgPath = flag.String("config", "config.yaml", "path to the bot configuration file")
		since   = flag.String("since", "", "only include bookings created at or after this time (RFC 3339); default is all")
		out     = flag.String("out", "", "output file; default is stdout")
	)
	flag.Parse()

	cfg, err := coreconfig.Load(*cfgPath)
	if err != nil {
		log.Fatalf("bookingexport: load config: %v", err)
	}
	if !cfg.Database.Enabled {
		log.Fatal("bookingexport: database is not enabled in the configuration")
	}

	if err := logger.InitLogger(cfg); err != nil {
		log.Fatalf("bookingexport: init logger: %v", err)
	}
	defer logger.Shutdown()

	var cutoff time.Time
	if *since != "" {
		cutoff, err = time.Parse(time.RFC3339, *since)
		if err != nil {
			log.Fatalf("bookingexport: parse -since: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := database.Connect(database.FromAppConfig(cfg.Database))
	if err != nil {
		log.Fatalf("bookingexport: connect: %v", err)
	}
	defer db.Close()

	events, err := booking.NewStoreSink(db).ListSince(ctx, cutoff)
	if err != nil {
		log.Fatalf("bookingexport: %v", err)
	}

	dst := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("bookingexport: create %s: %v", *out, err)
		}
		defer f.Close()
		dst = f
	}

	if err := writeCSV(dst, events); err != nil {
		log.Fatalf("bookingexport: write csv: %v", err)
	}
	if *out != "" {
		fmt.Fprintf(os.Stderr, "wrote %d bookings to %s\n", len(events), *out)
	}
}

func writeCSV(dst *os.File, events []booking.Event) error {
	w := csv.NewWriter(dst)
	if err := w.Write([]string{"booking_id", "user_id", "tickets", "location", "created_at"}); err != nil {
		return err
	}
	for _, ev := range events {
		record := []string{
			ev.ID,
			ev.UserID,
			strconv.Itoa(ev.Tickets),
			ev.Location,
			ev.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

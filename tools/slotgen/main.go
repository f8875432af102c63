package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

// slotgen emits a slot-inventory JSON file suitable for SLOT_SEED_PATH or the
// admin provisioning endpoint: a configurable number of daily windows per
// postal code over N days.

type slotRecord struct {
	SlotID         string `json:"slotId"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	TechnicianType string `json:"technicianType"`
	PostalCode     string `json:"postalCode"`
}

type inventory struct {
	Slots []slotRecord `json:"slots"`
}

func main() {
	var (
		startDate   = flag.String("start", getenv("START_DATE", time.Now().UTC().AddDate(0, 0, 1).Format(time.DateOnly)), "first day of the inventory (YYYY-MM-DD)")
		days        = flag.Int("days", 7, "number of consecutive days to generate")
		postalCodes = flag.String("postal-codes", getenv("POSTAL_CODES", "94105,94107"), "comma-separated postal codes")
		perDay      = flag.Int("per-day", 3, "slot windows per postal code per day")
		durationHrs = flag.Int("duration-hours", 2, "slot length in hours")
		firstHour   = flag.Int("first-hour", 9, "UTC hour of the first window each day")
		out         = flag.String("out", "", "output file (defaults to stdout)")
	)
	flag.Parse()

	start, err := time.Parse(time.DateOnly, *startDate)
	if err != nil {
		fatal("invalid -start: " + err.Error())
	}
	if *days <= 0 || *perDay <= 0 || *durationHrs <= 0 {
		fatal("-days, -per-day and -duration-hours must be positive")
	}

	codes := splitCodes(*postalCodes)
	if len(codes) == 0 {
		fatal("at least one postal code is required")
	}

	var inv inventory
	for day := 0; day < *days; day++ {
		date := start.AddDate(0, 0, day)
		for _, code := range codes {
			for i := 0; i < *perDay; i++ {
				windowStart := time.Date(date.Year(), date.Month(), date.Day(), *firstHour, 0, 0, 0, time.UTC).
					Add(time.Duration(i*(*durationHrs+1)) * time.Hour)
				inv.Slots = append(inv.Slots, slotRecord{
					SlotID:         fmt.Sprintf("SLOT-%s-%s%c", code, date.Format("0102"), 'A'+rune(i)),
					StartTime:      windowStart.Format(time.RFC3339),
					EndTime:        windowStart.Add(time.Duration(*durationHrs) * time.Hour).Format(time.RFC3339),
					TechnicianType: "ACTIVATION_INSTALL",
					PostalCode:     code,
				})
			}
		}
	}

	data, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		fatal(err.Error())
	}
	data = append(data, '\n')

	if *out == "" {
		_, _ = os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		fatal(err.Error())
	}
	fmt.Fprintf(os.Stderr, "wrote %d slots to %s\n", len(inv.Slots), *out)
}

func splitCodes(raw string) []string {
	var codes []string
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			codes = append(codes, c)
		}
	}
	return codes
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, "slotgen: "+msg)
	os.Exit(1)
}

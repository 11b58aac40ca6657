// Command letter-preview renders a sample offer letter to a PDF file so the
// layout can be checked without running the server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/garnizeh/offerdesk/internal/config"
	"github.com/garnizeh/offerdesk/internal/escalation"
	"github.com/garnizeh/offerdesk/internal/letter"
	"github.com/garnizeh/offerdesk/pkg/models"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file")
	out := flag.String("out", "", "Output file (defaults to the suggested filename)")
	name := flag.String("name", "Jane Doe", "Candidate name")
	position := flag.String("position", "Data Scientist", "Role from the catalog")
	salary := flag.Int64("salary", 85000, "Monthly salary")
	days := flag.Int("days", 21, "Days from today until the start date")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	today := models.DateOf(time.Now().In(cfg.Location()))
	o := &models.Offer{
		ID:               "preview",
		Name:             *name,
		Email:            "candidate@example.com",
		Address:          "221B Baker Street, London",
		Position:         *position,
		StartDate:        today.AddDays(*days),
		EmploymentType:   models.FullTime,
		Location:         "Hyderabad",
		MonthlySalary:    *salary,
		HRName:           cfg.Workflow.DefaultHRName,
		ReportingManager: "Ravi Kumar",
		State:            models.StatePreviewReady,
	}

	a, err := letter.NewComposer(cfg.Company, cfg.Clock()).Compose(o)
	if err != nil {
		log.Fatalf("compose: %v", err)
	}
	path := *out
	if path == "" {
		path = a.Filename
	}
	if err := os.WriteFile(path, a.Content, 0o644); err != nil {
		log.Fatalf("write %s: %v", path, err)
	}
	fmt.Printf("wrote %s (%d bytes, escalation %s)\n", path, len(a.Content), escalation.Classify(o, today))
}

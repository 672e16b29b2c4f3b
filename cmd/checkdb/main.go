// Command checkdb registers a test student and prints every student with
// its card. It is a manual check of the database, not part of the form.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"cardregistry/internal/config"
	"cardregistry/internal/database"
	"cardregistry/internal/logger"
	"cardregistry/internal/service"
)

func main() {
	if err := run(context.Background(), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "checkdb:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Output: os.Stderr})

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return err
	}
	defer database.Close(db)

	registration := service.NewRegistrationService(db, log)
	students := service.NewStudentService(db)

	fmt.Fprintln(out, "Adding a test student with a card...")
	result, err := registration.Register(ctx, service.RegistrationRequest{
		Surname:    "TestNom",
		GivenName:  "TestPrenom",
		CardNumber: "TEST001",
	})
	if err != nil {
		fmt.Fprintln(out, err)
	} else {
		fmt.Fprintln(out, result.Message)
		card, err := students.CardForStudent(ctx, result.Student.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "student -> card: %v\n", card)
	}

	return printStudents(ctx, out, students)
}

func printStudents(ctx context.Context, out io.Writer, students *service.StudentService) error {
	fmt.Fprintln(out, "\nAll students:")

	records, _, _, err := students.ListStudents(ctx, 0, 0)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No students found.")
		return nil
	}

	for _, rec := range records {
		cardInfo := "no card"
		if rec.Card != nil {
			cardInfo = "Card: " + rec.Card.Number
		}
		fmt.Fprintf(out, "- %s %s | %s\n", rec.Student.Surname, rec.Student.GivenName, cardInfo)
	}
	return nil
}

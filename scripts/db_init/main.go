package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	dbfs "github.com/garnizeh/offerdesk/db"
	"github.com/garnizeh/offerdesk/internal/config"
	"github.com/garnizeh/offerdesk/internal/db"
	"github.com/garnizeh/offerdesk/internal/repository/sqlite"
	"github.com/garnizeh/offerdesk/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file")
	username := flag.String("operator", "", "Create or update this operator account")
	password := flag.String("password", "", "Password for -operator")
	role := flag.String("role", models.OperatorHR, "Role for -operator (HR or Manager)")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	database, err := db.New(ctx, cfg.DatabasePath, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	// run migrations and seed using internal/db.Migrate
	if err := db.Migrate(ctx, database, dbfs.Migrations, dbfs.SeedFiles); err != nil {
		fmt.Fprintf(os.Stderr, "Migration runner error: %v\n", err)
		os.Exit(1)
	}

	if *username != "" {
		if *password == "" {
			fmt.Fprintln(os.Stderr, "-password is required with -operator")
			os.Exit(1)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Hash error: %v\n", err)
			os.Exit(1)
		}
		op := &models.Operator{Username: *username, PasswordHash: string(hash), Role: *role}
		if err := sqlite.New(database, nil).UpsertOperator(ctx, op); err != nil {
			fmt.Fprintf(os.Stderr, "Operator error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Operator %s (%s) saved.\n", op.Username, op.Role)
	}

	fmt.Println("Database initialized successfully.")
}

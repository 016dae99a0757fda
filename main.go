package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mkowalski/homelibrary/internal/auth"
	"github.com/mkowalski/homelibrary/internal/config"
	"github.com/mkowalski/homelibrary/internal/database"
	"github.com/mkowalski/homelibrary/internal/database/users"
	"github.com/mkowalski/homelibrary/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
)

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	switch os.Args[1] {
	case "create-user":
		if err := createUser(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "-h", "--help", "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// createUser registers an account without going through the HTTP surface.
// Usage: homelibrary create-user <username> <email> [full name]
func createUser(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: create-user <username> <email> [full name]")
	}
	username, email := args[0], args[1]
	fullName := strings.Join(args[2:], " ")

	fmt.Print("Password: ")
	reader := bufio.NewReader(os.Stdin)
	password, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	password = strings.TrimSpace(password)

	cfg := config.NewConfig()
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	service := auth.NewService(users.NewRepository(db.DB), cfg.Auth)
	user, err := service.SignUp(username, email, password, fullName)
	if err != nil {
		return err
	}

	fmt.Printf("Created user %s (id %d)\n", user.Username, user.ID)
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve        Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  create-user  Register an account: create-user <username> <email> [full name]\n")
}

package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/config"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/service"
	"golang.org/x/term"
)

// hash-password prints a bcrypt hash suitable for PROCTOR_PASSWORD_HASH.
func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()
	authService := service.NewAuthService(cfg)

	// ─── CLI Input ─────────────────────────────────────────────────────
	fmt.Fprintf(os.Stderr, "=== Proctor password for %q ===\n", cfg.ProctorUsername)

	fmt.Fprint(os.Stderr, "Enter Password: ")
	first, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error reading password")
		os.Exit(1)
	}
	if len(first) < 6 {
		fmt.Fprintln(os.Stderr, "Error: Password must be at least 6 characters")
		os.Exit(1)
	}

	fmt.Fprint(os.Stderr, "Confirm Password: ")
	second, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error reading password")
		os.Exit(1)
	}
	if string(first) != string(second) {
		fmt.Fprintln(os.Stderr, "Error: Passwords do not match")
		os.Exit(1)
	}

	hash, err := authService.HashPassword(string(first))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing password: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr, "Add this to your environment:")
	fmt.Printf("PROCTOR_PASSWORD_HASH=%s\n", hash)
}

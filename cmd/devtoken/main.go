// Command devtoken prints a bearer token for a user ID, signed with the
// configured secret, for calling the API locally.
//
//	POKETT_AUTH_JWT_SECRET=dev go run ./cmd/devtoken -user alice
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cocoexperiments/pokett-be/internal/auth"
	"github.com/cocoexperiments/pokett-be/internal/config"
	"github.com/cocoexperiments/pokett-be/internal/models"
)

func main() {
	user := flag.String("user", "", "user ID to embed in the token")
	email := flag.String("email", "", "optional email claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *user == "" {
		fmt.Fprintln(os.Stderr, "usage: devtoken -user <id> [-email <email>] [-ttl 24h]")
		os.Exit(2)
	}

	cfg, err := config.Load(os.Getenv("POKETT_CONFIG"))
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	token, err := auth.NewJWTManager(cfg.Auth.JWTSecret, *ttl).Generate(&models.User{
		ID:    models.UserID(*user),
		Email: *email,
	})
	if err != nil {
		slog.Error("Failed to generate token", "error", err)
		os.Exit(1)
	}
	fmt.Println(token)
}

// Command issue-token prints a deposit API access token for local testing.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/ntuananhdevs/banking-onl/internal/config"
	"github.com/ntuananhdevs/banking-onl/internal/infrastructure/auth"
)

func main() {
	userID := flag.Int64("user", 0, "user id to embed in the token")
	flag.Parse()

	if *userID <= 0 {
		fmt.Fprintln(os.Stderr, "usage: issue-token -user <id>")
		os.Exit(2)
	}

	cfg := config.Load()
	token, err := auth.NewJWTService(cfg.JWTSecret, cfg.JWTTTL).Generate(*userID)
	if err != nil {
		slog.Error("failed to issue token", "user_id", *userID, "error", err)
		os.Exit(1)
	}
	fmt.Println(token)
}

// Command admintoken mints a bearer token for the admin API guard.
// It signs with the same JWT_SECRET the server verifies against.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"eventboard/config"
	"eventboard/internal/adapters/auth"
)

func main() {
	subject := flag.String("subject", "admin", "token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is not set; the admin guard is disabled and needs no token")
		os.Exit(1)
	}

	token, err := auth.NewJWTIssuer(cfg.JWTSecret).Issue(*subject, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to issue token:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}

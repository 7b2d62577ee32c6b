// Command token mints a bearer token for the write routes of events-api.
// It reads the same .env, EVENTS_CONFIG file and environment as the server.
//
//	go run ./cmd/token -sub scoreboard-importer
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Tharoon321/events-api/config"
	"github.com/Tharoon321/events-api/logger"
	"github.com/Tharoon321/events-api/utils"
)

func main() {
	_ = godotenv.Load()
	logger.Setup("development", "info")

	cfg, err := config.LoadAuth()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	sub := flag.String("sub", "", "token subject (required)")
	role := flag.String("role", cfg.WriterRole, "role claim")
	ttl := flag.Duration("ttl", cfg.TokenTTL(), "token lifetime")
	flag.Parse()

	if *sub == "" {
		flag.Usage()
		os.Exit(2)
	}

	token, err := utils.GenerateJWT(cfg.JWTSecret, *sub, *role, *ttl)
	if err != nil {
		log.Fatal().Err(err).Msg("could not generate token")
	}
	fmt.Println(token)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/lingo-account/config"
	"github.com/oksasatya/lingo-account/internal/application"
	"github.com/oksasatya/lingo-account/internal/container"
	"github.com/oksasatya/lingo-account/pkg/apperror"
	"github.com/oksasatya/lingo-account/pkg/helpers"
)

// Seeds a demo account through the same service the HTTP API uses.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	// no welcome mail for the demo account
	cfg.MailSendEnabled = false

	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	ctx := context.Background()

	c, err := container.Build(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to build container: %v", err)
	}
	defer c.Close()

	in := application.RegisterInput{
		Name:     "Demo User",
		Email:    "demo@lingo.dev",
		Password: "password123",
	}
	res, err := application.NewAccountService(c.Deps()).Register(ctx, in, nil)
	switch {
	case errors.Is(err, apperror.ErrConflict):
		fmt.Printf("demo account already present: email=%s\n", in.Email)
	case err != nil:
		log.Fatalf("failed to seed account: %v", err)
	default:
		fmt.Printf("seeded account: id=%s email=%s password=%s\n", res.Account.ID, in.Email, in.Password)
	}
}

package main

import (
	"context"
	"fmt"
	"os"

	accountservice "ride-hail-accounts/internal/account-service"
	"ride-hail-accounts/internal/config"
	"ride-hail-accounts/internal/mylogger"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	mylog, err := mylogger.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	if err := accountservice.Execute(context.Background(), mylog, cfg); err != nil {
		mylog.Error("account service stopped with error", err)
		os.Exit(1)
	}
}

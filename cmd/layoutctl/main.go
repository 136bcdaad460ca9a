package main

import (
	"context"
	"fmt"
	"os"

	"github.com/GregMSThompson/dashboard-backend/internal/cli"
	"github.com/GregMSThompson/dashboard-backend/internal/config"
)

func main() {
	cfg := config.New()
	if err := cli.NewRootCmd(cfg, cli.Open).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Command apicheck runs smoke checks against a running travel API and exits
// non-zero when the deployment looks unhealthy: fewer than two successful
// recommendation calls or fewer than 70% of checks passing.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neexbeast/travel-compass/internal/apicheck"
)

func main() {
	baseURL := flag.String("base-url", envOrDefault("APICHECK_BASE_URL", "http://localhost:8001"), "API base URL (without /api)")
	recTimeout := flag.Duration("rec-timeout", 30*time.Second, "timeout for each recommendations call")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("checking %s\n", *baseURL)
	rep := apicheck.NewRunner(*baseURL, os.Stdout, *recTimeout).Run(ctx)

	fmt.Println("\n== Summary ==")
	fmt.Printf("checks=%d passed=%d failed=%d recommendations=%d/%d\n",
		len(rep.Results), rep.Passed(), len(rep.Results)-rep.Passed(),
		rep.RecommendationsSucceeded, rep.RecommendationsAttempted)

	if !rep.OK() {
		fmt.Println("api has significant issues")
		os.Exit(1)
	}
	fmt.Println("api is functioning")
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"gptading/backend/pkg/client"
)

// Exits non-zero unless the server answers /api/status. Meant for container health checks.
func main() {
	baseURL := flag.String("url", "http://localhost:3333", "server base URL")
	timeout := flag.Duration("timeout", 5*time.Second, "request timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	c, err := client.New(*baseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "status check failed: %v\n", err)
		os.Exit(1)
	}

	status, err := c.Status(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "status check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s %s: %s (%s)\n", status.App, status.Version, status.Status, status.Timestamp)
}

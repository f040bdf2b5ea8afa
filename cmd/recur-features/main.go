// Command recur-features computes recurrence features for transactions read
// from a CSV file or the feature database.
//
//	recur-features -input txs.csv -format csv > features.csv
//	recur-features -input txs.csv -save -db recurscan.db
//	recur-features -db recurscan.db -user u1
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/eshaffer321/recurscan/internal/cli"
)

func main() {
	flags, err := cli.ParseFeatureFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.RunFeatures(ctx, flags, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

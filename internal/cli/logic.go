package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/idelchi/dupes/internal/dupes"
)

func logic(options dupes.Options) error {
	jsonMode := strings.ToLower(options.Output) == "json"

	enableProgress := !jsonMode &&
		!options.Debug &&
		isatty.IsTerminal(os.Stderr.Fd())

	// An interrupt stops the walker and drains in-flight hashing; groups
	// already determined have been printed, nothing partial follows.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Simple progress callback that prints directly to stderr
	var progressHook func(files, bytes int64)

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(os.Stderr, "\033[?25l")
		defer fmt.Fprint(os.Stderr, "\033[?25h")

		progressHook = func(files, bytes int64) {
			msg := fmt.Sprintf("Scanning… %d files, %s",
				files, humanize.IBytes(uint64(bytes))) //nolint:gosec // Bytes is always positive
			fmt.Fprintf(os.Stderr, "\r\033[2K%s\r", msg)
		}
	}

	scan, err := dupes.Run(ctx, options, progressHook)
	if err != nil {
		return err
	}

	var groups []dupes.Group

	first := true

	for group := range scan.Groups() {
		if jsonMode {
			groups = append(groups, group)

			continue
		}

		PrintGroup(os.Stdout, group, first)

		first = false
	}

	stats, err := scan.Wait()

	// Clear the status line
	if enableProgress {
		fmt.Fprint(os.Stderr, "\r\033[2K\r")
	}

	if err != nil {
		return err
	}

	if jsonMode {
		return PrintJSON(&Report{Groups: groups, Stats: stats}, os.Stdout)
	}

	// Summary goes to stderr so stdout stays pipeable (one path per line
	// inside each group).
	return PrintSummary(stats, os.Stderr)
}

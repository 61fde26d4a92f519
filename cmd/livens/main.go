package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/livens/internal/config"
	"github.com/funvibe/livens/internal/journal"
	"github.com/funvibe/livens/internal/session"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "help", "-help", "--help":
		printUsage()
	case "run":
		if err := handleRun(os.Args[2:]); err != nil {
			fail(err)
		}
	case "log":
		if err := handleLog(os.Args[2:]); err != nil {
			fail(err)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  livens run <script.yaml> [-journal <file>] [-v]   Replay a session script")
	fmt.Println("  livens log <journal-file> [-n <count>]            Show recent passes from a journal")
	fmt.Println("  livens help                                       Show this help")
	fmt.Println()
	fmt.Printf("The %s environment variable supplies a default journal path for run.\n", config.JournalEnvVar)
}

func handleRun(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("run: missing script path")
	}
	scriptPath := args[0]

	journalPath := os.Getenv(config.JournalEnvVar)
	verbose := false
	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-journal", "--journal":
			if i+1 >= len(args) {
				return fmt.Errorf("run: -journal needs a path")
			}
			i++
			journalPath = args[i]
		case "-v", "--verbose":
			verbose = true
		default:
			return fmt.Errorf("run: unknown flag %s", args[i])
		}
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	options := []session.Option{session.WithLogger(logger)}
	if journalPath != "" {
		j, err := journal.Open(journalPath)
		if err != nil {
			return err
		}
		defer j.Close()
		options = append(options, session.WithJournal(j))
	}

	rt, err := session.NewRuntime(options...)
	if err != nil {
		return err
	}
	script, err := session.LoadScript(scriptPath)
	if err != nil {
		return err
	}
	if err := script.Run(rt); err != nil {
		return err
	}

	printNamespaces(rt)
	return nil
}

func printNamespaces(rt *session.Runtime) {
	reg := rt.Registry()
	for _, name := range reg.Names() {
		ns, _ := reg.Lookup(name)
		exports := ns.Exports()
		fmt.Printf("%s (%d exports, %d persisted locals)\n", colored(name), len(exports), len(ns.Locals()))
		for key, value := range exports {
			fmt.Printf("  %s = %v\n", key, value)
		}
	}
}

func handleLog(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("log: missing journal path")
	}
	limit := 20
	if len(args) >= 3 && (args[1] == "-n" || args[1] == "--count") {
		if _, err := fmt.Sscanf(args[2], "%d", &limit); err != nil {
			return fmt.Errorf("log: bad count %q", args[2])
		}
	}

	j, err := journal.Open(args[0])
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := j.Recent(limit)
	if err != nil {
		return err
	}
	for _, e := range entries {
		outcome := e.Outcome
		if outcome == "" {
			outcome = "open"
		}
		fmt.Printf("%s  %-24s %-9s %s\n",
			e.StartedAt.Local().Format("2006-01-02 15:04:05"), e.Namespace, outcome, e.Detail)
	}
	return nil
}

func isTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func colored(s string) string {
	if !isTTY() {
		return s
	}
	return "\x1b[1;36m" + s + "\x1b[0m"
}

func fail(err error) {
	msg := fmt.Sprintf("Error: %v", err)
	if isatty.IsTerminal(os.Stderr.Fd()) {
		msg = "\x1b[1;31m" + msg + "\x1b[0m"
	}
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}

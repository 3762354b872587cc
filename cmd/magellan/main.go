// Command magellan is the CLI entry point (spec.md §6): a subcommand-per-
// operation binary where `watch` drives the Pipeline, the read-only lookups
// go through internal/query, and `verify` goes through internal/validate.
// main() dispatches to a subcommand by the first positional argument; each
// subcommand parses its own flags with the standard library's flag package.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/oldnordic/magellan/internal/cliio"
	"github.com/oldnordic/magellan/internal/identity"
	"github.com/oldnordic/magellan/internal/magerr"
	"github.com/oldnordic/magellan/internal/pipeline"
	"github.com/oldnordic/magellan/internal/query"
	"github.com/oldnordic/magellan/internal/store"
	"github.com/oldnordic/magellan/internal/validate"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "watch":
		return cmdWatch(rest)
	case "status":
		return cmdStatus(rest)
	case "query":
		return cmdQuery(rest)
	case "find":
		return cmdFind(rest)
	case "refs":
		return cmdRefs(rest)
	case "files":
		return cmdFiles(rest)
	case "collisions":
		return cmdCollisions(rest)
	case "export":
		return cmdExport(rest)
	case "verify":
		return cmdVerify(rest)
	case "--help", "-h", "help":
		printUsage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "magellan: unknown command %q\n\n", cmd)
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Usage: magellan <command> [flags]

Commands:
  watch       --root --db [--debounce-ms N] [--scan-initial|--watch-only] [--validate] [--include GLOB]... [--exclude GLOB]...
  status      --db
  query       --db --file PATH [--kind K] [--symbol NAME]
  find        --db (--name N | --symbol-id ID) [--path P]
  refs        --db --name N --path P [--direction in|out]
  files       --db
  collisions  --db [--field display_fqn|canonical_fqn]
  export      --db [--kind K] [--path P]
  verify      --db --root [--execution-id ID]

Every command accepts --output {human,json,pretty} (default human).
`)
}

// parseFlags builds a FlagSet for one subcommand. Flags are registered by
// the caller before Parse runs; ContinueOnError lets main() turn a bad flag
// into the usual exit-code-2 usage error instead of flag's own os.Exit(2).
func parseFlags(name string, args []string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

// repeatedFlag accumulates one or more --flag values into a slice (stdlib
// flag.Value interface; no third-party flag library is pulled in for
// something this small — the example pack's own CLI-bearing repos don't
// reach for one either for a single repeatable string flag).
type repeatedFlag struct{ values *[]string }

func (r repeatedFlag) String() string { return "" }
func (r repeatedFlag) Set(v string) error {
	*r.values = append(*r.values, v)
	return nil
}

func openStore(dbPath string) (*store.Store, error) {
	if dbPath == "" {
		return store.Open("magellan")
	}
	return store.OpenPath(dbPath)
}

func emit(tool, executionID, outputMode string, data any) {
	switch outputMode {
	case "json", "pretty", "":
		_ = cliio.WriteJSON(os.Stdout, cliio.NewEnvelope(tool, executionID, false, data))
	default:
		fmt.Fprintf(os.Stdout, "%+v\n", data)
	}
}

func emitErr(tool, executionID string, err error) int {
	var magErr *magerr.Error
	if me, ok := err.(*magerr.Error); ok {
		magErr = me
	} else {
		magErr = magerr.Wrap(magerr.IoError, "MAG-CLI-000", err)
	}
	_ = cliio.WriteError(os.Stderr, tool, executionID, magErr)
	return magErr.Kind.ExitCode()
}

func cmdWatch(args []string) int {
	fs := parseFlags("watch", args)
	root := fs.String("root", ".", "")
	db := fs.String("db", "", "")
	debounceMs := fs.Int("debounce-ms", 0, "")
	scanInitial := fs.Bool("scan-initial", true, "")
	watchOnly := fs.Bool("watch-only", false, "")
	doValidate := fs.Bool("validate", false, "")
	ignoreFile := fs.String("ignore-file", "", "")
	errorBudget := fs.Int("error-budget", 0, "")
	var include, exclude []string
	fs.Var(repeatedFlag{&include}, "include", "")
	fs.Var(repeatedFlag{&exclude}, "exclude", "")
	output := fs.String("output", "human", "")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	s, err := openStore(*db)
	if err != nil {
		return emitErr("watch", "", magerr.Wrap(magerr.StoreUnavailable, "MAG-STORE-030", err))
	}
	defer s.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	absRoot, _ := filepath.Abs(*root)
	res, err := pipeline.Run(ctx, pipeline.Config{
		Root:        absRoot,
		ModuleRoot:  filepath.Base(absRoot),
		Store:       s,
		Tool:        "watch",
		Argv:        args,
		DebounceMs:  *debounceMs,
		ScanInitial: *scanInitial,
		WatchOnly:   *watchOnly,
		Include:     include,
		Exclude:     exclude,
		IgnoreFile:  *ignoreFile,
		ErrorBudget: *errorBudget,
	})
	if err != nil {
		return emitErr("watch", "", err)
	}

	if *doValidate {
		report, verr := validate.Post(s, absRoot, res.ExecutionID)
		if verr != nil {
			return emitErr("watch", res.ExecutionID, verr)
		}
		if !report.Passed {
			emit("watch", res.ExecutionID, *output, report)
			return magerr.ValidationFailed.ExitCode()
		}
	}

	emit("watch", res.ExecutionID, *output, res)
	return 0
}

func cmdStatus(args []string) int {
	fs := parseFlags("status", args)
	db := fs.String("db", "", "")
	output := fs.String("output", "human", "")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	s, executionID, err := openForRead(*db)
	if err != nil {
		return emitErr("status", "", err)
	}
	defer s.Close()

	counts, err := query.New(s).Status()
	if err != nil {
		return emitErr("status", executionID, err)
	}
	emit("status", executionID, *output, counts)
	return 0
}

func cmdQuery(args []string) int {
	fs := parseFlags("query", args)
	db := fs.String("db", "", "")
	file := fs.String("file", "", "")
	kind := fs.String("kind", "", "")
	symbol := fs.String("symbol", "", "")
	output := fs.String("output", "human", "")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *file == "" {
		return emitErr("query", "", magerr.New(magerr.ValidationFailed, "MAG-CLI-001", "--file is required"))
	}

	s, executionID, err := openForRead(*db)
	if err != nil {
		return emitErr("query", "", err)
	}
	defer s.Close()

	matches, err := query.New(s).SymbolsInFile(*file, *kind)
	if err != nil {
		return emitErr("query", executionID, err)
	}
	if *symbol != "" {
		filtered := matches[:0]
		for _, m := range matches {
			if m.Name == *symbol {
				filtered = append(filtered, m)
			}
		}
		matches = filtered
	}
	emit("query", executionID, *output, matches)
	return 0
}

func cmdFind(args []string) int {
	fs := parseFlags("find", args)
	db := fs.String("db", "", "")
	name := fs.String("name", "", "")
	symbolID := fs.String("symbol-id", "", "")
	path := fs.String("path", "", "")
	output := fs.String("output", "human", "")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	term := *name
	if term == "" {
		term = *symbolID
	}
	if term == "" {
		return emitErr("find", "", magerr.New(magerr.ValidationFailed, "MAG-CLI-002", "one of --name or --symbol-id is required"))
	}

	s, executionID, err := openForRead(*db)
	if err != nil {
		return emitErr("find", "", err)
	}
	defer s.Close()

	matches, err := query.New(s).Find(term, *path)
	if err != nil {
		return emitErr("find", executionID, err)
	}
	emit("find", executionID, *output, matches)
	return 0
}

func cmdRefs(args []string) int {
	fs := parseFlags("refs", args)
	db := fs.String("db", "", "")
	name := fs.String("name", "", "")
	path := fs.String("path", "", "")
	direction := fs.String("direction", "in", "")
	output := fs.String("output", "human", "")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *name == "" {
		return emitErr("refs", "", magerr.New(magerr.ValidationFailed, "MAG-CLI-003", "--name is required"))
	}

	s, executionID, err := openForRead(*db)
	if err != nil {
		return emitErr("refs", "", err)
	}
	defer s.Close()

	dir := query.DirIn
	if strings.EqualFold(*direction, "out") {
		dir = query.DirOut
	}
	matches, err := query.New(s).Refs(*name, *path, dir)
	if err != nil {
		return emitErr("refs", executionID, err)
	}
	emit("refs", executionID, *output, matches)
	return 0
}

func cmdFiles(args []string) int {
	fs := parseFlags("files", args)
	db := fs.String("db", "", "")
	output := fs.String("output", "human", "")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	s, executionID, err := openForRead(*db)
	if err != nil {
		return emitErr("files", "", err)
	}
	defer s.Close()

	files, err := query.New(s).Files()
	if err != nil {
		return emitErr("files", executionID, err)
	}
	emit("files", executionID, *output, files)
	return 0
}

func cmdCollisions(args []string) int {
	fs := parseFlags("collisions", args)
	db := fs.String("db", "", "")
	field := fs.String("field", "display_fqn", "")
	output := fs.String("output", "human", "")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	s, executionID, err := openForRead(*db)
	if err != nil {
		return emitErr("collisions", "", err)
	}
	defer s.Close()

	groups, err := query.New(s).Collisions(*field)
	if err != nil {
		return emitErr("collisions", executionID, err)
	}
	emit("collisions", executionID, *output, groups)
	return 0
}

func cmdExport(args []string) int {
	fs := parseFlags("export", args)
	db := fs.String("db", "", "")
	kind := fs.String("kind", "", "")
	path := fs.String("path", "", "")
	output := fs.String("output", "human", "")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	s, executionID, err := openForRead(*db)
	if err != nil {
		return emitErr("export", "", err)
	}
	defer s.Close()

	records, err := query.New(s).ExportGraph(query.ExportFilters{Kind: *kind, Path: *path})
	if err != nil {
		return emitErr("export", executionID, err)
	}
	emit("export", executionID, *output, records)
	return 0
}

func cmdVerify(args []string) int {
	fs := parseFlags("verify", args)
	db := fs.String("db", "", "")
	root := fs.String("root", ".", "")
	executionID := fs.String("execution-id", "", "")
	output := fs.String("output", "human", "")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	s, openErr := openStore(*db)
	if s != nil {
		defer s.Close()
	}
	preReport := validate.Pre(*root, openErr)
	if !preReport.Passed {
		emit("verify", "", *output, preReport)
		return magerr.ValidationFailed.ExitCode()
	}

	execID := *executionID
	if execID == "" {
		execID = identity.NewExecutionID()
	}
	postReport, err := validate.Post(s, *root, execID)
	if err != nil {
		return emitErr("verify", execID, err)
	}
	emit("verify", execID, *output, postReport)
	if !postReport.Passed {
		return magerr.ValidationFailed.ExitCode()
	}
	return 0
}

// openForRead opens the store for a read-only query command and mints an
// execution id for the envelope (these commands don't run the Pipeline, so
// there is no BeginExecution/FinishExecution pair to anchor to).
func openForRead(db string) (*store.Store, string, error) {
	s, err := openStore(db)
	if err != nil {
		return nil, "", magerr.Wrap(magerr.StoreUnavailable, "MAG-STORE-031", err)
	}
	return s, identity.NewExecutionID(), nil
}

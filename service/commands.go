package service

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"spacetraveling/app/config"
	"spacetraveling/app/logging"
	"spacetraveling/app/repositories"
)

// backupDir is where backups of the page cache are written.
var backupDir = "data/backups"

// HandleCommand runs a subcommand and returns its exit code.
func HandleCommand(args []string) int {
	if len(args) < 1 {
		PrintHelp()
		return 1
	}

	cmd := args[0]
	switch cmd {
	case "serve":
		return serve(args[1:])
	case "build":
		return build(args[1:])
	case "clean":
		return clean(args[1:])
	case "backup":
		return backup(args[1:])
	case "restore":
		return restore(args[1:])
	case "help":
		PrintHelp()
		return 0
	default:
		fmt.Printf("Unknown command: %s\n\n", cmd)
		PrintHelp()
		return 1
	}
}

// PrintHelp prints help for the subcommands.
func PrintHelp() {
	helpText := `Usage: spacetraveling <command> [options]

Commands:
  serve   [--config <file>]            Pre-render every page and run the blog service
  build   [--config <file>]            Pre-render every page into the page cache
  clean   [--config <file>] [--yes]    Remove every cached page
  backup  [--config <file>]            Create a backup of the page cache (badger only)
  restore [--config <file>] <file>     Restore the page cache from a backup (badger only)
  version                              Show version information
  help                                 Display this help message
`
	fmt.Println(helpText)
}

// commandFlags parses the options shared by every subcommand and loads the
// configuration.
type commandFlags struct {
	fs         *flag.FlagSet
	configPath string
	yes        bool
}

func newCommandFlags(name string) *commandFlags {
	cf := &commandFlags{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	cf.fs.SetOutput(os.Stdout)
	cf.fs.StringVar(&cf.configPath, "config", config.DefaultConfigPath, "path to the configuration file")
	return cf
}

func (cf *commandFlags) load(args []string) (*config.Config, error) {
	if err := cf.fs.Parse(args); err != nil {
		return nil, err
	}
	cfg, err := config.Load(cf.configPath)
	if err != nil {
		return nil, err
	}
	if err := logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat); err != nil {
		return nil, err
	}
	return cfg, nil
}

// serve runs the blog service until it is interrupted.
func serve(args []string) int {
	cfg, err := newCommandFlags("serve").load(args)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}
	if err := RunAppServer(cfg); err != nil {
		fmt.Printf("Server error: %v\n", err)
		return 1
	}
	return 0
}

// build pre-renders every page and reports what was generated.
func build(args []string) int {
	cfg, err := newCommandFlags("build").load(args)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	app, err := NewApp(cfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}
	defer app.Close()

	return runBuild(app)
}

func runBuild(app *App) int {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	report, err := app.Generator.Build(ctx)
	for _, path := range report.Generated {
		fmt.Printf("  generated %s\n", path)
	}
	for _, path := range report.Skipped {
		fmt.Printf("  skipped   %s\n", path)
	}
	if err != nil {
		fmt.Printf("Build failed: %v\n", err)
		return 1
	}
	fmt.Printf("Built %d pages\n", len(report.Generated))
	return 0
}

// clean removes every cached page.
func clean(args []string) int {
	cf := newCommandFlags("clean")
	cf.fs.BoolVar(&cf.yes, "yes", false, "do not ask for confirmation")
	cfg, err := cf.load(args)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	if !cf.yes {
		fmt.Print("Are you sure you want to remove every cached page? [y/N] ")
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Operation cancelled")
			return 1
		}
	}

	pages, err := repositories.Open(cfg.Cache)
	if err != nil {
		fmt.Printf("Failed to open page cache: %v\n", err)
		return 1
	}
	defer pages.Close()

	if err := pages.Clear(context.Background()); err != nil {
		fmt.Printf("Failed to clean page cache: %v\n", err)
		return 1
	}
	fmt.Println("Page cache cleaned successfully")
	return 0
}

// backup writes the page cache to a timestamped file under backupDir.
func backup(args []string) int {
	cfg, err := newCommandFlags("backup").load(args)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	backuper, closeFn, err := openBackuper(cfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}
	defer closeFn()

	if err := os.MkdirAll(backupDir, 0755); err != nil {
		fmt.Printf("Failed to create backup directory: %v\n", err)
		return 1
	}

	backupFile := filepath.Join(backupDir, fmt.Sprintf("backup_%d.db", time.Now().Unix()))
	f, err := os.Create(backupFile)
	if err != nil {
		fmt.Printf("Failed to create backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	if err := backuper.Backup(f); err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}
	fmt.Printf("Page cache backed up successfully to %s\n", backupFile)
	return 0
}

// restore loads a backup into the page cache.
func restore(args []string) int {
	cf := newCommandFlags("restore")
	cfg, err := cf.load(args)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}
	if cf.fs.NArg() < 1 {
		fmt.Println("Error: backup file path required for restore")
		return 1
	}
	backupFile := cf.fs.Arg(0)

	fi, err := os.Stat(backupFile)
	if errors.Is(err, os.ErrNotExist) {
		fmt.Printf("Backup file does not exist: %s\n", backupFile)
		return 1
	}
	if err != nil {
		fmt.Printf("Failed to stat backup file: %v\n", err)
		return 1
	}
	if fi.Size() == 0 {
		fmt.Printf("Backup file is empty: %s\n", backupFile)
		return 1
	}

	backuper, closeFn, err := openBackuper(cfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}
	defer closeFn()

	f, err := os.Open(backupFile)
	if err != nil {
		fmt.Printf("Failed to open backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	err = func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic occurred during restore: %v", r)
			}
		}()
		return backuper.Restore(f)
	}()
	if err != nil {
		fmt.Printf("Failed to restore page cache: %v\n", err)
		return 1
	}

	fmt.Println("Page cache restored successfully")
	return 0
}

func openBackuper(cfg *config.Config) (repositories.Backuper, func() error, error) {
	if cfg.Cache.Backend != config.BackendBadger {
		return nil, nil, fmt.Errorf("backups need the %s cache backend, not %s", config.BackendBadger, cfg.Cache.Backend)
	}
	pages, err := repositories.Open(cfg.Cache)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open page cache: %w", err)
	}
	backuper, ok := pages.(repositories.Backuper)
	if !ok {
		pages.Close()
		return nil, nil, fmt.Errorf("page cache %T cannot be backed up", pages)
	}
	return backuper, pages.Close, nil
}

package service

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"contenthub/app/config"
	"contenthub/app/repositories"

	"github.com/dustin/go-humanize"
)

var osExit = os.Exit

// HandleCommand handles db subcommands and returns an exit code.
func HandleCommand(cfg config.Config, args []string) int {
	if cfg.BadgerPath != "" {
		dbPath = cfg.BadgerPath
	}
	if len(args) < 1 {
		printDbHelp()
		osExit(1)
		return 1
	}
	if cfg.StoreDriver == config.DriverMongo && args[0] != "help" {
		fmt.Println("Error: db commands only apply to the badger store (STORE_DRIVER=badger)")
		osExit(1)
		return 1
	}

	cmd := args[0]
	switch cmd {
	case "clean":
		clean()
		return 0
	case "init":
		initDb()
		return 0
	case "backup":
		backup()
		return 0
	case "restore":
		if len(args) < 2 {
			fmt.Println("Error: backup file path required for restore")
			osExit(1)
			return 1
		}
		return restore(args[1])
	case "stats":
		return stats()
	case "help":
		printDbHelp()
		return 0
	default:
		fmt.Printf("Unknown db command: %s\n\n", cmd)
		printDbHelp()
		osExit(1)
		return 1
	}
}

// printDbHelp prints help for db subcommands.
func printDbHelp() {
	helpText := `Usage: contenthub db

Commands:
  clean                           Remove the content database
  init                            Initialize a new empty database
  backup                          Create a backup of the database
  restore [file]                  Restore database from backup
  stats                           Count stored posts, comments, users and reports
  help                            Display this help message
`
	fmt.Println(helpText)
}

// clean removes the database.
func clean() {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("Database is already clean (does not exist)")
		return
	}

	fmt.Print("Are you sure you want to clean the database? This cannot be undone. [y/N] ")
	var response string
	fmt.Scanln(&response)
	if response != "y" && response != "Y" {
		fmt.Println("Operation cancelled")
		return
	}

	if err := os.RemoveAll(dbPath); err != nil {
		fmt.Printf("Failed to clean database: %v\n", err)
		return
	}
	fmt.Println("Database cleaned successfully")
}

// initDb initializes a new empty database.
func initDb() {
	if _, err := os.Stat(dbPath); err == nil {
		fmt.Println("Database already exists. Use 'clean' first if you want to reinitialize.")
		return
	}

	if err := os.MkdirAll(dbPath, 0755); err != nil {
		fmt.Printf("Failed to create database directory: %v\n", err)
		return
	}

	store, err := repositories.NewStore(dbPath)
	if err != nil {
		fmt.Printf("Failed to initialize database: %v\n", err)
		return
	}
	defer store.Close()

	fmt.Println("Database initialized successfully")
}

// backup writes a full backup of the database to backupDir and returns
// the file name, or "" on failure.
func backup() string {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No database exists to backup")
		return ""
	}

	if err := os.MkdirAll(backupDir, 0755); err != nil {
		fmt.Printf("Failed to create backup directory: %v\n", err)
		return ""
	}

	store, err := repositories.NewStore(dbPath)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return ""
	}
	defer store.Close()

	backupFile := filepath.Join(backupDir, fmt.Sprintf("backup_%d.db", time.Now().UnixNano()))
	f, err := os.Create(backupFile)
	if err != nil {
		fmt.Printf("Failed to create backup file: %v\n", err)
		return ""
	}
	defer f.Close()

	if _, err := store.DB().Backup(f, 0); err != nil {
		fmt.Printf("Failed to backup database: %v\n", err)
		return ""
	}

	size := int64(0)
	if fi, err := f.Stat(); err == nil {
		size = fi.Size()
	}
	fmt.Printf("Database backed up successfully to %s (%s)\n", backupFile, humanize.Bytes(uint64(size)))
	return backupFile
}

// restore restores the database from a backup.
func restore(backupFile string) int {
	if _, err := os.Stat(backupFile); os.IsNotExist(err) {
		fmt.Printf("Backup file does not exist: %s\n", backupFile)
		return 1
	}

	if _, err := os.Stat(dbPath); err == nil {
		fmt.Print("Existing database found. Do you want to replace it? [y/N] ")
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Operation cancelled")
			return 1
		}
		if err := os.RemoveAll(dbPath); err != nil {
			fmt.Printf("Failed to remove existing database: %v\n", err)
			return 1
		}
	}

	if err := os.MkdirAll(dbPath, 0755); err != nil {
		fmt.Printf("Failed to create database directory: %v\n", err)
		return 1
	}

	f, err := os.Open(backupFile)
	if err != nil {
		fmt.Printf("Failed to open backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		fmt.Printf("Failed to stat backup file: %v\n", err)
		return 1
	}
	if fi.Size() == 0 {
		fmt.Printf("Backup file is empty: %s\n", backupFile)
		return 1
	}

	store, err := repositories.NewStore(dbPath)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return 1
	}
	defer store.Close()

	err = func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic occurred during restore: %v", r)
			}
		}()
		return store.DB().Load(f, 4)
	}()
	if err != nil {
		fmt.Printf("Failed to restore database: %v\n", err)
		return 1
	}

	fmt.Println("Database restored successfully")
	return 0
}

// stats prints how many records of each kind the database holds.
func stats() int {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No database exists at " + dbPath)
		return 1
	}

	store, err := repositories.NewStore(dbPath)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return 1
	}
	defer store.Close()

	counts, err := store.Stats()
	if err != nil {
		fmt.Printf("Failed to read database: %v\n", err)
		return 1
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%-10s %s\n", name, humanize.Comma(int64(counts[name])))
	}
	return 0
}

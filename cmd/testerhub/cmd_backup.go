package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/HerbHall/testerhub/internal/backup"
	"github.com/HerbHall/testerhub/internal/config"
)

func runBackup(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	output := fs.String("output", "", "output file path (default: testerhub-backup-{timestamp}.tar.gz)")
	configPath := fs.String("config", "", "config file; also included in the backup")
	if err := fs.Parse(args); err != nil {
		return err
	}

	app, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	src := backup.Sources{ConfigPath: *configPath}
	if app.Settings.Backend == config.BackendBolt {
		src.BoltPath = app.Settings.BoltPath
	} else {
		src.SQLitePath = app.Store.Path
	}

	if *output == "" {
		*output = fmt.Sprintf("testerhub-backup-%s.tar.gz", time.Now().Format("20060102-150405"))
	}
	if err := backup.Backup(context.Background(), src, *output); err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	fmt.Fprintf(stdout, "Backup created: %s\n", *output)
	return nil
}

func runRestore(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	input := fs.String("input", "", "backup archive to restore (required)")
	dataDir := fs.String("data-dir", ".", "target directory for restored files")
	force := fs.Bool("force", false, "overwrite existing files")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		fs.Usage()
		return errors.New("-input is required")
	}

	if err := backup.Restore(context.Background(), *input, *dataDir, *force); err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	fmt.Fprintf(stdout, "Restore complete: files restored to %s\n", *dataDir)
	return nil
}

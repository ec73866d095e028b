// Package backup provides tar.gz-based backup and restore for testerhub's
// settings store and configuration file.
package backup

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver
)

// maxEntrySize bounds a single restored file.
const maxEntrySize = 1 << 30

// Sources lists the files to archive. Empty paths and files that do not
// exist are skipped, except that at least one file must be archived.
type Sources struct {
	SQLitePath string
	BoltPath   string
	ConfigPath string
}

// ErrNothingToBackup is returned when none of the sources exist.
var ErrNothingToBackup = errors.New("no settings store or config file found")

// Backup creates a tar.gz archive of the sources. SQLite databases are
// checkpointed first so the archive does not depend on the WAL file.
func Backup(ctx context.Context, src Sources, outputPath string) (err error) {
	var files []string
	for _, p := range []string{src.SQLitePath, src.BoltPath, src.ConfigPath} {
		if p == "" {
			continue
		}
		if _, statErr := os.Stat(p); statErr == nil {
			files = append(files, p)
		}
	}
	if len(files) == 0 {
		return ErrNothingToBackup
	}

	if src.SQLitePath != "" && contains(files, src.SQLitePath) {
		if err := checkpointWAL(ctx, src.SQLitePath); err != nil {
			return fmt.Errorf("WAL checkpoint failed: %w", err)
		}
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		if cerr := outFile.Close(); err == nil {
			err = cerr
		}
	}()

	gw := gzip.NewWriter(outFile)
	tw := tar.NewWriter(gw)
	for _, f := range files {
		if err := addFileToTar(tw, f, filepath.Base(f)); err != nil {
			return fmt.Errorf("adding %s to archive: %w", f, err)
		}
	}
	if err := tw.Close(); err != nil {
		return err
	}
	return gw.Close()
}

// Restore extracts an archive created by Backup into dir. Existing files are
// left untouched unless force is set.
func Restore(_ context.Context, inputPath, dir string, force bool) error {
	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer in.Close()

	gr, err := gzip.NewReader(in)
	if err != nil {
		return fmt.Errorf("reading archive: %w", err)
	}
	defer gr.Close()

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	tr := tar.NewReader(gr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		name := filepath.Base(hdr.Name)
		if name != hdr.Name || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("archive entry %q: unexpected path", hdr.Name)
		}
		if err := extractFile(tr, filepath.Join(dir, name), hdr, force); err != nil {
			return err
		}
	}
}

func extractFile(r io.Reader, target string, hdr *tar.Header, force bool) error {
	if hdr.Size > maxEntrySize {
		return fmt.Errorf("archive entry %q exceeds %d bytes", hdr.Name, maxEntrySize)
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(target, flags, 0o600)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%s already exists (use force to overwrite)", target)
	}
	if err != nil {
		return err
	}
	if _, err := io.CopyN(f, r, hdr.Size); err != nil {
		_ = f.Close()
		_ = os.Remove(target)
		return fmt.Errorf("writing %s: %w", target, err)
	}
	return f.Close()
}

// checkpointWAL opens the database, runs a TRUNCATE checkpoint to flush the
// WAL, and closes the connection.
func checkpointWAL(ctx context.Context, dbPath string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)")
	return err
}

// addFileToTar adds a single file to the tar archive under the given name.
func addFileToTar(tw *tar.Writer, filePath, archiveName string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = archiveName

	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}

	_, err = io.Copy(tw, f)
	return err
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

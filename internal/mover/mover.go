// Package mover implements the copy-verify-delete protocol that relocates a
// document without ever being able to lose it. The destination lives on a
// detachable network volume, so every step assumes the drive can vanish
// mid-operation: the source file is deleted only after the copy has been
// re-hashed and verified, and every failure path removes the partial copy
// and leaves the source byte-identical to its pre-call content.
package mover

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmonterocr/archivador/internal/common"
)

// state tracks progress through the move protocol. COMMITTED is the only
// state in which the source no longer exists.
type state string

const (
	stateInit     state = "INIT"
	stateHashed   state = "HASHED"
	stateDestOK   state = "DEST_READY"
	stateCopied   state = "COPIED"
	stateVerified state = "VERIFIED"
	stateCommit   state = "COMMITTED"
)

// Move relocates sourcePath into destinationDir under filename, returning
// the final path and the document's sha256. destinationDir and its missing
// ancestors are created here and only here, immediately before the copy, so
// no empty directory is ever left behind by a failed or never-attempted move.
//
// Once Move begins it runs to a terminal state before returning; there is no
// cancellation, because abandoning a half-copied file would itself violate
// the no-data-loss guarantee.
func Move(sourcePath, destinationDir, filename string) (string, string, error) {
	st := stateInit

	sourceHash, err := HashFile(sourcePath)
	if err != nil {
		return "", "", fmt.Errorf("%w: failed to hash source %s: %v",
			common.ErrDriveUnavailable, sourcePath, err)
	}
	st = stateHashed

	destPath := filepath.Join(destinationDir, filename)
	if _, err := os.Stat(destPath); err == nil {
		destPath = filepath.Join(destinationDir, collisionName(filename, sourceHash))
		slog.Info("destination exists, using collision name",
			"original", filename,
			"renamed", filepath.Base(destPath))
	} else if !os.IsNotExist(err) {
		return "", "", fmt.Errorf("%w: failed to stat destination: %v",
			common.ErrDriveUnavailable, err)
	}

	// Directories are created lazily, exactly here. Remember which ones did
	// not exist yet: a failed move must leave no empty directory behind.
	created := missingAncestors(destinationDir)
	if err := os.MkdirAll(destinationDir, 0o750); err != nil {
		return "", "", fmt.Errorf("%w: failed to create destination directory: %v",
			common.ErrDriveUnavailable, err)
	}
	st = stateDestOK

	rollback := func() {
		_ = os.Remove(destPath)
		for _, dir := range created {
			_ = os.Remove(dir) // refuses non-empty dirs, which is exactly what we want
		}
	}

	if err := copyDocument(sourcePath, destPath); err != nil {
		// The copy may be partial; remove it. The source is untouched.
		rollback()
		return "", "", fmt.Errorf("%w: %v", common.ErrPartialWriteIO, err)
	}
	st = stateCopied

	copyHash, err := verifyHash(destPath)
	if err != nil {
		rollback()
		return "", "", fmt.Errorf("%w: failed to hash copy: %v",
			common.ErrPartialWriteIO, err)
	}

	if copyHash != sourceHash {
		rollback()
		return "", "", fmt.Errorf("%w: source %s, copy %s",
			common.ErrIntegrityMismatch, sourceHash[:12], copyHash[:12])
	}
	st = stateVerified

	if err := os.Remove(sourcePath); err != nil {
		// Source deletion failed; roll back the copy so the document exists
		// in exactly one place, its original one.
		rollback()
		return "", "", fmt.Errorf("%w: failed to remove source after verify: %v",
			common.ErrDriveUnavailable, err)
	}
	st = stateCommit

	slog.Debug("move committed",
		"state", string(st),
		"source", sourcePath,
		"destination", destPath,
		"sha256", sourceHash)
	return destPath, sourceHash, nil
}

// verifyHash re-hashes the copy during verification. Swappable so tests can
// simulate silent corruption on the destination volume.
var verifyHash = HashFile

// copyDocument performs the copy step. Swappable so tests can simulate the
// drive detaching mid-write.
var copyDocument = copyPreserving

// collisionName appends the first 8 hex chars of the document hash to the
// stem: factura.pdf -> factura_9f8a3b2c.pdf.
func collisionName(filename, hash string) string {
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	return fmt.Sprintf("%s_%s%s", stem, hash[:8], ext)
}

// missingAncestors returns the directories under dir that do not exist yet,
// deepest first, stopping at the first existing ancestor.
func missingAncestors(dir string) []string {
	var missing []string
	for cur := dir; ; {
		if _, err := os.Stat(cur); err == nil {
			break
		}
		missing = append(missing, cur)
		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}
	return missing
}

// HashFile streams a file through sha256.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// copyPreserving copies src to dst, syncing the destination and carrying
// over the source's mode and modification time.
func copyPreserving(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy: %w", err)
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to sync destination: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close destination: %w", err)
	}

	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		slog.Warn("failed to preserve file times", "path", dst, "error", err)
	}
	return nil
}

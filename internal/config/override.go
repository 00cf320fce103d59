package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"machine-bootstrap/internal/format"
)

// ReplaceDocument installs src at dst. When both share a format the bytes are copied as-is;
// otherwise src is decoded into doc and re-encoded in dst's format. A bare list is accepted
// when doc is a format.Lister. Callers validate src first.
func ReplaceDocument(src, dst string, doc any) error {
	srcFmt, err := format.Detect(src)
	if err != nil {
		return err
	}
	dstFmt, err := format.Detect(dst)
	if err != nil {
		return err
	}
	if srcFmt == dstFmt {
		return copyFile(src, dst, 0644)
	}

	raw, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read source failed: %w", err)
	}
	if err := format.DecodeDocument(srcFmt, raw, doc); err != nil {
		return fmt.Errorf("decode %s failed: %w", src, err)
	}
	out, err := format.Encode(dstFmt, doc)
	if err != nil {
		return fmt.Errorf("encode %s failed: %w", dst, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("mkdir failed: %w", err)
	}
	return os.WriteFile(dst, out, 0644)
}

// copyFile copies src to dst, creating missing directories, and sets the given mode.
func copyFile(src, dst string, mode os.FileMode) (err error) {
	if sameFile(src, dst) {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source failed: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("mkdir failed: %w", err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create target failed: %w", err)
	}
	defer func() {
		cerr := out.Close()
		if err == nil {
			err = cerr
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy failed: %w", err)
	}
	return os.Chmod(dst, mode)
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

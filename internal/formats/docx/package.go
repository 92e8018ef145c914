package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const documentPart = "word/document.xml"

func openPackage(data []byte) (*zip.Reader, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("invalid .docx file — the file does not appear to be a valid ZIP archive: %w", err)
	}
	return reader, nil
}

// readPart returns the content of the named archive entry.
func readPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, f := range reader.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("could not open %s inside .docx archive: %w", name, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("could not read %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("invalid .docx file — missing %s", name)
}

// transformPart rewrites a single part of the package with fn and copies
// every other entry byte-for-byte, keeping entry order, method and mtime.
func transformPart(data []byte, part string, fn func([]byte) ([]byte, error)) ([]byte, error) {
	reader, err := openPackage(data)
	if err != nil {
		return nil, err
	}

	original, err := readPart(reader, part)
	if err != nil {
		return nil, err
	}
	rewritten, err := fn(original)
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	writer := zip.NewWriter(buf)

	for _, f := range reader.File {
		content := rewritten
		if f.Name != part {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("could not open %s in archive: %w", f.Name, err)
			}
			content, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return nil, fmt.Errorf("could not read %s: %w", f.Name, err)
			}
		}

		header := &zip.FileHeader{
			Name:   f.Name,
			Method: f.Method,
		}
		header.SetModTime(f.Modified)

		w, err := writer.CreateHeader(header)
		if err != nil {
			return nil, fmt.Errorf("could not create %s in output: %w", f.Name, err)
		}
		if _, err := w.Write(content); err != nil {
			return nil, fmt.Errorf("could not write %s: %w", f.Name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("could not finalize output archive: %w", err)
	}

	return buf.Bytes(), nil
}

// writeFile writes data to path, creating parent directories as needed.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// Package extract pulls plain text out of uploaded documents.
//
// Office formats (docx, pptx, xlsx) and epub are zip archives of XML,
// handled with archive/zip + encoding/xml. PDFs go through a dedicated
// parser library.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

type extractor func(path string) (string, error)

var extractors = map[string]extractor{
	".pdf":  fromPDF,
	".docx": fromDocx,
	".txt":  fromTxt,
	".pptx": fromPptx,
	".xlsx": fromXlsx,
	".epub": fromEpub,
}

// Allowed reports whether a filename has an extractable extension.
func Allowed(filename string) bool {
	_, ok := extractors[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// FromFile extracts the text content of the file at path, dispatching
// on its extension.
func FromFile(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	fn, ok := extractors[ext]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, strings.TrimPrefix(ext, "."))
	}

	return fn(path)
}

func fromTxt(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

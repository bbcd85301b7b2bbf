package extract

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"sort"
	"strings"
)

// collectXMLText walks an XML document and gathers the character data
// of every element whose local name is in want, inserting a line break
// whenever an element in breakAfter closes.
func collectXMLText(r io.Reader, want map[string]bool, breakAfter map[string]bool) (string, error) {
	dec := xml.NewDecoder(r)

	var sb strings.Builder
	depth := 0
	wantDepth := -1

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if want[t.Name.Local] && wantDepth == -1 {
				wantDepth = depth
			}
		case xml.EndElement:
			if wantDepth == depth {
				wantDepth = -1
			}
			depth--
			if breakAfter[t.Name.Local] {
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if wantDepth != -1 {
				sb.Write(t)
			}
		}
	}

	return sb.String(), nil
}

func extractZipEntries(path string, match func(name string) bool, want, breakAfter map[string]bool) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", err
	}
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		if match(f.Name) {
			names = append(names, f.Name)
		}
	}
	sort.Strings(names)

	var parts []string
	for _, name := range names {
		f, err := zr.Open(name)
		if err != nil {
			return "", err
		}

		text, err := collectXMLText(f, want, breakAfter)
		f.Close()
		if err != nil {
			return "", err
		}

		if strings.TrimSpace(text) != "" {
			parts = append(parts, strings.TrimSpace(text))
		}
	}

	return strings.Join(parts, "\n"), nil
}

func fromDocx(path string) (string, error) {
	return extractZipEntries(path,
		func(name string) bool { return name == "word/document.xml" },
		map[string]bool{"t": true},
		map[string]bool{"p": true},
	)
}

func fromPptx(path string) (string, error) {
	return extractZipEntries(path,
		func(name string) bool {
			return strings.HasPrefix(name, "ppt/slides/slide") && strings.HasSuffix(name, ".xml")
		},
		map[string]bool{"t": true},
		map[string]bool{"p": true},
	)
}

func fromXlsx(path string) (string, error) {
	// Cell text lives in the shared strings table; formula results and
	// inline strings in the sheets are skipped.
	return extractZipEntries(path,
		func(name string) bool { return name == "xl/sharedStrings.xml" },
		map[string]bool{"t": true},
		map[string]bool{"si": true},
	)
}

func fromEpub(path string) (string, error) {
	return extractZipEntries(path,
		func(name string) bool {
			lower := strings.ToLower(name)
			return strings.HasSuffix(lower, ".xhtml") || strings.HasSuffix(lower, ".html")
		},
		map[string]bool{"body": true},
		map[string]bool{"p": true, "div": true, "h1": true, "h2": true, "h3": true},
	)
}

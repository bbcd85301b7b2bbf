package extract

import (
	"strings"

	"github.com/ledongthuc/pdf"
)

func fromPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var sb strings.Builder

	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue // skip pages the parser chokes on
		}

		sb.WriteString(text)
	}

	return strings.TrimSpace(sb.String()), nil
}

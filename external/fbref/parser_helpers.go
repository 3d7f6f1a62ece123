package fbref

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/valyala/bytebufferpool"
)

var commentDelimiters = strings.NewReplacer("<!--", "", "-->", "")

// stripComments drops comment delimiters so tables shipped inside HTML
// comments become part of the document.
func stripComments(html string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := commentDelimiters.WriteString(buf, html); err != nil {
		return commentDelimiters.Replace(html)
	}
	return buf.String()
}

func parseDocument(html string) (*goquery.Document, bool) {
	if strings.TrimSpace(html) == "" {
		return nil, false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(stripComments(html)))
	if err != nil {
		return nil, false
	}
	return doc, true
}

func cell(row *goquery.Selection, stat string) *goquery.Selection {
	return row.Find(`td[data-stat="` + stat + `"], th[data-stat="` + stat + `"]`).First()
}

func cellText(row *goquery.Selection, stat string) string {
	return strings.TrimSpace(cell(row, stat).Text())
}

// cellInt returns 0 for a missing, empty or non-numeric cell. Thousands
// separators are dropped.
func cellInt(row *goquery.Selection, stat string) int {
	return parseInt(cellText(row, stat))
}

func cellFloat(row *goquery.Selection, stat string) float64 {
	return parseFloat(cellText(row, stat))
}

func parseInt(text string) int {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if text == "" {
		return 0
	}
	value, err := strconv.Atoi(text)
	if err != nil {
		return 0
	}
	return value
}

func parseFloat(text string) float64 {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if text == "" {
		return 0
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0
	}
	return value
}

func parseOptionalFloat(text string) *float64 {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if text == "" {
		return nil
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil
	}
	return &value
}

// linkSegment returns path segment 3 of the first link in the row's stat cell.
func linkSegment(row *goquery.Selection, stat string) (string, bool) {
	link := cell(row, stat).Find("a").First()
	if link.Length() == 0 {
		return "", false
	}
	return pathSegment(link.AttrOr("href", ""), 3)
}

// pathSegment splits href on "/" the way upstream paths are laid out:
// "/en/squads/18bb7c10/Arsenal-Stats" has the id at index 3.
func pathSegment(href string, index int) (string, bool) {
	parts := strings.Split(strings.TrimSpace(href), "/")
	if len(parts) <= index {
		return "", false
	}
	segment := strings.TrimSpace(parts[index])
	return segment, segment != ""
}

func isSpacerRow(row *goquery.Selection) bool {
	return row.HasClass("spacer") || row.HasClass("thead")
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func lastToken(value string) string {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

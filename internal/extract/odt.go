package extract

import (
	"fmt"
	"regexp"
	"strings"
)

const odtContentPath = "content.xml"

var (
	// Paragraphs and headings in document order. Self-closing empty
	// paragraphs do not match.
	odtBlock     = regexp.MustCompile(`(?s)<text:(?:p|h)(?:\s[^>]*[^/>])?>(.*?)</text:(?:p|h)>`)
	odtSpace     = regexp.MustCompile(`<text:(?:s|tab)(?:\s[^>]*)?/>`)
	odtLineBreak = regexp.MustCompile(`<text:line-break\s*/>`)
	xmlTag       = regexp.MustCompile(`<[^>]+>`)
)

// extractODT returns one line per OpenDocument paragraph or heading.
func extractODT(content []byte) (string, error) {
	zr, err := openZip(content)
	if err != nil {
		return "", fmt.Errorf("extract ODT: not a zip: %w", err)
	}
	contentXML, err := readZipEntry(zr, odtContentPath)
	if err != nil {
		return "", fmt.Errorf("extract ODT: %w", err)
	}
	if contentXML == nil {
		return "", fmt.Errorf("extract ODT: %s not found", odtContentPath)
	}

	var lines []string
	for _, m := range odtBlock.FindAllStringSubmatch(string(contentXML), -1) {
		inner := odtSpace.ReplaceAllString(m[1], " ")
		inner = odtLineBreak.ReplaceAllString(inner, "\n")
		inner = unescapeXML(xmlTag.ReplaceAllString(inner, ""))
		if line := strings.TrimSpace(inner); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

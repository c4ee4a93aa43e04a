package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"io"
)

// readZipEntry returns the contents of the named entry, or nil if absent.
func readZipEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f.Name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		return data, nil
	}
	return nil, nil
}

func openZip(content []byte) (*zip.Reader, error) {
	return zip.NewReader(bytes.NewReader(content), int64(len(content)))
}

// unescapeXML decodes the predefined XML entities and character references.
func unescapeXML(s string) string {
	return html.UnescapeString(s)
}

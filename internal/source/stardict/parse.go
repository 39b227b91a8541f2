package stardict

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// ParseIfo reads a StarDict .ifo file: line-oriented key=value metadata.
func ParseIfo(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	meta := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		idx := strings.Index(line, "=")
		if idx == -1 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		val := strings.TrimSpace(line[idx+1:])
		if key == "" {
			continue
		}
		meta[key] = val
	}
	return meta, scanner.Err()
}

// ParseIndex reads a StarDict .idx (or .idx.gz) file: a sequence of
// records, each a NUL-terminated UTF-8 word followed by a big-endian u32
// offset and a big-endian u32 size.
func ParseIndex(path string) ([]IndexEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var entries []IndexEntry
	for len(data) > 0 {
		nul := bytes.IndexByte(data, 0)
		if nul == -1 {
			break
		}
		word := decodeBytes(data[:nul])
		data = data[nul+1:]
		if len(data) < 8 {
			break
		}
		offset := binary.BigEndian.Uint32(data[0:4])
		size := binary.BigEndian.Uint32(data[4:8])
		data = data[8:]
		entries = append(entries, IndexEntry{Word: word, Offset: offset, Size: size})
	}
	return entries, nil
}

// ReadDictBlob reads a StarDict .dict (or .dict.dz, dictzip-framed gzip)
// file into memory as a flat blob.
func ReadDictBlob(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.HasSuffix(path, ".dz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		return io.ReadAll(gz)
	}
	return io.ReadAll(f)
}

// decodeBytes decodes b as UTF-8, falling back to a latin-1 (byte-as-rune)
// decoding if it is not valid UTF-8.
func decodeBytes(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}

// ExtractGlosses strips HTML tags from a StarDict definition string, then
// splits on ';', '|', or newline, trims, and drops empties. If nothing
// remains, the entire stripped text is used as a single gloss.
func ExtractGlosses(definition string) []string {
	stripped := stripHTML(definition)

	parts := strings.FieldsFunc(stripped, func(r rune) bool {
		return r == ';' || r == '|' || r == '\n'
	})

	var glosses []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			glosses = append(glosses, p)
		}
	}

	if len(glosses) == 0 {
		trimmed := strings.TrimSpace(stripped)
		if trimmed != "" {
			glosses = []string{trimmed}
		}
	}
	return glosses
}

// stripHTML removes HTML tags from s, returning the concatenated text
// nodes. Falls back to returning s unchanged if it fails to parse as HTML
// fragments (ExtractGlosses's input is rarely a full document).
func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return b.String()
}

package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	nsWord    = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsPresent = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsDrawing = "http://schemas.openxmlformats.org/drawingml/2006/main"
)

var slideEntry = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

func openZip(data []byte) (*zip.Reader, error) {
	return zip.NewReader(bytes.NewReader(data), int64(len(data)))
}

// DocxText returns the paragraphs of word/document.xml joined by "\n".
func DocxText(data []byte) (string, error) {
	zr, err := openZip(data)
	if err != nil {
		return "", err
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()
		paras, err := wordParagraphs(rc)
		if err != nil {
			return "", fmt.Errorf("word/document.xml: %w", err)
		}
		return strings.Join(paras, "\n"), nil
	}
	return "", errors.New("word/document.xml not found")
}

func wordParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	var (
		paras  []string
		cur    strings.Builder
		inPara bool
		inText bool
	)
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return paras, nil
			}
			return nil, err
		}
		switch v := tok.(type) {
		case xml.StartElement:
			if v.Name.Space != nsWord {
				continue
			}
			switch v.Name.Local {
			case "p":
				inPara = true
				cur.Reset()
			case "t":
				inText = inPara
			case "tab":
				if inPara {
					cur.WriteByte('\t')
				}
			case "br":
				if inPara {
					cur.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if v.Name.Space != nsWord {
				continue
			}
			switch v.Name.Local {
			case "p":
				paras = append(paras, cur.String())
				inPara = false
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				cur.Write(v)
			}
		}
	}
}

// PPTXText walks slides in numeric order and returns the text of every
// non-empty shape, joined by "\n".
func PPTXText(data []byte) (string, error) {
	zr, err := openZip(data)
	if err != nil {
		return "", err
	}

	type slideFile struct {
		n int
		f *zip.File
	}
	var slideFiles []slideFile
	for _, f := range zr.File {
		m := slideEntry.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		slideFiles = append(slideFiles, slideFile{n: n, f: f})
	}
	if len(slideFiles) == 0 {
		return "", errors.New("no slides found")
	}
	sort.Slice(slideFiles, func(i, j int) bool { return slideFiles[i].n < slideFiles[j].n })

	var shapes []string
	for _, sf := range slideFiles {
		rc, err := sf.f.Open()
		if err != nil {
			return "", err
		}
		texts, err := slideShapes(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("%s: %w", sf.f.Name, err)
		}
		shapes = append(shapes, texts...)
	}
	return strings.Join(shapes, "\n"), nil
}

func slideShapes(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	var (
		shapes  []string
		paras   []string
		cur     strings.Builder
		inShape bool
		inPara  bool
		inText  bool
	)
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return shapes, nil
			}
			return nil, err
		}
		switch v := tok.(type) {
		case xml.StartElement:
			switch {
			case v.Name.Space == nsPresent && v.Name.Local == "sp":
				inShape = true
				paras = paras[:0]
			case inShape && v.Name.Space == nsDrawing && v.Name.Local == "p":
				inPara = true
				cur.Reset()
			case inPara && v.Name.Space == nsDrawing && v.Name.Local == "t":
				inText = true
			}
		case xml.EndElement:
			switch {
			case v.Name.Space == nsPresent && v.Name.Local == "sp":
				text := strings.Join(paras, "\n")
				if strings.TrimSpace(text) != "" {
					shapes = append(shapes, text)
				}
				inShape = false
			case inPara && v.Name.Space == nsDrawing && v.Name.Local == "p":
				paras = append(paras, cur.String())
				inPara = false
			case v.Name.Space == nsDrawing && v.Name.Local == "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				cur.Write(v)
			}
		}
	}
}

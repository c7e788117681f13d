package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/yugant99/TaylorAI/internal/shared/util"
)

// ErrUnsupportedFormat is returned for file types the extractor cannot read.
var ErrUnsupportedFormat = errors.New("extract: unsupported file format")

// Extractor pulls plain text out of uploaded documents.
type Extractor struct{}

// New returns a ready Extractor.
func New() *Extractor { return &Extractor{} }

// FromBytes extracts text from raw file bytes, dispatching on the file
// extension of name. The result is sanitized.
func (e *Extractor) FromBytes(name string, data []byte) (string, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".pdf":
		return e.fromPDF(data)
	case ".docx":
		return e.fromDOCX(data)
	case ".txt", ".md":
		return util.SanitizeText(string(data)), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path.Ext(name))
	}
}

func (e *Extractor) fromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("extract: open pdf: %w", err)
	}

	var sb strings.Builder
	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}

	text := util.SanitizeText(sb.String())
	if text == "" {
		return "", errors.New("extract: pdf contained no extractable text")
	}
	return text, nil
}

// docx body markup, only the nodes we care about.
type docxDocument struct {
	Body docxBody `xml:"body"`
}

type docxBody struct {
	Paragraphs []docxParagraph `xml:"p"`
}

type docxParagraph struct {
	Runs []docxRun `xml:"r"`
}

type docxRun struct {
	Texts []string `xml:"t"`
	Tabs  []struct{} `xml:"tab"`
}

func (e *Extractor) fromDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("extract: open docx: %w", err)
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return "", fmt.Errorf("extract: open document.xml: %w", err)
			}
			docXML, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return "", fmt.Errorf("extract: read document.xml: %w", err)
			}
			break
		}
	}
	if docXML == nil {
		return "", errors.New("extract: docx missing word/document.xml")
	}

	var doc docxDocument
	if err := xml.Unmarshal(docXML, &doc); err != nil {
		return "", fmt.Errorf("extract: parse document.xml: %w", err)
	}

	var sb strings.Builder
	for _, p := range doc.Body.Paragraphs {
		for _, r := range p.Runs {
			for _, t := range r.Texts {
				sb.WriteString(t)
			}
			for range r.Tabs {
				sb.WriteString("\t")
			}
		}
		sb.WriteString("\n")
	}

	text := util.SanitizeText(sb.String())
	if text == "" {
		return "", errors.New("extract: docx contained no extractable text")
	}
	return text, nil
}

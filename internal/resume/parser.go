// Package resume extracts candidate contact details from uploaded resumes.
package resume

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"interviewassist/internal/models"
)

// MaxFileSize bounds accepted uploads.
const MaxFileSize = 10 << 20

// minTextLength is the least amount of extracted text treated as a resume.
const minTextLength = 50

var (
	ErrUnsupportedType = errors.New("unsupported file type, please upload a PDF or DOCX file")
	ErrUnreadable      = errors.New("the file could not be read")
	ErrNoText          = errors.New("could not extract meaningful text from the file")
	ErrTooLarge        = errors.New("the file is too large")
)

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
)

var headerWords = []string{"resume", "cv", "curriculum", "vitae", "profile", "summary"}

// Parsed holds what could be read from a resume. Fields that were not found
// are left empty for the interviewer to fill in.
type Parsed struct {
	Name  string            `json:"name"`
	Email string            `json:"email"`
	Phone string            `json:"phone"`
	Text  string            `json:"-"`
	Meta  models.ResumeMeta `json:"resumeMeta"`
}

// Missing lists the contact fields that were not found.
func (p *Parsed) Missing() []string {
	var missing []string
	if p.Name == "" {
		missing = append(missing, "name")
	}
	if p.Email == "" {
		missing = append(missing, "email")
	}
	if p.Phone == "" {
		missing = append(missing, "phone")
	}
	return missing
}

// Parse extracts text from a PDF or DOCX file, chosen by extension, and
// picks out the candidate's name, email and phone.
func Parse(filename string, data []byte) (*Parsed, error) {
	if len(data) > MaxFileSize {
		return nil, ErrTooLarge
	}

	var (
		text     string
		fileType string
		err      error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		fileType = models.ResumeTypePDF
		text, err = pdfText(data)
	case ".docx":
		fileType = models.ResumeTypeDOCX
		text, err = docxText(data)
	default:
		return nil, ErrUnsupportedType
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if len(strings.TrimSpace(text)) < minTextLength {
		return nil, ErrNoText
	}

	parsed := ExtractFields(text)
	parsed.Meta = models.ResumeMeta{
		Filename: filepath.Base(filename),
		Type:     fileType,
		Size:     int64(len(data)),
	}
	return parsed, nil
}

// ExtractFields applies the contact heuristics to plain text.
func ExtractFields(text string) *Parsed {
	return &Parsed{
		Name:  guessName(text),
		Email: emailPattern.FindString(text),
		Phone: strings.TrimSpace(phonePattern.FindString(text)),
		Text:  text,
	}
}

// guessName takes the first of the leading five lines made of two to four
// capitalised words that is not a section header.
func guessName(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
		if len(lines) == 5 {
			break
		}
	}

	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 4 {
			continue
		}
		if !allCapitalised(words) || isHeader(line) {
			continue
		}
		return strings.Join(words, " ")
	}
	return ""
}

func allCapitalised(words []string) bool {
	for _, w := range words {
		first := []rune(w)[0]
		if !unicode.IsUpper(first) {
			return false
		}
	}
	return true
}

func isHeader(line string) bool {
	lower := strings.ToLower(line)
	for _, word := range headerWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// skip pages the library cannot decode
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// docxText reads the paragraphs of word/document.xml, one per line.
func docxText(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	for _, file := range archive.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("read docx document: %w", err)
		}
		defer rc.Close()
		return documentText(rc)
	}
	return "", errors.New("docx has no word/document.xml")
}

func documentText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var (
		b      strings.Builder
		inText bool
	)
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse docx document: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteString("\t")
			case "br", "cr":
				b.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}

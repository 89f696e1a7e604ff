package resume

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"

	"interviewassist/internal/models"
)

func buildDOCX(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		body.WriteString(p)
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() +
		`</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if _, err := w.Write([]byte(document)); err != nil {
		t.Fatalf("write entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestParseDOCX(t *testing.T) {
	data := buildDOCX(t,
		"Curriculum Vitae",
		"Jane Q Doe",
		"jane.doe@example.com | +1 (555) 123-4567",
		"Senior engineer with eight years of React and Node.js experience building web platforms.",
	)

	parsed, err := Parse("Jane_Doe.docx", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.Name != "Jane Q Doe" {
		t.Errorf("name = %q, want %q", parsed.Name, "Jane Q Doe")
	}
	if parsed.Email != "jane.doe@example.com" {
		t.Errorf("email = %q", parsed.Email)
	}
	if parsed.Phone != "+1 (555) 123-4567" {
		t.Errorf("phone = %q", parsed.Phone)
	}
	if parsed.Meta.Type != models.ResumeTypeDOCX || parsed.Meta.Filename != "Jane_Doe.docx" {
		t.Errorf("unexpected meta: %+v", parsed.Meta)
	}
	if parsed.Meta.Size != int64(len(data)) {
		t.Errorf("size = %d, want %d", parsed.Meta.Size, len(data))
	}
	if len(parsed.Missing()) != 0 {
		t.Errorf("expected nothing missing, got %v", parsed.Missing())
	}
}

func TestParseRejectsShortText(t *testing.T) {
	data := buildDOCX(t, "John Smith")

	_, err := Parse("short.docx", data)
	if !errors.Is(err, ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
}

func TestParseRejectsUnsupportedType(t *testing.T) {
	_, err := Parse("resume.txt", []byte(strings.Repeat("text ", 50)))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestParseRejectsCorruptFiles(t *testing.T) {
	for _, name := range []string{"broken.pdf", "broken.docx"} {
		_, err := Parse(name, []byte("this is not a real document at all"))
		if !errors.Is(err, ErrUnreadable) {
			t.Errorf("%s: expected ErrUnreadable, got %v", name, err)
		}
	}
}

func TestParseRejectsLargeFiles(t *testing.T) {
	_, err := Parse("big.pdf", make([]byte, MaxFileSize+1))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestExtractFields(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantName  string
		wantEmail string
		wantPhone string
	}{
		{
			name:      "header lines skipped",
			text:      "RESUME\nProfessional Summary\nAlan Turing\nalan@bletchley.org\n555.867.5309",
			wantName:  "Alan Turing",
			wantEmail: "alan@bletchley.org",
			wantPhone: "555.867.5309",
		},
		{
			name:      "lowercase line is not a name",
			text:      "software engineer\nGrace Brewster Murray Hopper\n",
			wantName:  "Grace Brewster Murray Hopper",
			wantEmail: "",
			wantPhone: "",
		},
		{
			name:     "name must be within the first five lines",
			text:     "a\nb\nc\nd\ne\nAda Lovelace",
			wantName: "",
		},
		{
			name:     "too many words",
			text:     "One Two Three Four Five\n",
			wantName: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractFields(tt.text)
			if got.Name != tt.wantName {
				t.Errorf("name = %q, want %q", got.Name, tt.wantName)
			}
			if got.Email != tt.wantEmail {
				t.Errorf("email = %q, want %q", got.Email, tt.wantEmail)
			}
			if got.Phone != tt.wantPhone {
				t.Errorf("phone = %q, want %q", got.Phone, tt.wantPhone)
			}
		})
	}
}

func TestMissing(t *testing.T) {
	p := &Parsed{Email: "x@example.com"}
	got := p.Missing()
	if len(got) != 2 || got[0] != "name" || got[1] != "phone" {
		t.Fatalf("unexpected missing fields: %v", got)
	}
}

package parse

import (
	"reflect"
	"testing"
)

func TestTextListBasic(t *testing.T) {
	input := "https://example.com/a\nhttp://example.com/b\n"

	items, err := Items(input, FormatText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].URL != "https://example.com/a" {
		t.Errorf("unexpected URL: %s", items[0].URL)
	}
	if items[0].Index != 1 || items[1].Index != 2 {
		t.Errorf("indices not sequential: %d, %d", items[0].Index, items[1].Index)
	}
	if items[0].FileName != "PDF_001.pdf" || items[1].FileName != "PDF_002.pdf" {
		t.Errorf("default names wrong: %s, %s", items[0].FileName, items[1].FileName)
	}
}

func TestTextListLabelsAndNames(t *testing.T) {
	input := "https://example.com/report, Quarterly Report, report.pdf\r\n" +
		"https://example.com/plain\n"

	items, err := Items(input, FormatText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Label != "Quarterly Report" {
		t.Errorf("label not trimmed: %q", items[0].Label)
	}
	if items[0].FileName != "report.pdf" {
		t.Errorf("provided name not kept: %q", items[0].FileName)
	}
	if items[1].FileName != "PDF_002.pdf" {
		t.Errorf("default name should follow accepted position: %q", items[1].FileName)
	}
}

func TestTextListSkipsJunk(t *testing.T) {
	input := "\n\nnot a url\nftp://example.com/file\n  https://example.com/ok  \n# comment\n"

	items, err := Items(input, FormatText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].URL != "https://example.com/ok" {
		t.Errorf("unexpected survivor: %s", items[0].URL)
	}
	if items[0].Index != 1 || items[0].FileName != "PDF_001.pdf" {
		t.Errorf("numbering must ignore dropped lines: %d %s", items[0].Index, items[0].FileName)
	}
}

func TestJSONListStringsAndObjects(t *testing.T) {
	input := `[
		"https://example.com/one",
		{"url": "https://example.com/two", "fileName": "two.pdf", "label": "Second"},
		{"url": "https://example.com/three", "name": "three.pdf", "description": "Third"},
		{"label": "no url"},
		{"url": "ftp://example.com/nope"},
		42
	]`

	items, err := Items(input, FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].FileName != "PDF_001.pdf" {
		t.Errorf("bare string should get default name, got %q", items[0].FileName)
	}
	if items[1].FileName != "two.pdf" || items[1].Label != "Second" {
		t.Errorf("fileName/label keys not honored: %+v", items[1])
	}
	if items[2].FileName != "three.pdf" || items[2].Label != "Third" {
		t.Errorf("name/description aliases not honored: %+v", items[2])
	}
}

func TestJSONListInvalid(t *testing.T) {
	for _, input := range []string{`{"url": "https://example.com"}`, `not json`, `[`} {
		if _, err := Items(input, FormatJSON); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}

func TestJSONListEmptyArray(t *testing.T) {
	items, err := Items(`[]`, FormatJSON)
	if err != nil {
		t.Fatalf("empty array is not an error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}

func TestDeterministic(t *testing.T) {
	input := "https://example.com/a, A\nhttps://example.com/b\nbad line\n"

	first, err := Items(input, FormatText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Items(input, FormatText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same input produced different items:\n%+v\n%+v", first, second)
	}
}

func TestProvidedNameCannotEscape(t *testing.T) {
	input := `[{"url": "https://example.com/x", "fileName": "../../etc/passwd"}]`

	items, err := Items(input, FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items[0].FileName != "passwd" {
		t.Errorf("path components not stripped: %q", items[0].FileName)
	}
}

func TestDetect(t *testing.T) {
	cases := []struct {
		name     string
		fileName string
		data     string
		want     Format
	}{
		{"json extension", "urls.JSON", "whatever", FormatJSON},
		{"json content", "urls.txt", `["https://example.com"]`, FormatJSON},
		{"leading bracket", "", "  [not quite json", FormatJSON},
		{"plain lines", "urls.txt", "https://example.com\n", FormatText},
		{"empty", "", "", FormatText},
	}
	for _, tc := range cases {
		if got := Detect(tc.fileName, []byte(tc.data)); got != tc.want {
			t.Errorf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}

package parse

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/pdfcourier/api/internal/model"
)

// Format identifies the encoding of a submitted URL list
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// DefaultNamePattern names artifacts by their 1-based accepted position
const DefaultNamePattern = "PDF_%03d.pdf"

// Items parses a URL list into work items. Text input is parsed
// line by line, JSON input must be an array of strings or objects.
// Entries without a usable http(s) URL are dropped silently in both
// encodings; only undecodable JSON is an error. Item indices and
// default file names follow the accepted order, so the same input
// always yields the same items.
func Items(input string, format Format) ([]model.WorkItem, error) {
	var items []model.WorkItem
	var err error

	switch format {
	case FormatJSON:
		items, err = jsonItems(input)
	default:
		items = textItems(input)
	}
	if err != nil {
		return nil, err
	}

	for i := range items {
		items[i].Index = i + 1
		if items[i].FileName == "" {
			items[i].FileName = fmt.Sprintf(DefaultNamePattern, i+1)
		} else {
			items[i].FileName = safeName(items[i].FileName)
		}
	}
	return items, nil
}

// Detect guesses the list encoding from the file name and content.
// Used when a submission does not name its format explicitly.
func Detect(fileName string, data []byte) Format {
	if strings.EqualFold(filepath.Ext(fileName), ".json") {
		return FormatJSON
	}
	if mimetype.Detect(data).Is("application/json") {
		return FormatJSON
	}
	if strings.HasPrefix(strings.TrimSpace(string(data)), "[") {
		return FormatJSON
	}
	return FormatText
}

// textItems reads one entry per line: URL[,label[,fileName]].
// Blank lines and lines whose first field is not an http(s) URL are
// skipped.
func textItems(input string) []model.WorkItem {
	var items []model.WorkItem
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, ",", 3)
		url := strings.TrimSpace(fields[0])
		if !validURL(url) {
			continue
		}
		item := model.WorkItem{URL: url}
		if len(fields) > 1 {
			item.Label = strings.TrimSpace(fields[1])
		}
		if len(fields) > 2 {
			item.FileName = strings.TrimSpace(fields[2])
		}
		items = append(items, item)
	}
	return items
}

// jsonItems reads a JSON array whose elements are bare URL strings or
// objects carrying url plus optional fileName/name and
// label/description.
func jsonItems(input string) ([]model.WorkItem, error) {
	var raw []interface{}
	if err := json.Unmarshal([]byte(input), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON URL list: %w", err)
	}

	var items []model.WorkItem
	for _, entry := range raw {
		switch v := entry.(type) {
		case string:
			url := strings.TrimSpace(v)
			if !validURL(url) {
				continue
			}
			items = append(items, model.WorkItem{URL: url})
		case map[string]interface{}:
			url := strings.TrimSpace(stringField(v, "url"))
			if !validURL(url) {
				continue
			}
			item := model.WorkItem{URL: url}
			if name := stringField(v, "fileName"); name != "" {
				item.FileName = strings.TrimSpace(name)
			} else if name := stringField(v, "name"); name != "" {
				item.FileName = strings.TrimSpace(name)
			}
			if label := stringField(v, "label"); label != "" {
				item.Label = strings.TrimSpace(label)
			} else if label := stringField(v, "description"); label != "" {
				item.Label = strings.TrimSpace(label)
			}
			items = append(items, item)
		}
	}
	return items, nil
}

func stringField(m map[string]interface{}, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func validURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// safeName strips any directory components from a caller-provided
// file name so it cannot escape the job's staging directory.
func safeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	return filepath.Base(name)
}

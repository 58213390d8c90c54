package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ImageList holds image references for a content item. It always marshals as
// a JSON array. Older documents stored the list as one newline-delimited
// string; those are split on decode so the string form never survives a save.
type ImageList []string

func (l ImageList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

func (l *ImageList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*l = ImageList{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode images: %w", err)
		}
		*l = SplitLines(s)
		return nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("decode images: %w", err)
	}
	*l = ImageList(items)
	if *l == nil {
		*l = ImageList{}
	}
	return nil
}

// Count returns the number of image references.
func (l ImageList) Count() int {
	return len(l)
}

// SplitLines turns multi-line form input into a list, dropping blank lines.
func SplitLines(s string) ImageList {
	out := ImageList{}
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

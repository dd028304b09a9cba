package dto

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtraHeaders holds default headers applied to every request. It
// implements the flag.Value contract so it can be populated from a
// comma separated key=value string in app configuration.
type ExtraHeaders map[string]string

func (e ExtraHeaders) String() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// Set Value should be a comma seperated key=value string
func (e ExtraHeaders) Set(s string) error {
	for _, header := range strings.Split(s, ",") {
		key, value, found := strings.Cut(header, "=")
		if !found || key == "" {
			return fmt.Errorf("malformed header entry: %q", header)
		}
		e[key] = value
	}
	return nil
}

func (e ExtraHeaders) Type() string {
	return "ExtraHeaders"
}

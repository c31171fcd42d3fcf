package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteJSON marshals any report payload with indentation and writes it
// to path, creating parent directories as needed.
func WriteJSON(payload interface{}, path string) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// PrintJSON prints any report payload as indented JSON to stdout
func PrintJSON(payload interface{}) {
	data, _ := json.MarshalIndent(payload, "", "  ")
	fmt.Println(string(data))
}

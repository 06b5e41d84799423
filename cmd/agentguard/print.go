package main

import (
	"encoding/json"
	"fmt"
)

// printOut mirrors the teacher's print() helper: JSON mode marshals payload
// indented to stdout, otherwise it prints message if non-empty.
func printOut(jsonOutput bool, payload any, message string) error {
	if jsonOutput {
		blob, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(blob))
		return nil
	}
	if message != "" {
		fmt.Println(message)
	}
	return nil
}

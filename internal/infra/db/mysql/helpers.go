package mysql

import "strings"

const defaultSlotKey = "lastScanResult"

// keyOrDefault returns the default slot key when the input is empty/whitespace
func keyOrDefault(s string) string {
	if strings.TrimSpace(s) == "" {
		return defaultSlotKey
	}
	return s
}

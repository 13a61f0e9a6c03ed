package domain

import (
	"strings"
	"time"
)

func joinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

func setString(out map[string]interface{}, key string, v *string) {
	if v != nil {
		out[key] = *v
	}
}

func setBool(out map[string]interface{}, key string, v *bool) {
	if v != nil {
		out[key] = *v
	}
}

func setTime(out map[string]interface{}, key string, v *time.Time) {
	if v != nil {
		out[key] = *v
	}
}

package commands

import "strings"

// splitFields splits the comma-joined field-name list published to the
// run context.
func splitFields(fields string) []string {
	if fields == "" {
		return nil
	}
	return strings.Split(fields, ",")
}

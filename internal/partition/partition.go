// Package partition splits a partition column's [min, max] range into
// bounded predicates, one per extraction worker.
package partition

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/leapsync/pkg/core"
)

// Partition is one slice of the source row set, expressed as the
// predicate substituted for core.ConditionsToken in the data SQL.
type Partition struct {
	Condition string
}

// Request describes a range to split.
type Request struct {
	Column string
	Kind   core.Kind
	Min    string
	Max    string
	// Count is the desired number of partitions; the splitter may
	// return fewer when the range is narrower than Count.
	Count int
}

// Layouts accepted for temporal bounds, tried in order. Drivers report
// temporal values in one of these shapes.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
	"15:04:05.999999999",
}

// Split divides the request's range into at most Count ordered,
// non-overlapping partitions that together cover [Min, Max]. Each
// partition's predicate is half-open except the last, which closes the
// range so the maximum value is included exactly once.
func Split(req Request) ([]Partition, error) {
	if req.Column == "" {
		return nil, fmt.Errorf("partition column is required")
	}
	if req.Count < 1 {
		return nil, fmt.Errorf("partition count must be at least 1, got %d", req.Count)
	}
	if req.Min == "" || req.Max == "" {
		// An empty candidate set still needs one partition so the
		// extraction produces the (empty) output it promised.
		return []Partition{{Condition: req.Column + " IS NULL"}}, nil
	}

	switch req.Kind {
	case core.KindInteger:
		return splitInteger(req)
	case core.KindFloat, core.KindDecimal:
		return splitFloat(req)
	case core.KindDate, core.KindTime, core.KindTimestamp:
		return splitTemporal(req)
	default:
		return nil, fmt.Errorf("unsupported partition column kind %q", req.Kind)
	}
}

func splitInteger(req Request) ([]Partition, error) {
	minVal, err := strconv.ParseInt(req.Min, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid integer minimum %q: %w", req.Min, err)
	}
	maxVal, err := strconv.ParseInt(req.Max, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid integer maximum %q: %w", req.Max, err)
	}
	if minVal > maxVal {
		return nil, fmt.Errorf("minimum %d exceeds maximum %d", minVal, maxVal)
	}

	// The distance is computed in uint64: max-min exceeds MaxInt64 for
	// wide id ranges (hash or snowflake ids spanning most of int64).
	span := uint64(maxVal) - uint64(minVal)
	count := uint64(req.Count)
	if span < count-1 {
		count = span + 1
	}
	step := span / count
	rem := span % count

	parts := make([]Partition, 0, count)
	lo := minVal
	for i := uint64(0); i < count; i++ {
		if i == count-1 {
			parts = append(parts, Partition{Condition: fmt.Sprintf(
				"%s >= %d AND %s <= %d", req.Column, lo, req.Column, maxVal)})
			break
		}
		width := step
		if i < rem {
			width++
		}
		// Two's complement addition: width may not fit in int64 on the
		// full range, but lo+width always does.
		hi := int64(uint64(lo) + width)
		parts = append(parts, Partition{Condition: fmt.Sprintf(
			"%s >= %d AND %s < %d", req.Column, lo, req.Column, hi)})
		lo = hi
	}
	return parts, nil
}

func splitFloat(req Request) ([]Partition, error) {
	minVal, err := strconv.ParseFloat(req.Min, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid numeric minimum %q: %w", req.Min, err)
	}
	maxVal, err := strconv.ParseFloat(req.Max, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid numeric maximum %q: %w", req.Max, err)
	}
	if minVal > maxVal {
		return nil, fmt.Errorf("minimum %v exceeds maximum %v", minVal, maxVal)
	}

	count := req.Count
	if minVal == maxVal {
		count = 1
	}
	step := (maxVal - minVal) / float64(count)

	parts := make([]Partition, 0, count)
	lo := minVal
	for i := 0; i < count; i++ {
		hi := lo + step
		if i == count-1 {
			parts = append(parts, Partition{Condition: fmt.Sprintf(
				"%s >= %v AND %s <= %v", req.Column, lo, req.Column, maxVal)})
			break
		}
		parts = append(parts, Partition{Condition: fmt.Sprintf(
			"%s >= %v AND %s < %v", req.Column, lo, req.Column, hi)})
		lo = hi
	}
	return parts, nil
}

func splitTemporal(req Request) ([]Partition, error) {
	minVal, layout, err := parseTime(req.Min)
	if err != nil {
		return nil, fmt.Errorf("invalid temporal minimum %q: %w", req.Min, err)
	}
	maxVal, _, err := parseTime(req.Max)
	if err != nil {
		return nil, fmt.Errorf("invalid temporal maximum %q: %w", req.Max, err)
	}
	if minVal.After(maxVal) {
		return nil, fmt.Errorf("minimum %s exceeds maximum %s", req.Min, req.Max)
	}

	count := req.Count
	if minVal.Equal(maxVal) {
		count = 1
	}
	step := maxVal.Sub(minVal) / time.Duration(count)

	parts := make([]Partition, 0, count)
	lo := minVal
	for i := 0; i < count; i++ {
		hi := lo.Add(step)
		if i == count-1 {
			parts = append(parts, Partition{Condition: fmt.Sprintf(
				"%s >= '%s' AND %s <= '%s'",
				req.Column, lo.Format(layout), req.Column, maxVal.Format(layout))})
			break
		}
		parts = append(parts, Partition{Condition: fmt.Sprintf(
			"%s >= '%s' AND %s < '%s'",
			req.Column, lo.Format(layout), req.Column, hi.Format(layout))})
		lo = hi
	}
	return parts, nil
}

// parseTime parses a driver-reported temporal value, returning the layout
// that matched so bounds are rendered back in the same shape.
func parseTime(value string) (time.Time, string, error) {
	v := strings.TrimSpace(value)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, layout, nil
		}
	}
	return time.Time{}, "", fmt.Errorf("unrecognized temporal format")
}

package models

import (
	"strconv"
	"time"
)

// Metadata keys that are always present after parsing.
const (
	MetaParsedOn      = "Parsed_on"
	MetaStudyName     = "StudyName"
	MetaStudyInstance = "StudyInstance"

	// MetaStartUnixTimestamp holds the start of the record. BEATwatch writes
	// it as epoch milliseconds; older server logs carried RFC 3339 strings.
	MetaStartUnixTimestamp = "start_UNIXTimeStamp"
)

// Metadata holds everything learned about a recording from its File, Status
// and Record objects, plus summary values added after parsing.
type Metadata map[string]any

// NewMetadata returns metadata pre-populated with the parse time and the
// default study identifiers.
func NewMetadata(parsedOn time.Time) Metadata {
	return Metadata{
		MetaParsedOn:      parsedOn.UTC().Format(time.RFC3339),
		MetaStudyName:     "NA",
		MetaStudyInstance: "NA",
	}
}

// Merge replaces or adds the given keys.
func (m Metadata) Merge(update Metadata) {
	for k, v := range update {
		m[k] = v
	}
}

// String returns the value for key as a string, or "" when absent.
func (m Metadata) String(key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

// Int returns the value for key as an int64 when it is numeric.
func (m Metadata) Int(key string) (int64, bool) {
	switch v := m[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}

// StartTimestamp returns the timezone-aware start of the record, derived
// from start_UNIXTimeStamp. ok is false when the value is missing or
// unparseable.
func (m Metadata) StartTimestamp(loc *time.Location) (time.Time, bool) {
	raw, present := m[MetaStartUnixTimestamp]
	if !present {
		return time.Time{}, false
	}

	switch v := raw.(type) {
	case float64:
		return time.UnixMilli(int64(v)).In(loc), true
	case int64:
		return time.UnixMilli(v).In(loc), true
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t.In(loc), true
		}
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
			return time.UnixMilli(ms).In(loc), true
		}
	}
	return time.Time{}, false
}

package utils

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"beatwatch.beatmonitor.org/internal/parser"
)

// ParseTimeParam reads a timestamp query parameter. It supports epoch
// timestamps in milliseconds and RFC 3339 strings. A missing parameter
// returns nil without error.
func ParseTimeParam(params url.Values, key string, fieldErrors map[string][]string) *time.Time {
	val := params.Get(key)
	if val == "" {
		return nil
	}

	if epochMs, err := strconv.ParseInt(val, 10, 64); err == nil {
		t := time.UnixMilli(epochMs).UTC()
		return &t
	}

	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return &t
	}

	fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
	return nil
}

// ParseDurationParam reads a duration query parameter, accepting Go
// duration strings ("1m30s") or plain millisecond counts.
func ParseDurationParam(params url.Values, key string, fieldErrors map[string][]string) *time.Duration {
	val := params.Get(key)
	if val == "" {
		return nil
	}

	if ms, err := strconv.ParseInt(val, 10, 64); err == nil {
		d := time.Duration(ms) * time.Millisecond
		return &d
	}

	if d, err := time.ParseDuration(val); err == nil {
		return &d
	}

	fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
	return nil
}

// ParsePeriodQuery builds a period query from from/to/duration/axis query
// parameters. ok is false when a window was requested but invalid; a
// request with no window parameters at all returns ok with a nil query.
func ParsePeriodQuery(params url.Values, fieldErrors map[string][]string) (*parser.PeriodQuery, bool) {
	axisParam := strings.ToLower(params.Get("axis"))

	var axis parser.Axis
	switch axisParam {
	case "", "absolute":
		axis = parser.AxisAbsolute
	case "elapsed":
		axis = parser.AxisElapsed
	default:
		fieldErrors["axis"] = append(fieldErrors["axis"], `Invalid field value for field "axis".`)
		return nil, false
	}

	duration := ParseDurationParam(params, "duration", fieldErrors)

	query := &parser.PeriodQuery{Axis: axis, Duration: duration}
	provided := 0
	if duration != nil {
		provided++
	}

	if axis == parser.AxisElapsed {
		if from := ParseDurationParam(params, "from", fieldErrors); from != nil {
			query.StartElapsed = from
			provided++
		}
		if to := ParseDurationParam(params, "to", fieldErrors); to != nil {
			query.EndElapsed = to
			provided++
		}
	} else {
		if from := ParseTimeParam(params, "from", fieldErrors); from != nil {
			query.Start = from
			provided++
		}
		if to := ParseTimeParam(params, "to", fieldErrors); to != nil {
			query.End = to
			provided++
		}
	}

	if len(fieldErrors) > 0 {
		return nil, false
	}

	if provided == 0 {
		// No window requested: return the full stream.
		return nil, true
	}

	if provided < 2 {
		fieldErrors["window"] = append(fieldErrors["window"],
			"Two of 'from', 'to', and 'duration' must be provided.")
		return nil, false
	}

	return query, true
}

package parser

import (
	"errors"
	"log/slog"
	"time"

	"beatwatch.beatmonitor.org/internal/logging"
	"beatwatch.beatmonitor.org/internal/models"
)

// Axis selects which time column a period query applies to.
type Axis string

const (
	// AxisAbsolute selects by wall-clock timestamps.
	AxisAbsolute Axis = "absolute"
	// AxisElapsed selects by time from the start of the record.
	AxisElapsed Axis = "elapsed"
)

// ErrPeriodUnderspecified is returned when fewer than two of start, end and
// duration are provided.
var ErrPeriodUnderspecified = errors.New("two of 'start', 'end', and 'duration' must be provided")

// PeriodQuery describes a time window. Two of start, end and duration must
// be set on the chosen axis; given start and end, duration is ignored with
// a warning.
type PeriodQuery struct {
	Axis Axis

	// Absolute axis bounds. Timestamps should be timezone-aware.
	Start *time.Time
	End   *time.Time

	// Elapsed axis bounds.
	StartElapsed *time.Duration
	EndElapsed   *time.Duration

	Duration *time.Duration
}

// bounds is a resolved window in milliseconds on the query's axis.
type bounds struct {
	t1, t2 int64
}

func (q PeriodQuery) resolve(logger *slog.Logger) (bounds, error) {
	axis := q.Axis
	if axis == "" {
		axis = AxisAbsolute
	}

	var start, end *int64
	switch axis {
	case AxisElapsed:
		if q.StartElapsed != nil {
			v := q.StartElapsed.Milliseconds()
			start = &v
		}
		if q.EndElapsed != nil {
			v := q.EndElapsed.Milliseconds()
			end = &v
		}
	default:
		if q.Start != nil {
			v := q.Start.UnixMilli()
			start = &v
		}
		if q.End != nil {
			v := q.End.UnixMilli()
			end = &v
		}
	}

	durationMs := int64(0)
	hasDuration := q.Duration != nil
	if hasDuration {
		durationMs = q.Duration.Milliseconds()
	}

	switch {
	case start != nil && end != nil:
		if hasDuration {
			logging.LogParseWarning(logger, "ignoring duration",
				slog.Duration("duration", *q.Duration))
		}
		return bounds{t1: *start, t2: *end}, nil
	case start != nil && hasDuration:
		return bounds{t1: *start, t2: *start + durationMs}, nil
	case end != nil && hasDuration:
		return bounds{t1: *end - durationMs, t2: *end}, nil
	default:
		return bounds{}, ErrPeriodUnderspecified
	}
}

// SelectPeriod selects data between the window's bounds from every stream
// of a recording. The recording's metadata is carried over unchanged.
func SelectPeriod(rec *models.Recording, q PeriodQuery, logger *slog.Logger) (*models.Recording, error) {
	if logger == nil {
		logger = slog.Default()
	}

	b, err := q.resolve(logger)
	if err != nil {
		return nil, err
	}

	logger.Info("selecting period",
		slog.Int64("from_ms", b.t1), slog.Int64("to_ms", b.t2),
		slog.String("axis", string(axisOrDefault(q.Axis))))

	out := &models.Recording{
		ID:       rec.ID,
		Metadata: rec.Metadata,
	}
	out.HeartRate = filterByPeriod("data_hr", rec.HeartRate, hrAxisValue(q.Axis), b, logger)
	out.Accel = filterByPeriod("data_accel", rec.Accel, accelAxisValue(q.Axis), b, logger)
	out.Survey = filterByPeriod("data_survey", rec.Survey, surveyAxisValue(q.Axis), b, logger)

	return out, nil
}

// SelectHeartRate selects heart rate samples within the window.
func SelectHeartRate(samples []models.HeartRateSample, q PeriodQuery, logger *slog.Logger) ([]models.HeartRateSample, error) {
	if logger == nil {
		logger = slog.Default()
	}
	b, err := q.resolve(logger)
	if err != nil {
		return nil, err
	}
	return filterByPeriod("data_hr", samples, hrAxisValue(q.Axis), b, logger), nil
}

// SelectAccel selects acceleration samples within the window.
func SelectAccel(samples []models.AccelSample, q PeriodQuery, logger *slog.Logger) ([]models.AccelSample, error) {
	if logger == nil {
		logger = slog.Default()
	}
	b, err := q.resolve(logger)
	if err != nil {
		return nil, err
	}
	return filterByPeriod("data_accel", samples, accelAxisValue(q.Axis), b, logger), nil
}

// SelectSurvey selects survey responses within the window.
func SelectSurvey(responses []models.SurveyResponse, q PeriodQuery, logger *slog.Logger) ([]models.SurveyResponse, error) {
	if logger == nil {
		logger = slog.Default()
	}
	b, err := q.resolve(logger)
	if err != nil {
		return nil, err
	}
	return filterByPeriod("data_survey", responses, surveyAxisValue(q.Axis), b, logger), nil
}

func axisOrDefault(a Axis) Axis {
	if a == "" {
		return AxisAbsolute
	}
	return a
}

func hrAxisValue(a Axis) func(models.HeartRateSample) int64 {
	if axisOrDefault(a) == AxisElapsed {
		return func(s models.HeartRateSample) int64 { return s.TimeElapsed.Milliseconds() }
	}
	return func(s models.HeartRateSample) int64 { return s.TimeAbsolute.UnixMilli() }
}

func accelAxisValue(a Axis) func(models.AccelSample) int64 {
	if axisOrDefault(a) == AxisElapsed {
		return func(s models.AccelSample) int64 { return s.TimeElapsed.Milliseconds() }
	}
	return func(s models.AccelSample) int64 { return s.TimeAbsolute.UnixMilli() }
}

func surveyAxisValue(a Axis) func(models.SurveyResponse) int64 {
	if axisOrDefault(a) == AxisElapsed {
		return func(s models.SurveyResponse) int64 { return s.TimeElapsed.Milliseconds() }
	}
	return func(s models.SurveyResponse) int64 { return s.TimeAbsolute.UnixMilli() }
}

// filterByPeriod returns the samples whose axis value falls inside the
// window, inclusive on both ends.
func filterByPeriod[S any](name string, in []S, value func(S) int64, b bounds, logger *slog.Logger) []S {
	if len(in) == 0 {
		return nil
	}

	min, max := value(in[0]), value(in[0])
	for _, s := range in[1:] {
		v := value(s)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if b.t1 > max {
		logging.LogParseWarning(logger, "start time is out of range",
			slog.String("stream", name), slog.Int64("max_ms", max))
	} else if b.t2 < min {
		logging.LogParseWarning(logger, "end time is out of range",
			slog.String("stream", name), slog.Int64("min_ms", min))
	}

	var out []S
	for _, s := range in {
		v := value(s)
		if v >= b.t1 && v <= b.t2 {
			out = append(out, s)
		}
	}

	logger.Info("selected samples", slog.String("stream", name), slog.Int("count", len(out)))
	return out
}

package edm

import (
	"encoding/json"
	"fmt"
	"time"
)

func init() {
	RegisterType("Edm.Date", NewDate)
	RegisterType("Edm.DateTimeOffset", NewDateTimeOffset)
	RegisterType("Edm.TimeOfDay", NewTimeOfDay)
	RegisterType("Edm.Duration", NewDuration)
}

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05.999999999"
)

// Date represents an Edm.Date value, projected to the table type "date".
type Date struct {
	value  time.Time
	isNull bool
	facets Facets
}

// NewDate parses an Edm.Date. Per spec §4.3, string inputs are parsed by
// an ISO-8601 cast and integer inputs are interpreted as days-since-epoch.
func NewDate(value interface{}, facets Facets) (Type, error) {
	if value == nil {
		return &Date{isNull: true, facets: facets}, nil
	}
	var t time.Time
	switch v := value.(type) {
	case time.Time:
		t = v
	case string:
		parsed, err := time.Parse(dateLayout, v)
		if err != nil {
			return nil, fmt.Errorf("cannot parse '%s' as Edm.Date: %w", v, err)
		}
		t = parsed
	case int64:
		t = time.Unix(v*86400, 0).UTC()
	case int:
		t = time.Unix(int64(v)*86400, 0).UTC()
	default:
		return nil, fmt.Errorf("cannot convert %T to Edm.Date", value)
	}
	return &Date{value: t, facets: facets}, nil
}

func (d *Date) TypeName() string { return "Edm.Date" }
func (d *Date) IsNull() bool     { return d.isNull }
func (d *Date) Validate() error  { return nil }
func (d *Date) SetFacets(f Facets) error {
	d.facets = f
	return nil
}
func (d *Date) GetFacets() Facets { return d.facets }
func (d *Date) Value() interface{} {
	if d.isNull {
		return nil
	}
	return d.value
}
func (d *Date) String() string {
	if d.isNull {
		return "null"
	}
	return d.value.Format(dateLayout)
}
func (d *Date) MarshalJSON() ([]byte, error) {
	if d.isNull {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		d.isNull = true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("cannot parse '%s' as Edm.Date: %w", s, err)
	}
	d.value = t
	d.isNull = false
	return nil
}

// DateTimeOffset represents an Edm.DateTimeOffset value, always normalized
// to UTC per the table type "timestamp (UTC)" projection in spec §4.1.
type DateTimeOffset struct {
	value  time.Time
	isNull bool
	facets Facets
}

// NewDateTimeOffset parses an Edm.DateTimeOffset. Integer inputs are
// interpreted as seconds-since-epoch per spec §4.3.
func NewDateTimeOffset(value interface{}, facets Facets) (Type, error) {
	if value == nil {
		return &DateTimeOffset{isNull: true, facets: facets}, nil
	}
	var t time.Time
	switch v := value.(type) {
	case time.Time:
		t = v.UTC()
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, fmt.Errorf("cannot parse '%s' as Edm.DateTimeOffset: %w", v, err)
		}
		t = parsed.UTC()
	case int64:
		t = time.Unix(v, 0).UTC()
	case int:
		t = time.Unix(int64(v), 0).UTC()
	default:
		return nil, fmt.Errorf("cannot convert %T to Edm.DateTimeOffset", value)
	}
	return &DateTimeOffset{value: t, facets: facets}, nil
}

func (d *DateTimeOffset) TypeName() string { return "Edm.DateTimeOffset" }
func (d *DateTimeOffset) IsNull() bool     { return d.isNull }
func (d *DateTimeOffset) Validate() error  { return nil }
func (d *DateTimeOffset) SetFacets(f Facets) error {
	d.facets = f
	return nil
}
func (d *DateTimeOffset) GetFacets() Facets { return d.facets }
func (d *DateTimeOffset) Value() interface{} {
	if d.isNull {
		return nil
	}
	return d.value
}
func (d *DateTimeOffset) String() string {
	if d.isNull {
		return "null"
	}
	return d.value.Format(time.RFC3339Nano)
}
func (d *DateTimeOffset) MarshalJSON() ([]byte, error) {
	if d.isNull {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}
func (d *DateTimeOffset) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		d.isNull = true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("cannot parse '%s' as Edm.DateTimeOffset: %w", s, err)
	}
	d.value = t.UTC()
	d.isNull = false
	return nil
}

// TimeOfDay represents an Edm.TimeOfDay value, projected to "time".
type TimeOfDay struct {
	value  time.Duration
	isNull bool
	facets Facets
}

// NewTimeOfDay parses an Edm.TimeOfDay string (HH:MM:SS[.fff]).
func NewTimeOfDay(value interface{}, facets Facets) (Type, error) {
	if value == nil {
		return &TimeOfDay{isNull: true, facets: facets}, nil
	}
	var d time.Duration
	switch v := value.(type) {
	case time.Duration:
		d = v
	case string:
		t, err := time.Parse(timeLayout, v)
		if err != nil {
			return nil, fmt.Errorf("cannot parse '%s' as Edm.TimeOfDay: %w", v, err)
		}
		d = time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute +
			time.Duration(t.Second())*time.Second + time.Duration(t.Nanosecond())
	default:
		return nil, fmt.Errorf("cannot convert %T to Edm.TimeOfDay", value)
	}
	return &TimeOfDay{value: d, facets: facets}, nil
}

func (t *TimeOfDay) TypeName() string { return "Edm.TimeOfDay" }
func (t *TimeOfDay) IsNull() bool     { return t.isNull }
func (t *TimeOfDay) Validate() error  { return nil }
func (t *TimeOfDay) SetFacets(f Facets) error {
	t.facets = f
	return nil
}
func (t *TimeOfDay) GetFacets() Facets { return t.facets }
func (t *TimeOfDay) Value() interface{} {
	if t.isNull {
		return nil
	}
	return t.value
}
func (t *TimeOfDay) String() string {
	if t.isNull {
		return "null"
	}
	total := t.value
	h := total / time.Hour
	total -= h * time.Hour
	m := total / time.Minute
	total -= m * time.Minute
	s := total / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
func (t *TimeOfDay) MarshalJSON() ([]byte, error) {
	if t.isNull {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.isNull = true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(timeLayout, s)
	if err != nil {
		return fmt.Errorf("cannot parse '%s' as Edm.TimeOfDay: %w", s, err)
	}
	t.value = time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute +
		time.Duration(parsed.Second())*time.Second + time.Duration(parsed.Nanosecond())
	t.isNull = false
	return nil
}

// Duration represents an Edm.Duration value, projected to "interval".
type Duration struct {
	value  time.Duration
	isNull bool
	facets Facets
}

// NewDuration parses an Edm.Duration ISO-8601 string, e.g. "PT1H30M".
func NewDuration(value interface{}, facets Facets) (Type, error) {
	if value == nil {
		return &Duration{isNull: true, facets: facets}, nil
	}
	var d time.Duration
	switch v := value.(type) {
	case time.Duration:
		d = v
	case string:
		parsed, err := parseISO8601Duration(v)
		if err != nil {
			return nil, fmt.Errorf("cannot parse '%s' as Edm.Duration: %w", v, err)
		}
		d = parsed
	default:
		return nil, fmt.Errorf("cannot convert %T to Edm.Duration", value)
	}
	return &Duration{value: d, facets: facets}, nil
}

func (d *Duration) TypeName() string { return "Edm.Duration" }
func (d *Duration) IsNull() bool     { return d.isNull }
func (d *Duration) Validate() error  { return nil }
func (d *Duration) SetFacets(f Facets) error {
	d.facets = f
	return nil
}
func (d *Duration) GetFacets() Facets { return d.facets }
func (d *Duration) Value() interface{} {
	if d.isNull {
		return nil
	}
	return d.value
}
func (d *Duration) String() string {
	if d.isNull {
		return "null"
	}
	return formatISO8601Duration(d.value)
}
func (d *Duration) MarshalJSON() ([]byte, error) {
	if d.isNull {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}
func (d *Duration) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		d.isNull = true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := parseISO8601Duration(s)
	if err != nil {
		return fmt.Errorf("cannot parse '%s' as Edm.Duration: %w", s, err)
	}
	d.value = parsed
	d.isNull = false
	return nil
}

// parseISO8601Duration parses a subset of ISO-8601 durations sufficient
// for OData Edm.Duration values: P[nD]T[nH][nM][nS].
func parseISO8601Duration(s string) (time.Duration, error) {
	orig := s
	if len(s) == 0 || s[0] != 'P' {
		return 0, fmt.Errorf("invalid ISO-8601 duration: %s", orig)
	}
	s = s[1:]
	var total time.Duration
	datePart := s
	timePart := ""
	if idx := indexByte(s, 'T'); idx >= 0 {
		datePart = s[:idx]
		timePart = s[idx+1:]
	}
	if datePart != "" {
		days, err := parseDurationComponent(datePart, 'D')
		if err != nil {
			return 0, err
		}
		total += time.Duration(days) * 24 * time.Hour
	}
	if timePart != "" {
		hours, err := parseDurationComponent(timePart, 'H')
		if err != nil {
			return 0, err
		}
		total += time.Duration(hours) * time.Hour
		timePart = stripComponent(timePart, 'H')
		minutes, err := parseDurationComponent(timePart, 'M')
		if err != nil {
			return 0, err
		}
		total += time.Duration(minutes) * time.Minute
		timePart = stripComponent(timePart, 'M')
		seconds, err := parseDurationSecondsComponent(timePart)
		if err != nil {
			return 0, err
		}
		total += seconds
	}
	return total, nil
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func parseDurationComponent(s string, unit byte) (int, error) {
	idx := indexByte(s, unit)
	if idx < 0 {
		return 0, nil
	}
	var n int
	_, err := fmt.Sscanf(s[:idx], "%d", &n)
	if err != nil {
		return 0, fmt.Errorf("invalid duration component %q: %w", s[:idx], err)
	}
	return n, nil
}

func parseDurationSecondsComponent(s string) (time.Duration, error) {
	idx := indexByte(s, 'S')
	if idx < 0 {
		return 0, nil
	}
	var f float64
	_, err := fmt.Sscanf(s[:idx], "%f", &f)
	if err != nil {
		return 0, fmt.Errorf("invalid duration seconds %q: %w", s[:idx], err)
	}
	return time.Duration(f * float64(time.Second)), nil
}

func stripComponent(s string, unit byte) string {
	idx := indexByte(s, unit)
	if idx < 0 {
		return s
	}
	return s[idx+1:]
}

func formatISO8601Duration(d time.Duration) string {
	if d == 0 {
		return "PT0S"
	}
	neg := d < 0
	if neg {
		d = -d
	}
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	secs := d
	sign := ""
	if neg {
		sign = "-"
	}
	out := sign + "P"
	if days > 0 {
		out += fmt.Sprintf("%dD", days)
	}
	out += "T"
	if hours > 0 {
		out += fmt.Sprintf("%dH", hours)
	}
	if minutes > 0 {
		out += fmt.Sprintf("%dM", minutes)
	}
	out += fmt.Sprintf("%sS", strconvTrimFloat(secs.Seconds()))
	return out
}

func strconvTrimFloat(f float64) string {
	s := fmt.Sprintf("%g", f)
	return s
}

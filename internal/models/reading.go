package models

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/meterlog/internal/constants"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyAlways  Frequency = "always"
)

// Frequencies lists the accepted frequencies in display order.
var Frequencies = []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyAlways}

var frequencyAliases = map[string]Frequency{
	"daily":       FrequencyDaily,
	"weekly":      FrequencyWeekly,
	"monthly":     FrequencyMonthly,
	"always":      FrequencyAlways,
	"ежедневно":   FrequencyDaily,
	"еженедельно": FrequencyWeekly,
	"ежемесячно":  FrequencyMonthly,
	"всегда":      FrequencyAlways,
}

var statusTokens = map[string]bool{
	"true":       true,
	"false":      false,
	"исправен":   true,
	"неисправен": false,
}

// FieldCount is the number of tokens in a serialized reading.
const FieldCount = 5

// lineTokenRe recognizes quoted strings, dates, decimal numbers and bare words.
var lineTokenRe = regexp.MustCompile(`"[^"]*"|\d{4}\.\d{2}\.\d{2}|[-+]?\d+(?:\.\d+)?|\S+`)

// FormatError reports a field whose text does not satisfy its parse rule.
type FormatError struct {
	Field  string
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Input, e.Reason)
}

// Fields holds the raw text of each field, as typed by a user or read from a store.
type Fields struct {
	Name      string
	Date      string
	Value     string
	Frequency string
	Status    string
}

// Reading is one meter reading. ID is assigned in memory and never serialized.
type Reading struct {
	ID        string
	Name      string
	Date      time.Time
	Value     float64
	Frequency Frequency
	Status    bool
}

// NewReading validates every field and returns a reading with a fresh ID.
func NewReading(f Fields) (Reading, error) {
	name, err := ParseName(f.Name)
	if err != nil {
		return Reading{}, err
	}
	date, err := ParseDate(f.Date)
	if err != nil {
		return Reading{}, err
	}
	value, err := ParseValue(f.Value)
	if err != nil {
		return Reading{}, err
	}
	freq, err := ParseFrequency(f.Frequency)
	if err != nil {
		return Reading{}, err
	}
	status, err := ParseStatus(f.Status)
	if err != nil {
		return Reading{}, err
	}

	return Reading{
		ID:        uuid.New().String(),
		Name:      name,
		Date:      date,
		Value:     value,
		Frequency: freq,
		Status:    status,
	}, nil
}

// ParseLine parses one line of the backing file.
func ParseLine(line string) (Reading, error) {
	tokens := lineTokenRe.FindAllString(strings.TrimSpace(line), -1)
	if len(tokens) != FieldCount {
		return Reading{}, &FormatError{
			Field:  "line",
			Input:  line,
			Reason: fmt.Sprintf("expected %d fields, got %d", FieldCount, len(tokens)),
		}
	}
	return NewReading(Fields{
		Name:      tokens[0],
		Date:      tokens[1],
		Value:     tokens[2],
		Frequency: tokens[3],
		Status:    tokens[4],
	})
}

// ParseName trims the name and strips one pair of surrounding quotes.
func ParseName(s string) (string, error) {
	name := strings.TrimSpace(s)
	if len(name) >= 2 && strings.HasPrefix(name, `"`) && strings.HasSuffix(name, `"`) {
		name = strings.TrimSpace(name[1 : len(name)-1])
	}
	if name == "" {
		return "", &FormatError{Field: "name", Input: s, Reason: "cannot be empty"}
	}
	if strings.ContainsAny(name, "\"\r\n") {
		return "", &FormatError{Field: "name", Input: s, Reason: "must not contain quotes or line breaks"}
	}
	return name, nil
}

func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(constants.DateFormat, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, &FormatError{Field: "date", Input: s, Reason: "expected a valid date in YYYY.MM.DD format"}
	}
	return d, nil
}

func ParseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &FormatError{Field: "value", Input: s, Reason: "expected a decimal number"}
	}
	return v, nil
}

func ParseFrequency(s string) (Frequency, error) {
	if f, ok := frequencyAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f, nil
	}
	return "", &FormatError{Field: "frequency", Input: s, Reason: "expected one of daily, weekly, monthly, always"}
}

func ParseStatus(s string) (bool, error) {
	if st, ok := statusTokens[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st, nil
	}
	return false, &FormatError{Field: "status", Input: s, Reason: "expected true or false"}
}

func FormatDate(d time.Time) string {
	return d.Format(constants.DateFormat)
}

// FormatValue returns the shortest decimal form that parses back to v.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func FormatStatus(ok bool) string {
	return strconv.FormatBool(ok)
}

// Fields returns the canonical text of each field.
func (r Reading) Fields() Fields {
	return Fields{
		Name:      r.Name,
		Date:      FormatDate(r.Date),
		Value:     FormatValue(r.Value),
		Frequency: string(r.Frequency),
		Status:    FormatStatus(r.Status),
	}
}

// Line renders the reading in the backing file format.
func (r Reading) Line() string {
	f := r.Fields()
	return fmt.Sprintf(`"%s" %s %s %s %s`, f.Name, f.Date, f.Value, f.Frequency, f.Status)
}

func (r Reading) String() string {
	return r.Line()
}

// Row returns the display columns: name, date, value, frequency, status.
func (r Reading) Row() []string {
	f := r.Fields()
	status := "faulty"
	if r.Status {
		status = "ok"
	}
	return []string{f.Name, f.Date, f.Value, f.Frequency, status}
}

// Equal compares every field except ID.
func (r Reading) Equal(o Reading) bool {
	return r.Name == o.Name &&
		r.Date.Equal(o.Date) &&
		r.Value == o.Value &&
		r.Frequency == o.Frequency &&
		r.Status == o.Status
}

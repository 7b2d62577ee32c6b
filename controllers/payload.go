package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Tharoon321/events-api/models"
)

var (
	errNotObject   = errors.New("body is not a JSON object")
	errInvalidTime = errors.New("invalid time value")
)

var requiredFields = []string{"title", "startTime", "eventType", "status"}

// "required" on an untyped value rejects nil, "", 0 and false while accepting
// any array or object, which is exactly the truthiness the payload relies on.
var validate = validator.New()

// eventPayload is the request body as a generic JSON object.
type eventPayload map[string]any

func decodePayload(raw []byte) (eventPayload, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errNotObject
	}
	return obj, nil
}

func truthy(v any) bool {
	return validate.Var(v, "required") == nil
}

// missingFields lists the required fields that are absent or falsy.
func (p eventPayload) missingFields() []string {
	var missing []string
	for _, name := range requiredFields {
		if !truthy(p[name]) {
			missing = append(missing, name)
		}
	}
	return missing
}

// teamIDs returns the string entries of "teams" that are not blank, as
// supplied. Anything else in the list is skipped.
func (p eventPayload) teamIDs() []string {
	ids := []string{}
	raw, ok := p["teams"].([]any)
	if !ok {
		return ids
	}
	for _, item := range raw {
		id, ok := item.(string)
		if !ok || strings.TrimSpace(id) == "" {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// toEvent builds the record to insert. Falsy optional values fall back to
// their defaults; an explicit 0 or "" is indistinguishable from absence.
func (p eventPayload) toEvent(teams []string, now time.Time) (*models.Event, error) {
	createdAt, err := timestampValue(p["createdAt"], now)
	if err != nil {
		return nil, fmt.Errorf("createdAt: %w", err)
	}
	updatedAt, err := timestampValue(p["updatedAt"], now)
	if err != nil {
		return nil, fmt.Errorf("updatedAt: %w", err)
	}

	startTime := textValue(p["startTime"])
	endTime := startTime
	if truthy(p["endTime"]) {
		endTime = textValue(p["endTime"])
	}

	return &models.Event{
		Title:               textValue(p["title"]),
		StartTime:           startTime,
		EndTime:             endTime,
		EventType:           textValue(p["eventType"]),
		Status:              textValue(p["status"]),
		SportType:           optionalText(p["sportType"]),
		Teams:               teams,
		TotalVotes:          countValue(p["totalVotes"]),
		RecentComments:      countValue(p["recentComments"]),
		CoverImage:          optionalText(p["coverImage"]),
		Description:         defaultText(p["description"]),
		Location:            defaultText(p["location"]),
		FeaturedParticipant: defaultText(p["featuredParticipant"]),
		CreatedAt:           createdAt,
		UpdatedAt:           updatedAt,
	}, nil
}

// textValue renders a JSON value as text: strings as is, numbers in their
// shortest form, everything else as compact JSON.
func textValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

func defaultText(v any) string {
	if !truthy(v) {
		return ""
	}
	return textValue(v)
}

func optionalText(v any) *string {
	if v == nil {
		return nil
	}
	s := textValue(v)
	return &s
}

// countValue truncates a JSON number to an integer, saturating at the int64
// bounds. Anything else counts as 0.
func countValue(v any) int64 {
	n, ok := v.(float64)
	switch {
	case !ok || math.IsNaN(n):
		return 0
	case n >= math.MaxInt64:
		return math.MaxInt64
	case n <= math.MinInt64:
		return math.MinInt64
	default:
		return int64(n)
	}
}

// maxUnixMillis is the largest distance from the epoch a date may have.
const maxUnixMillis = 8.64e15

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// timestampValue normalizes a date given as a string or as Unix milliseconds.
// A missing value means now.
func timestampValue(v any, now time.Time) (string, error) {
	switch t := v.(type) {
	case nil:
		return models.FormatISO(now), nil
	case float64:
		if math.IsNaN(t) || math.Abs(t) > maxUnixMillis {
			return "", fmt.Errorf("%w %v", errInvalidTime, t)
		}
		return isoValue(time.UnixMilli(int64(t)), t)
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return isoValue(parsed, t)
			}
		}
		return "", fmt.Errorf("%w %q", errInvalidTime, t)
	default:
		return "", errInvalidTime
	}
}

// isoValue formats t, rejecting years that ISOLayout cannot render.
func isoValue(t time.Time, in any) (string, error) {
	if y := t.UTC().Year(); y < 0 || y > 9999 {
		return "", fmt.Errorf("%w %#v", errInvalidTime, in)
	}
	return models.FormatISO(t), nil
}

package service

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/dcrew/floortrack/internal/domain"
)

// ResolveEmployeeID turns scanner or keyboard input into an employee id.
//
// Accepted forms: a bare integer ("12"), a JSON string holding one ("\"12\""), or the
// badge QR payload ({"id": 12, ...}) whose id may be a number or a numeric string.
// Whether the id exists is for the caller to decide.
func ResolveEmployeeID(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, domain.NewValidation("id", "is required")
	}

	if id, err := strconv.Atoi(raw); err == nil {
		return checkID(id)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return 0, domain.NewValidation("id", "must be an integer or a badge payload")
	}
	if obj, ok := v.(map[string]interface{}); ok {
		field, ok := obj["id"]
		if !ok {
			return 0, domain.NewValidation("id", "badge payload has no id")
		}
		v = field
	}
	return idFromJSON(v)
}

func idFromJSON(v interface{}) (int, error) {
	switch t := v.(type) {
	case json.Number:
		id, err := strconv.Atoi(t.String())
		if err != nil {
			return 0, domain.NewValidation("id", "must be an integer")
		}
		return checkID(id)
	case string:
		id, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, domain.NewValidation("id", "must be an integer")
		}
		return checkID(id)
	default:
		return 0, domain.NewValidation("id", "must be an integer or a badge payload")
	}
}

func checkID(id int) (int, error) {
	if id <= 0 {
		return 0, domain.NewValidation("id", "must be positive")
	}
	return id, nil
}

// BadgePayload renders the JSON printed into an employee's QR badge.
// ResolveEmployeeID accepts the result.
func BadgePayload(e domain.Employee) (string, error) {
	raw, err := json.Marshal(domain.BadgePayload{ID: e.ID, Name: e.Name, Department: e.Department})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

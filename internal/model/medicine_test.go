package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMedicine_UnmarshalJSON_SplitsExtraFields(t *testing.T) {
	t.Parallel()

	raw := `{"id":1700000000000,"name":"Metformin","generic":"Metformin HCl","category":"diabetes","uses":"blood sugar control","createdAt":"2024-01-01T00:00:00.000Z","dosage":"500mg","tags":["oral"]}`

	var m Medicine
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if m.ID != 1700000000000 {
		t.Errorf("ID = %d, want 1700000000000", m.ID)
	}
	if m.Name != "Metformin" || m.Generic != "Metformin HCl" {
		t.Errorf("unexpected names: %q / %q", m.Name, m.Generic)
	}
	if m.UpdatedAt != "" {
		t.Errorf("UpdatedAt should be empty, got %q", m.UpdatedAt)
	}
	if len(m.Extra) != 2 {
		t.Fatalf("expected 2 extra fields, got %d", len(m.Extra))
	}
	if string(m.Extra["dosage"]) != `"500mg"` {
		t.Errorf("dosage = %s", m.Extra["dosage"])
	}
}

func TestMedicine_MarshalJSON_RoundTrip(t *testing.T) {
	t.Parallel()

	m := Medicine{
		ID:        42,
		Name:      "Lisinopril",
		Generic:   "Lisinopril",
		Category:  "hypertension",
		Uses:      "blood pressure",
		CreatedAt: "2024-01-01T00:00:00.000Z",
		Extra:     map[string]json.RawMessage{"manufacturer": json.RawMessage(`"Acme"`)},
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal doc: %v", err)
	}
	if doc["manufacturer"] != "Acme" {
		t.Errorf("extra field lost: %v", doc)
	}
	if _, ok := doc["updatedAt"]; ok {
		t.Error("updatedAt should be omitted when empty")
	}

	var back Medicine
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal back: %v", err)
	}
	if back.ID != m.ID || back.Category != m.Category || string(back.Extra["manufacturer"]) != `"Acme"` {
		t.Errorf("round trip mismatch: %+v", back)
	}
}

func TestMedicine_MarshalJSON_KnownFieldsWinOverExtra(t *testing.T) {
	t.Parallel()

	m := Medicine{
		ID:    7,
		Name:  "Real",
		Extra: map[string]json.RawMessage{"name": json.RawMessage(`"Shadow"`)},
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc map[string]any
	_ = json.Unmarshal(data, &doc)
	if doc["name"] != "Real" {
		t.Errorf("name = %v, want Real", doc["name"])
	}
}

func TestMedicine_UnmarshalJSON_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"array", `[1,2]`},
		{"null", `null`},
		{"wrong type for name", `{"name":12}`},
		{"wrong type for id", `{"id":"abc"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Medicine
			if err := json.Unmarshal([]byte(tt.raw), &m); err == nil {
				t.Errorf("expected error for %s", tt.raw)
			}
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 3, 5, 7, 8, 9, 123456789, time.FixedZone("X", 3600))
	got := FormatTimestamp(ts)
	want := "2024-03-05T06:08:09.123Z"
	if got != want {
		t.Errorf("FormatTimestamp = %s, want %s", got, want)
	}
}

func TestMedicine_NullFields(t *testing.T) {
	t.Parallel()

	raw := `{"id":1,"name":"Metformin","generic":null,"notes":null}`

	var m Medicine
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	out, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("decode output: %v", err)
	}

	// Typed fields are strings; null becomes the empty string.
	if string(doc["generic"]) != `""` {
		t.Errorf("generic = %s, want \"\"", doc["generic"])
	}
	// Extension fields are kept byte for byte.
	if string(doc["notes"]) != `null` {
		t.Errorf("notes = %s, want null", doc["notes"])
	}
}

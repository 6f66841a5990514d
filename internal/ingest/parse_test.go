package ingest

import "testing"

func TestParseModelJSONPlain(t *testing.T) {
	parsed, err := ParseModelJSON(`{"claim_number": "CLM-001", "amount": 250}`)
	if err != nil {
		t.Fatal(err)
	}
	obj, ok := parsed.(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %T", parsed)
	}
	if obj["claim_number"] != "CLM-001" {
		t.Errorf("unexpected claim_number %v", obj["claim_number"])
	}
}

func TestParseModelJSONStripsFence(t *testing.T) {
	raw := "```json\n{\"patient_name\": \"Jane Doe\"}\n```"
	parsed, err := ParseModelJSON(raw)
	if err != nil {
		t.Fatal(err)
	}
	obj := parsed.(map[string]any)
	if obj["patient_name"] != "Jane Doe" {
		t.Errorf("unexpected patient_name %v", obj["patient_name"])
	}
}

func TestParseModelJSONStripsBareFence(t *testing.T) {
	raw := "```\n[1, 2, 3]\n```"
	parsed, err := ParseModelJSON(raw)
	if err != nil {
		t.Fatal(err)
	}
	arr, ok := parsed.([]any)
	if !ok || len(arr) != 3 {
		t.Errorf("expected 3-element array, got %v", parsed)
	}
}

func TestParseModelJSONInvalid(t *testing.T) {
	parsed, err := ParseModelJSON("I could not extract any data from this document.")
	if err == nil {
		t.Fatal("expected error for prose output")
	}
	if parsed != nil {
		t.Errorf("expected nil value on parse failure, got %v", parsed)
	}
}

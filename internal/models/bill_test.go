package models

import (
	"encoding/json"
	"testing"
)

func TestBillPassThrough(t *testing.T) {
	raw := `{"id":7,"date":"2024-01-02","status":"pending","amount":348.5,"vat":"70","fileUrl":"/uploads/a.jpg"}`

	var bill Bill
	if err := json.Unmarshal([]byte(raw), &bill); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if bill.ID != "7" {
		t.Errorf("ID = %q, want 7", bill.ID)
	}
	if bill.Date != "2024-01-02" || bill.Status != "pending" {
		t.Errorf("interpreted fields = %q / %q", bill.Date, bill.Status)
	}
	if got := bill.ExtraString("vat"); got != "70" {
		t.Errorf("vat = %q, want 70", got)
	}
	if got := string(bill.Extra["amount"]); got != "348.5" {
		t.Errorf("amount = %s, want 348.5", got)
	}

	out, err := json.Marshal(bill)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var round map[string]json.RawMessage
	if err := json.Unmarshal(out, &round); err != nil {
		t.Fatalf("round-trip decode failed: %v", err)
	}

	// The numeric id keeps its JSON type on the way back out.
	if string(round["id"]) != "7" {
		t.Errorf("round-tripped id = %s, want 7", round["id"])
	}
	if string(round["amount"]) != "348.5" {
		t.Errorf("round-tripped amount = %s", round["amount"])
	}
	if string(round["fileUrl"]) != `"/uploads/a.jpg"` {
		t.Errorf("round-tripped fileUrl = %s", round["fileUrl"])
	}
}

func TestBillSetExtra(t *testing.T) {
	var bill Bill
	if err := bill.SetExtra("commentAdmin", "ok"); err != nil {
		t.Fatalf("SetExtra failed: %v", err)
	}
	if got := bill.ExtraString("commentAdmin"); got != "ok" {
		t.Errorf("ExtraString = %q, want ok", got)
	}
	if got := bill.ExtraString("missing"); got != "" {
		t.Errorf("ExtraString for missing key = %q, want empty", got)
	}
}

func TestLocalPart(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"newuser@test.tld", "newuser"},
		{"a@b@c", "a"},
		{"no-at-sign", "no-at-sign"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := LocalPart(tt.email); got != tt.want {
			t.Errorf("LocalPart(%q) = %q, want %q", tt.email, got, tt.want)
		}
	}
}

package models

import (
	"encoding/json"
	"fmt"
)

// Bill is an expense bill record as returned by the remote API.
//
// The client only ever interprets the id, date and status fields. Everything
// else the backend sends (amount, vat, commentary, file references, ...) is
// carried in Extra untouched and written back verbatim when the record is
// serialized again. Corrupting one field of a record must never drop the
// record or its other fields.
type Bill struct {
	ID     string
	Date   string
	Status string

	// Extra holds every field of the raw record the client does not
	// interpret, keyed by its original JSON name.
	Extra map[string]json.RawMessage

	// rawID preserves the backend's encoding of the id (some backends send
	// numeric ids) so round-trips do not change its JSON type.
	rawID json.RawMessage
}

// UnmarshalJSON decodes a raw bill record, lifting out the interpreted fields
// and keeping all the others in Extra.
func (b *Bill) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("failed to decode bill record: %w", err)
	}

	if raw, ok := fields["id"]; ok {
		b.rawID = raw
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			b.ID = s
		} else {
			// Numeric ids keep their literal text for display and logging.
			b.ID = string(raw)
		}
		delete(fields, "id")
	}
	if raw, ok := fields["date"]; ok {
		if err := json.Unmarshal(raw, &b.Date); err != nil {
			return fmt.Errorf("failed to decode bill date: %w", err)
		}
		delete(fields, "date")
	}
	if raw, ok := fields["status"]; ok {
		if err := json.Unmarshal(raw, &b.Status); err != nil {
			return fmt.Errorf("failed to decode bill status: %w", err)
		}
		delete(fields, "status")
	}

	if len(fields) > 0 {
		b.Extra = fields
	}
	return nil
}

// MarshalJSON re-assembles the record, emitting the pass-through fields
// exactly as they were received.
func (b Bill) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(b.Extra)+3)
	for k, v := range b.Extra {
		fields[k] = v
	}

	if b.rawID != nil {
		fields["id"] = b.rawID
	} else if b.ID != "" {
		raw, err := json.Marshal(b.ID)
		if err != nil {
			return nil, err
		}
		fields["id"] = raw
	}

	date, err := json.Marshal(b.Date)
	if err != nil {
		return nil, err
	}
	fields["date"] = date

	status, err := json.Marshal(b.Status)
	if err != nil {
		return nil, err
	}
	fields["status"] = status

	return json.Marshal(fields)
}

// SetExtra records a pass-through field on the bill, replacing any previous
// value under the same name. Used when the client assembles a record itself,
// e.g. on bill submission.
func (b *Bill) SetExtra(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode bill field %q: %w", key, err)
	}
	if b.Extra == nil {
		b.Extra = make(map[string]json.RawMessage)
	}
	b.Extra[key] = raw
	return nil
}

// ExtraString returns the string value of a pass-through field, or "" when
// the field is absent or not a JSON string.
func (b *Bill) ExtraString(key string) string {
	raw, ok := b.Extra[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

package kvstore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMemory(t *testing.T) {
	m := NewMemory()

	if _, ok := m.GetItem("user"); ok {
		t.Error("empty store returned a value")
	}

	if err := m.SetItem("user", "first"); err != nil {
		t.Fatalf("SetItem failed: %v", err)
	}
	if v, ok := m.GetItem("user"); !ok || v != "first" {
		t.Errorf("GetItem = (%q, %v), want (first, true)", v, ok)
	}

	// Overwrites replace the value wholesale.
	if err := m.SetItem("user", "second"); err != nil {
		t.Fatalf("SetItem failed: %v", err)
	}
	if v, _ := m.GetItem("user"); v != "second" {
		t.Errorf("GetItem after overwrite = %q, want second", v)
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "state.json")

	f, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	if _, ok := f.GetItem("jwt"); ok {
		t.Error("fresh store returned a value")
	}

	if err := f.SetItem("jwt", "token-123"); err != nil {
		t.Fatalf("SetItem failed: %v", err)
	}
	if err := f.SetItem("user", `{"type":"Employee"}`); err != nil {
		t.Fatalf("SetItem failed: %v", err)
	}

	t.Run("values survive reopening", func(t *testing.T) {
		reopened, err := OpenFile(path)
		if err != nil {
			t.Fatalf("OpenFile failed: %v", err)
		}
		if v, _ := reopened.GetItem("jwt"); v != "token-123" {
			t.Errorf("jwt = %q, want token-123", v)
		}
		if v, _ := reopened.GetItem("user"); v != `{"type":"Employee"}` {
			t.Errorf("user = %q", v)
		}
	})

	t.Run("no temp file left behind", func(t *testing.T) {
		if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
			t.Errorf("temp file still present: %v", err)
		}
	})

	t.Run("corrupt state file is an error", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		if err := os.WriteFile(bad, []byte("{not json"), 0o600); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
		if _, err := OpenFile(bad); err == nil {
			t.Error("expected error for corrupt state file")
		}
	})
}

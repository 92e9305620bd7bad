package behavior

import "testing"

func TestParseAction(t *testing.T) {
	catalog := NewCatalog(DefaultTasks)

	tests := []struct {
		raw  string
		ok   bool
		want Action
	}{
		{"made_bed", true, ToggleTask("made_bed")},
		{"clean_toys", true, ToggleTask("clean_toys")},
		{"bad", true, Penalty()},
		{"redeem:abc123", true, Redeem("abc123")},
		{"redeem:abc:extra", true, Redeem("abc")},
		{"redeem:", false, Action{}},
		{"", false, Action{}},
		{"MADE_BED", false, Action{}},
		{"fly_to_moon", false, Action{}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseAction(tt.raw, catalog)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("action = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCatalogSkipsReservedAndDuplicateKeys(t *testing.T) {
	c := NewCatalog([]Task{
		{Key: "made_bed", Label: "Made the bed"},
		{Key: "made_bed", Label: "Duplicate"},
		{Key: "bad", Label: "Reserved"},
		{Key: "", Label: "Empty"},
	})

	keys := c.Keys()
	if len(keys) != 1 || keys[0] != "made_bed" {
		t.Fatalf("keys = %v, want [made_bed]", keys)
	}
	task, _ := c.Lookup("made_bed")
	if task.Label != "Made the bed" {
		t.Errorf("label = %q, want first definition", task.Label)
	}
}

func TestDefaultCatalogSize(t *testing.T) {
	if n := len(NewCatalog(DefaultTasks).Tasks()); n != 7 {
		t.Errorf("len = %d, want 7", n)
	}
}

func TestActionKindString(t *testing.T) {
	if ActionRedeem.String() != "redeem" {
		t.Errorf("String() = %q", ActionRedeem.String())
	}
	if ActionKind(0).String() != "unknown" {
		t.Errorf("String() = %q", ActionKind(0).String())
	}
}

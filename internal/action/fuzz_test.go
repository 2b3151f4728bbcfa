package action

import "testing"

func FuzzParse(f *testing.F) {
	for _, seed := range []string{
		"Action: tap(5)",
		`Action: swipe(21, "up", "medium")`,
		`Action: text("he said \"hi\"")`,
		`tap(1, "bottom-right")`,
		"Action: FINISH",
		"Action: grid",
		"Action: text(",
		"“‘",
		"swipe_grid(1,'a',2,'b')",
	} {
		f.Add(seed, false)
		f.Add(seed, true)
	}
	f.Fuzz(func(t *testing.T, reply string, grid bool) {
		mode := ModeIndex
		if grid {
			mode = ModeGrid
		}
		p := Parse(reply, mode)
		if p.Action.Kind == "" {
			t.Fatalf("empty kind for %q", reply)
		}
		if p.Action.Kind == KindError && p.Action.Reason == "" {
			t.Fatalf("error without reason for %q", reply)
		}
		if p.Summary == "" {
			t.Fatalf("empty summary for %q", reply)
		}
	})
}

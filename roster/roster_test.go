package roster

import (
	"path/filepath"
	"testing"

	"github.com/ahlgreen/handsim/components"
)

func TestGenerateDeterministic(t *testing.T) {
	a := Generate("derby")
	b := Generate("derby")

	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("lineup %d differs between identical seeds", i)
		}
	}

	c := Generate("cup-final")
	same := true
	for i := range a {
		if a[i].Attrs != c[i].Attrs {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical attributes")
	}
}

func TestGenerateSquadShape(t *testing.T) {
	lineups := Generate("shape-check")

	if len(lineups) != 14 {
		t.Fatalf("players = %d, want 14", len(lineups))
	}

	for team := 0; team < 2; team++ {
		roles := map[components.Role]int{}
		for _, lu := range lineups {
			if lu.Team == team {
				roles[lu.Role]++
			}
		}
		if len(roles) != 7 {
			t.Errorf("team %d covers %d roles, want 7", team, len(roles))
		}
		if roles[components.RoleKeeper] != 1 {
			t.Errorf("team %d keepers = %d, want 1", team, roles[components.RoleKeeper])
		}
	}

	for i, lu := range lineups {
		if lu.Attrs.Pace < 5 || lu.Attrs.Pace > 95 {
			t.Errorf("lineup %d pace = %v outside conventional range", i, lu.Attrs.Pace)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "squads.csv")
	want := Generate("round-trip")

	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(got) != len(want) {
		t.Fatalf("lengths differ: %d vs %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Role != want[i].Role || got[i].Team != want[i].Team || got[i].Name != want[i].Name {
			t.Errorf("lineup %d identity differs: got %+v", i, got[i])
		}
		if got[i].Attrs.Reflexes != want[i].Attrs.Reflexes {
			t.Errorf("lineup %d reflexes = %v, want %v", i, got[i].Attrs.Reflexes, want[i].Attrs.Reflexes)
		}
	}
}

func TestRoleFromLabel(t *testing.T) {
	for _, label := range []string{"GK", "LW", "LB", "CB", "RB", "RW", "PV"} {
		if _, err := roleFromLabel(label); err != nil {
			t.Errorf("roleFromLabel(%q): %v", label, err)
		}
	}
	if _, err := roleFromLabel("XX"); err == nil {
		t.Error("roleFromLabel accepted an unknown label")
	}
}

func TestLoadRejectsBadTeam(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad-team.csv")
	rows := Generate("reject-check")[:1]
	rows[0].Team = 3
	if err := Save(path, rows); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load accepted a team outside 0/1")
	}
}

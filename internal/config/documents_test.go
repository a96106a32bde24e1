package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"falcon-odds/internal/graph"
)

const missionJSON = `{
  "autonomy": 6,
  "departure": "Tatooine",
  "arrival": "Endor",
  "routes_db": "universe.db"
}`

const empireJSON = `{
  "countdown": 7,
  "bounty_hunters": [
    {"planet": "Hoth", "day": 6},
    {"planet": "Hoth", "day": 7},
    {"planet": "Hoth", "day": 8}
  ]
}`

func TestParseMission_JSONAndYAML(t *testing.T) {
	yamlDoc := "autonomy: 6\ndeparture: Tatooine\narrival: Endor\nroutes_db: universe.db\n"
	for _, tt := range []struct {
		name   string
		data   string
		format Format
	}{
		{"json", missionJSON, FormatJSON},
		{"yaml", yamlDoc, FormatYAML},
	} {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseMission([]byte(tt.data), tt.format)
			if err != nil {
				t.Fatalf("ParseMission: %v", err)
			}
			want := Mission{Autonomy: 6, Departure: "Tatooine", Arrival: "Endor", RoutesDB: "universe.db"}
			if *m != want {
				t.Errorf("mission = %+v, want %+v", *m, want)
			}
		})
	}
}

func TestParseMission_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{name: "empty", data: "  ", want: "empty json document"},
		{name: "not json", data: "{", want: "parse mission"},
		{name: "negative autonomy", data: `{"autonomy":-1,"departure":"A","arrival":"B","routes_db":"x"}`, want: "parse mission"},
		{name: "missing autonomy", data: `{"departure":"A","arrival":"B","routes_db":"x"}`, want: "autonomy is required"},
		{name: "missing departure", data: `{"autonomy":1,"arrival":"B","routes_db":"x"}`, want: "departure is required"},
		{name: "missing arrival", data: `{"autonomy":1,"departure":"A","routes_db":"x"}`, want: "arrival is required"},
		{name: "missing routes", data: `{"autonomy":1,"departure":"A","arrival":"B"}`, want: "routes_db is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMission([]byte(tt.data), FormatJSON)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("ParseMission(%q) err = %v, want containing %q", tt.data, err, tt.want)
			}
		})
	}
}

func TestReadMission_ResolvesRoutesDBRelativeToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "millennium-falcon.json")
	if err := os.WriteFile(path, []byte(missionJSON), 0644); err != nil {
		t.Fatal(err)
	}
	m, err := ReadMission(path)
	if err != nil {
		t.Fatalf("ReadMission: %v", err)
	}
	if want := filepath.Join(dir, "universe.db"); m.RoutesDB != want {
		t.Errorf("RoutesDB = %q, want %q", m.RoutesDB, want)
	}
}

func TestReadMission_KeepsURLLocator(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mission.yaml")
	doc := "autonomy: 6\ndeparture: Tatooine\narrival: Endor\nroutes_db: postgres://u:p@localhost/routes\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	m, err := ReadMission(path)
	if err != nil {
		t.Fatalf("ReadMission: %v", err)
	}
	if m.RoutesDB != "postgres://u:p@localhost/routes" {
		t.Errorf("RoutesDB = %q", m.RoutesDB)
	}
}

func TestReadMission_MissingFile(t *testing.T) {
	if _, err := ReadMission(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("ReadMission on a missing file should fail")
	}
}

func TestParseEmpire(t *testing.T) {
	e, err := ParseEmpire([]byte(empireJSON), FormatJSON)
	if err != nil {
		t.Fatalf("ParseEmpire: %v", err)
	}
	if e.Countdown != 7 || len(e.BountyHunters) != 3 {
		t.Fatalf("empire = %+v", e)
	}
	if e.BountyHunters[1] != (BountyHunter{Planet: "Hoth", Day: 7}) {
		t.Errorf("hunter[1] = %+v", e.BountyHunters[1])
	}

	if _, err := ParseEmpire([]byte(`{"bounty_hunters":[]}`), FormatJSON); err == nil {
		t.Error("ParseEmpire without countdown should fail")
	}

	e, err = ParseEmpire([]byte("countdown: 3\n"), FormatYAML)
	if err != nil || e.Countdown != 3 || len(e.BountyHunters) != 0 {
		t.Errorf("yaml empire = %+v, err %v", e, err)
	}
}

func TestEmpireSchedule_SkipsUnknownPlanets(t *testing.T) {
	reg, err := graph.NewRegistryFromNames("Tatooine", "Dagobah", "Endor", "Hoth")
	if err != nil {
		t.Fatal(err)
	}
	e := &Empire{
		Countdown: 7,
		BountyHunters: []BountyHunter{
			{Planet: "Hoth", Day: 6},
			{Planet: "Hoth", Day: 7},
			{Planet: "Kessel", Day: 1},
			{Planet: "Hoth", Day: 8},
		},
	}
	sched, skipped := e.Schedule(reg)
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	if sched.Len() != 3 {
		t.Errorf("schedule len = %d, want 3", sched.Len())
	}
	hoth, _ := reg.Lookup("Hoth")
	for _, day := range []uint64{6, 7, 8} {
		if sched.EncountersOn(hoth, day) != 1 {
			t.Errorf("EncountersOn(Hoth, %d) = 0, want 1", day)
		}
	}
}

func TestFormatDetection(t *testing.T) {
	if FormatFromPath("a/b/empire.YML") != FormatYAML {
		t.Error("FormatFromPath(.YML) should be YAML")
	}
	if FormatFromPath("empire.json") != FormatJSON {
		t.Error("FormatFromPath(.json) should be JSON")
	}
	if FormatFromContentType("application/x-yaml; charset=utf-8") != FormatYAML {
		t.Error("FormatFromContentType(application/x-yaml) should be YAML")
	}
	if FormatFromContentType("") != FormatJSON {
		t.Error("FormatFromContentType(\"\") should be JSON")
	}
}

package apex

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/victormarques-ia/apex/internal/service"
)

// resetFlags restores every flag to its default so package-level flag
// variables do not leak between in-process runs.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func runApex(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func mustRunApex(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runApex(t, args...)
	if err != nil {
		t.Fatalf("apex %s: %v", strings.Join(args, " "), err)
	}
	return out
}

// lastField returns the id printed by "Added <kind> <id>" style output.
func lastField(t *testing.T, out string) string {
	t.Helper()
	fields := strings.Fields(strings.TrimSpace(out))
	if len(fields) == 0 {
		t.Fatalf("expected output with an id, got %q", out)
	}
	return fields[len(fields)-1]
}

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APEX_DB", "")
	t.Setenv("APEX_ACTOR_ID", "")
	t.Setenv("APEX_ACTOR_ROLE", "admin")
	t.Setenv("APEX_LOG_LEVEL", "error")
	t.Setenv("APEX_OPENFOODFACTS_URL", "")
}

func TestRootHelp(t *testing.T) {
	out, err := runApex(t, "--help")
	if err != nil {
		t.Fatalf("execute root help: %v", err)
	}
	if !strings.Contains(out, "agenda") || !strings.Contains(out, "totals") {
		t.Fatalf("expected help to list agenda and totals, got %s", out)
	}
}

func TestInitCommandIdempotent(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "apex.db")
	for i := 0; i < 2; i++ {
		out, err := runApex(t, "--db", path, "init")
		if err != nil {
			t.Fatalf("init run %d failed: %v", i+1, err)
		}
		if !strings.Contains(out, path) {
			t.Fatalf("expected db path in output, got %q", out)
		}
	}
}

func TestRejectsUnknownActorRole(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "apex.db")
	if _, err := runApex(t, "--db", path, "--role", "coach", "init"); err == nil {
		t.Fatalf("expected unknown role error")
	}
	if _, err := runApex(t, "--db", path, "--role", "trainer", "init"); err == nil {
		t.Fatalf("expected missing actor id error for trainer")
	}
}

func TestCoachingDayFlow(t *testing.T) {
	isolateEnv(t)
	db := filepath.Join(t.TempDir(), "apex.db")
	mustRunApex(t, "--db", db, "init")

	nutritionistID := lastField(t, mustRunApex(t, "--db", db, "staff", "add", "--name", "Nina", "--role-type", "nutritionist"))
	athleteID := lastField(t, mustRunApex(t, "--db", db, "athlete", "add", "--name", "Bruna", "--nutritionist", nutritionistID))
	riceID := lastField(t, mustRunApex(t, "--db", db, "food", "add", "--name", "Arroz", "--calories", "50", "--protein", "5"))
	beansID := lastField(t, mustRunApex(t, "--db", db, "food", "add", "--name", "Feijão", "--calories", "100", "--protein", "10"))

	mustRunApex(t, "--db", db, "consumption", "add", "--athlete", athleteID, "--food", riceID, "--date", "2024-01-01", "--quantity", "200")
	mustRunApex(t, "--db", db, "consumption", "add", "--athlete", athleteID, "--food", beansID, "--date", "2024-01-02", "--quantity", "0.1", "--unit", "kg")

	out := mustRunApex(t, "--db", db, "totals", "--athlete", athleteID, "--from", "2024-01-01", "--to", "2024-01-02", "--group-by-date", "--json")
	var report service.NutritionTotalsReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode totals json: %v\n%s", err, out)
	}
	if report.TotalConsumptions != 2 || report.Totals.Calories != 200 || report.Totals.Protein != 20 {
		t.Fatalf("unexpected totals: %+v", report)
	}
	if len(report.Grouped) != 2 || report.Grouped["2024-01-01"].Consumptions != 1 {
		t.Fatalf("unexpected grouping: %+v", report.Grouped)
	}

	out = mustRunApex(t, "--db", db, "totals", "--athlete", athleteID, "--from", "2024-01-01", "--to", "2024-01-02")
	if !strings.Contains(out, "Calories: 200.00") || strings.Contains(out, "DATE") {
		t.Fatalf("unexpected text totals:\n%s", out)
	}

	planID := lastField(t, mustRunApex(t, "--db", db, "--as", nutritionistID, "--role", "nutritionist",
		"diet", "add", "--athlete", athleteID, "--name", "Base", "--start", "2024-01-01", "--end", "2024-01-31"))
	dayID := lastField(t, mustRunApex(t, "--db", db, "diet", "day", "add", "--plan", planID, "--weekday", "monday"))
	mustRunApex(t, "--db", db, "diet", "meal", "add", "--day", dayID, "--type", "breakfast", "--time", "07:30")
	mustRunApex(t, "--db", db, "diet", "meal", "add", "--day", dayID, "--type", "morning_snack", "--time", "09:00")
	mustRunApex(t, "--db", db, "workout", "add", "--athlete", athleteID, "--name", "Bloco", "--goal", "Força", "--start", "2024-01-01", "--end", "2024-01-31")

	out = mustRunApex(t, "--db", db, "agenda", "--athlete", athleteID, "--date", "2024-01-15", "--json")
	var agenda service.DailyAgenda
	if err := json.Unmarshal([]byte(out), &agenda); err != nil {
		t.Fatalf("decode agenda json: %v\n%s", err, out)
	}
	wantTimes := []string{"07:30", "08:00", "08:00", "09:00"}
	if len(agenda.Activities) != len(wantTimes) {
		t.Fatalf("unexpected agenda: %+v", agenda.Activities)
	}
	for i, w := range wantTimes {
		if agenda.Activities[i].Time != w {
			t.Fatalf("item %d: expected %s, got %s", i, w, agenda.Activities[i].Time)
		}
	}
	if agenda.Activities[1].Type != service.ActivityWorkout || agenda.Activities[2].Type != service.ActivityHydration {
		t.Fatalf("expected workout before hydration at 08:00, got %+v", agenda.Activities)
	}

	out = mustRunApex(t, "--db", db, "agenda", "--athlete", athleteID, "--date", "2024-02-15")
	if !strings.Contains(out, "Nothing scheduled") {
		t.Fatalf("expected empty agenda message, got %q", out)
	}

	out = mustRunApex(t, "--db", db, "remind", "--once", "--date", "2024-01-15")
	if !strings.Contains(out, "Bruna") || !strings.Contains(out, "Sent 1 agenda(s)") {
		t.Fatalf("unexpected reminder output:\n%s", out)
	}

	if _, err := runApex(t, "--db", db, "--as", athleteID, "--role", "athlete", "totals", "--athlete", "someone-else", "--from", "2024-01-01", "--to", "2024-01-01"); err == nil {
		t.Fatalf("expected error for inaccessible athlete")
	}
	if _, err := runApex(t, "--db", db, "--as", nutritionistID, "--role", "nutritionist", "workout", "add", "--athlete", athleteID, "--name", "X", "--end", "2030-01-01"); err == nil || !strings.Contains(err.Error(), "forbidden") {
		t.Fatalf("expected nutritionist workout plan to be forbidden, got %v", err)
	}
}

func TestConfigSetAndGet(t *testing.T) {
	isolateEnv(t)
	db := filepath.Join(t.TempDir(), "apex.db")
	if _, err := runApex(t, "--db", db, "config", "set"); err == nil {
		t.Fatalf("expected error when no flag is set")
	}
	mustRunApex(t, "--db", db, "config", "set", "--page-size", "20", "--reminder-schedule", "15 7 * * *")
	out := mustRunApex(t, "--db", db, "config", "get", "reminder_schedule")
	if strings.TrimSpace(out) != "15 7 * * *" {
		t.Fatalf("unexpected schedule %q", out)
	}
	out = mustRunApex(t, "--db", db, "config", "get")
	if !strings.Contains(out, "default_page_size\t20") {
		t.Fatalf("unexpected config listing:\n%s", out)
	}
	if _, err := runApex(t, "--db", db, "config", "set", "--reminder-schedule", "whenever"); err == nil {
		t.Fatalf("expected invalid schedule error")
	}
}

func TestParseWeekday(t *testing.T) {
	cases := map[string]string{"0": "Sunday", "6": "Saturday", "Monday": "Monday", "wed": "Wednesday"}
	for in, want := range cases {
		got, err := parseWeekday(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got.String() != want {
			t.Fatalf("parse %q: expected %s, got %s", in, want, got)
		}
	}
	for _, bad := range []string{"7", "-1", "mo", "funday"} {
		if _, err := parseWeekday(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestFoodImportUsesConfiguredOpenFoodFactsURL(t *testing.T) {
	isolateEnv(t)
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":1,"product":{"product_name":"Granola","brands":"Mae Terra","nutriments":{"energy-kcal_100g":420,"proteins_100g":9}}}`))
	}))
	defer ts.Close()
	t.Setenv("APEX_OPENFOODFACTS_URL", ts.URL)

	db := filepath.Join(t.TempDir(), "apex.db")
	out := mustRunApex(t, "--db", db, "food", "import", "7896496917013")
	if !strings.Contains(out, "Imported food") || !strings.Contains(out, "Name: Granola") || !strings.Contains(out, "kcal 420") {
		t.Fatalf("unexpected import output:\n%s", out)
	}
	out = mustRunApex(t, "--db", db, "food", "import", "7896496917013")
	if !strings.Contains(out, "Food already imported") || calls != 1 {
		t.Fatalf("expected second import to reuse the food without a lookup, calls=%d\n%s", calls, out)
	}
}

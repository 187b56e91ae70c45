package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSimulateCmd_Table(t *testing.T) {
	out, err := executeCommand(t,
		"simulate", "--cell-line", "HeLa", "--cells", "500", "--duration", "12")
	if err != nil {
		t.Fatalf("execution failed: %v", err)
	}
	if !strings.Contains(out, "cell line: HeLa") {
		t.Errorf("expected header in output, got:\n%s", out)
	}
	if !strings.Contains(out, "VIABLE") {
		t.Errorf("expected table columns, got:\n%s", out)
	}
	// 12 hours at 1h intervals: header + 13 timepoint rows.
	if got := strings.Count(out, "\n"); got < 14 {
		t.Errorf("expected at least 14 lines, got %d:\n%s", got, out)
	}
}

func TestSimulateCmd_JSON(t *testing.T) {
	out, err := executeCommand(t,
		"simulate", "--cell-line", "A549", "--cells", "1000", "--duration", "6",
		"--output", "json")
	if err != nil {
		t.Fatalf("execution failed: %v", err)
	}

	var decoded struct {
		CellLine   string `json:"cellLine"`
		Timepoints []struct {
			Time float64 `json:"time"`
		} `json:"timepoints"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if decoded.CellLine != "A549" {
		t.Errorf("expected cellLine A549, got %q", decoded.CellLine)
	}
	if len(decoded.Timepoints) != 7 {
		t.Errorf("expected 7 timepoints, got %d", len(decoded.Timepoints))
	}
}

func TestSimulateCmd_WithTreatment(t *testing.T) {
	out, err := executeCommand(t,
		"simulate", "--cell-line", "MCF-7", "--duration", "24",
		"--drug", "taxol", "--concentration", "10")
	if err != nil {
		t.Fatalf("execution failed: %v", err)
	}
	if !strings.Contains(out, "DRUG") {
		t.Errorf("expected drug column, got:\n%s", out)
	}
}

func TestSimulateCmd_Plot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "growth.png")
	out, err := executeCommand(t,
		"simulate", "--cell-line", "HeLa", "--duration", "24", "--plot", path)
	if err != nil {
		t.Fatalf("execution failed: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("expected plot path in output, got:\n%s", out)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("plot file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("plot file is empty")
	}
}

func TestSimulateCmd_UnknownCellLine(t *testing.T) {
	_, err := executeCommand(t, "simulate", "--cell-line", "NIH-3T3")
	if err == nil {
		t.Fatal("expected error for unknown cell line")
	}
	if !strings.Contains(err.Error(), "NIH-3T3") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestSimulateCmd_MissingCellLine(t *testing.T) {
	_, err := executeCommand(t, "simulate")
	if err == nil {
		t.Fatal("expected error when --cell-line is omitted")
	}
}

func TestSimulateCmd_UnknownDrug(t *testing.T) {
	_, err := executeCommand(t,
		"simulate", "--cell-line", "HeLa", "--drug", "colchicine", "--concentration", "5")
	if err == nil {
		t.Fatal("expected error for unknown drug class")
	}
}

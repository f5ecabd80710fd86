package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/NovaVoxel/NovaLang/internal/diag"
	"github.com/NovaVoxel/NovaLang/internal/token"
)

func sampleBag() *diag.Bag {
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.SynUnexpectedToken, "src/main.nova", token.Pos{Line: 2, Col: 5}, "unexpected ')'"))
	bag.Add(diag.New(diag.SevWarning, diag.PkgNoSources, "src", token.Pos{}, "no .nova files"))
	return bag
}

func TestPrettyPlain(t *testing.T) {
	var buf bytes.Buffer
	Pretty(&buf, sampleBag(), PrettyOpts{
		Sources: map[string][]byte{"src/main.nova": []byte("func main() {\n  x = )\n}\n")},
	})
	got := buf.String()
	for _, want := range []string{
		"src/main.nova:2:5: error SYN2001: unexpected ')'",
		"    x = )",
		"      ^",
		"src: warning PKG3001: no .nova files",
		"1 error, 1 warning",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestJSONBasename(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, sampleBag(), JSONOpts{PathMode: PathModeBasename}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 2 || out.Diagnostics[0].Location.File != "main.nova" {
		t.Fatalf("unexpected json: %+v", out)
	}
}

func TestSummaryPlural(t *testing.T) {
	if got := Summary(2, 0); got != "2 errors, 0 warnings" {
		t.Fatalf("Summary = %q", got)
	}
}

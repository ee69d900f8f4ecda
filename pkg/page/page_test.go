package page

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/slotframe/pkg/errors"
)

func TestImportFormatsAgree(t *testing.T) {
	var hashes []string
	for _, name := range []string{"home.toml", "home.yaml", "home.json"} {
		t.Run(name, func(t *testing.T) {
			p, err := Import(filepath.Join("testdata", name))
			if err != nil {
				t.Fatalf("Import() error: %v", err)
			}
			if p.Name != "home" {
				t.Errorf("Name = %q, want home", p.Name)
			}
			if got := p.PlaceholderNames(); !reflect.DeepEqual(got, []string{"footer", "main"}) {
				t.Errorf("PlaceholderNames() = %v", got)
			}

			main := p.Placeholders["main"]
			if len(main) != 1 || main[0].VariantID() != "fifty-fifty" {
				t.Fatalf("main = %+v", main)
			}
			right := main[0].Placeholders["container-fifty-right-main"]
			if len(right) != 1 || right[0].Params["ColumnWidth2"] != "basis-2/3" {
				t.Errorf("right column = %+v", right)
			}
			hashes = append(hashes, Hash(p))
		})
	}
	for i := 1; i < len(hashes); i++ {
		if hashes[i] != hashes[0] {
			t.Errorf("Hash differs between formats: %s vs %s", hashes[0], hashes[i])
		}
	}
}

func TestImportNameFromFile(t *testing.T) {
	p, err := Import(filepath.Join("testdata", "home.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "home" {
		t.Errorf("Name = %q, want name derived from file", p.Name)
	}
}

func TestImportErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Import(filepath.Join(dir, "page.xml")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unsupported extension error = %v", err)
	}
	if _, err := Import(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodePageNotFound) {
		t.Errorf("missing file error = %v", err)
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("placeholders = ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Import(bad); !errors.Is(err, errors.ErrCodeInvalidPage) {
		t.Errorf("malformed file error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		page    Page
		wantErr bool
	}{
		{
			name: "valid",
			page: Page{Name: "home", Placeholders: map[string][]Component{"main": {{Name: "RichText"}}}},
		},
		{
			name:    "bad name",
			page:    Page{Name: "../home"},
			wantErr: true,
		},
		{
			name:    "empty placeholder key",
			page:    Page{Name: "home", Placeholders: map[string][]Component{"": {{Name: "RichText"}}}},
			wantErr: true,
		},
		{
			name: "nested unnamed component",
			page: Page{Name: "home", Placeholders: map[string][]Component{
				"main": {{Name: "RowSplitter", Placeholders: map[string][]Component{"row-1-": {{}}}}},
			}},
			wantErr: true,
		},
		{
			name: "variant without name",
			page: Page{Name: "home", Placeholders: map[string][]Component{"main": {{Variant: "full-bleed"}}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.page.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidPage) {
				t.Errorf("Validate() code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidPage)
			}
		})
	}
}

func TestValidateReportsPath(t *testing.T) {
	p := Page{Name: "home", Placeholders: map[string][]Component{
		"main": {{Name: "RichText"}, {Name: "RowSplitter", Placeholders: map[string][]Component{"row-2-": {{}}}}},
	}}
	err := p.Validate()
	if err == nil || !strings.Contains(err.Error(), "home/main[1]/row-2-[0]") {
		t.Errorf("Validate() error = %v, want path home/main[1]/row-2-[0]", err)
	}
}

func TestComponentVariantID(t *testing.T) {
	tests := []struct {
		c      Component
		want   string
		layout bool
	}{
		{Component{Name: "ColumnSplitter"}, "column-splitter", true},
		{Component{Name: "containerquarters"}, "quarters", true},
		{Component{Name: "Anything", Variant: "full-width"}, "full-width", true},
		{Component{Name: "RichText"}, "", false},
	}
	for _, tt := range tests {
		if got := tt.c.VariantID(); got != tt.want {
			t.Errorf("%+v.VariantID() = %q, want %q", tt.c, got, tt.want)
		}
		if got := tt.c.IsLayout(); got != tt.layout {
			t.Errorf("%+v.IsLayout() = %v, want %v", tt.c, got, tt.layout)
		}
	}
}

func TestWriteReadable(t *testing.T) {
	p, err := Import(filepath.Join("testdata", "home.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, p, f); err != nil {
				t.Fatalf("Write() error: %v", err)
			}
			back, err := Read(&buf, f)
			if err != nil {
				t.Fatalf("Read() error: %v", err)
			}
			if Hash(back) != Hash(p) {
				t.Errorf("page changed after %s encoding", f)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"toml": FormatTOML, "YML": FormatYAML, " json ": FormatJSON} {
		if got, err := ParseFormat(in); err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ParseFormat(xml) error = %v", err)
	}
}

package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), `
[project]
name = "app"
soul = ">= 0.1.0, < 1.0.0"
source = "src"

[build]
jobs = 4
max-errors = 10
cache = false
`)
	nested := filepath.Join(root, "src", "math")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, ok, err := LoadManifest(nested)
	if err != nil || !ok {
		t.Fatalf("LoadManifest = %v, %v", ok, err)
	}
	if m.Config.Project.Name != "app" || m.Config.Build.Jobs != 4 || m.Config.Build.MaxErrors != 10 {
		t.Fatalf("unexpected config %+v", m.Config)
	}
	if m.CacheEnabled() {
		t.Fatalf("cache = false was ignored")
	}
	if got, want := m.SourceRoot(), filepath.Join(root, "src"); got != want {
		t.Fatalf("SourceRoot = %s, want %s", got, want)
	}
}

func TestLoadManifestMissing(t *testing.T) {
	m, ok, err := LoadManifest(t.TempDir())
	if err != nil || ok || m != nil {
		t.Fatalf("expected no manifest, got %v, %v, %v", m, ok, err)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"no project", "[build]\njobs = 1\n", ErrProjectSectionMissing},
		{"no name", "[project]\nsource = \"src\"\n", ErrProjectNameMissing},
		{"blank name", "[project]\nname = \"  \"\n", ErrProjectNameMissing},
		{"bad name", "[project]\nname = \"my-app\"\n", nil},
		{"bad constraint", "[project]\nname = \"app\"\nsoul = \"~>banana\"\n", nil},
		{"negative jobs", "[project]\nname = \"app\"\n[build]\njobs = -1\n", nil},
		{"broken toml", "[project\nname = 1", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ManifestName)
			writeFile(t, path, tt.content)
			_, err := LoadConfig(path)
			if err == nil {
				t.Fatalf("expected an error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCheckCompiler(t *testing.T) {
	tests := []struct {
		constraint string
		version    string
		ok         bool
	}{
		{"", "0.1.0", true},
		{">= 0.1.0", "0.2.0", true},
		{"^0.1", "0.1.5", true},
		{"< 0.1.0", "0.2.0", false},
		{">= 1.0.0", "0.9.9", false},
	}
	for _, tt := range tests {
		m := &Manifest{Path: ManifestName, Config: Config{Project: ProjectConfig{Name: "app", Soul: tt.constraint}}}
		err := m.CheckCompiler(tt.version)
		if (err == nil) != tt.ok {
			t.Errorf("CheckCompiler(%q, %q) = %v, want ok=%v", tt.constraint, tt.version, err, tt.ok)
		}
	}
}

func TestPageName(t *testing.T) {
	root := filepath.Join("proj", "src")
	tests := []struct {
		project string
		file    string
		want    string
		wantErr bool
	}{
		{"app", filepath.Join(root, "main.soul"), "app.main", false},
		{"app", filepath.Join(root, "math", "vec.soul"), "app.math.vec", false},
		{"", filepath.Join(root, "math", "vec.soul"), "math.vec", false},
		{"app", filepath.Join("proj", "other.soul"), "", true},
		{"app", filepath.Join(root, "bad-name.soul"), "", true},
		{"app", filepath.Join(root, "1st.soul"), "", true},
	}
	for _, tt := range tests {
		got, err := PageName(tt.project, root, tt.file)
		if (err != nil) != tt.wantErr {
			t.Errorf("PageName(%s) error = %v, wantErr %v", tt.file, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("PageName(%s) = %q, want %q", tt.file, got, tt.want)
		}
	}
}

func TestListSources(t *testing.T) {
	root := t.TempDir()
	for _, f := range []string{"b.soul", "a/c.soul", "notes.txt", ".hidden/d.soul", "build/e.soul"} {
		writeFile(t, filepath.Join(root, filepath.FromSlash(f)), "")
	}
	files, err := ListSources(root)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(root, "a", "c.soul"), filepath.Join(root, "b.soul")}
	if len(files) != len(want) {
		t.Fatalf("ListSources = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("ListSources = %v, want %v", files, want)
		}
	}
}

func TestPathKeyIsStable(t *testing.T) {
	a := PathKey(filepath.Join("x", "..", "y.soul"))
	b := PathKey("y.soul")
	if a != b {
		t.Fatalf("equivalent paths hash differently: %s vs %s", a.Hex(), b.Hex())
	}
	if PathKey("z.soul") == b {
		t.Fatalf("different paths share a key")
	}
}

func TestCombineIsOrdered(t *testing.T) {
	a, b := PathKey("a.soul"), PathKey("b.soul")
	if Combine(a, b) == Combine(b, a) {
		t.Fatalf("Combine must depend on order")
	}
	if Combine(a, b) != Combine(a, b) {
		t.Fatalf("Combine is not deterministic")
	}
}

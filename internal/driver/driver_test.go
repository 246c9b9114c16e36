package driver

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"soul/internal/ast"
	"soul/internal/cache"
	"soul/internal/diag"
	"soul/internal/observ"
	"soul/internal/parser"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// newProject lays out app/{soul.toml,src/math.soul,src/main.soul,src/broken.soul}.
func newProject(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "app")
	writeFile(t, filepath.Join(root, "soul.toml"), "[project]\nname = \"app\"\nsource = \"src\"\n")
	writeFile(t, filepath.Join(root, "src", "math.soul"), "add(int a, int b) int {\n return a + b\n}\n")
	writeFile(t, filepath.Join(root, "src", "main.soul"), "use this.math\nmain() {\n x := math.add(1, 2)\n}\n")
	writeFile(t, filepath.Join(root, "src", "broken.soul"), "foo() {\n")
	return root
}

func resultFor(t *testing.T, res *ProjectResult, base string) *FileResult {
	t.Helper()
	for i := range res.Files {
		if filepath.Base(res.Files[i].Path) == base {
			return &res.Files[i]
		}
	}
	t.Fatalf("no result for %s", base)
	return nil
}

func TestParseProject(t *testing.T) {
	root := newProject(t)
	timer := observ.NewTimer()
	res, err := ParseProject(context.Background(), root, Options{Jobs: 2, Timer: timer})
	if err != nil {
		t.Fatalf("ParseProject: %v", err)
	}
	if res.Project.Name != "app" || res.Project.Manifest == nil {
		t.Fatalf("project = %+v", res.Project)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 results, got %d", len(res.Files))
	}
	var names []string
	for _, fr := range res.Files {
		names = append(names, filepath.Base(fr.Path))
	}
	if !slices.Equal(names, []string{"broken.soul", "main.soul", "math.soul"}) {
		t.Fatalf("results out of order: %v", names)
	}

	broken := resultFor(t, res, "broken.soul")
	if broken.Err == nil || broken.Err.Kind() != diag.UnmatchedParenthesis {
		t.Fatalf("broken.soul: got %v, want UnmatchedParenthesis", broken.Err)
	}
	main := resultFor(t, res, "main.soul")
	if main.Failed() || main.Page != "app.main" {
		t.Fatalf("main.soul: page %q, errors %v", main.Page, main.Errors())
	}
	if got := res.FailedFiles(); got != 1 {
		t.Fatalf("failed files = %d, want 1", got)
	}
	if !slices.Equal(res.Pages.Paths(), []string{"app.main", "app.math"}) {
		t.Fatalf("pages = %v", res.Pages.Paths())
	}

	var phases []string
	for _, p := range timer.Report().Phases {
		phases = append(phases, p.Name)
	}
	if !slices.Equal(phases, []string{"load", "scan", "parse"}) {
		t.Fatalf("phases = %v", phases)
	}
}

func TestParseSingleFileSeesItsProject(t *testing.T) {
	root := newProject(t)
	res, err := ParseProject(context.Background(), filepath.Join(root, "src", "main.soul"), Options{})
	if err != nil {
		t.Fatalf("ParseProject: %v", err)
	}
	if len(res.Files) != 1 || res.Files[0].Failed() {
		t.Fatalf("unexpected result %+v", res.Files)
	}
	stmts := res.Files[0].Response.Tree.Root.Statements
	if len(stmts) != 2 || stmts[0].Kind != ast.StmtUse {
		t.Fatalf("statements: %d", len(stmts))
	}
}

func TestImportGlobalVariable(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo")
	writeFile(t, filepath.Join(root, "soul.toml"), "[project]\nname = \"demo\"\nsource = \"src\"\n")
	writeFile(t, filepath.Join(root, "src", "math.soul"), "PI := 3\n")
	writeFile(t, filepath.Join(root, "src", "main.soul"), "use this.math\nmain() {\n b := math.PI\n}\n")

	res, err := ParseProject(context.Background(), root, Options{})
	if err != nil {
		t.Fatalf("ParseProject: %v", err)
	}
	main := resultFor(t, res, "main.soul")
	if main.Failed() {
		t.Fatalf("main.soul: %v %v", main.Err, main.Errors())
	}
	h, ok := res.Pages.Get("demo.math")
	if !ok || len(h.LookupValue("PI")) != 1 {
		t.Fatalf("demo.math header = %+v", h)
	}
}

func TestDiscoverWithoutManifest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "demo")
	writeFile(t, filepath.Join(dir, "a.soul"), "f() {}\n")
	writeFile(t, filepath.Join(dir, "sub", "b.soul"), "g() {}\n")
	writeFile(t, filepath.Join(dir, ".hidden", "c.soul"), "h() {}\n")

	p, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if p.Name != "demo" || p.Manifest != nil || len(p.Targets) != 2 {
		t.Fatalf("project = %+v", p)
	}
	page, err := p.PageOf(filepath.Join(dir, "sub", "b.soul"))
	if err != nil || page != "demo.sub.b" {
		t.Fatalf("PageOf = %q, %v", page, err)
	}

	bad := filepath.Join(t.TempDir(), "1st")
	writeFile(t, filepath.Join(bad, "x.soul"), "")
	if p, err := Discover(bad); err != nil || p.Name != "main" {
		t.Fatalf("invalid directory name should fall back to main: %+v, %v", p, err)
	}
}

func TestCacheReuse(t *testing.T) {
	root := newProject(t)
	c, err := cache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	opts := Options{Cache: c}
	ctx := context.Background()
	if _, err := ParseProject(ctx, root, opts); err != nil {
		t.Fatalf("first run: %v", err)
	}

	res, err := ParseProject(ctx, root, opts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	for _, base := range []string{"main.soul", "math.soul"} {
		fr := resultFor(t, res, base)
		if !fr.Cached || fr.Failed() {
			t.Fatalf("%s: cached=%v errors=%v", base, fr.Cached, fr.Errors())
		}
	}
	if resultFor(t, res, "broken.soul").Cached {
		t.Fatalf("failed files are never cached")
	}

	// изменение одной страницы инвалидирует и зависящие от набора страниц ответы
	math := filepath.Join(root, "src", "math.soul")
	writeFile(t, math, "add(int a, int b) int {\n return b + a\n}\n")
	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(math, later, later); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	res, err = ParseProject(ctx, root, opts)
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if resultFor(t, res, "math.soul").Cached || resultFor(t, res, "main.soul").Cached {
		t.Fatalf("stale responses were reused")
	}
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func TestProgressEvents(t *testing.T) {
	root := newProject(t)
	sink := &recordingSink{}
	if _, err := ParseProject(context.Background(), root, Options{Progress: sink}); err != nil {
		t.Fatalf("ParseProject: %v", err)
	}
	final := make(map[string]Status)
	for _, ev := range sink.events {
		if ev.Stage == StageParse && ev.File != "" && ev.Status != StatusWorking {
			final[filepath.Base(ev.File)] = ev.Status
		}
	}
	want := map[string]Status{"broken.soul": StatusError, "main.soul": StatusDone, "math.soul": StatusDone}
	for file, status := range want {
		if final[file] != status {
			t.Errorf("%s: final status %q, want %q", file, final[file], status)
		}
	}
	last := sink.events[len(sink.events)-1]
	if last.File != "" || last.Status != StatusDone {
		t.Fatalf("run must end with a run-level done event, got %+v", last)
	}
}

func TestCancelledRun(t *testing.T) {
	root := newProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ParseProject(ctx, root, Options{}); err == nil {
		t.Fatalf("expected the cancellation error")
	}
}

func TestParseSource(t *testing.T) {
	fs, res := ParseSource(context.Background(), "<repl>", []byte("x := 1\nx = x + 1"), "repl", parser.Options{Script: true})
	if res.Failed() {
		t.Fatalf("errors: %v", res.Errors())
	}
	if fs.Get(res.FileID).Path != "<repl>" || len(res.Response.Tree.Root.Statements) != 2 {
		t.Fatalf("unexpected result %+v", res)
	}

	_, res = ParseSource(context.Background(), "<repl>", []byte("x := (1"), "repl", parser.Options{Script: true})
	if res.Err == nil {
		t.Fatalf("expected a fatal error")
	}
}

func TestTokenize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.soul")
	writeFile(t, path, "x := 1 // comment\n")
	res, err := Tokenize(context.Background(), path)
	if err != nil || res.Err != nil {
		t.Fatalf("Tokenize: %v %v", err, res.Err)
	}
	if len(res.Tokens) == 0 || res.Tokens[0].Text != "x" {
		t.Fatalf("tokens = %v", res.Tokens)
	}
	if _, err := Tokenize(context.Background(), filepath.Join(t.TempDir(), "missing.soul")); err == nil {
		t.Fatalf("missing file must fail")
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, 20*time.Millisecond, func(_ context.Context, changed []string) {
			changes <- changed
		})
	}()
	// даём watcher'у подписаться
	time.Sleep(100 * time.Millisecond)

	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")
	path := filepath.Join(dir, "a.soul")
	writeFile(t, path, "f() {}\n")

	select {
	case changed := <-changes:
		if !slices.Contains(changed, path) || slices.Contains(changed, filepath.Join(dir, "notes.txt")) {
			t.Fatalf("changed = %v", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no change reported")
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch: %v", err)
	}
}

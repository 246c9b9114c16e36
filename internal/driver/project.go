package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"soul/internal/cache"
	"soul/internal/diag"
	"soul/internal/external"
	"soul/internal/observ"
	"soul/internal/parser"
	"soul/internal/project"
	"soul/internal/source"
	"soul/internal/trace"
)

// Options configure a multi-file run.
type Options struct {
	// Jobs caps parallel workers; <= 0 means GOMAXPROCS
	Jobs int
	// MaxErrors caps non-fatal errors per file
	MaxErrors int
	// Cache may be nil
	Cache    *cache.Cache
	Progress ProgressSink
	Timer    *observ.Timer
}

// Project is what a run works on: every page of the project and the subset
// that gets fully parsed.
type Project struct {
	Name       string
	Root       string
	SourceRoot string
	// Manifest is nil when no soul.toml was found
	Manifest *project.Manifest
	Sources  []string
	Targets  []string
}

// Discover finds the project around target (a file or a directory). Without
// a soul.toml the directory of target is the project and its base name is
// the project name.
func Discover(target string) (*Project, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	dir := abs
	if !info.IsDir() {
		dir = filepath.Dir(abs)
	}

	p := &Project{}
	m, found, err := project.LoadManifest(dir)
	if err != nil {
		return nil, err
	}
	if found {
		p.Manifest = m
		p.Name = m.Config.Project.Name
		p.Root = m.Root
		p.SourceRoot = m.SourceRoot()
	} else {
		p.Root, p.SourceRoot = dir, dir
		p.Name = defaultProjectName(dir)
	}

	if p.Sources, err = project.ListSources(p.SourceRoot); err != nil {
		return nil, err
	}
	if !info.IsDir() {
		p.Targets = []string{abs}
		if !slices.Contains(p.Sources, abs) {
			p.Sources = append(p.Sources, abs)
			slices.Sort(p.Sources)
		}
		return p, nil
	}
	prefix := abs + string(filepath.Separator)
	for _, src := range p.Sources {
		if strings.HasPrefix(src, prefix) {
			p.Targets = append(p.Targets, src)
		}
	}
	return p, nil
}

func defaultProjectName(dir string) string {
	name := filepath.Base(dir)
	if project.IsValidSegment(name) {
		return name
	}
	return "main"
}

// PageOf returns the dotted page path of file.
func (p *Project) PageOf(file string) (string, error) {
	page, err := project.PageName(p.Name, p.SourceRoot, file)
	if err == nil {
		return page, nil
	}
	// файл вне корня исходников: страница по одному имени файла
	return project.PageName(p.Name, filepath.Dir(file), file)
}

// ProjectResult is the aggregate of a run. Files follow Targets order.
type ProjectResult struct {
	Project *Project
	FileSet *source.FileSet
	Pages   *external.Pages
	Files   []FileResult
}

// ErrorCount counts every error of every file.
func (r *ProjectResult) ErrorCount() int {
	n := 0
	for i := range r.Files {
		n += len(r.Files[i].Errors())
	}
	return n
}

// FailedFiles counts files that produced at least one error.
func (r *ProjectResult) FailedFiles() int {
	n := 0
	for i := range r.Files {
		if r.Files[i].Failed() {
			n++
		}
	}
	return n
}

// File returns the loaded source of a result.
func (r *ProjectResult) File(res *FileResult) *source.File {
	if res == nil || res.Err != nil && res.Err.Kind() == diag.IOError {
		return nil
	}
	return r.FileSet.Get(res.FileID)
}

// ParseProject discovers the project around target and parses it.
func ParseProject(ctx context.Context, target string, opts Options) (*ProjectResult, error) {
	p, err := Discover(target)
	if err != nil {
		return nil, err
	}
	return Run(ctx, p, opts)
}

type loaded struct {
	id      source.FileID
	page    string
	loadErr *diag.SoulError
}

type headerResult struct {
	path   string
	header *external.Header
	err    *diag.SoulError
}

// Run parses the targets of p. Phase one scans the header of every source
// so `use` can see every page; phase two parses the targets against the
// complete page registry. Both phases run one independent parser per file;
// a failing file never stops its siblings. The returned error is only set
// for cancellation.
func Run(ctx context.Context, p *Project, opts Options) (*ProjectResult, error) {
	tr := trace.FromContext(ctx)
	run := trace.Begin(tr, trace.ScopeDriver, "project:"+p.Name, 0)
	defer run.End("")

	timer := opts.Timer
	if timer == nil {
		timer = observ.NewTimer()
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	res := &ProjectResult{
		Project: p,
		FileSet: source.NewFileSetWithBase(p.Root),
		Pages:   external.NewPages(),
	}
	for _, path := range p.Targets {
		emit(opts.Progress, Event{File: path, Stage: StageScan, Status: StatusQueued})
	}

	// FileSet не потокобезопасен: загружаем последовательно до воркеров
	idx := timer.Begin("load")
	files := make(map[string]loaded, len(p.Sources))
	hashes := make([]project.Digest, 0, len(p.Sources)*2)
	for _, path := range p.Sources {
		var l loaded
		id, err := res.FileSet.Load(path)
		if err != nil {
			l.loadErr = ioError(err)
		} else {
			l.id = id
			f := res.FileSet.Get(id)
			hashes = append(hashes, project.PathKey(path), project.Digest(f.Hash))
		}
		page, err := p.PageOf(path)
		if err != nil && l.loadErr == nil {
			l.loadErr = diag.New(diag.InvalidName, source.Span{}, err.Error())
		}
		l.page = page
		files[path] = l
	}
	pagesKey := project.Combine(hashes...)
	timer.End(idx, fmt.Sprintf("%d files", len(p.Sources)))

	// phase 1
	idx = timer.Begin("scan")
	phase := trace.Begin(tr, trace.ScopePhase, "scan", run.ID())
	headers := make(chan headerResult, len(p.Sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, path := range p.Sources {
		l := files[path]
		if l.loadErr != nil {
			headers <- headerResult{path: path, err: l.loadErr}
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			headers <- scanOne(path, res.FileSet.Get(l.id), l.page, p.Name, opts)
			return nil
		})
	}
	err := g.Wait()
	close(headers)
	scanErrs := make(map[string]*diag.SoulError)
	for h := range headers {
		if h.err != nil {
			scanErrs[h.path] = h.err
			continue
		}
		res.Pages.Add(h.header)
	}
	phase.End(fmt.Sprintf("%d pages", len(res.Pages.Paths())))
	timer.End(idx, fmt.Sprintf("%d pages", len(res.Pages.Paths())))
	if err != nil {
		return res, err
	}

	// phase 2
	idx = timer.Begin("parse")
	phase = trace.Begin(tr, trace.ScopePhase, "parse", run.ID())
	results := make(chan FileResult, len(p.Targets))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, path := range p.Targets {
		l := files[path]
		if l.loadErr != nil {
			emit(opts.Progress, Event{File: path, Stage: StageParse, Status: StatusError, Err: l.loadErr})
			results <- FileResult{Path: path, Page: l.page, Err: l.loadErr}
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fr := FileResult{Path: path, Page: l.page, FileID: l.id}
			file := res.FileSet.Get(l.id)
			if scanErr, failed := scanErrs[path]; failed {
				// ошибка уже найдена в фазе 1, повторный разбор ничего не добавит
				fr.Err = scanErr
			} else {
				parseOne(gctx, &fr, file, p.Name, res.Pages, pagesKey, opts, phase.ID())
			}
			status := StatusDone
			switch {
			case fr.Failed():
				status = StatusError
			case fr.Cached:
				status = StatusCached
			}
			emit(opts.Progress, Event{File: path, Stage: StageParse, Status: status, Err: errOrNil(fr.Err)})
			results <- fr
			return nil
		})
	}
	err = g.Wait()
	close(results)

	byPath := make(map[string]FileResult, len(p.Targets))
	for fr := range results {
		byPath[fr.Path] = fr
	}
	for _, path := range p.Targets {
		if fr, ok := byPath[path]; ok {
			res.Files = append(res.Files, fr)
		}
	}
	phase.With("errors", fmt.Sprint(res.ErrorCount())).End("")
	timer.End(idx, fmt.Sprintf("%d files, %d failed", len(res.Files), res.FailedFiles()))
	emit(opts.Progress, Event{Stage: StageParse, Status: StatusDone})
	return res, err
}

func scanOne(path string, file *source.File, page, projectName string, opts Options) headerResult {
	if entry, ok := opts.Cache.Lookup(path, file.ModTime); ok && entry.Header != nil {
		h := *entry.Header
		h.Page = page
		emit(opts.Progress, Event{File: path, Stage: StageScan, Status: StatusCached})
		return headerResult{path: path, header: &h}
	}
	emit(opts.Progress, Event{File: path, Stage: StageScan, Status: StatusWorking})
	h, err := scanTokens(file, page, projectName)
	if err != nil {
		return headerResult{path: path, err: err}
	}
	return headerResult{path: path, header: h}
}

func parseOne(ctx context.Context, fr *FileResult, file *source.File, projectName string, pages *external.Pages, pagesKey project.Digest, opts Options, parent uint64) {
	tr := trace.FromContext(ctx)
	span := trace.Begin(tr, trace.ScopeFile, "file:"+fr.Path, parent)
	defer func() {
		if fr.Err != nil {
			trace.Error(tr, "file:"+fr.Path, fr.Err)
		}
		span.With("cached", fmt.Sprint(fr.Cached)).End("")
	}()

	if entry, ok := opts.Cache.Lookup(fr.Path, file.ModTime); ok && entry.Response != nil && entry.Pages == pagesKey {
		fr.Response = entry.Response
		fr.Response.Header.Page = fr.Page
		fr.Cached = true
		return
	}

	emit(opts.Progress, Event{File: fr.Path, Stage: StageParse, Status: StatusWorking})
	fr.Response, fr.Err = parseTokens(ctx, file, fr.Page, projectName, pages, parser.Options{MaxErrors: opts.MaxErrors})
	if fr.Err != nil {
		return
	}
	entry := &cache.Entry{
		Path:     fr.Path,
		ModTime:  file.ModTime,
		Header:   &fr.Response.Header,
		Pages:    pagesKey,
		Response: fr.Response,
	}
	if err := opts.Cache.Put(entry); err != nil {
		trace.Error(tr, "cache", err)
	}
}

func errOrNil(err *diag.SoulError) error {
	if err == nil {
		return nil
	}
	return err
}

package diag

import "soul/internal/source"

// Reporter - минимальный контракт получения ошибок от фаз.
type Reporter interface {
	Report(err *SoulError)
}

// ReportBuilder accumulates frames before emitting to Reporter.
type ReportBuilder struct {
	reporter Reporter
	err      *SoulError
	emitted  bool
}

// NewReportBuilder constructs a builder bound to Reporter.
func NewReportBuilder(r Reporter, kind ErrorKind, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{reporter: r, err: New(kind, primary, msg)}
}

// WithNote attaches a secondary location ("previously declared here").
func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.err = b.err.WithNote(sp, msg)
	return b
}

// Emit sends the error to the underlying reporter exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Report(b.err)
	}
	b.emitted = true
}

// Error returns the accumulated error without emitting.
func (b *ReportBuilder) Error() *SoulError {
	if b == nil {
		return nil
	}
	return b.err
}

// BagReporter - адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(err *SoulError) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(err)
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(*SoulError) {}

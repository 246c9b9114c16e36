package source

import "testing"

func TestSpanCombine(t *testing.T) {
	cases := []struct {
		name string
		a, b Span
		want Span
	}{
		{
			name: "same line",
			a:    Span{Line: 1, Col: 1, Len: 3},
			b:    Span{Line: 1, Col: 7, Len: 2},
			want: Span{Line: 1, Col: 1, Len: 8},
		},
		{
			name: "same line reversed",
			a:    Span{Line: 1, Col: 7, Len: 2},
			b:    Span{Line: 1, Col: 1, Len: 3},
			want: Span{Line: 1, Col: 1, Len: 8},
		},
		{
			name: "contained",
			a:    Span{Line: 2, Col: 1, Len: 10},
			b:    Span{Line: 2, Col: 3, Len: 2},
			want: Span{Line: 2, Col: 1, Len: 10},
		},
		{
			name: "multi line",
			a:    Span{Line: 1, Col: 5, Len: 3},
			b:    Span{Line: 3, Col: 2, Len: 4},
			want: Span{Line: 1, EndLine: 3, Col: 5, Len: 6},
		},
		{
			name: "multi line with multi line",
			a:    Span{Line: 1, EndLine: 4, Col: 1, Len: 2},
			b:    Span{Line: 2, Col: 1, Len: 1},
			want: Span{Line: 1, EndLine: 4, Col: 1, Len: 2},
		},
		{
			name: "zero left",
			a:    Span{},
			b:    Span{Line: 1, Col: 2, Len: 1},
			want: Span{Line: 1, Col: 2, Len: 1},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Combine(tc.b); got != tc.want {
				t.Fatalf("Combine = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestSpanString(t *testing.T) {
	if got := (Span{Line: 3, Col: 4, Len: 1}).String(); got != "3:4" {
		t.Fatalf("String() = %q", got)
	}
	if got := (Span{Line: 1, EndLine: 2, Col: 4, Len: 3}).String(); got != "1:4-2:3" {
		t.Fatalf("String() = %q", got)
	}
}

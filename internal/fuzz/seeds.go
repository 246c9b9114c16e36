package fuzztests

import (
	"os"
	"path/filepath"
	"testing"
)

const maxFuzzInput = 1 << 16 // 64 KiB

var languageSeeds = []string{
	"",
	"x := 1 + 2 * 3\n",
	"foo()\nfoo() int {}\n",
	"const x := 1\n}\n",
	"struct Point { int x\n int y }\np := Point{x: 1, ..}\n",
	"enum Color { Red, Green = 5, Blue }\n",
	"union Shape { Circle(f64 r), Square }\n",
	"trait Show { show(this) str }\n",
	"use std.io as sio\nsio.print(\"hi\")\n",
	"id<T>(T x) T { return x }\nid<int>(1)\n",
	"main() {\n for i in 0..3 {\n  if i == 1 { continue } else { i }\n }\n}\n",
	"xs := [for i in 3 => i * 2]\n",
	"f := fn(int x) => x + 1\n",
	"x := (a: 1, b: 2)\nx.a\n",
	"/* comment */ x := 'c' // tail\n",
	"foo() {\n x := 1 +\n}\n",
	"((((1))))\n",
	"x := [1, 2\n",
	"match x {\n1 => 2\n_ => 3\n}\n",
}

// addCorpusSeeds adds the built-in programs and any *.soul file under
// testdata/ next to the harness.
func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	paths, err := filepath.Glob(filepath.Join("testdata", "*.soul"))
	if err != nil {
		return
	}
	for _, path := range paths {
		// #nosec G304 -- path comes from a testdata glob
		src, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f.Add(clamp(src))
	}
}

func clamp(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}

package fuzztests

import (
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB — ограничение для корпуса
	maxFuzzInput = 1 << 16
)

// pythonSeeds cover each grammar variant the parser falls back between.
var pythonSeeds = []string{
	"",
	"x = 1\n",
	"x = 0XFF\n",
	"x = (1)\n",
	"print(U'a')\n",
	"def f():\n    return (x + 1E5)  # keep\n",
	"x = f'{a}'\nif (n := 1):\n    pass\n",
	"async = 1\n",
	"print 'py2'\n",
	"exec 'code'\n",
	"def f(a, /, b, *, c): pass\n",
	"@a[0]\ndef f(): pass\n",
	"match x:\n    case [1, *rest]:\n        pass\n    case {'k': v}:\n        pass\n",
	"async def f():\n    async with a as b:\n        await c\n",
	"for (x, y) in z:\n    del (a), b\n",
	"lambda x, *y, **z: (x, y, z)\n",
	"a = [i for i in range(10) if i % 2]\n",
	"x = yield\n",
	"try:\n    pass\nexcept* ValueError:\n    pass\n",
	"type X = list[int]\n",
	"x = '''doc\nstring'''\n",
	"foo(\n",
	"def f(:\n",
	"\tif x:\n  pass\n",
}

// addCorpusSeeds adds the built-in snippets and every *.py file under
// testdata/ next to the harness, when it exists.
func addCorpusSeeds(f *testing.F) {
	for _, src := range pythonSeeds {
		f.Add([]byte(src))
	}
	paths, err := filepath.Glob(filepath.Join("testdata", "*.py"))
	if err != nil {
		return
	}
	for _, path := range paths {
		// #nosec G304 -- path comes from the package testdata glob
		src, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f.Add(clampSeed(src))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

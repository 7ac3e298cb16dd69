package compress

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chewxy/math32"

	"github.com/Faultbox/meshforge/internal/config"
	"github.com/Faultbox/meshforge/internal/doctest"
	"github.com/Faultbox/meshforge/internal/document"
)

func TestParseTier(t *testing.T) {
	tests := []struct {
		in      string
		want    Tier
		wantErr bool
	}{
		{"fast", TierFast, false},
		{"balanced", TierBalanced, false},
		{"high", TierHigh, false},
		{"extreme", TierExtreme, false},
		{"ultra", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseTier(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTier(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFlagsSkinned(t *testing.T) {
	static := Flags(TierExtreme, false)
	if !contains(static, "-si") {
		t.Errorf("static extreme flags missing -si: %v", static)
	}
	if contains(static, "-kn") {
		t.Errorf("static flags should not keep normals: %v", static)
	}

	skinned := Flags(TierExtreme, true)
	if contains(skinned, "-si") || contains(skinned, "0.6") {
		t.Errorf("skinned flags must not simplify: %v", skinned)
	}
	if !contains(skinned, "-kn") {
		t.Errorf("skinned flags missing -kn: %v", skinned)
	}
}

func contains(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

func testInput(t *testing.T) []byte {
	t.Helper()
	doc := doctest.New()
	meshIdx, _ := doctest.AddMesh(doc,
		[][3]float32{{0, 0, 0}, {10, 0, 0}, {0, 10, 0}}, []uint32{0, 1, 2})
	doctest.AddUVs(doc, meshIdx, [][2]float32{{0, 0}, {1, 0}, {0, 1}})
	buf, err := document.WriteBinary(doc)
	if err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	return buf
}

// fakeCompressor writes an executable shell script standing in for the
// external binary.
func fakeCompressor(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-compressor")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("writing fake compressor: %v", err)
	}
	return path
}

// argParse scans the generic flag list for the -i and -o paths.
const argParse = `
in=""
out=""
while [ $# -gt 0 ]; do
  case "$1" in
    -i) in="$2"; shift 2 ;;
    -o) out="$2"; shift 2 ;;
    *) shift ;;
  esac
done
`

func TestCompressExternal(t *testing.T) {
	cfg := config.Default().Compressor
	cfg.BinaryPath = fakeCompressor(t, argParse+`cp "$in" "$out"`)
	cfg.Timeout = 10 * time.Second

	res, err := New(cfg).Compress(context.Background(), testInput(t), false)
	if err != nil {
		t.Fatalf("Compress() error: %v", err)
	}
	if res.Method != MethodExternal {
		t.Errorf("method = %q, want %q", res.Method, MethodExternal)
	}
	if _, err := document.ReadBinary(res.Buffer); err != nil {
		t.Errorf("external output not decodable: %v", err)
	}
}

func TestCompressFallbackOnMissingBinary(t *testing.T) {
	cfg := config.Default().Compressor
	cfg.BinaryPath = "/nonexistent/meshforge-compressor"

	res, err := New(cfg).Compress(context.Background(), testInput(t), false)
	if err != nil {
		t.Fatalf("Compress() error: %v", err)
	}
	if res.Method != MethodFallback {
		t.Errorf("method = %q, want %q", res.Method, MethodFallback)
	}
	if _, err := document.ReadBinary(res.Buffer); err != nil {
		t.Errorf("fallback output not decodable: %v", err)
	}
}

func TestCompressFallbackOnFailure(t *testing.T) {
	cfg := config.Default().Compressor
	cfg.BinaryPath = fakeCompressor(t, `echo "boom" >&2; exit 1`)

	res, err := New(cfg).Compress(context.Background(), testInput(t), false)
	if err != nil {
		t.Fatalf("Compress() error: %v", err)
	}
	if res.Method != MethodFallback {
		t.Errorf("method = %q, want %q", res.Method, MethodFallback)
	}
}

func TestCompressTimeout(t *testing.T) {
	cfg := config.Default().Compressor
	cfg.BinaryPath = fakeCompressor(t, `sleep 30`)
	cfg.Timeout = 200 * time.Millisecond

	start := time.Now()
	res, err := New(cfg).Compress(context.Background(), testInput(t), false)
	if err != nil {
		t.Fatalf("Compress() error: %v", err)
	}
	// The stalled process must be killed, not waited out.
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("compress took %s, deadline not enforced", elapsed)
	}
	if res.Method != MethodFallback {
		t.Errorf("method = %q, want %q", res.Method, MethodFallback)
	}
}

func TestFallbackQuantizesStatic(t *testing.T) {
	input := testInput(t)
	out, err := New(config.Default().Compressor).Fallback(input)
	if err != nil {
		t.Fatalf("Fallback() error: %v", err)
	}

	doc, err := document.ReadBinary(out)
	if err != nil {
		t.Fatalf("decoding fallback output: %v", err)
	}
	attr, ok, err := document.ReadAttribute(doc, doctest.Prim(doc, 0), document.Position)
	if err != nil || !ok {
		t.Fatalf("positions unreadable: %v %v", ok, err)
	}
	want := [][3]float32{{0, 0, 0}, {10, 0, 0}, {0, 10, 0}}
	for i, v := range attr.Vec3 {
		for c := 0; c < 3; c++ {
			if math32.Abs(v[c]-want[i][c]) > 0.01 {
				t.Errorf("vertex %d component %d drifted: %v vs %v", i, c, v, want[i])
			}
		}
	}
}

func TestFallbackLeavesSkinnedGeometry(t *testing.T) {
	doc := doctest.New()
	positions := [][3]float32{{0.1234567, 0, 0}, {10, 0, 0}, {0, 10, 0}}
	uvs := [][2]float32{{0.123456789, 0.5}, {0.987654321, 0.25}, {0.333333343, 0.75}}
	meshIdx, nodeIdx := doctest.AddMesh(doc, positions, []uint32{0, 1, 2})
	doctest.AddUVs(doc, meshIdx, uvs)
	doctest.AddSkin(doc, meshIdx, nodeIdx,
		[][4]float32{{1, 0, 0, 0}, {1, 0, 0, 0}, {1, 0, 0, 0}},
		[][4]uint16{{0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}})
	input, err := document.WriteBinary(doc)
	if err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}

	out, err := New(config.Default().Compressor).Fallback(input)
	if err != nil {
		t.Fatalf("Fallback() error: %v", err)
	}
	decoded, err := document.ReadBinary(out)
	if err != nil {
		t.Fatalf("decoding fallback output: %v", err)
	}
	attr, ok, err := document.ReadAttribute(decoded, doctest.Prim(decoded, 0), document.Position)
	if err != nil || !ok {
		t.Fatalf("positions unreadable: %v %v", ok, err)
	}
	for i, v := range attr.Vec3 {
		if v != positions[i] {
			t.Errorf("skinned position %d changed: %v vs %v", i, v, positions[i])
		}
	}
	// The skip covers texcoords too: a skinned document is re-encoded
	// without any grid snapping.
	uvAttr, ok, err := document.ReadAttribute(decoded, doctest.Prim(decoded, 0), document.TexCoord0)
	if err != nil || !ok {
		t.Fatalf("texcoords unreadable: %v %v", ok, err)
	}
	for i, v := range uvAttr.Vec2 {
		if v != uvs[i] {
			t.Errorf("skinned texcoord %d changed: %v vs %v", i, v, uvs[i])
		}
	}
}

func TestCompressMalformedInputFails(t *testing.T) {
	cfg := config.Default().Compressor
	cfg.BinaryPath = "/nonexistent/meshforge-compressor"

	if _, err := New(cfg).Compress(context.Background(), []byte("not a glb"), false); err == nil {
		t.Error("expected error for malformed input")
	}
}

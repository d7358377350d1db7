package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ticketing-console/labeldesigner/internal/layout"
)

const badgeYAML = `
name: Badge
size:
  width_mm: 62
  height_mm: 29
placements:
  - key: attendeeName
    label: Name
    includeHonorific: true
    frame: {x: 0.1, y: 0.1, w: 0.8, h: 0.3}
    style:
      fontSize: 18
      fontWeight: bold
  - key: qrCode
    label: QR
    frame: {x: 0.6, y: 0.5, w: 0.3, h: 0.45}
`

func writeDesign(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_HTML(t *testing.T) {
	in := writeDesign(t, "badge.yaml", badgeYAML)

	var out bytes.Buffer
	require.NoError(t, run([]string{"--in", in}, &out, zap.NewNop()))

	assert.Contains(t, out.String(), "size: 62mm 29mm")
	assert.Contains(t, out.String(), "Name")
}

func TestRun_JSONPreview(t *testing.T) {
	in := writeDesign(t, "badge.yaml", badgeYAML)

	var out bytes.Buffer
	require.NoError(t, run([]string{"-i", in, "-f", "json", "--preview"}, &out, zap.NewNop()))

	var l layout.PrintLayout
	require.NoError(t, json.Unmarshal(out.Bytes(), &l))
	require.Len(t, l.Items, 2)
	assert.Equal(t, "Mx. Alex Morgan", l.Items[0].Text)
	assert.InDelta(t, 6.2, l.Items[0].XMM, 1e-6)
	assert.Equal(t, layout.DefaultSamples().QRCodeURL, l.Items[1].ImageURL)
}

func TestRun_JSONInputToSVGFile(t *testing.T) {
	in := writeDesign(t, "badge.json", `{"name":"QR","size":{"width_mm":50,"height_mm":50},
		"placements":[{"key":"qrCode","label":"QR","frame":{"x":0.25,"y":0.25,"w":0.5,"h":0.5}}]}`)
	outPath := filepath.Join(t.TempDir(), "badge.svg")

	require.NoError(t, run([]string{"--in", in, "--out", outPath, "--format", "svg"}, &bytes.Buffer{}, zap.NewNop()))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestRun_Errors(t *testing.T) {
	var out bytes.Buffer

	assert.Error(t, run(nil, &out, zap.NewNop()))

	bad := writeDesign(t, "bad.yaml", "name: Bad\nsize: {width_mm: 0, height_mm: 10}\n")
	assert.ErrorIs(t, run([]string{"--in", bad}, &out, zap.NewNop()), layout.ErrInvalidLabelSize)

	good := writeDesign(t, "badge.yaml", badgeYAML)
	assert.Error(t, run([]string{"--in", good, "--format", "pdf"}, &out, zap.NewNop()))
}

package chart

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const dpi = 100

// encodePlot rasterizes p onto a canvas owned by this call and returns the
// PNG bytes. Nothing outlives the call but the returned slice.
func encodePlot(p *plot.Plot, w, h vg.Length) ([]byte, error) {
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))
	p.Draw(draw.New(c))

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	return buf.Bytes(), nil
}

// EncodeBase64 returns png as standard base64 text for inline embedding.
func EncodeBase64(png []byte) string {
	return base64.StdEncoding.EncodeToString(png)
}

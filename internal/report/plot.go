// Package report renders pipeline results as spectrum plots and an HTML
// page with audio players and download links.
package report

import (
	"bytes"
	"fmt"
	"image/color"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	fdm "github.com/tphakala/go-audio-fdm"
)

const (
	// Plots are decimated to this many points; peaks are kept.
	maxPlotPoints = 4000

	gridRows = 2
	gridCols = 2

	gridWidth       = 30 * vg.Centimeter
	gridHeight      = 20 * vg.Centimeter
	compositeWidth  = 30 * vg.Centimeter
	compositeHeight = 10 * vg.Centimeter

	carrierLabelLevel = 0.8 // label height as a fraction of the peak
	kHzToHz           = 1000
)

// Trace colors
var (
	filteredColor  = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	compositeColor = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	recoveredColor = color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}
	markerColor    = color.RGBA{A: 0x80}
)

// Panel is one spectrum in a grid.
type Panel struct {
	Title    string
	Spectrum *fdm.Spectrum
}

func spectrumXYs(s *fdm.Spectrum) plotter.XYs {
	d := s.Decimate(maxPlotPoints)
	xys := make(plotter.XYs, d.Len())
	for i := range xys {
		xys[i].X = d.Freqs[i]
		xys[i].Y = d.Magnitudes[i]
	}
	return xys
}

func spectrumPlot(title, yLabel string, s *fdm.Spectrum, c color.Color) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Freq (Hz)"
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())

	if s.Len() > 0 {
		line, err := plotter.NewLine(spectrumXYs(s))
		if err != nil {
			return nil, fmt.Errorf("failed to build spectrum line: %w", err)
		}
		line.LineStyle.Color = c
		line.LineStyle.Width = vg.Points(1)
		p.Add(line)
	}
	p.X.Min = 0
	p.Y.Min = 0
	return p, nil
}

// SpectrumGrid draws up to four panels in a 2x2 grid and returns PNG bytes.
func SpectrumGrid(panels []Panel, c color.Color) ([]byte, error) {
	if len(panels) > gridRows*gridCols {
		return nil, fmt.Errorf("grid holds %d panels, got %d", gridRows*gridCols, len(panels))
	}

	plots := make([][]*plot.Plot, gridRows)
	for r := range plots {
		plots[r] = make([]*plot.Plot, gridCols)
	}
	for i, panel := range panels {
		p, err := spectrumPlot(panel.Title, "Magnitude", panel.Spectrum, c)
		if err != nil {
			return nil, err
		}
		plots[i/gridCols][i%gridCols] = p
	}

	img := vgimg.New(gridWidth, gridHeight)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      gridRows,
		Cols:      gridCols,
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align(plots, tiles, dc)
	for r := range plots {
		for col := range plots[r] {
			if plots[r][col] != nil {
				plots[r][col].Draw(canvases[r][col])
			}
		}
	}
	return encodePNG(img)
}

// CompositePlot draws the composite spectrum with a dashed marker and a
// "<fc/1000>k" label at every carrier.
func CompositePlot(s *fdm.Spectrum, carriers []float64) ([]byte, error) {
	p, err := spectrumPlot("Composite Signal Spectrum", "Magnitude", s, compositeColor)
	if err != nil {
		return nil, err
	}

	peak := 1.0
	if s.Len() > 0 && floats.Max(s.Magnitudes) > 0 {
		peak = floats.Max(s.Magnitudes)
	}

	labels := plotter.XYLabels{}
	for _, fc := range carriers {
		marker, err := plotter.NewLine(plotter.XYs{{X: fc, Y: 0}, {X: fc, Y: peak}})
		if err != nil {
			return nil, fmt.Errorf("failed to build carrier marker: %w", err)
		}
		marker.LineStyle.Color = markerColor
		marker.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(marker)

		labels.XYs = append(labels.XYs, plotter.XY{X: fc, Y: peak * carrierLabelLevel})
		labels.Labels = append(labels.Labels, CarrierLabel(fc))
	}
	if len(carriers) > 0 {
		l, err := plotter.NewLabels(labels)
		if err != nil {
			return nil, fmt.Errorf("failed to build carrier labels: %w", err)
		}
		p.Add(l)
	}

	img := vgimg.New(compositeWidth, compositeHeight)
	p.Draw(draw.New(img))
	return encodePNG(img)
}

// CarrierLabel formats a carrier frequency as kHz, e.g. "10k" or "2.5k".
func CarrierLabel(fc float64) string {
	return strconv.FormatFloat(fc/kHzToHz, 'f', -1, 64) + "k"
}

func encodePNG(img *vgimg.Canvas) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	fdm "github.com/tphakala/go-audio-fdm"
	"github.com/tphakala/go-audio-fdm/internal/wavio"
)

// Report file names
const (
	IndexName         = "index.html"
	FilteredPlotName  = "filtered_spectra.png"
	CompositePlotName = "composite_spectrum.png"
	RecoveredPlotName = "recovered_spectra.png"

	filePermissions = 0o644
	dirPermissions  = 0o755
)

//go:embed templates/page.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html.tmpl"))

// Images holds the rendered plots as PNG bytes.
type Images struct {
	Filtered  []byte
	Composite []byte
	Recovered []byte
}

// Render draws the filtered, composite and recovered spectra of res.
func Render(res *fdm.Result) (*Images, error) {
	filtered := make([]Panel, len(res.Slots))
	recovered := make([]Panel, len(res.Slots))
	for i, ch := range res.Slots {
		filtered[i] = Panel{
			Title:    fmt.Sprintf("Channel %d - %s\n(Selected Slot %d)", ch.Number, res.Descriptions[i], i+1),
			Spectrum: fdm.ComputeSpectrum(res.Filtered[i], res.SampleRate),
		}
		recovered[i] = Panel{
			Title:    fmt.Sprintf("Recovered Ch %d (from Carrier %sHz)", ch.Number, formatHz(res.Modulation.Carriers[i])),
			Spectrum: fdm.ComputeSpectrum(res.Recovered[i], res.SampleRate),
		}
	}

	var (
		images Images
		err    error
	)
	if images.Filtered, err = SpectrumGrid(filtered, filteredColor); err != nil {
		return nil, fmt.Errorf("failed to plot filtered spectra: %w", err)
	}
	composite := fdm.ComputeSpectrum(res.Modulation.Composite, res.Modulation.SampleRate)
	if images.Composite, err = CompositePlot(composite, res.Modulation.Carriers); err != nil {
		return nil, fmt.Errorf("failed to plot composite spectrum: %w", err)
	}
	if images.Recovered, err = SpectrumGrid(recovered, recoveredColor); err != nil {
		return nil, fmt.Errorf("failed to plot recovered spectra: %w", err)
	}
	return &images, nil
}

// Assets returns every file of the report keyed by name: the three plots
// and the composite, filtered and recovered WAVs. The index is not included.
func Assets(res *fdm.Result, bitDepth int) (map[string][]byte, error) {
	images, err := Render(res)
	if err != nil {
		return nil, err
	}
	assets := map[string][]byte{
		FilteredPlotName:  images.Filtered,
		CompositePlotName: images.Composite,
		RecoveredPlotName: images.Recovered,
	}

	encode := func(name string, data []float64, rate int) error {
		b, err := wavio.Encode([][]float64{data}, rate, bitDepth)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", name, err)
		}
		assets[name] = b
		return nil
	}
	if err := encode(res.CompositeFileName(), res.Modulation.Composite, res.Modulation.SampleRate); err != nil {
		return nil, err
	}
	for i := range res.Slots {
		if err := encode(res.FilteredFileName(i), res.Filtered[i], res.SampleRate); err != nil {
			return nil, err
		}
		if err := encode(res.RecoveredFileName(i), res.Recovered[i], res.SampleRate); err != nil {
			return nil, err
		}
	}
	return assets, nil
}

// WriteDir writes the WAV outputs, the plots and index.html into dir and
// returns the written paths.
func WriteDir(dir string, res *fdm.Result, bitDepth int) ([]string, error) {
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	written, err := res.WriteOutputs(dir, bitDepth)
	if err != nil {
		return written, err
	}

	images, err := Render(res)
	if err != nil {
		return written, err
	}
	for name, data := range map[string][]byte{
		FilteredPlotName:  images.Filtered,
		CompositePlotName: images.Composite,
		RecoveredPlotName: images.Recovered,
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, filePermissions); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", name, err)
		}
		written = append(written, path)
	}

	var buf bytes.Buffer
	page := &Page{Title: DefaultTitle, Result: NewView(res, nil)}
	if err := WritePage(&buf, page); err != nil {
		return written, err
	}
	path := filepath.Join(dir, IndexName)
	if err := os.WriteFile(path, buf.Bytes(), filePermissions); err != nil {
		return written, fmt.Errorf("failed to write %s: %w", IndexName, err)
	}
	return append(written, path), nil
}

// DefaultTitle is the page heading.
const DefaultTitle = "FDM Audio Multiplexing"

// Page is the data of the HTML template. The form is only shown by the
// web GUI; a static report sets Form to nil.
type Page struct {
	Title  string
	Form   *Form
	Error  string
	Info   string
	Inputs []string
	Result *View
}

// Form describes the slot selectors.
type Form struct {
	Action  string
	Options []OptionView
	Slots   []FormSlot
}

// OptionView is one selectable channel.
type OptionView struct {
	Number int
	Label  string
}

// FormSlot is the current selection of one slot.
type FormSlot struct {
	Slot     int
	Selected int
}

// NewForm builds the selectors for the given channel labels (Ch1 first)
// with selection preselected.
func NewForm(action string, labels []string, selection []int) *Form {
	f := &Form{Action: action}
	for i, label := range labels {
		f.Options = append(f.Options, OptionView{Number: i + 1, Label: label})
	}
	for i, ch := range selection {
		f.Slots = append(f.Slots, FormSlot{Slot: i + 1, Selected: ch})
	}
	return f
}

// View is the rendered part of a result.
type View struct {
	Order          string
	ModulationRate int
	Carriers       string
	FilteredPlot   string
	CompositePlot  string
	RecoveredPlot  string
	CompositeAudio string
	Slots          []SlotView
}

// SlotView describes one slot in the page.
type SlotView struct {
	Slot           int
	Channel        string
	Description    string
	Carrier        string
	FilteredPeak   string
	RecoveredPeak  string
	FilteredAudio  string
	RecoveredAudio string
}

// NewView builds the page data of res. link maps an asset name to its URL;
// nil keeps names as relative links.
func NewView(res *fdm.Result, link func(name string) string) *View {
	if link == nil {
		link = func(name string) string { return name }
	}

	carriers := make([]string, len(res.Modulation.Carriers))
	for i, fc := range res.Modulation.Carriers {
		carriers[i] = formatHz(fc) + " Hz"
	}
	v := &View{
		Order:          fdm.FormatOrder(res.Order),
		ModulationRate: res.Modulation.SampleRate,
		Carriers:       strings.Join(carriers, ", "),
		FilteredPlot:   link(FilteredPlotName),
		CompositePlot:  link(CompositePlotName),
		RecoveredPlot:  link(RecoveredPlotName),
		CompositeAudio: link(res.CompositeFileName()),
	}
	for i, s := range res.Summaries() {
		v.Slots = append(v.Slots, SlotView{
			Slot:           s.Slot,
			Channel:        s.Channel.Label(),
			Description:    s.Description,
			Carrier:        CarrierLabel(s.CarrierHz),
			FilteredPeak:   fmt.Sprintf("%.1f Hz", s.FilteredPeakHz),
			RecoveredPeak:  fmt.Sprintf("%.1f Hz", s.RecoveredPeakHz),
			FilteredAudio:  link(res.FilteredFileName(i)),
			RecoveredAudio: link(res.RecoveredFileName(i)),
		})
	}
	return v
}

// WritePage renders page as HTML.
func WritePage(w io.Writer, page *Page) error {
	if err := pageTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

func formatHz(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

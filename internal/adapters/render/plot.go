package render

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"os"
	"time"

	"github.com/pkg/browser"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/okian/contestcorr/pkg/logger"
	"github.com/okian/contestcorr/pkg/metrics"
)

var (
	pointColor = color.NRGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	fitColor   = color.NRGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
)

// PlotRenderer renders with gonum/plot.
type PlotRenderer struct {
	log     logger.Logger
	metrics *metrics.Manager
	open    func(path string) error
	tempDir string
}

var _ Renderer = (*PlotRenderer)(nil)

// NewPlotRenderer creates a renderer that opens interactive figures with the
// system viewer.
func NewPlotRenderer(opts ...Option) *PlotRenderer {
	r := &PlotRenderer{
		log:  logger.Nop(),
		open: browser.OpenFile,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render draws req and writes it to the requested destinations. A request
// with neither an output path nor interactive display is a no-op.
func (r *PlotRenderer) Render(ctx context.Context, req Request) error {
	o := req.Options.withDefaults()
	if !o.Wants() {
		return nil
	}
	if len(req.X) != len(req.Y) {
		return fmt.Errorf("%w: %d x values for %d y values", ErrRender, len(req.X), len(req.Y))
	}
	if o.Alpha < 0 || o.Alpha > 1 {
		return fmt.Errorf("%w: alpha %v outside [0,1]", ErrRender, o.Alpha)
	}

	start := time.Now()
	defer func() { r.metrics.ObserveRender(time.Since(start)) }()

	p, err := buildPlot(req, o.Alpha)
	if err != nil {
		return err
	}

	if o.OutputPath != "" {
		if err := r.writeFile(p, o.OutputPath, o); err != nil {
			return err
		}
		r.log.Info(ctx, "figure saved", logger.String("path", o.OutputPath))
	}

	if o.Interactive {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.display(ctx, p, o); err != nil {
			return err
		}
	}
	return nil
}

func buildPlot(req Request, alpha float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = req.Title
	p.X.Label.Text = req.XLabel
	p.Y.Label.Text = req.YLabel
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(req.X))
	for i := range req.X {
		pts[i].X = req.X[i]
		pts[i].Y = req.Y[i]
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	c := pointColor
	c.A = uint8(alpha*255 + 0.5)
	scatter.GlyphStyle.Color = c
	scatter.GlyphStyle.Radius = vg.Points(3)
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(scatter)
	p.Legend.Add(fmt.Sprintf("competitors (n=%d)", len(pts)), scatter)

	if req.Fit != nil && len(req.Fit.Points) > 0 {
		curve := make(plotter.XYs, len(req.Fit.Points))
		for i, fp := range req.Fit.Points {
			curve[i].X = fp.X
			curve[i].Y = fp.Y
		}
		line, err := plotter.NewLine(curve)
		if err != nil {
			return nil, fmt.Errorf("%w: fit curve: %w", ErrRender, err)
		}
		line.LineStyle.Color = fitColor
		line.LineStyle.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("polynomial fit (degree %d)", req.Fit.Degree), line)
	}

	p.Legend.Add("Pearson: " + req.Pearson)
	p.Legend.Add("Spearman: " + req.Spearman)
	p.Legend.Top = true
	p.Legend.Left = true
	return p, nil
}

func newCanvas(format string, o Options) (vg.CanvasWriterTo, error) {
	side := vg.Length(o.SizeInches) * vg.Inch
	switch format {
	case FormatPNG:
		return vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(side, side), vgimg.UseDPI(o.DPI))}, nil
	case FormatJPEG:
		return vgimg.JpegCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(side, side), vgimg.UseDPI(o.DPI))}, nil
	case FormatTIFF:
		return vgimg.TiffCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(side, side), vgimg.UseDPI(o.DPI))}, nil
	case FormatSVG:
		return vgsvg.New(side, side), nil
	case FormatPDF:
		return vgpdf.New(side, side), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// encode draws p onto a fresh canvas of the given format and writes it to w.
func encode(w io.Writer, p *plot.Plot, format string, o Options) error {
	c, err := newCanvas(format, o)
	if err != nil {
		return err
	}
	p.Draw(draw.New(c))
	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}

func (r *PlotRenderer) writeFile(p *plot.Plot, path string, o Options) (err error) {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrRender, cerr)
		}
	}()
	return encode(f, p, format, o)
}

// display writes a temporary PNG and hands it to the opener. The file is
// left in place because the viewer reads it asynchronously.
func (r *PlotRenderer) display(ctx context.Context, p *plot.Plot, o Options) error {
	f, err := os.CreateTemp(r.tempDir, "contestcorr-*.png")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDisplay, err)
	}
	path := f.Name()
	err = encode(f, p, FormatPNG, o)
	if cerr := f.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDisplay, err)
	}

	r.log.Debug(ctx, "opening figure", logger.String("path", path))
	if err := r.open(path); err != nil {
		return fmt.Errorf("%w: %w", ErrDisplay, err)
	}
	return nil
}

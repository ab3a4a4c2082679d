package report

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/pplcc/plotext"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/gamma-omg/trend-bot/internal/indicator"
	"github.com/gamma-omg/trend-bot/internal/market"
	"github.com/gamma-omg/trend-bot/internal/sim"
)

// chart stacks plots vertically on a shared x axis and renders them to
// a single PNG.
type chart struct {
	plots   []*plot.Plot
	heights []float64
	w       int
	h       int
}

func (c *chart) add(p *plot.Plot, height float64) {
	c.plots = append(c.plots, p)
	c.heights = append(c.heights, height)
}

func (c *chart) save(path string) (err error) {
	var axis []*plot.Axis
	for _, p := range c.plots {
		axis = append(axis, &p.X)
	}
	plotext.UniteAxisRanges(axis)

	tbl := plotext.Table{
		RowHeights: c.heights,
		ColWidths:  []float64{1},
	}

	var plots2d [][]*plot.Plot
	for _, p := range c.plots {
		plots2d = append(plots2d, []*plot.Plot{p})
	}

	h := 0.0
	for _, v := range c.heights {
		h += v * float64(c.h)
	}

	img := vgimg.New(vg.Points(float64(c.w)), vg.Points(h))
	dc := draw.New(img)

	canvases := tbl.Align(plots2d, dc)
	for i, p := range c.plots {
		p.Draw(canvases[i][0])
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close chart file: %w", cerr))
		}
	}()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write chart to file: %w", err)
	}

	return nil
}

// RenderChart writes a PNG with the close price, EMA and SMA overlays,
// BUY/SELL markers and a portfolio value subplot aligned underneath.
func RenderChart(path, symbol string, bars []market.Bar, params sim.Params, res *sim.Result) error {
	if len(bars) == 0 {
		return fmt.Errorf("no bars to chart for %s", symbol)
	}

	pricePlot, err := buildPricePlot(symbol, bars, params, res)
	if err != nil {
		return err
	}

	valuePlot, err := buildValuePlot(res)
	if err != nil {
		return err
	}

	c := chart{w: 1200, h: 400}
	c.add(pricePlot, 1)
	if valuePlot != nil {
		c.add(valuePlot, 0.5)
	}

	return c.save(path)
}

func buildPricePlot(symbol string, bars []market.Bar, params sim.Params, res *sim.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = symbol
	p.Y.Label.Text = "Price"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}

	closes := market.Closes(bars)

	price, err := plotter.NewLine(seriesPoints(bars, closes))
	if err != nil {
		return nil, fmt.Errorf("failed to create price graph: %w", err)
	}

	ema, err := plotter.NewLine(seriesPoints(bars, indicator.EMA(closes, params.EmaSpan)))
	if err != nil {
		return nil, fmt.Errorf("failed to create ema graph: %w", err)
	}
	ema.Color = color.RGBA{R: 230, G: 140, A: 255}

	sma, err := plotter.NewLine(seriesPoints(bars, indicator.SMA(closes, params.SmaWindow)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sma graph: %w", err)
	}
	sma.Color = color.RGBA{R: 90, G: 60, B: 200, A: 255}

	p.Add(price, ema, sma)
	p.Legend.Add("close", price)
	p.Legend.Add(fmt.Sprintf("EMA%d", params.EmaSpan), ema)
	p.Legend.Add(fmt.Sprintf("SMA%d", params.SmaWindow), sma)
	p.Legend.Top = true

	buys, sells := tradePoints(res)
	if len(buys) > 0 {
		s, err := plotter.NewScatter(buys)
		if err != nil {
			return nil, fmt.Errorf("failed to create buy markers: %w", err)
		}
		s.GlyphStyle = draw.GlyphStyle{
			Color:  color.RGBA{G: 160, A: 255},
			Radius: vg.Points(4),
			Shape:  draw.PyramidGlyph{},
		}
		p.Add(s)
		p.Legend.Add("BUY", s)
	}
	if len(sells) > 0 {
		s, err := plotter.NewScatter(sells)
		if err != nil {
			return nil, fmt.Errorf("failed to create sell markers: %w", err)
		}
		s.GlyphStyle = draw.GlyphStyle{
			Color:  color.RGBA{R: 200, A: 255},
			Radius: vg.Points(4),
			Shape:  draw.BoxGlyph{},
		}
		p.Add(s)
		p.Legend.Add("SELL", s)
	}

	return p, nil
}

func buildValuePlot(res *sim.Result) (*plot.Plot, error) {
	if len(res.Trades) == 0 {
		return nil, nil
	}

	p := plot.New()
	p.Y.Label.Text = "Portfolio"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}

	pts := make(plotter.XYs, len(res.Trades))
	for i, t := range res.Trades {
		v, _ := t.PortfolioValue.Float64()
		pts[i] = plotter.XY{X: float64(t.Time.Unix()), Y: v}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to create portfolio graph: %w", err)
	}

	p.Add(line)
	return p, nil
}

// seriesPoints pairs series values with bar timestamps, skipping the
// NaN warm up prefix so lines start at the first defined value.
func seriesPoints(bars []market.Bar, series []float64) plotter.XYs {
	var pts plotter.XYs
	for i, v := range series {
		if math.IsNaN(v) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(bars[i].Time.Unix()), Y: v})
	}

	return pts
}

func tradePoints(res *sim.Result) (buys, sells plotter.XYs) {
	for _, t := range res.Trades {
		price, _ := t.Price.Float64()
		pt := plotter.XY{X: float64(t.Time.Unix()), Y: price}

		if t.Action == sim.ACT_BUY {
			buys = append(buys, pt)
		} else {
			sells = append(sells, pt)
		}
	}

	return
}

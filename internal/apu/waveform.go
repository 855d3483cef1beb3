package apu

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// RenderWaveform runs the APU for the given number of output samples and
// plots the mixed stereo-left waveform to a PNG at path, a diagnostic aid
// for eyeballing channel synthesis (duty cycle, envelope decay, sweep)
// the way a scope would on real hardware. Not part of the timing core;
// used by APU tests and ad hoc debugging only.
func RenderWaveform(a *APU, samples int, path string) error {
	pts := make(plotter.XYs, 0, samples)

	a.OnSample = func(left, right float32) {
		pts = append(pts, plotter.XY{X: float64(len(pts)), Y: float64(left)})
	}
	defer func() { a.OnSample = nil }()

	cyclesPerSample := cpuClockHz / a.sampleRate
	for len(pts) < samples {
		for i := 0; i < cyclesPerSample; i++ {
			a.Tick()
		}
	}

	p := plot.New()
	p.Title.Text = "APU channel mix"
	p.X.Label.Text = "sample"
	p.Y.Label.Text = "amplitude"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("apu: waveform plot: %w", err)
	}
	p.Add(line)

	if err := p.Save(6*vg.Inch, 3*vg.Inch, path); err != nil {
		return fmt.Errorf("apu: waveform save: %w", err)
	}
	return nil
}

// Package apu implements the 4-channel audio processing unit: two pulse
// channels (one with frequency sweep), a programmable wave channel, and
// a noise channel, mixed down to stereo PCM through the hardware's 512Hz
// frame sequencer.
package apu

// channel is the state every one of the four channels shares: a length
// counter gated by NRx4 bit 6, and the frequency-timer/wave-generation
// step function each concrete channel wires up differently.
type channel struct {
	enabled    bool
	dacEnabled bool

	lengthCounter uint

	frequencyTimer       int32
	lengthCounterEnabled bool

	reloadFrequencyTimer func()
	stepWaveGeneration   func()
}

func newChannel() *channel { return &channel{} }

func (c *channel) isEnabled() bool { return c.enabled && c.dacEnabled }

func (c *channel) step() {
	c.frequencyTimer--
	if c.frequencyTimer <= 0 {
		c.reloadFrequencyTimer()
		c.stepWaveGeneration()
	}
}

func (c *channel) lengthStep() {
	if c.lengthCounterEnabled && c.lengthCounter > 0 {
		c.lengthCounter--
		if c.lengthCounter == 0 {
			c.enabled = false
		}
	}
}

// volumeChannel adds the envelope machinery shared by channels 1, 2, 4.
type volumeChannel struct {
	*channel

	startingVolume  uint8
	envelopeAddMode bool
	period          uint8

	volumeEnvelopeTimer uint8
	currentVolume       uint8
}

func newVolumeChannel(c *channel) *volumeChannel { return &volumeChannel{channel: c} }

func (v *volumeChannel) volumeStep() {
	if v.period == 0 {
		return
	}
	if v.volumeEnvelopeTimer > 0 {
		v.volumeEnvelopeTimer--
		if v.volumeEnvelopeTimer == 0 {
			v.volumeEnvelopeTimer = v.period
			if v.envelopeAddMode && v.currentVolume < 0xF {
				v.currentVolume++
			} else if !v.envelopeAddMode && v.currentVolume > 0 {
				v.currentVolume--
			}
		}
	}
}

func (v *volumeChannel) setNRx2(val uint8) {
	v.startingVolume = val >> 4
	v.envelopeAddMode = val&0x08 != 0
	v.period = val & 0x7
	v.dacEnabled = val&0xF8 > 0
	if !v.dacEnabled {
		v.enabled = false
	}
}

func (v *volumeChannel) getNRx2() uint8 {
	b := (v.startingVolume << 4) | v.period
	if v.envelopeAddMode {
		b |= 0x08
	}
	return b
}

func (v *volumeChannel) initVolumeEnvelope() {
	v.volumeEnvelopeTimer = v.period
	v.currentVolume = v.startingVolume
}

// dutyTable holds the 4 pulse waveform patterns (12.5%, 25%, 50%, 75%).
var dutyTable = [4][8]uint8{
	{0, 0, 0, 0, 0, 0, 0, 1},
	{1, 0, 0, 0, 0, 0, 0, 1},
	{1, 0, 0, 0, 0, 1, 1, 1},
	{0, 1, 1, 1, 1, 1, 1, 0},
}

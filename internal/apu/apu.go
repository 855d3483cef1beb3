package apu

import "github.com/retrocore/pocketcore/internal/types"

// SampleRate is the default host output rate the mixer resamples down to;
// SetSampleRate overrides it for hosts whose audio device runs elsewhere.
const SampleRate = 44100

// cpuClockHz is the Game Boy's master clock, used to derive how many
// master clocks separate two consecutive mixed samples.
const cpuClockHz = 4194304

// APU owns all four channels, the 512Hz frame sequencer, and the stereo
// mixer. Register writes while powered off are ignored (NR52 bit 7), and
// powering off zeroes every channel register.
type APU struct {
	ch1 *channel1
	ch2 *channel2
	ch3 *channel3
	ch4 *channel4

	powered bool

	frameSequencerStep uint8
	frameSequencerTick int32

	leftVolume, rightVolume         uint8
	leftVinEnabled, rightVinEnabled bool
	channelEnable                   uint8 // NR51 panning bits

	sampleTimer int32
	sampleRate  int

	// OnSample is called once per resampled stereo frame with values in
	// [-1, 1]; the host mixes/queues these to its own audio device. Left
	// nil, samples are simply discarded (useful for headless/tool runs).
	OnSample func(left, right float32)
}

func New() *APU {
	return &APU{
		ch1:        newChannel1(),
		ch2:        newChannel2(),
		ch3:        newChannel3(),
		ch4:        newChannel4(),
		sampleRate: SampleRate,
	}
}

// SetSampleRate changes the mixer's output rate. Call before stepping; a
// mid-run change just alters the spacing of subsequent OnSample calls.
func (a *APU) SetSampleRate(hz int) {
	if hz > 0 {
		a.sampleRate = hz
	}
}

// firstHalfOfLengthPeriod reports whether the upcoming frame-sequencer
// step leaves the length counter unclocked, which is the condition under
// which the "extra length clock" trigger quirk applies.
func (a *APU) firstHalfOfLengthPeriod() bool {
	return a.frameSequencerStep%2 == 1
}

// Tick advances the APU by one machine cycle (4 master clocks): every
// channel's frequency timer, the 512Hz frame sequencer, and the output
// sample accumulator, in that fixed order every cycle.
func (a *APU) Tick() {
	if a.powered {
		for i := 0; i < 4; i++ {
			a.ch1.step()
			a.ch2.step()
			a.ch3.step()
			a.ch4.step()
		}

		a.frameSequencerTick += 4
		if a.frameSequencerTick >= 8192 { // 4194304 / 512
			a.frameSequencerTick -= 8192
			a.stepFrameSequencer()
		}
	}

	// the sample accumulator keeps running with sound off so the host's
	// audio callback is fed silence rather than starved.
	a.sampleTimer += 4
	if a.sampleTimer >= int32(cpuClockHz/a.sampleRate) {
		a.sampleTimer -= int32(cpuClockHz / a.sampleRate)
		a.mixSample()
	}
}

// stepFrameSequencer fans the 512Hz clock out to the 256Hz length clock
// (every even step), the 128Hz sweep clock (steps 2 and 6), and the 64Hz
// envelope clock (step 7), matching real hardware's sequencer table.
func (a *APU) stepFrameSequencer() {
	switch a.frameSequencerStep {
	case 0, 4:
		a.clockLength()
	case 2, 6:
		a.clockLength()
		a.ch1.sweepClock()
	case 7:
		a.clockVolume()
	}
	a.frameSequencerStep = (a.frameSequencerStep + 1) & 0x7
}

func (a *APU) clockLength() {
	a.ch1.lengthStep()
	a.ch2.lengthStep()
	a.ch3.lengthStep()
	a.ch4.lengthStep()
}

func (a *APU) clockVolume() {
	a.ch1.volumeStep()
	a.ch2.volumeStep()
	a.ch4.volumeStep()
}

func (a *APU) mixSample() {
	if a.OnSample == nil {
		return
	}
	c1, c2, c3, c4 := a.ch1.amplitude(), a.ch2.amplitude(), a.ch3.amplitude(), a.ch4.amplitude()

	var left, right float32
	if a.channelEnable&0x10 != 0 {
		left += c1
	}
	if a.channelEnable&0x20 != 0 {
		left += c2
	}
	if a.channelEnable&0x40 != 0 {
		left += c3
	}
	if a.channelEnable&0x80 != 0 {
		left += c4
	}
	if a.channelEnable&0x01 != 0 {
		right += c1
	}
	if a.channelEnable&0x02 != 0 {
		right += c2
	}
	if a.channelEnable&0x04 != 0 {
		right += c3
	}
	if a.channelEnable&0x08 != 0 {
		right += c4
	}

	left = left / 4 * (float32(a.leftVolume+1) / 8)
	right = right / 4 * (float32(a.rightVolume+1) / 8)
	a.OnSample(left, right)
}

func (a *APU) ReadRegister(addr uint16) uint8 {
	switch addr {
	case types.NR10:
		return a.ch1.readNR10()
	case types.NR11:
		return a.ch1.readNR11()
	case types.NR12:
		return a.ch1.getNRx2()
	case types.NR14:
		return a.ch1.readNR14()
	case types.NR21:
		return a.ch2.readNR21()
	case types.NR22:
		return a.ch2.getNRx2()
	case types.NR24:
		return a.ch2.readNR24()
	case types.NR30:
		return a.ch3.readNR30()
	case types.NR32:
		return a.ch3.readNR32()
	case types.NR34:
		return a.ch3.readNR34()
	case types.NR42:
		return a.ch4.getNRx2()
	case types.NR43:
		return a.ch4.readNR43()
	case types.NR44:
		return a.ch4.readNR44()
	case types.NR50:
		return a.readNR50()
	case types.NR51:
		return a.channelEnable
	case types.NR52:
		return a.readNR52()
	}
	if addr >= types.WaveRAMStart && addr < types.WaveRAMStart+16 {
		return a.ch3.readWaveRAM(addr)
	}
	return 0xFF
}

func (a *APU) WriteRegister(addr uint16, v uint8) {
	if addr >= types.WaveRAMStart && addr < types.WaveRAMStart+16 {
		a.ch3.writeWaveRAM(addr, v)
		return
	}
	if addr == types.NR52 {
		a.writeNR52(v)
		return
	}
	if !a.powered {
		return // all other registers ignore writes while powered off
	}

	switch addr {
	case types.NR10:
		a.ch1.writeNR10(v)
	case types.NR11:
		a.ch1.writeNR11(v)
	case types.NR12:
		a.ch1.setNRx2(v)
	case types.NR13:
		a.ch1.writeNR13(v)
	case types.NR14:
		a.ch1.writeNR14(v, a.firstHalfOfLengthPeriod())
	case types.NR21:
		a.ch2.writeNR21(v)
	case types.NR22:
		a.ch2.setNRx2(v)
	case types.NR23:
		a.ch2.writeNR23(v)
	case types.NR24:
		a.ch2.writeNR24(v, a.firstHalfOfLengthPeriod())
	case types.NR30:
		a.ch3.writeNR30(v)
	case types.NR31:
		a.ch3.writeNR31(v)
	case types.NR32:
		a.ch3.writeNR32(v)
	case types.NR33:
		a.ch3.writeNR33(v)
	case types.NR34:
		a.ch3.writeNR34(v, a.firstHalfOfLengthPeriod())
	case types.NR41:
		a.ch4.writeNR41(v)
	case types.NR42:
		a.ch4.setNRx2(v)
	case types.NR43:
		a.ch4.writeNR43(v)
	case types.NR44:
		a.ch4.writeNR44(v, a.firstHalfOfLengthPeriod())
	case types.NR50:
		a.writeNR50(v)
	case types.NR51:
		a.channelEnable = v
	}
}

func (a *APU) writeNR50(v uint8) {
	a.rightVolume = v & 0x07
	a.rightVinEnabled = v&0x08 != 0
	a.leftVolume = (v >> 4) & 0x07
	a.leftVinEnabled = v&0x80 != 0
}

func (a *APU) readNR50() uint8 {
	b := a.rightVolume | a.leftVolume<<4
	if a.rightVinEnabled {
		b |= 0x08
	}
	if a.leftVinEnabled {
		b |= 0x80
	}
	return b
}

// writeNR52 handles the master power switch. Powering off zeroes every
// other register (real hardware can't be written to with sound off) and
// powering back on resets the frame sequencer to step 0.
func (a *APU) writeNR52(v uint8) {
	wasPowered := a.powered
	a.powered = v&0x80 != 0
	if wasPowered && !a.powered {
		a.ch1 = newChannel1()
		a.ch2 = newChannel2()
		a.ch3 = newChannel3()
		a.ch4 = newChannel4()
		a.leftVolume, a.rightVolume = 0, 0
		a.leftVinEnabled, a.rightVinEnabled = false, false
		a.channelEnable = 0
	} else if !wasPowered && a.powered {
		a.frameSequencerStep = 0
		a.frameSequencerTick = 0
	}
}

func (a *APU) readNR52() uint8 {
	b := uint8(0x70) // bits 4-6 unused, always 1
	if a.powered {
		b |= 0x80
	}
	if a.ch1.isEnabled() {
		b |= 0x01
	}
	if a.ch2.isEnabled() {
		b |= 0x02
	}
	if a.ch3.isEnabled() {
		b |= 0x04
	}
	if a.ch4.isEnabled() {
		b |= 0x08
	}
	return b
}

var _ types.Stater = (*APU)(nil)

func (a *APU) Save(s *types.State) {
	s.WriteBool(a.powered)
	s.Write8(a.frameSequencerStep)
	s.Write32(uint32(a.frameSequencerTick))
	s.Write8(a.leftVolume)
	s.Write8(a.rightVolume)
	s.WriteBool(a.leftVinEnabled)
	s.WriteBool(a.rightVinEnabled)
	s.Write8(a.channelEnable)
	s.Write32(uint32(a.sampleTimer))

	s.Write8(a.ch1.duty)
	s.Write8(a.ch1.lengthLoad)
	s.Write16(a.ch1.frequency)
	s.Write8(a.ch1.waveDutyPosition)
	s.Write8(a.ch1.sweepPeriod)
	s.WriteBool(a.ch1.sweepNegate)
	s.Write8(a.ch1.sweepShift)
	s.Write8(a.ch1.sweepTimer)
	s.Write16(a.ch1.frequencyShadow)
	s.WriteBool(a.ch1.sweepEnabled)
	s.WriteBool(a.ch1.negateHasHappened)
	a.saveVolumeChannel(s, a.ch1.volumeChannel)

	s.Write8(a.ch2.duty)
	s.Write8(a.ch2.lengthLoad)
	s.Write16(a.ch2.frequency)
	s.Write8(a.ch2.waveDutyPosition)
	a.saveVolumeChannel(s, a.ch2.volumeChannel)

	s.WriteData(a.ch3.waveRAM[:])
	s.Write8(a.ch3.waveRAMPosition)
	s.Write8(a.ch3.waveRAMSampleBuffer)
	s.Write8(a.ch3.ticksSinceRead)
	s.Write8(a.ch3.lengthLoad)
	s.Write8(a.ch3.volumeCode)
	s.Write16(a.ch3.frequency)
	a.saveChannel(s, a.ch3.channel)

	s.Write8(a.ch4.lengthLoad)
	s.Write8(a.ch4.clockShift)
	s.WriteBool(a.ch4.widthMode)
	s.Write8(a.ch4.divisorCode)
	s.Write16(a.ch4.lfsr)
	a.saveVolumeChannel(s, a.ch4.volumeChannel)
}

func (a *APU) Load(s *types.State) {
	a.powered = s.ReadBool()
	a.frameSequencerStep = s.Read8()
	a.frameSequencerTick = int32(s.Read32())
	a.leftVolume = s.Read8()
	a.rightVolume = s.Read8()
	a.leftVinEnabled = s.ReadBool()
	a.rightVinEnabled = s.ReadBool()
	a.channelEnable = s.Read8()
	a.sampleTimer = int32(s.Read32())

	a.ch1.duty = s.Read8()
	a.ch1.lengthLoad = s.Read8()
	a.ch1.frequency = s.Read16()
	a.ch1.waveDutyPosition = s.Read8()
	a.ch1.sweepPeriod = s.Read8()
	a.ch1.sweepNegate = s.ReadBool()
	a.ch1.sweepShift = s.Read8()
	a.ch1.sweepTimer = s.Read8()
	a.ch1.frequencyShadow = s.Read16()
	a.ch1.sweepEnabled = s.ReadBool()
	a.ch1.negateHasHappened = s.ReadBool()
	a.loadVolumeChannel(s, a.ch1.volumeChannel)

	a.ch2.duty = s.Read8()
	a.ch2.lengthLoad = s.Read8()
	a.ch2.frequency = s.Read16()
	a.ch2.waveDutyPosition = s.Read8()
	a.loadVolumeChannel(s, a.ch2.volumeChannel)

	s.ReadData(a.ch3.waveRAM[:])
	a.ch3.waveRAMPosition = s.Read8()
	a.ch3.waveRAMSampleBuffer = s.Read8()
	a.ch3.ticksSinceRead = s.Read8()
	a.ch3.lengthLoad = s.Read8()
	a.ch3.volumeCode = s.Read8()
	switch a.ch3.volumeCode {
	case 0b00:
		a.ch3.volumeCodeShift = 4
	case 0b01:
		a.ch3.volumeCodeShift = 0
	case 0b10:
		a.ch3.volumeCodeShift = 1
	case 0b11:
		a.ch3.volumeCodeShift = 2
	}
	a.ch3.frequency = s.Read16()
	a.loadChannel(s, a.ch3.channel)

	a.ch4.lengthLoad = s.Read8()
	a.ch4.clockShift = s.Read8()
	a.ch4.widthMode = s.ReadBool()
	a.ch4.divisorCode = s.Read8()
	a.ch4.lfsr = s.Read16()
	a.loadVolumeChannel(s, a.ch4.volumeChannel)
}

func (a *APU) saveChannel(s *types.State, c *channel) {
	s.WriteBool(c.enabled)
	s.WriteBool(c.dacEnabled)
	s.Write32(uint32(c.lengthCounter))
	s.Write32(uint32(c.frequencyTimer))
	s.WriteBool(c.lengthCounterEnabled)
}

func (a *APU) loadChannel(s *types.State, c *channel) {
	c.enabled = s.ReadBool()
	c.dacEnabled = s.ReadBool()
	c.lengthCounter = uint(s.Read32())
	c.frequencyTimer = int32(s.Read32())
	c.lengthCounterEnabled = s.ReadBool()
}

func (a *APU) saveVolumeChannel(s *types.State, v *volumeChannel) {
	a.saveChannel(s, v.channel)
	s.Write8(v.startingVolume)
	s.WriteBool(v.envelopeAddMode)
	s.Write8(v.period)
	s.Write8(v.volumeEnvelopeTimer)
	s.Write8(v.currentVolume)
}

func (a *APU) loadVolumeChannel(s *types.State, v *volumeChannel) {
	a.loadChannel(s, v.channel)
	v.startingVolume = s.Read8()
	v.envelopeAddMode = s.ReadBool()
	v.period = s.Read8()
	v.volumeEnvelopeTimer = s.Read8()
	v.currentVolume = s.Read8()
}

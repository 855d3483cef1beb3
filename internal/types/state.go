package types

import (
	"fmt"

	"github.com/cespare/xxhash"
)

// StateVersion is bumped whenever the shape of a Save/Load pair changes in
// a way that would make an old save state unsafe to load.
const StateVersion = 1

// Stater is implemented by every component whose state is captured in a
// save-state container.
type Stater interface {
	Save(*State)
	Load(*State)
}

// State is an append-only write cursor / sequential read cursor over a
// byte slice, used to build and consume the save-state container. Order
// and sizes of the Save/Load calls across the owning tree are fixed by
// convention: the same sequence of Stater.Save calls must be mirrored by
// Stater.Load calls in the same order.
type State struct {
	raw  []byte
	read int
}

// NewState returns an empty State ready for writing.
func NewState() *State {
	return &State{raw: make([]byte, 0, 4096)}
}

// StateFromBytes wraps raw for reading.
func StateFromBytes(raw []byte) *State {
	return &State{raw: raw}
}

func (s *State) Write8(v uint8) { s.raw = append(s.raw, v) }

func (s *State) Write16(v uint16) { s.raw = append(s.raw, byte(v), byte(v>>8)) }

func (s *State) Write32(v uint32) {
	s.raw = append(s.raw, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func (s *State) WriteBool(v bool) {
	if v {
		s.raw = append(s.raw, 1)
	} else {
		s.raw = append(s.raw, 0)
	}
}

func (s *State) WriteData(data []byte) { s.raw = append(s.raw, data...) }

func (s *State) Read8() uint8 {
	v := s.raw[s.read]
	s.read++
	return v
}

func (s *State) Read16() uint16 {
	v := uint16(s.raw[s.read]) | uint16(s.raw[s.read+1])<<8
	s.read += 2
	return v
}

func (s *State) Read32() uint32 {
	v := uint32(s.raw[s.read]) | uint32(s.raw[s.read+1])<<8 |
		uint32(s.raw[s.read+2])<<16 | uint32(s.raw[s.read+3])<<24
	s.read += 4
	return v
}

func (s *State) ReadBool() bool {
	v := s.raw[s.read] != 0
	s.read++
	return v
}

func (s *State) ReadData(p []byte) {
	copy(p, s.raw[s.read:])
	s.read += len(p)
}

// Bytes returns the accumulated payload written so far (without the
// version/digest envelope; see EncodeContainer).
func (s *State) Bytes() []byte { return s.raw }

// EncodeContainer wraps a fully-written State in a small versioned,
// digest-checked envelope suitable for writing to a save-state file.
func EncodeContainer(s *State) []byte {
	payload := s.Bytes()
	out := make([]byte, 0, len(payload)+12)
	v := State{}
	v.Write32(StateVersion)
	digest := xxhash.Sum64(payload)
	v.Write32(uint32(len(payload)))
	out = append(out, v.raw...)
	var digestBuf [8]byte
	for i := range digestBuf {
		digestBuf[i] = byte(digest >> (8 * i))
	}
	out = append(out, digestBuf[:]...)
	out = append(out, payload...)
	return out
}

// DecodeContainer validates and unwraps a container produced by
// EncodeContainer, returning a State positioned to read the payload.
// A version mismatch or corrupt payload fails cleanly with an error; the
// caller's prior emulation state is left untouched.
func DecodeContainer(raw []byte) (*State, error) {
	if len(raw) < 16 {
		return nil, fmt.Errorf("state: container too short (%d bytes)", len(raw))
	}
	version := uint32(raw[0]) | uint32(raw[1])<<8 | uint32(raw[2])<<16 | uint32(raw[3])<<24
	if version != StateVersion {
		return nil, fmt.Errorf("state: version mismatch: have %d, want %d", version, StateVersion)
	}
	length := uint32(raw[4]) | uint32(raw[5])<<8 | uint32(raw[6])<<16 | uint32(raw[7])<<24
	var wantDigest uint64
	for i := 0; i < 8; i++ {
		wantDigest |= uint64(raw[8+i]) << (8 * i)
	}
	payload := raw[16:]
	if uint32(len(payload)) != length {
		return nil, fmt.Errorf("state: truncated payload: have %d bytes, want %d", len(payload), length)
	}
	if got := xxhash.Sum64(payload); got != wantDigest {
		return nil, fmt.Errorf("state: digest mismatch: corrupt save state")
	}
	return StateFromBytes(payload), nil
}

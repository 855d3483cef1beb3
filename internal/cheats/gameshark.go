package cheats

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// GameShark holds the loaded Game Shark codes. Unlike Game Genie codes,
// these are RAM pokes rather than ROM read intercepts: the bus re-applies
// every enabled code once per frame.
type GameShark struct {
	Codes []GameSharkCode
}

// GameSharkCode is one decoded eight-digit code, written ABCDEFGH: AB is
// the external RAM bank, CD the byte to poke, and GHEF the little-endian
// target address.
type GameSharkCode struct {
	ExternalRAMBank uint8
	Address         uint16
	NewData         uint8

	Name    string
	Enabled bool
	rawCode string
}

func parseGameSharkCode(code string) (GameSharkCode, error) {
	if len(code) != 8 {
		return GameSharkCode{}, fmt.Errorf("cheats: game shark code %q: want 8 characters, have %d", code, len(code))
	}

	ab, err := strconv.ParseUint(code[0:2], 16, 8)
	if err != nil {
		return GameSharkCode{}, err
	}
	cd, err := strconv.ParseUint(code[2:4], 16, 8)
	if err != nil {
		return GameSharkCode{}, err
	}
	// the address digits arrive as EFGH (low byte first); swap the byte
	// pairs to read them as the 16-bit address GHEF
	efgh, err := strconv.ParseUint(code[6:8]+code[4:6], 16, 16)
	if err != nil {
		return GameSharkCode{}, err
	}

	return GameSharkCode{
		ExternalRAMBank: uint8(ab),
		NewData:         uint8(cd),
		Address:         uint16(efgh),
	}, nil
}

func NewGameShark() *GameShark {
	return &GameShark{}
}

// Load parses code and adds it under the given name. Names are unique;
// loading a second code under an existing name is an error.
func (g *GameShark) Load(code, name string) error {
	for i := range g.Codes {
		if g.Codes[i].Name == name {
			return fmt.Errorf("cheats: code already loaded: %s", name)
		}
	}

	c, err := parseGameSharkCode(code)
	if err != nil {
		return err
	}
	c.Name = name
	c.rawCode = code
	g.Codes = append(g.Codes, c)
	return nil
}

// Enable turns on the code loaded under name.
func (g *GameShark) Enable(name string) error {
	return g.setEnabled(name, true)
}

// Disable turns off the code loaded under name.
func (g *GameShark) Disable(name string) error {
	return g.setEnabled(name, false)
}

func (g *GameShark) setEnabled(name string, enabled bool) error {
	for i := range g.Codes {
		if g.Codes[i].Name == name {
			g.Codes[i].Enabled = enabled
			return nil
		}
	}
	return fmt.Errorf("cheats: code not found: %s", name)
}

// Apply pokes every enabled code's NewData through the given bus write.
func (g *GameShark) Apply(write func(addr uint16, value uint8)) {
	for i := range g.Codes {
		if c := &g.Codes[i]; c.Enabled {
			write(c.Address, c.NewData)
		}
	}
}

// Save writes the loaded codes to file, one "code name" pair per line.
func (g *GameShark) Save(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, c := range g.Codes {
		if _, err := fmt.Fprintf(f, "%s %s\n", c.rawCode, c.Name); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile loads codes from a file written by Save.
func (g *GameShark) LoadFile(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		code, name, _ := strings.Cut(scanner.Text(), " ")
		if code == "" {
			continue
		}
		if err := g.Load(code, name); err != nil {
			return err
		}
	}
	return scanner.Err()
}

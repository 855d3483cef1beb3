package cartridge

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bodgit/sevenzip"
)

// LoadROM reads a ROM image from disk, transparently decompressing a
// handful of common archive formats so a host can hand a raw .gb/.gbc
// file or a zipped/7z'd dump to New without caring which.
func LoadROM(filename string) ([]byte, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	switch filepath.Ext(filename) {
	case ".gb", ".gbc":
		return data, nil
	case ".gz":
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return io.ReadAll(r)
	case ".zip":
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, err
		}
		return firstROMInZip(zr)
	case ".7z":
		sr, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, err
		}
		return firstROMInSevenZip(sr)
	default:
		return data, nil
	}
}

func firstROMInZip(zr *zip.Reader) ([]byte, error) {
	if len(zr.File) == 0 {
		return nil, fmt.Errorf("cartridge: zip archive is empty")
	}
	rc, err := zr.File[0].Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func firstROMInSevenZip(sr *sevenzip.Reader) ([]byte, error) {
	if len(sr.File) == 0 {
		return nil, fmt.Errorf("cartridge: 7z archive is empty")
	}
	rc, err := sr.File[0].Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

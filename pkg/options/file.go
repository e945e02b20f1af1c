package options

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
)

// LoadFile reads a human-edited kvforge config file at path — JSON that may
// contain comments and trailing commas, per the hujson dialect — and
// returns the Options it describes layered on top of the defaults. A
// missing file is not an error: it yields NewDefaultOptions() unchanged, so
// callers can always point at an optional config path.
func LoadFile(path string) (Options, error) {
	opts := NewDefaultOptions()

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return opts, err
	}

	standard, err := hujson.Standardize(raw)
	if err != nil {
		return opts, err
	}
	if err := json.Unmarshal(standard, &opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// SaveFile writes opts to path as formatted JSON, replacing the file
// atomically (write-temp-then-rename via natefinch/atomic) so a crash
// mid-write never leaves a torn config file behind.
func SaveFile(path string, opts Options) error {
	data, err := json.MarshalIndent(opts, "", "  ")
	if err != nil {
		return err
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}

package ambient

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var trackExts = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".flac": true,
	".ogg":  true,
}

// IsSupportedExt reports whether files with this extension can be looped.
func IsSupportedExt(ext string) bool {
	return trackExts[strings.ToLower(ext)]
}

// SupportedExtsList returns a human-readable list of loopable formats.
func SupportedExtsList() string {
	return ".mp3, .wav, .flac, .ogg"
}

// ListTracks returns the supported track files directly inside dir, sorted
// by name.
func ListTracks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !IsSupportedExt(filepath.Ext(e.Name())) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

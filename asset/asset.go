package asset

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/reconquest/karma-go"
	"github.com/reconquest/pkg/log"
)

// Asset is a binary file generated while compiling a deck, e.g. a diagram
// rasterised to PNG.
type Asset struct {
	Name      string
	Filename  string
	FileBytes []byte
	Checksum  string
	Width     string
	Height    string
}

type Collector interface {
	Collect(Asset)
}

// DataURI inlines the asset so a deck printed to stdout stays
// self-contained.
func (asset Asset) DataURI() string {
	return "data:" + http.DetectContentType(asset.FileBytes) + ";base64," +
		base64.StdEncoding.EncodeToString(asset.FileBytes)
}

// Write stores assets in dir, files whose checksum did not change are left
// untouched.
func Write(dir string, assets []Asset) error {
	if len(assets) == 0 {
		return nil
	}

	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return karma.Format(err, "unable to create assets directory: %q", dir)
	}

	for _, asset := range assets {
		path := filepath.Join(dir, asset.Filename)

		same, err := hasChecksum(path, asset.Checksum)
		if err != nil {
			return err
		}

		if same {
			log.Infof(nil, "keeping unmodified asset: %q", asset.Name)
			continue
		}

		log.Infof(nil, "writing asset: %q", path)

		err = os.WriteFile(path, asset.FileBytes, 0o644)
		if err != nil {
			return karma.Format(err, "unable to write asset %q", asset.Name)
		}
	}

	return nil
}

func hasChecksum(path string, checksum string) (bool, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, karma.Format(err, "unable to read existing asset: %q", path)
	}

	existing, err := GetChecksum(bytes.NewReader(contents))
	if err != nil {
		return false, err
	}

	return existing == checksum, nil
}

func GetChecksum(reader io.Reader) (string, error) {
	hash := sha256.New()
	if _, err := io.Copy(hash, reader); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

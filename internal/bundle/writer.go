package bundle

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/toyz/iocscan/internal/errors"
)

// Write encodes a bundle holding manifest and resources. Resources are
// written in lexical order so equal inputs produce equal archives.
func Write(w io.Writer, manifest *Manifest, resources map[string][]byte) error {
	if manifest == nil {
		return errors.NewPreconditionError("manifest", "must not be nil")
	}
	if _, clash := resources[ManifestName]; clash {
		return errors.NewPreconditionError("resources", fmt.Sprintf("'%s' is reserved for the manifest", ManifestName))
	}

	data, err := manifest.Marshal()
	if err != nil {
		return errors.WrapWithOperation("encode", "manifest", err)
	}

	zw := zip.NewWriter(w)
	if err := writeEntry(zw, ManifestName, data); err != nil {
		return err
	}

	names := make([]string, 0, len(resources))
	for name := range resources {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writeEntry(zw, name, resources[name]); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return errors.WrapWithOperation("finish", "bundle", err)
	}
	return nil
}

// Bytes encodes a bundle into memory.
func Bytes(manifest *Manifest, resources map[string][]byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, manifest, resources); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile encodes a bundle to path.
func WriteFile(path string, manifest *Manifest, resources map[string][]byte) error {
	data, err := Bytes(manifest, resources)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapWithOperation("write", path, err)
	}
	return nil
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	f, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return errors.WrapWithOperation("add", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return errors.WrapWithOperation("write", name, err)
	}
	return nil
}

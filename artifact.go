package autograph

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"regexp"
)

// whitespace matches the runs of blank characters replaced in the exported filename.
var whitespace = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)

// Artifact is the outcome of a successful composition: the signature placed over the rule and the signer's name.
type Artifact struct {
	// Name is the signer's name exactly as it was typed.
	Name string
	// Image is the composed bitmap.
	Image *image.NRGBA
	// Data holds the PNG encoding of Image.
	Data []byte
}

// Filename returns the suggested name of the exported file.
func (a *Artifact) Filename() string {
	return "assinatura_" + whitespace.ReplaceAllString(a.Name, "_") + ".png"
}

// WriteTo writes the PNG encoded artifact into w.
func (a *Artifact) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(a.Data)
	return int64(n), err
}

// Export saves the artifact into the dir folder, using the suggested filename.
// Exporting before anything has been generated is not an error: it does nothing and returns an empty path.
func Export(a *Artifact, dir string) (string, error) {
	if a == nil {
		return "", nil
	}
	path := filepath.Join(dir, a.Filename())
	if err := os.WriteFile(path, a.Data, 0o644); err != nil {
		return "", fmt.Errorf("could not save the signature: %w", err)
	}
	return path, nil
}

package templates

import (
	"fmt"
	"io"
)

// WriteText writes a template as a line based record file: a header naming
// the version and convention, the image geometry, then one x y theta
// quality row per minutia.
func WriteText(w io.Writer, t *Template, c Convention) error {
	recs, err := Export(t, c)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "FPT %d %s\n%d %d %g %d\n%d\n",
		Version, c, t.Width, t.Height, t.PixPerMM, t.NumDirections, len(recs))
	if err != nil {
		return fmt.Errorf("failed to write template text: %w", err)
	}
	for _, r := range recs {
		if _, err := fmt.Fprintf(w, "%d %d %d %d\n", r.X, r.Y, r.Theta, r.Quality); err != nil {
			return fmt.Errorf("failed to write template text: %w", err)
		}
	}
	return nil
}

// ParseText reads the format written by WriteText and rebuilds the
// template through the named convention.
func ParseText(r io.Reader) (*Template, error) {
	var (
		magic, conv         string
		version, w, h, n, c int
		ppmm                float64
	)
	if _, err := fmt.Fscan(r, &magic, &version, &conv, &w, &h, &ppmm, &n, &c); err != nil {
		return nil, fmt.Errorf("failed to parse template text: %w", err)
	}
	if magic != "FPT" || version != Version {
		return nil, ErrVersion
	}
	cv, err := parseConvention(conv)
	if err != nil {
		return nil, err
	}
	if w <= 0 || h <= 0 || n <= 0 || c < 0 {
		return nil, ErrFormat
	}
	recs := make([]RecordMinutia, c)
	for i := range recs {
		if _, err := fmt.Fscan(r, &recs[i].X, &recs[i].Y, &recs[i].Theta, &recs[i].Quality); err != nil {
			return nil, fmt.Errorf("failed to parse template text: %w", err)
		}
	}
	return Import(recs, cv, w, h, ppmm, n)
}

package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/user/studio-review/annotation"
	"github.com/user/studio-review/render"
)

// WriteSVGs writes one w×h SVG per annotation into dir and returns the
// paths in list order.
func WriteSVGs(dir string, list []annotation.Annotation, w, h float64) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	paths := make([]string, 0, len(list))
	for i, a := range list {
		name := fmt.Sprintf("%02d-%s.svg", i+1, sanitize(a.DisplayName(i+1)))
		path := filepath.Join(dir, name)
		svg := render.SVG(render.Shapes(a.Shapes), w, h)
		if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
			return paths, fmt.Errorf("write %s: %w", name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

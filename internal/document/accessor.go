package document

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// readFloatAccessor decodes a float accessor of any supported dimension
// into a flat slice, keyframe-major.
func readFloatAccessor(doc *gltf.Document, acc *gltf.Accessor) ([]float32, error) {
	data, err := modeler.ReadAccessor(doc, acc, nil)
	if err != nil {
		return nil, err
	}
	switch v := data.(type) {
	case []float32:
		return v, nil
	case [][2]float32:
		out := make([]float32, 0, len(v)*2)
		for _, e := range v {
			out = append(out, e[0], e[1])
		}
		return out, nil
	case [][3]float32:
		out := make([]float32, 0, len(v)*3)
		for _, e := range v {
			out = append(out, e[0], e[1], e[2])
		}
		return out, nil
	case [][4]float32:
		out := make([]float32, 0, len(v)*4)
		for _, e := range v {
			out = append(out, e[0], e[1], e[2], e[3])
		}
		return out, nil
	default:
		return nil, fmt.Errorf("accessor holds %T, expected float data", data)
	}
}

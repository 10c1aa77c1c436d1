// pre_processor.go implements the WGSL shader pre-processor. It scans shader source
// for @geo: annotations, replaces them with injected struct source or generated
// @group/@binding declarations, and collects the declarations so the renderer can
// build bind group layouts without parsing WGSL itself.
package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/geosphere/engine/camera"
	"github.com/Carmen-Shannon/geosphere/engine/geodesic"
	"github.com/Carmen-Shannon/geosphere/engine/light"
)

// registryEntry pairs a WGSL struct source with the type name it declares.
type registryEntry struct {
	// Source is the raw WGSL struct definition text injected by @geo:include.
	Source string

	// Type is the WGSL type name emitted in @geo:group declarations.
	Type string
}

type preProcessor struct {
	structRegistry       map[AnnotationArg]registryEntry
	addressSpaceRegistry map[AnnotationArg]string
	declarations         []Annotation
}

// PreProcessor expands @geo: annotations in WGSL source.
type PreProcessor interface {
	// Process replaces every annotation in source with its WGSL output. The declarations
	// list is reset at the start of each call.
	//
	// Parameters:
	//   - source: the raw WGSL source
	//
	// Returns:
	//   - string: the processed WGSL source
	//   - error: an error if any annotation is malformed, unknown, or a group/binding pair is declared twice
	Process(source string) (string, error)

	// Declarations returns the group annotations collected by the last Process call, in source order.
	//
	// Returns:
	//   - []Annotation: the collected declarations
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the engine's GPU struct types registered.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		structRegistry: map[AnnotationArg]registryEntry{
			AnnotationArgCamera: {Source: camera.GPUCameraUniformSource, Type: "CameraUniform"},
			AnnotationArgVertex: {Source: geodesic.GPUVertexSource, Type: "VertexInput"},
			AnnotationArgLight:  {Source: light.GPULightUniformSource, Type: "LightUniform"},
		},
		addressSpaceRegistry: map[AnnotationArg]string{
			AnnotationArgUniform:     "var<uniform>",
			AnnotationArgStorageRead: "var<storage, read>",
		},
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]
	seen := make(map[[2]int]int)

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case annotationTypeInclude:
			entry, ok := p.structRegistry[a.Args[0]]
			if !ok {
				return "", fmt.Errorf("line %d: unknown @geo:include argument %q", i+1, a.Args[0])
			}
			out = append(out, strings.TrimRight(entry.Source, "\n"))
		case AnnotationTypeBindingGroup:
			key := [2]int{*a.Group, *a.Binding}
			if prev, dup := seen[key]; dup {
				return "", fmt.Errorf("line %d: group %d binding %d already declared on line %d", i+1, key[0], key[1], prev)
			}
			seen[key] = i + 1

			entry := p.structRegistry[a.Args[2]]
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;",
				*a.Group, *a.Binding, p.addressSpaceRegistry[a.Args[0]], a.Args[1], entry.Type))
			p.declarations = append(p.declarations, *a)
		default:
			return "", fmt.Errorf("line %d: unknown annotation type %q", i+1, a.Type)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}

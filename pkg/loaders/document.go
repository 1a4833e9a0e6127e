// Package loaders reads problem documents and builds transport problems
// from them.
package loaders

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a problem document
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the document format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: file extension of %s", ErrUnsupportedType, path)
	}
}

// Document is the decoded, structurally validated problem input. Names in it
// are not yet resolved.
type Document struct {
	Name          string             `yaml:"name" toml:"name" validate:"required"`
	Histories     uint64             `yaml:"histories" toml:"histories"`
	Distributions []DistributionSpec `yaml:"distributions" toml:"distributions" validate:"dive"`
	Nuclides      []NuclideSpec      `yaml:"nuclides" toml:"nuclides" validate:"dive"`
	Materials     []MaterialSpec     `yaml:"materials" toml:"materials" validate:"dive"`
	Surfaces      []SurfaceSpec      `yaml:"surfaces" toml:"surfaces" validate:"dive"`
	Cells         []CellSpec         `yaml:"cells" toml:"cells" validate:"required,min=1,dive"`
	Estimators    []EstimatorSpec    `yaml:"estimators" toml:"estimators" validate:"dive"`
	Source        SourceSpec         `yaml:"source" toml:"source"`
}

// DistributionSpec describes one named distribution. Which fields apply
// depends on Type and DataType.
type DistributionSpec struct {
	Name     string `yaml:"name" toml:"name" validate:"required"`
	Type     string `yaml:"type" toml:"type" validate:"required"`
	DataType string `yaml:"datatype" toml:"datatype" validate:"oneof=double int point"`

	// delta, uniform, linear
	A  float64 `yaml:"a" toml:"a"`
	B  float64 `yaml:"b" toml:"b"`
	FA float64 `yaml:"fa" toml:"fa"`
	FB float64 `yaml:"fb" toml:"fb"`

	// henyeyGreenstein
	G float64 `yaml:"g" toml:"g"`

	// meanMultiplicity, terrellFission (which also uses b)
	Nubar float64 `yaml:"nubar" toml:"nubar"`
	Sigma float64 `yaml:"sigma" toml:"sigma"`

	// point delta
	X float64 `yaml:"x" toml:"x"`
	Y float64 `yaml:"y" toml:"y"`
	Z float64 `yaml:"z" toml:"z"`

	// anisotropic: reference axis and cosine distribution
	U            float64 `yaml:"u" toml:"u"`
	V            float64 `yaml:"v" toml:"v"`
	W            float64 `yaml:"w" toml:"w"`
	Distribution string  `yaml:"distribution" toml:"distribution" validate:"required_if=Type anisotropic"`

	// independentXYZ
	XDistribution string `yaml:"xDistribution" toml:"xDistribution" validate:"required_if=Type independentXYZ"`
	YDistribution string `yaml:"yDistribution" toml:"yDistribution" validate:"required_if=Type independentXYZ"`
	ZDistribution string `yaml:"zDistribution" toml:"zDistribution" validate:"required_if=Type independentXYZ"`

	// discrete
	Values []DiscreteValue `yaml:"values" toml:"values" validate:"required_if=Type discrete,dive"`
}

// DiscreteValue is one outcome of a discrete distribution. Real and integer
// distributions use Value, point distributions use X, Y, Z.
type DiscreteValue struct {
	Value float64 `yaml:"value" toml:"value"`
	X     float64 `yaml:"x" toml:"x"`
	Y     float64 `yaml:"y" toml:"y"`
	Z     float64 `yaml:"z" toml:"z"`
	P     float64 `yaml:"p" toml:"p" validate:"gte=0"`
}

type NuclideSpec struct {
	Name      string         `yaml:"name" toml:"name" validate:"required"`
	Reactions []ReactionSpec `yaml:"reactions" toml:"reactions" validate:"dive"`
}

type ReactionSpec struct {
	Type         string  `yaml:"type" toml:"type" validate:"oneof=capture scatter fission"`
	XS           float64 `yaml:"xs" toml:"xs" validate:"gte=0"`
	Distribution string  `yaml:"distribution" toml:"distribution" validate:"required_if=Type scatter"`
	Multiplicity string  `yaml:"multiplicity" toml:"multiplicity" validate:"required_if=Type fission"`
	// Direction of fission secondaries, isotropic when empty
	Direction string `yaml:"direction" toml:"direction"`
}

type MaterialSpec struct {
	Name     string          `yaml:"name" toml:"name" validate:"required"`
	Density  float64         `yaml:"density" toml:"density" validate:"gt=0"`
	Nuclides []ComponentSpec `yaml:"nuclides" toml:"nuclides" validate:"dive"`
}

type ComponentSpec struct {
	Name     string  `yaml:"name" toml:"name" validate:"required"`
	Fraction float64 `yaml:"fraction" toml:"fraction" validate:"gte=0"`
}

// SurfaceSpec is a plane (a, b, c, d), sphere (x0, y0, z0, radius),
// cylinderx (y0, z0, radius) or cylinderz (x0, y0, radius)
type SurfaceSpec struct {
	Name       string  `yaml:"name" toml:"name" validate:"required"`
	Type       string  `yaml:"type" toml:"type" validate:"oneof=plane sphere cylinderx cylinderz"`
	A          float64 `yaml:"a" toml:"a"`
	B          float64 `yaml:"b" toml:"b"`
	C          float64 `yaml:"c" toml:"c"`
	D          float64 `yaml:"d" toml:"d"`
	X0         float64 `yaml:"x0" toml:"x0"`
	Y0         float64 `yaml:"y0" toml:"y0"`
	Z0         float64 `yaml:"z0" toml:"z0"`
	Radius     float64 `yaml:"radius" toml:"radius" validate:"gte=0"`
	Reflecting bool    `yaml:"reflecting" toml:"reflecting"`
}

type CellSpec struct {
	Name       string      `yaml:"name" toml:"name" validate:"required"`
	Material   string      `yaml:"material" toml:"material"`                               // empty for void
	Importance *float64    `yaml:"importance" toml:"importance" validate:"omitempty,gte=0"` // 1 when absent
	Surfaces   []BoundSpec `yaml:"surfaces" toml:"surfaces" validate:"dive"`
}

type BoundSpec struct {
	Name  string `yaml:"name" toml:"name" validate:"required"`
	Sense int    `yaml:"sense" toml:"sense" validate:"oneof=-1 1"`
}

// EstimatorSpec attaches an estimator to surfaces (current, countingSurface)
// or cells (countingCell, trackLength, track). A track estimator with no
// cells listed attaches to every cell.
type EstimatorSpec struct {
	Name     string   `yaml:"name" toml:"name" validate:"required"`
	Type     string   `yaml:"type" toml:"type" validate:"oneof=current countingSurface countingCell trackLength track"`
	Surfaces []string `yaml:"surfaces" toml:"surfaces"`
	Cells    []string `yaml:"cells" toml:"cells"`
}

type SourceSpec struct {
	Position  string `yaml:"position" toml:"position" validate:"required"`
	Direction string `yaml:"direction" toml:"direction" validate:"required"`
}

var validate = validator.New()

// ParseProblem decodes and validates a problem document
func ParseProblem(r io.Reader, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, configErr("document", "", fmt.Errorf("%w: %v", ErrInvalidProblem, err))
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&doc)
		if err != nil {
			return nil, configErr("document", "", fmt.Errorf("%w: %v", ErrInvalidProblem, err))
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, configErrf("document", "", ErrInvalidProblem, "unknown keys %v", undecoded)
		}
	default:
		return nil, fmt.Errorf("%w: format %q", ErrUnsupportedType, format)
	}

	if err := validate.Struct(&doc); err != nil {
		return nil, configErr("document", doc.Name, fmt.Errorf("%w: %v", ErrInvalidProblem, err))
	}
	return &doc, nil
}

// LoadDocument reads a problem document from a file
func LoadDocument(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open problem file: %w", err)
	}
	defer file.Close()

	return ParseProblem(file, format)
}

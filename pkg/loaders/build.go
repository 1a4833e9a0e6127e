package loaders

import (
	"fmt"
	"strings"

	"github.com/df07/go-particle-transport/pkg/core"
	"github.com/df07/go-particle-transport/pkg/distribution"
	"github.com/df07/go-particle-transport/pkg/geometry"
	"github.com/df07/go-particle-transport/pkg/material"
	"github.com/df07/go-particle-transport/pkg/tally"
	"github.com/df07/go-particle-transport/pkg/transport"
)

// Distribution data types
const (
	dataReal  = "double"
	dataInt   = "int"
	dataPoint = "point"
)

// LoadProblem reads a problem file and builds it
func LoadProblem(path string) (*transport.Problem, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	return BuildProblem(doc)
}

// BuildProblem resolves every name in the document and returns the problem.
// Any reference that cannot be resolved is an error.
func BuildProblem(doc *Document) (*transport.Problem, error) {
	b := &builder{
		doc:       doc,
		reals:     make(map[string]distribution.Distribution[float64]),
		ints:      make(map[string]distribution.Distribution[int]),
		points:    make(map[string]distribution.Distribution[core.Vec3]),
		nuclides:  make(map[string]*material.Nuclide),
		materials: make(map[string]*material.Material),
		surfaces:  make(map[string]geometry.Surface),
		cells:     make(map[string]*geometry.Cell),
		problem:   &transport.Problem{Name: doc.Name, Histories: doc.Histories},
	}

	steps := []func() error{
		b.buildDistributions,
		b.buildNuclides,
		b.buildMaterials,
		b.buildSurfaces,
		b.buildCells,
		b.buildEstimators,
		b.buildSource,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return b.problem, nil
}

type builder struct {
	doc *Document

	reals  map[string]distribution.Distribution[float64]
	ints   map[string]distribution.Distribution[int]
	points map[string]distribution.Distribution[core.Vec3]
	// declared maps every distribution name to its data type
	declared map[string]string

	nuclides  map[string]*material.Nuclide
	materials map[string]*material.Material
	surfaces  map[string]geometry.Surface
	cells     map[string]*geometry.Cell

	problem *transport.Problem
}

// buildDistributions constructs distributions in passes, each pass building
// every distribution whose dependencies already exist, until all are built
// or a pass makes no progress
func (b *builder) buildDistributions() error {
	b.declared = make(map[string]string, len(b.doc.Distributions))
	for _, spec := range b.doc.Distributions {
		if _, dup := b.declared[spec.Name]; dup {
			return configErrf("distribution", spec.Name, ErrDuplicateName, "declared more than once")
		}
		b.declared[spec.Name] = spec.DataType
	}

	pending := b.doc.Distributions
	for len(pending) > 0 {
		var deferred []DistributionSpec
		for _, spec := range pending {
			built, err := b.buildDistribution(spec)
			if err != nil {
				return err
			}
			if !built {
				deferred = append(deferred, spec)
			}
		}

		if len(deferred) == len(pending) {
			names := make([]string, len(deferred))
			for i, spec := range deferred {
				names[i] = spec.Name
			}
			return configErrf("distribution", "", ErrUnresolvedDistribution, "%s", strings.Join(names, ", "))
		}
		pending = deferred
	}
	return nil
}

// buildDistribution returns false, without error, when a dependency has
// not been built yet
func (b *builder) buildDistribution(spec DistributionSpec) (bool, error) {
	var err error
	switch spec.DataType {
	case dataReal:
		var d distribution.Distribution[float64]
		d, err = b.realDistribution(spec)
		if err == nil {
			b.reals[spec.Name] = d
		}
	case dataInt:
		var d distribution.Distribution[int]
		d, err = b.intDistribution(spec)
		if err == nil {
			b.ints[spec.Name] = d
		}
	case dataPoint:
		var d distribution.Distribution[core.Vec3]
		var ready bool
		d, ready, err = b.pointDistribution(spec)
		if err == nil && !ready {
			return false, nil
		}
		if err == nil {
			b.points[spec.Name] = d
		}
	default:
		err = fmt.Errorf("%w: data type %q", ErrUnsupportedType, spec.DataType)
	}

	if err != nil {
		return false, configErr("distribution", spec.Name, err)
	}
	return true, nil
}

func (b *builder) realDistribution(spec DistributionSpec) (distribution.Distribution[float64], error) {
	switch spec.Type {
	case "delta":
		return distribution.NewDelta(spec.Name, spec.A), nil
	case "uniform":
		return distribution.NewUniform(spec.Name, spec.A, spec.B)
	case "linear":
		return distribution.NewLinear(spec.Name, spec.A, spec.B, spec.FA, spec.FB)
	case "henyeyGreenstein":
		return distribution.NewHenyeyGreenstein(spec.Name, spec.G)
	case "discrete":
		values, probs := make([]float64, len(spec.Values)), make([]float64, len(spec.Values))
		for i, v := range spec.Values {
			values[i], probs[i] = v.Value, v.P
		}
		return distribution.NewDiscrete(spec.Name, values, probs)
	default:
		return nil, fmt.Errorf("%w: %s distribution of type %q", ErrUnsupportedType, dataReal, spec.Type)
	}
}

func (b *builder) intDistribution(spec DistributionSpec) (distribution.Distribution[int], error) {
	switch spec.Type {
	case "delta":
		return distribution.NewDelta(spec.Name, int(spec.A)), nil
	case "meanMultiplicity":
		return distribution.NewMeanMultiplicity(spec.Name, spec.Nubar)
	case "terrellFission":
		return distribution.NewTerrellFission(spec.Name, spec.Nubar, spec.Sigma, spec.B)
	case "discrete":
		values, probs := make([]int, len(spec.Values)), make([]float64, len(spec.Values))
		for i, v := range spec.Values {
			values[i], probs[i] = int(v.Value), v.P
		}
		return distribution.NewDiscrete(spec.Name, values, probs)
	default:
		return nil, fmt.Errorf("%w: %s distribution of type %q", ErrUnsupportedType, dataInt, spec.Type)
	}
}

func (b *builder) pointDistribution(spec DistributionSpec) (distribution.Distribution[core.Vec3], bool, error) {
	switch spec.Type {
	case "delta":
		return distribution.NewDelta(spec.Name, core.NewVec3(spec.X, spec.Y, spec.Z)), true, nil
	case "isotropic":
		return distribution.NewIsotropicDirection(spec.Name), true, nil
	case "anisotropic":
		cosine, ready, err := b.realDependency(spec.Distribution)
		if err != nil || !ready {
			return nil, ready, err
		}
		d, err := distribution.NewAnisotropicDirection(spec.Name, core.NewVec3(spec.U, spec.V, spec.W), cosine)
		return d, true, err
	case "independentXYZ":
		var deps [3]distribution.Distribution[float64]
		for i, name := range []string{spec.XDistribution, spec.YDistribution, spec.ZDistribution} {
			dep, ready, err := b.realDependency(name)
			if err != nil || !ready {
				return nil, ready, err
			}
			deps[i] = dep
		}
		d, err := distribution.NewIndependentXYZ(spec.Name, deps[0], deps[1], deps[2])
		return d, true, err
	case "discrete":
		values, probs := make([]core.Vec3, len(spec.Values)), make([]float64, len(spec.Values))
		for i, v := range spec.Values {
			values[i], probs[i] = core.NewVec3(v.X, v.Y, v.Z), v.P
		}
		d, err := distribution.NewDiscrete(spec.Name, values, probs)
		return d, true, err
	default:
		return nil, false, fmt.Errorf("%w: %s distribution of type %q", ErrUnsupportedType, dataPoint, spec.Type)
	}
}

// realDependency looks up a real distribution another one depends on.
// Reports not ready if it has not been built, which for an undeclared name
// is never.
func (b *builder) realDependency(name string) (distribution.Distribution[float64], bool, error) {
	dataType, ok := b.declared[name]
	if ok && dataType != dataReal {
		return nil, false, fmt.Errorf("%w: distribution %q is %s, not %s", ErrUnknownReference, name, dataType, dataReal)
	}
	d, built := b.reals[name]
	return d, built, nil
}

func (b *builder) buildNuclides() error {
	for _, spec := range b.doc.Nuclides {
		if _, dup := b.nuclides[spec.Name]; dup {
			return configErrf("nuclide", spec.Name, ErrDuplicateName, "declared more than once")
		}

		n := material.NewNuclide(spec.Name)
		for _, r := range spec.Reactions {
			reaction, err := b.reaction(r)
			if err != nil {
				return configErr("nuclide", spec.Name, err)
			}
			n.AddReaction(reaction)
		}
		b.nuclides[spec.Name] = n
		b.problem.Nuclides = append(b.problem.Nuclides, n)
	}
	return nil
}

func (b *builder) reaction(spec ReactionSpec) (material.Reaction, error) {
	switch spec.Type {
	case material.ReactionCapture:
		return material.NewCapture(spec.XS), nil
	case material.ReactionScatter:
		cosine, ok := b.reals[spec.Distribution]
		if !ok {
			return nil, fmt.Errorf("%w: scattering distribution %q", ErrUnknownReference, spec.Distribution)
		}
		return material.NewScatter(spec.XS, cosine), nil
	case material.ReactionFission:
		mult, ok := b.ints[spec.Multiplicity]
		if !ok {
			return nil, fmt.Errorf("%w: multiplicity distribution %q", ErrUnknownReference, spec.Multiplicity)
		}
		f := material.NewFission(spec.XS, mult)
		if spec.Direction != "" {
			dir, ok := b.points[spec.Direction]
			if !ok {
				return nil, fmt.Errorf("%w: fission direction distribution %q", ErrUnknownReference, spec.Direction)
			}
			f.Direction = dir
		}
		return f, nil
	default:
		return nil, fmt.Errorf("%w: reaction %q", ErrUnsupportedType, spec.Type)
	}
}

func (b *builder) buildMaterials() error {
	for _, spec := range b.doc.Materials {
		if _, dup := b.materials[spec.Name]; dup {
			return configErrf("material", spec.Name, ErrDuplicateName, "declared more than once")
		}

		m := material.NewMaterial(spec.Name, spec.Density)
		for _, c := range spec.Nuclides {
			n, ok := b.nuclides[c.Name]
			if !ok {
				return configErrf("material", spec.Name, ErrUnknownReference, "nuclide %q", c.Name)
			}
			m.AddNuclide(n, c.Fraction)
		}
		b.materials[spec.Name] = m
		b.problem.Materials = append(b.problem.Materials, m)
	}
	return nil
}

func (b *builder) buildSurfaces() error {
	for _, spec := range b.doc.Surfaces {
		if _, dup := b.surfaces[spec.Name]; dup {
			return configErrf("surface", spec.Name, ErrDuplicateName, "declared more than once")
		}

		var s geometry.Surface
		switch spec.Type {
		case "plane":
			if spec.A == 0 && spec.B == 0 && spec.C == 0 {
				return configErrf("surface", spec.Name, ErrInvalidProblem, "plane normal is zero")
			}
			s = geometry.NewPlane(spec.Name, spec.A, spec.B, spec.C, spec.D)
		case "sphere":
			s = geometry.NewSphere(spec.Name, core.NewVec3(spec.X0, spec.Y0, spec.Z0), spec.Radius)
		case "cylinderx":
			s = geometry.NewCylinderX(spec.Name, spec.Y0, spec.Z0, spec.Radius)
		case "cylinderz":
			s = geometry.NewCylinderZ(spec.Name, spec.X0, spec.Y0, spec.Radius)
		default:
			return configErrf("surface", spec.Name, ErrUnsupportedType, "surface type %q", spec.Type)
		}

		if spec.Reflecting {
			s.SetReflecting()
		}
		b.surfaces[spec.Name] = s
		b.problem.Surfaces = append(b.problem.Surfaces, s)
	}
	return nil
}

func (b *builder) buildCells() error {
	for _, spec := range b.doc.Cells {
		if _, dup := b.cells[spec.Name]; dup {
			return configErrf("cell", spec.Name, ErrDuplicateName, "declared more than once")
		}

		c := geometry.NewCell(spec.Name)
		if spec.Material != "" {
			m, ok := b.materials[spec.Material]
			if !ok {
				return configErrf("cell", spec.Name, ErrUnknownReference, "material %q", spec.Material)
			}
			c.Material = m
		}
		if spec.Importance != nil {
			c.Importance = *spec.Importance
		}
		for _, bound := range spec.Surfaces {
			s, ok := b.surfaces[bound.Name]
			if !ok {
				return configErrf("cell", spec.Name, ErrUnknownReference, "surface %q", bound.Name)
			}
			c.AddSurface(s, bound.Sense)
		}

		b.cells[spec.Name] = c
		b.problem.Cells = append(b.problem.Cells, c)
	}
	return nil
}

func (b *builder) buildEstimators() error {
	seen := make(map[string]bool, len(b.doc.Estimators))
	for _, spec := range b.doc.Estimators {
		if seen[spec.Name] {
			return configErrf("estimator", spec.Name, ErrDuplicateName, "declared more than once")
		}
		seen[spec.Name] = true

		var (
			e        core.Estimator
			onCells  bool
			allCells bool
		)
		switch spec.Type {
		case "current":
			e = tally.NewSurfaceCurrent(spec.Name)
		case "countingSurface":
			e = tally.NewCounting(spec.Name, core.EventCross)
		case "countingCell":
			e, onCells = tally.NewCounting(spec.Name, core.EventEnter), true
		case "trackLength":
			e, onCells = tally.NewTrackLength(spec.Name), true
		case "track":
			e, onCells = tally.NewTrackCount(spec.Name), true
			allCells = len(spec.Cells) == 0
		default:
			return configErrf("estimator", spec.Name, ErrUnsupportedType, "estimator type %q", spec.Type)
		}

		if err := b.attach(spec, e, onCells, allCells); err != nil {
			return err
		}
		b.problem.Estimators = append(b.problem.Estimators, e)
	}
	return nil
}

// attach connects an estimator to the surfaces or cells it names
func (b *builder) attach(spec EstimatorSpec, e core.Estimator, onCells, allCells bool) error {
	if !onCells {
		if len(spec.Cells) > 0 {
			return configErrf("estimator", spec.Name, ErrInvalidProblem, "%s estimators attach to surfaces, not cells", spec.Type)
		}
		for _, name := range spec.Surfaces {
			s, ok := b.surfaces[name]
			if !ok {
				return configErrf("estimator", spec.Name, ErrUnknownReference, "surface %q", name)
			}
			s.AttachEstimator(e)
		}
		return nil
	}

	if len(spec.Surfaces) > 0 {
		return configErrf("estimator", spec.Name, ErrInvalidProblem, "%s estimators attach to cells, not surfaces", spec.Type)
	}
	if allCells {
		for _, c := range b.problem.Cells {
			c.AttachEstimator(e)
		}
		return nil
	}
	for _, name := range spec.Cells {
		c, ok := b.cells[name]
		if !ok {
			return configErrf("estimator", spec.Name, ErrUnknownReference, "cell %q", name)
		}
		c.AttachEstimator(e)
	}
	return nil
}

func (b *builder) buildSource() error {
	spec := b.doc.Source
	pos, ok := b.points[spec.Position]
	if !ok {
		return configErrf("source", "", ErrUnknownReference, "position distribution %q", spec.Position)
	}
	dir, ok := b.points[spec.Direction]
	if !ok {
		return configErrf("source", "", ErrUnknownReference, "direction distribution %q", spec.Direction)
	}
	b.problem.Source = transport.NewSource(pos, dir)
	return nil
}

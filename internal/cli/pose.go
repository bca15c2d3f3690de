package cli

import (
	"fmt"

	"github.com/geoknoesis/rdfstore/rdf"
)

// Vocabulary namespaces used by the pose graphs.
const (
	NSRDF      = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NSSpatial  = "http://vocab.arvida.de/2014/03/spatial/vocab#"
	NSTracking = "http://vocab.arvida.de/2014/03/tracking/vocab#"
	NSMaths    = "http://vocab.arvida.de/2014/03/maths/vocab#"
	NSVOM      = "http://vocab.arvida.de/2014/03/vom/vocab#"
	NSMEA      = "http://vocab.arvida.de/2014/03/mea/vocab#"
	NSXSD      = "http://www.w3.org/2001/XMLSchema#"

	poseBase = "http://test.arvida.de/UUID"
)

// PoseNamespaces returns the prefixes the pose vocabulary is written with.
func PoseNamespaces() *rdf.Namespaces {
	ns := rdf.NewNamespaces()
	ns.Add("rdf", NSRDF)
	ns.Add("spatial", NSSpatial)
	ns.Add("tracking", NSTracking)
	ns.Add("maths", NSMaths)
	ns.Add("vom", NSVOM)
	ns.Add("mea", NSMEA)
	ns.Add("xsd", NSXSD)
	return ns
}

// PoseURI returns the subject of the i-th pose.
func PoseURI(i int) string {
	return fmt.Sprintf("%s%d", poseBase, i)
}

// poseWriter adds pose statements to a model. The first failure is kept
// and later calls do nothing.
type poseWriter struct {
	world *rdf.World
	model *rdf.Model
	ns    *rdf.Namespaces
	err   error
}

func (p *poseWriter) add(s *rdf.Node, predicate string, o *rdf.Node) {
	if p.err != nil {
		return
	}
	pred, err := rdf.NewURINode(p.world, p.ns.Expand(predicate))
	if err != nil {
		p.err = err
		return
	}
	defer pred.Close()
	if !p.model.Add(s, pred, o) {
		p.err = fmt.Errorf("add %s: %w", predicate, rdf.ErrOperationFailed)
	}
}

func (p *poseWriter) uri(qname string) *rdf.Node {
	if p.err != nil {
		return &rdf.Node{}
	}
	n, err := rdf.NewURINode(p.world, p.ns.Expand(qname))
	if err != nil {
		p.err = err
		return &rdf.Node{}
	}
	return n
}

func (p *poseWriter) blank() *rdf.Node {
	if p.err != nil {
		return &rdf.Node{}
	}
	n, err := rdf.NewBlankNode(p.world)
	if err != nil {
		p.err = err
		return &rdf.Node{}
	}
	return n
}

func (p *poseWriter) double(v float64) *rdf.Node {
	if p.err != nil {
		return &rdf.Node{}
	}
	n, err := rdf.NewDoubleNode(p.world, v)
	if err != nil {
		p.err = err
		return &rdf.Node{}
	}
	return n
}

// typed adds (s rdf:type class).
func (p *poseWriter) typed(s *rdf.Node, class string) {
	c := p.uri(class)
	defer c.Close()
	p.add(s, "rdf:type", c)
}

// vector adds a blank quantity value of the given class with one double
// per axis.
func (p *poseWriter) vector(owner *rdf.Node, classes []string, axes []string, values []float64) {
	v := p.blank()
	defer v.Close()
	p.add(owner, "vom:quantityValue", v)
	for _, class := range classes {
		p.typed(v, class)
	}
	for i, axis := range axes {
		d := p.double(values[i])
		p.add(v, "maths:"+axis, d)
		d.Close()
	}
}

func (p *poseWriter) pose(i int) {
	subject := p.uri(PoseURI(i))
	defer subject.Close()
	p.typed(subject, "spatial:SpatialRelationship")

	source := p.blank()
	defer source.Close()
	p.add(subject, "spatial:sourceCoordinateSystem", source)
	p.typed(source, "maths:LeftHandedCartesianCoordinateSystem3D")

	target := p.blank()
	defer target.Close()
	p.add(subject, "spatial:targetCoordinateSystem", target)
	p.typed(target, "maths:RightHandedCartesianCoordinateSystem2D")

	translation := p.blank()
	defer translation.Close()
	p.add(subject, "spatial:translation", translation)
	p.typed(translation, "spatial:Translation3D")
	p.vector(translation, []string{"maths:Vector3D"}, []string{"x", "y", "z"}, []float64{1, 2, 3})

	rotation := p.blank()
	defer rotation.Close()
	p.add(subject, "spatial:rotation", rotation)
	p.typed(rotation, "spatial:Rotation3D")
	p.vector(rotation, []string{"maths:Quaternion", "maths:Vector4D"}, []string{"x", "y", "z", "w"}, []float64{1, 1, 1, 1})
}

// StatementsPerPose is the number of statements WritePoses adds per pose.
const StatementsPerPose = 21

// WritePoses adds n pose graphs to model. Each pose is a resource with
// source and target coordinate systems, a translation and a rotation held
// in blank nodes.
func WritePoses(world *rdf.World, model *rdf.Model, n int) error {
	p := &poseWriter{world: world, model: model, ns: PoseNamespaces()}
	for i := range n {
		p.pose(i)
		if p.err != nil {
			return fmt.Errorf("pose %d: %w", i, p.err)
		}
	}
	return nil
}

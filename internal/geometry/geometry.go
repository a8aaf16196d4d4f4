// Package geometry implements the pure measurement and Jacobian helpers
// behind besmarts-core's assignments.py geometry_* and jacobian_* family
// (measure_distance, measure_angle, measure_dihedral and their jacobian_*
// counterparts). These are plain numerical functions over atom positions;
// they never touch a Hierarchy, Objective, or Assignment, so they carry no
// dependency on the rest of the optimizer.
package geometry

import "math"

// Vec3 is a Cartesian atom position or displacement.
type Vec3 [3]float64

func sub(a, b Vec3) Vec3 { return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }
func add(a, b Vec3) Vec3 { return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }
func scale(a Vec3, s float64) Vec3 { return Vec3{a[0] * s, a[1] * s, a[2] * s} }
func dot(a, b Vec3) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

func cross(a, b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func norm(a Vec3) float64 { return math.Sqrt(dot(a, a)) }

func unit(a Vec3) Vec3 {
	n := norm(a)
	if n == 0 {
		return Vec3{}
	}
	return scale(a, 1/n)
}

// MeasureDistance returns the Euclidean distance between a and b, the
// 2-body bond/pair measurement of graph_assignment_geometry_distances.
func MeasureDistance(a, b Vec3) float64 {
	return norm(sub(b, a))
}

// MeasureAngle returns the angle a-b-c in radians, vertex at b.
func MeasureAngle(a, b, c Vec3) float64 {
	u := sub(a, b)
	v := sub(c, b)
	cosTheta := dot(u, v) / (norm(u) * norm(v))
	cosTheta = clamp(cosTheta, -1, 1)
	return math.Acos(cosTheta)
}

// MeasureDihedral returns the signed torsion angle a-b-c-d in radians,
// following the standard atan2(y, x) convention over the two wing normals.
func MeasureDihedral(a, b, c, d Vec3) float64 {
	b1 := sub(b, a)
	b2 := sub(c, b)
	b3 := sub(d, c)

	n1 := cross(b1, b2)
	n2 := cross(b2, b3)
	m1 := cross(n1, unit(b2))

	x := dot(n1, n2)
	y := dot(m1, n2)
	return math.Atan2(y, x)
}

// MeasureOutOfPlane returns the out-of-plane angle of atom a above the
// plane defined by the central atom b and its other two neighbors c, d —
// graph_assignment_geometry_outofplanes reuses the dihedral measurement
// for this, and so do we.
func MeasureOutOfPlane(a, b, c, d Vec3) float64 {
	return MeasureDihedral(a, b, c, d)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// DistanceJacobian returns d(distance)/d(a) and d(distance)/d(b), the
// two-atom gradient of MeasureDistance with respect to each endpoint.
func DistanceJacobian(a, b Vec3) (dA, dB Vec3) {
	diff := sub(a, b)
	n := norm(diff)
	if n == 0 {
		return Vec3{}, Vec3{}
	}
	dA = scale(diff, 1/n)
	dB = scale(dA, -1)
	return dA, dB
}

// AngleJacobian returns d(angle)/d(a), d(angle)/d(b), d(angle)/d(c) for
// the angle a-b-c with vertex at b.
func AngleJacobian(a, b, c Vec3) (dA, dB, dC Vec3) {
	u := sub(a, b)
	v := sub(c, b)
	lu, lv := norm(u), norm(v)
	if lu == 0 || lv == 0 {
		return Vec3{}, Vec3{}, Vec3{}
	}
	cosTheta := clamp(dot(u, v)/(lu*lv), -1, 1)
	sinTheta := math.Sqrt(1 - cosTheta*cosTheta)
	if sinTheta < 1e-12 {
		return Vec3{}, Vec3{}, Vec3{}
	}

	dA = scale(sub(scale(v, 1/lv), scale(u, cosTheta/lu)), -1/(lu*sinTheta))
	dC = scale(sub(scale(u, 1/lu), scale(v, cosTheta/lv)), -1/(lv*sinTheta))
	dB = scale(add(dA, dC), -1)
	return dA, dB, dC
}

// DihedralJacobian returns the gradient of MeasureDihedral with respect to
// each of the four atoms, via the standard b1/b2/b3 torsion-gradient
// decomposition.
func DihedralJacobian(a, b, c, d Vec3) (dA, dB, dC, dD Vec3) {
	b1 := sub(b, a)
	b2 := sub(c, b)
	b3 := sub(d, c)

	n1 := cross(b1, b2)
	n2 := cross(b2, b3)
	lb2 := norm(b2)
	ln1sq := dot(n1, n1)
	ln2sq := dot(n2, n2)
	if lb2 == 0 || ln1sq == 0 || ln2sq == 0 {
		return Vec3{}, Vec3{}, Vec3{}, Vec3{}
	}

	dA = scale(n1, -lb2/ln1sq)
	dD = scale(n2, lb2/ln2sq)

	t1 := scale(n1, dot(b1, b2)/(ln1sq*lb2))
	t2 := scale(n2, dot(b3, b2)/(ln2sq*lb2))
	dB = sub(add(scale(dA, -1), t1), t2)
	dC = sub(add(scale(dD, -1), t2), t1)
	return dA, dB, dC, dD
}

// OutOfPlaneJacobian mirrors MeasureOutOfPlane's reuse of the dihedral
// measurement: its gradient is the dihedral gradient.
func OutOfPlaneJacobian(a, b, c, d Vec3) (dA, dB, dC, dD Vec3) {
	return DihedralJacobian(a, b, c, d)
}

package geometry

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestMeasurements(t *testing.T) {
	Convey("MeasureDistance", t, func() {
		a := Vec3{0, 0, 0}
		b := Vec3{3, 4, 0}
		So(almostEqual(MeasureDistance(a, b), 5, 1e-9), ShouldBeTrue)
	})

	Convey("MeasureAngle on a right angle", t, func() {
		a := Vec3{1, 0, 0}
		b := Vec3{0, 0, 0}
		c := Vec3{0, 1, 0}
		got := MeasureAngle(a, b, c)
		So(almostEqual(got, math.Pi/2, 1e-9), ShouldBeTrue)
	})

	Convey("MeasureDihedral of four coplanar points is 0 or pi", t, func() {
		a := Vec3{1, 1, 0}
		b := Vec3{0, 0, 0}
		c := Vec3{1, 0, 0}
		d := Vec3{2, 1, 0}
		got := MeasureDihedral(a, b, c, d)
		planar := almostEqual(math.Abs(got), math.Pi, 1e-6) || almostEqual(got, 0, 1e-6)
		So(planar, ShouldBeTrue)
	})
}

func TestDistanceJacobianMatchesNumericGradient(t *testing.T) {
	a := Vec3{0.3, -1.2, 2.0}
	b := Vec3{1.1, 0.4, -0.7}
	dA, dB := DistanceJacobian(a, b)

	const h = 1e-6
	for axis := 0; axis < 3; axis++ {
		aPlus, aMinus := a, a
		aPlus[axis] += h
		aMinus[axis] -= h
		numeric := (MeasureDistance(aPlus, b) - MeasureDistance(aMinus, b)) / (2 * h)
		if !almostEqual(dA[axis], numeric, 1e-4) {
			t.Fatalf("dA[%d]: analytic %v vs numeric %v", axis, dA[axis], numeric)
		}
	}
	// by symmetry dB should be -dA for a pure distance.
	for axis := 0; axis < 3; axis++ {
		if !almostEqual(dB[axis], -dA[axis], 1e-9) {
			t.Fatalf("dB[%d] should be -dA[%d]", axis, axis)
		}
	}
}

func TestAngleJacobianMatchesNumericGradient(t *testing.T) {
	a := Vec3{1, 0.2, 0}
	b := Vec3{0, 0, 0}
	c := Vec3{0.1, 1, 0.3}
	dA, _, _ := AngleJacobian(a, b, c)

	const h = 1e-6
	for axis := 0; axis < 3; axis++ {
		aPlus, aMinus := a, a
		aPlus[axis] += h
		aMinus[axis] -= h
		numeric := (MeasureAngle(aPlus, b, c) - MeasureAngle(aMinus, b, c)) / (2 * h)
		if !almostEqual(dA[axis], numeric, 1e-3) {
			t.Fatalf("dA[%d]: analytic %v vs numeric %v", axis, dA[axis], numeric)
		}
	}
}

func TestOutOfPlaneJacobianDelegatesToDihedral(t *testing.T) {
	a := Vec3{1, 0, 0.4}
	b := Vec3{0, 0, 0}
	c := Vec3{0, 1, 0}
	d := Vec3{1, 1, -0.2}
	dA1, dB1, dC1, dD1 := OutOfPlaneJacobian(a, b, c, d)
	dA2, dB2, dC2, dD2 := DihedralJacobian(a, b, c, d)
	if dA1 != dA2 || dB1 != dB2 || dC1 != dC2 || dD1 != dD2 {
		t.Fatal("out-of-plane jacobian should equal the dihedral jacobian")
	}
}

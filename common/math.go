package common

import "math"

// Identity resets a 4x4 matrix (flat slice, column-major) to the identity matrix.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// Mul4 multiplies two 4x4 column-major matrices and stores the result in out.
// Result: out = a * b. The output slice may alias either input.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for i := 0; i < 4; i++ { // column of B
		for j := 0; j < 4; j++ { // row of A
			sum := float32(0)
			for k := 0; k < 4; k++ {
				sum += a[k*4+j] * b[i*4+k]
			}
			buf[i*4+j] = sum
		}
	}
	copy(out, buf[:])
}

// Perspective creates a perspective projection matrix for WebGPU clip space [0, 1].
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
func Perspective(out []float32, fovY, aspect, near, far float32) {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	Identity(out)

	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	out[15] = 0.0
}

// LookAt creates a view matrix transforming world coordinates to camera space.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - eyeX, eyeY, eyeZ: camera position in world space
//   - centerX, centerY, centerZ: target point the camera looks at
//   - upX, upY, upZ: up vector (typically 0,1,0)
func LookAt(out []float32, eyeX, eyeY, eyeZ, centerX, centerY, centerZ, upX, upY, upZ float32) {
	z0 := eyeX - centerX
	z1 := eyeY - centerY
	z2 := eyeZ - centerZ
	val := float64(z0*z0 + z1*z1 + z2*z2)
	if val == 0 {
		val = 1
	}
	invLen := 1.0 / float32(math.Sqrt(val))
	z0 *= invLen
	z1 *= invLen
	z2 *= invLen

	x0 := upY*z2 - upZ*z1
	x1 := upZ*z0 - upX*z2
	x2 := upX*z1 - upY*z0
	val = float64(x0*x0 + x1*x1 + x2*x2)
	if val == 0 {
		val = 1
	}
	invLen = 1.0 / float32(math.Sqrt(val))
	x0 *= invLen
	x1 *= invLen
	x2 *= invLen

	y0 := z1*x2 - z2*x1
	y1 := z2*x0 - z0*x2
	y2 := z0*x1 - z1*x0

	out[0], out[4], out[8], out[12] = x0, x1, x2, -(x0*eyeX + x1*eyeY + x2*eyeZ)
	out[1], out[5], out[9], out[13] = y0, y1, y2, -(y0*eyeX + y1*eyeY + y2*eyeZ)
	out[2], out[6], out[10], out[14] = z0, z1, z2, -(z0*eyeX + z1*eyeY + z2*eyeZ)
	out[3], out[7], out[11], out[15] = 0, 0, 0, 1
}

// Invert4 computes the inverse of a 4x4 column-major matrix using cofactor
// expansion. If the matrix is singular the output is left unchanged and the
// function returns false.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - m: source matrix (16 elements, column-major)
//
// Returns:
//   - bool: true if the matrix was inverted, false if singular
func Invert4(out, m []float32) bool {
	s0 := m[0]*m[5] - m[4]*m[1]
	s1 := m[0]*m[6] - m[4]*m[2]
	s2 := m[0]*m[7] - m[4]*m[3]
	s3 := m[1]*m[6] - m[5]*m[2]
	s4 := m[1]*m[7] - m[5]*m[3]
	s5 := m[2]*m[7] - m[6]*m[3]

	c5 := m[10]*m[15] - m[14]*m[11]
	c4 := m[9]*m[15] - m[13]*m[11]
	c3 := m[9]*m[14] - m[13]*m[10]
	c2 := m[8]*m[15] - m[12]*m[11]
	c1 := m[8]*m[14] - m[12]*m[10]
	c0 := m[8]*m[13] - m[12]*m[9]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return false
	}

	invDet := 1.0 / det

	out[0] = (m[5]*c5 - m[6]*c4 + m[7]*c3) * invDet
	out[1] = (-m[1]*c5 + m[2]*c4 - m[3]*c3) * invDet
	out[2] = (m[13]*s5 - m[14]*s4 + m[15]*s3) * invDet
	out[3] = (-m[9]*s5 + m[10]*s4 - m[11]*s3) * invDet

	out[4] = (-m[4]*c5 + m[6]*c2 - m[7]*c1) * invDet
	out[5] = (m[0]*c5 - m[2]*c2 + m[3]*c1) * invDet
	out[6] = (-m[12]*s5 + m[14]*s2 - m[15]*s1) * invDet
	out[7] = (m[8]*s5 - m[10]*s2 + m[11]*s1) * invDet

	out[8] = (m[4]*c4 - m[5]*c2 + m[7]*c0) * invDet
	out[9] = (-m[0]*c4 + m[1]*c2 - m[3]*c0) * invDet
	out[10] = (m[12]*s4 - m[13]*s2 + m[15]*s0) * invDet
	out[11] = (-m[8]*s4 + m[9]*s2 - m[11]*s0) * invDet

	out[12] = (-m[4]*c3 + m[5]*c1 - m[6]*c0) * invDet
	out[13] = (m[0]*c3 - m[1]*c1 + m[2]*c0) * invDet
	out[14] = (-m[12]*s3 + m[13]*s1 - m[14]*s0) * invDet
	out[15] = (m[8]*s3 - m[9]*s1 + m[10]*s0) * invDet

	return true
}

// ComposeTRS builds a 4x4 column-major matrix from a decomposed transform:
// translation, rotation quaternion (x, y, z, w), and per-axis scale.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - t: translation
//   - r: rotation quaternion (x, y, z, w), assumed normalized
//   - s: scale
func ComposeTRS(out []float32, t [3]float32, r [4]float32, s [3]float32) {
	x, y, z, w := r[0], r[1], r[2], r[3]

	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	out[0] = (1 - 2*(yy+zz)) * s[0]
	out[1] = 2 * (xy + wz) * s[0]
	out[2] = 2 * (xz - wy) * s[0]
	out[3] = 0

	out[4] = 2 * (xy - wz) * s[1]
	out[5] = (1 - 2*(xx+zz)) * s[1]
	out[6] = 2 * (yz + wx) * s[1]
	out[7] = 0

	out[8] = 2 * (xz + wy) * s[2]
	out[9] = 2 * (yz - wx) * s[2]
	out[10] = (1 - 2*(xx+yy)) * s[2]
	out[11] = 0

	out[12] = t[0]
	out[13] = t[1]
	out[14] = t[2]
	out[15] = 1
}

// TransformPoint applies a 4x4 column-major matrix to a point (w = 1).
//
// Parameters:
//   - m: the matrix (16 elements)
//   - p: the point
//
// Returns:
//   - [3]float32: the transformed point
func TransformPoint(m []float32, p [3]float32) [3]float32 {
	return [3]float32{
		m[0]*p[0] + m[4]*p[1] + m[8]*p[2] + m[12],
		m[1]*p[0] + m[5]*p[1] + m[9]*p[2] + m[13],
		m[2]*p[0] + m[6]*p[1] + m[10]*p[2] + m[14],
	}
}

// UnprojectPoint transforms a clip-space point through an inverse
// view-projection matrix back into world space, applying the perspective
// divide.
//
// Parameters:
//   - invViewProj: the inverse view-projection matrix (16 elements)
//   - p: the clip-space point (NDC x/y in [-1, 1], depth in [0, 1])
//
// Returns:
//   - [3]float32: the world-space point
//   - bool: false if the homogeneous w came out zero
func UnprojectPoint(invViewProj []float32, p [3]float32) ([3]float32, bool) {
	m := invViewProj
	x := m[0]*p[0] + m[4]*p[1] + m[8]*p[2] + m[12]
	y := m[1]*p[0] + m[5]*p[1] + m[9]*p[2] + m[13]
	z := m[2]*p[0] + m[6]*p[1] + m[10]*p[2] + m[14]
	w := m[3]*p[0] + m[7]*p[1] + m[11]*p[2] + m[15]
	if w == 0 {
		return [3]float32{}, false
	}
	return [3]float32{x / w, y / w, z / w}, true
}

// LerpVec3 linearly interpolates between two vectors.
//
// Parameters:
//   - a: start value
//   - b: end value
//   - t: interpolation factor in [0, 1]
//
// Returns:
//   - [3]float32: the interpolated vector
func LerpVec3(a, b [3]float32, t float32) [3]float32 {
	return [3]float32{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
	}
}

// SlerpQuat spherically interpolates between two quaternions (x, y, z, w).
// Falls back to linear interpolation when the quaternions are nearly parallel,
// and takes the short arc when their dot product is negative.
//
// Parameters:
//   - a: start quaternion
//   - b: end quaternion
//   - t: interpolation factor in [0, 1]
//
// Returns:
//   - [4]float32: the interpolated, normalized quaternion
func SlerpQuat(a, b [4]float32, t float32) [4]float32 {
	dot := a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3]
	if dot < 0 {
		b = [4]float32{-b[0], -b[1], -b[2], -b[3]}
		dot = -dot
	}

	var k0, k1 float32
	if dot > 0.9995 {
		// Nearly parallel; lerp avoids dividing by a tiny sin(theta).
		k0 = 1 - t
		k1 = t
	} else {
		theta := float32(math.Acos(float64(dot)))
		sinTheta := float32(math.Sin(float64(theta)))
		k0 = float32(math.Sin(float64((1-t)*theta))) / sinTheta
		k1 = float32(math.Sin(float64(t*theta))) / sinTheta
	}

	q := [4]float32{
		a[0]*k0 + b[0]*k1,
		a[1]*k0 + b[1]*k1,
		a[2]*k0 + b[2]*k1,
		a[3]*k0 + b[3]*k1,
	}
	return NormalizeQuat(q)
}

// NormalizeQuat returns the unit-length quaternion. A zero quaternion is
// replaced by identity.
//
// Parameters:
//   - q: the quaternion (x, y, z, w)
//
// Returns:
//   - [4]float32: the normalized quaternion
func NormalizeQuat(q [4]float32) [4]float32 {
	lenSq := float64(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
	if lenSq == 0 {
		return [4]float32{0, 0, 0, 1}
	}
	inv := float32(1.0 / math.Sqrt(lenSq))
	return [4]float32{q[0] * inv, q[1] * inv, q[2] * inv, q[3] * inv}
}

// RayIntersectsSphere tests a ray against a sphere.
//
// Parameters:
//   - origin: ray origin in world space
//   - dir: ray direction (need not be normalized, but must be non-zero)
//   - center: sphere center in world space
//   - radius: sphere radius
//
// Returns:
//   - bool: true if the ray hits the sphere at t >= 0
func RayIntersectsSphere(origin, dir, center [3]float32, radius float32) bool {
	// Solve |origin + t*dir - center|^2 = r^2 for t.
	oc := [3]float32{origin[0] - center[0], origin[1] - center[1], origin[2] - center[2]}
	a := dir[0]*dir[0] + dir[1]*dir[1] + dir[2]*dir[2]
	if a == 0 {
		return false
	}
	b := 2 * (oc[0]*dir[0] + oc[1]*dir[1] + oc[2]*dir[2])
	c := oc[0]*oc[0] + oc[1]*oc[1] + oc[2]*oc[2] - radius*radius

	disc := b*b - 4*a*c
	if disc < 0 {
		return false
	}
	sqrtDisc := float32(math.Sqrt(float64(disc)))
	t0 := (-b - sqrtDisc) / (2 * a)
	t1 := (-b + sqrtDisc) / (2 * a)
	return t0 >= 0 || t1 >= 0
}

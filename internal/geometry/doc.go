// Package geometry holds the point representations used to address focal
// points in front of the catheter array, and the physical layout of the
// array's elements.
//
// Coordinate convention: the array lies in the z = 0 plane with its physical
// centre at the origin; X runs across the 4 x-groups, Y along the 16 y-groups
// and Z points away from the face of the transducer. All distances are in
// meters and all angles handed to the exported conversions are in radians,
// except FromSteering which takes degrees like the scan parameters do.
//
// No logging and no errors: every function here is a pure value computation.
package geometry

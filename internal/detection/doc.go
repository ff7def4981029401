// Package detection implements the parking-marker vision pipeline.
//
// A pointer object carrying two colored markers is held up to a fixed overhead
// camera. For every frame the pipeline decides which of four known shapes the
// markers form (two "long" orientations, two "compact" ones) and, for a long
// shape, its orientation angle. Downstream route planning picks a starting
// quadrant and direction from that result alone.
//
// # Pipeline
//
// Four stages run strictly in order, once per frame:
//
//  1. Seed location: SeedLocator scans the color view for the two calibrated
//     marker colors with a bounded row-bisection search.
//  2. Region growing: RegionExpander flood-fills the intensity view from each
//     seed (4-connected, breadth-first), admitting pixels whose intensity is
//     within a threshold of the seed's, and accumulates raw moments online.
//  3. Characteristics: ComputeCharacteristics turns a region's raw moments
//     into centroid, orientation, two rotation/scale invariants (phi_1,
//     phi_2), and bounding-box extents.
//  4. Classification: Classifier gates each region against trained per-class
//     statistics and keeps the nearest eligible class.
//
// Pipeline chains the four stages and is the usual entry point.
//
// # Coordinate System
//
// Coordinates use the image convention: origin at the top-left, X (column)
// increasing rightward, Y (row) increasing downward. Angles are radians in
// the same frame, so a positive theta rotates from +X toward +Y.
//
// # Concurrency
//
// A single run is synchronous. The visited marker, accumulators, and marked
// output frame are allocated per call and never shared, so a Pipeline (which
// holds only read-only configuration) may process different frames from
// several goroutines at once.
//
// # Errors
//
// Configuration problems (missing marker colors, no trained classes) are
// reported when a stage is constructed. Seeds outside the frame are contract
// violations and fail fast with ErrSeedOutOfBounds. Finding nothing is not an
// error: fewer seeds, dropped regions, and LabelUnknown are ordinary results.
package detection

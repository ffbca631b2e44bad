// Package imaging is the image codec layer of the generation service.
//
// It wraps github.com/disintegration/imaging and friends behind the small set
// of operations the template engine and the serving layers need: format
// sniffing decode, PNG encode, exact resize with a configurable resample
// filter, alpha compositing, solid color fills, and the simple single-image
// filters (flip, rotate, grayscale, invert, blur).
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner,
// X increasing rightward and Y increasing downward. Overlay positions name
// the top-left corner of the pasted layer.
//
// # Thread Safety
//
// Every function is stateless and returns a new image; inputs are never
// modified. Functions may be called concurrently on shared inputs.
//
// # Error Handling
//
// Decode failures are reported as decode-kind errors from the service's
// error taxonomy; invalid arguments (unknown filter or operation names,
// non-positive sizes) as input-kind errors.
package imaging

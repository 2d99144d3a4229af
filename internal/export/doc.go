// Package export writes simulation histories to CSV, JSON and SVG.
//
// Files are written on demand from a finished run; nothing is kept between
// runs.
package export

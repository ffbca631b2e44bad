// Package textdraw lays out and renders multi-line, horizontally centered
// text onto images.
//
// Layout is pure arithmetic over font metrics: for a text of N lines and a
// line height h, line i sits at vertical offset round((i - (N-1)/2) * h)
// from the anchor, and each line is centered on the anchor's X by its own
// advance width. Empty lines are skipped but still occupy their slot.
//
// Glyph rasterization is delegated to golang.org/x/image/font. Scales follow
// the pixel-height convention: Scale.Y is the distance from the lowest
// descender to the highest ascender in pixels, and Scale.X stretches the
// glyphs horizontally by Scale.X/Scale.Y.
package textdraw

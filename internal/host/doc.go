// Package host is an in-memory image-analysis host: the object model the
// bridge reads from and writes to.
//
// It keeps raster elements in a [Model] registry, shows them in windows on a
// [Desktop], and carries the supporting services scripts reach through
// commands: animation controllers, configuration settings, wizards and a
// progress channel.
//
// # Object Model
//
//   - [RasterElement]: a rows x columns x bands cube with an encoding, an
//     interleave and a [DimensionDescriptor] per row, column and band.
//     Elements can be children of another element; a child is addressed
//     as "parent=>child".
//   - [View]: the closed set [*SpatialDataView], [*ProductView] and
//     [*PlotView]. Only spatial views hold layers.
//   - [Layer]: the closed set [*RasterLayer], [*AoiLayer] and
//     [*AnnotationLayer]. Layers are ordered top first.
//   - [Window]: a named desktop window that owns one view.
//
// Callers resolve a view or layer once with a type switch and keep the
// concrete handle; nothing downstream re-checks the kind.
//
// # Storage
//
// Each element keeps its cube in a single typed buffer in the order given
// by layout.Storage. Row accessors hand out views into that buffer, so a
// writable accessor writes straight into host storage. Elements created
// "on disk" still hold their data but do not expose it through RawData.
//
// The host takes no locks. One goroutine drives it at a time.
package host

// Package imageshare provides the upload-and-share pipeline behind the image
// hosting service: validate an image, compress it, store the compressed bytes
// in a public blob store and hand back a viewer URL.
//
// The Service interface orchestrates a single upload end to end and resolves
// public identifiers back to image URLs for the viewer page. Compression and
// storage are pluggable; adapters live under compress/ and storage/.
//
// Public Identifiers
//
// Viewer URLs carry the object key encoded with the pathcodec package rather
// than the raw key, so the storage layout is not spelled out in links. The
// encoding is reversible: the viewer decodes the identifier and rebuilds the
// blob URL through the configured urlstrategy.URLStrategy.
package imageshare

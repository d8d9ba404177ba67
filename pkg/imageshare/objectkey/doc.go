// Package objectkey builds the storage keys compressed images are written
// under and validates keys recovered from viewer identifiers.
package objectkey

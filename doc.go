// Package brep converts typed building geometry descriptions into
// boundary representation (B-rep) solids.
//
// # Overview
//
// brep is a Pure Go geometry layer for building information models. Input
// is a taxonomy tree (extrusions, faces, loops, edges and analytic curves);
// output is a topological shape made of shared vertices, edges, wires and
// faces, suitable for sewing, meshing and export.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/brep/kernel"
//	    "github.com/gogpu/brep/taxonomy"
//	)
//
//	k := kernel.New(kernel.WithPrecision(1e-5))
//
//	var results []kernel.ConversionResult
//	if err := k.Convert(extrusion, &results); err != nil {
//	    log.Fatal(err)
//	}
//
// # Architecture
//
// The module is organized into:
//   - Root package: Point3, Vec3, Matrix4 and the shared logger
//   - geom: analytic curves and surfaces
//   - topo: topology (vertices, edges, wires, faces, solids) and builders
//   - taxonomy: the input description and its YAML decoding
//   - kernel: conversion policy (wire healing, face resolution, triangulation, extrusion)
//   - pipeline: concurrent batch conversion with caching and metrics
//   - export: OBJ/STL writers and PNG previews
//
// # Coordinate System
//
// Right-handed model coordinates. Face normals follow the right-hand rule
// applied to the outer boundary traversal.
//
// # Tolerances
//
// All conversions use a single linear precision (default 1e-5 model
// units). Points closer than the precision are considered coincident.
package brep

// Version information
const (
	// Version is the current version of the library
	Version = "0.3.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 3

	// VersionPatch is the patch version
	VersionPatch = 0
)

// DefaultPrecision is the default linear tolerance in model units.
const DefaultPrecision = 1e-5

// Package core defines the shared language of spfxkit.
//
// This package contains:
//   - The project model (Project, PackageJSON, YoRc, Document, SourceFile)
//   - Rule severities and resolution types
//   - Rule metadata DTOs (RuleInfo)
//
// The Golden Rule: pkg/core imports ONLY the standard library.
// All other packages depend on core, not the reverse.
package core

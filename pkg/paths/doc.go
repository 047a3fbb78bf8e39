// Package paths provides the path handling shared by the hook pipeline.
//
// The hook deals with three kinds of paths:
//
//   - the project root and feature root, which arrive from the environment
//     and are canonicalized once with ResolveDir
//   - tokens from a tool's argv, which may be relative to the tool's working
//     directory and are made absolute with AbsFrom / ResolveFile
//   - project-relative remainders, computed with RelativeToRoot and used to
//     mirror the source layout under the feature root
//
// Containment checks are component-aware: /rootother is never considered
// to be under /root.
package paths

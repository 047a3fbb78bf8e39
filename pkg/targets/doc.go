// Package targets finds the final artifacts a build produces and keeps them
// in the persisted target list.
//
// Discovery is heuristic and happens while the build runs: linker argv is
// scanned for project-owned static libraries and the -o output, archiver
// argv for the archive being created. The names funnel into
// FeatureRoot/c/targets.list, a newline-delimited set shared by every tool
// process of a parallel build and coordinated with an exclusive flock held
// across each read-modify-append.
//
// After the build, ScanBinaries walks the project tree as the authoritative
// source and RewriteList replaces the heuristic list wholesale, dropping
// entries left behind by earlier builds.
package targets

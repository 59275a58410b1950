// Package project reads and writes the pyx project file.
//
// A project file is HCL. Attribute expressions may refer to two variables:
// env, an object holding the process environment, and cwd, the working
// directory.
//
//	search_paths = [cwd, "${env.HOME}/lib/pyx"]
//	cache_dir    = ".pyxcache"
//
//	build {
//	  source = "src"
//	  static = "src/public"
//	  output = "build"
//	  filter = "!hidden"
//	}
//
//	log {
//	  level  = "debug"
//	  format = "text"
//	}
//
// [File.Flags] flattens a decoded file into command-line flag values so
// that it can back a kong configuration resolver.
package project

package cmd

import "github.com/ardnew/pyx/lang/diag"

var (
	ErrWriteProject = diag.NewError("write project file")
	ErrFileExists   = diag.NewError("file exists (use --force to overwrite)")
	ErrFilter       = diag.NewError("compile filter")
	ErrBuild        = diag.NewError("build")
	ErrWrite        = diag.NewError("write output")
)

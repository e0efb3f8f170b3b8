// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the FSInfo struct, which stores file system metadata for
// parsed definitions.
package model

import "path/filepath"

// FSInfo records where a definition was read from.
type FSInfo struct {
	FilePath string
}

// NewFSInfo creates FSInfo for the given file.
func NewFSInfo(filePath string) *FSInfo {
	return &FSInfo{
		FilePath: filePath,
	}
}

// Dir returns the directory of the source file. Relative paths inside a
// definition are resolved against it.
func (f *FSInfo) Dir() string {
	if f == nil {
		return ""
	}
	return filepath.Dir(f.FilePath)
}

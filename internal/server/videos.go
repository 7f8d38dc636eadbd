package server

import (
	"io/fs"
	"net/http"
	"strings"
)

// videoFS serves regular files from the dataset only. Dotfiles (including
// in-flight ".upload-*" temp files) and directories are reported as missing,
// so nothing is listed.
type videoFS struct {
	root http.FileSystem
}

func (v videoFS) Open(name string) (http.File, error) {
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") {
			return nil, fs.ErrNotExist
		}
	}

	f, err := v.root.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}

package static

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed assets/*
var assetsFS embed.FS

// GetFileSystem returns an http.FileSystem for the embedded assets directory.
func GetFileSystem() http.FileSystem {
	fsys, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		panic(err)
	}
	return http.FS(fsys)
}

// Handler serves the embedded assets under prefix.
func Handler(prefix string) http.Handler {
	files := http.StripPrefix(prefix, http.FileServer(GetFileSystem()))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		files.ServeHTTP(w, r)
	})
}

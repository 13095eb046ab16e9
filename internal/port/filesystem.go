package port

import "os"

// FileSystem is the file access the patcher needs.
type FileSystem interface {
	ReadFile(path string) ([]byte, os.FileMode, error)
	WriteFile(path string, data []byte, mode os.FileMode) error
}

// FileWalker expands glob patterns under a root into file paths.
type FileWalker interface {
	Walk(root string) ([]FileInfo, error)
}

type FileInfo struct {
	Path string
}

// TextCodec converts between file bytes and text.
type TextCodec interface {
	Decode(data []byte) (string, error)
	Encode(text string) ([]byte, error)
	Name() string
}

package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileDownloaderInterface defines the contract for fetching a remote file by id
type FileDownloaderInterface interface {
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}

// formatFromPath returns "yaml" for .yaml/.yml paths and "json" otherwise
func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// FileCatalogSource reads the catalog document from the local filesystem
type FileCatalogSource struct {
	path string
}

// NewFileCatalogSource creates a FileCatalogSource.
// Relative paths are resolved against the working directory.
func NewFileCatalogSource(path string) (*FileCatalogSource, error) {
	if !filepath.IsAbs(path) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		path = filepath.Join(wd, path)
	}
	return &FileCatalogSource{path: path}, nil
}

// Ensure FileCatalogSource implements CatalogSourceInterface
var _ CatalogSourceInterface = (*FileCatalogSource)(nil)

func (s *FileCatalogSource) Name() string   { return "file:" + s.path }
func (s *FileCatalogSource) Format() string { return formatFromPath(s.path) }

// Read reads the whole catalog file
func (s *FileCatalogSource) Read(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return data, nil
}

// DriveCatalogSource reads the catalog document from a Google Drive file
type DriveCatalogSource struct {
	downloader FileDownloaderInterface
	fileID     string
	format     string
}

// NewDriveCatalogSource creates a DriveCatalogSource; format is "json" or "yaml"
func NewDriveCatalogSource(downloader FileDownloaderInterface, fileID string, format string) *DriveCatalogSource {
	if format != "yaml" {
		format = "json"
	}
	return &DriveCatalogSource{downloader: downloader, fileID: fileID, format: format}
}

// Ensure DriveCatalogSource implements CatalogSourceInterface
var _ CatalogSourceInterface = (*DriveCatalogSource)(nil)

func (s *DriveCatalogSource) Name() string   { return "drive:" + s.fileID }
func (s *DriveCatalogSource) Format() string { return s.format }

// Read downloads the catalog file content
func (s *DriveCatalogSource) Read(ctx context.Context) ([]byte, error) {
	data, err := s.downloader.DownloadFile(ctx, s.fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to download catalog from drive: %w", err)
	}
	return data, nil
}

// StaticCatalogSource serves a catalog document held in memory
type StaticCatalogSource struct {
	name   string
	format string
	data   []byte
}

// NewStaticCatalogSource creates a StaticCatalogSource
func NewStaticCatalogSource(name, format string, data []byte) *StaticCatalogSource {
	return &StaticCatalogSource{name: name, format: format, data: data}
}

// Ensure StaticCatalogSource implements CatalogSourceInterface
var _ CatalogSourceInterface = (*StaticCatalogSource)(nil)

func (s *StaticCatalogSource) Name() string   { return "static:" + s.name }
func (s *StaticCatalogSource) Format() string { return s.format }

// Read returns a copy of the document
func (s *StaticCatalogSource) Read(ctx context.Context) ([]byte, error) {
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	apperrors "nycsales/internal/errors"
	"nycsales/pkg/contracts/domain"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Located pairs a planned source with the file that backs it
type Located struct {
	Source domain.Source
	File   FileInfo
}

// Discovery provides file discovery operations rooted at an input directory
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// PathFor returns the expected path of a source workbook
func (d *Discovery) PathFor(src domain.Source) string {
	return filepath.Join(d.basePath, src.FileName())
}

// Locate resolves every source to its workbook, preserving input order.
// All missing files are reported together in one SOURCE error.
func (d *Discovery) Locate(sources []domain.Source) ([]Located, error) {
	located := make([]Located, 0, len(sources))
	var missing []string

	for _, src := range sources {
		path := d.PathFor(src)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			missing = append(missing, src.FileName())
			continue
		}
		located = append(located, Located{
			Source: src,
			File: FileInfo{
				Path:    path,
				Name:    info.Name(),
				Size:    info.Size(),
				ModTime: info.ModTime(),
			},
		})
	}

	if len(missing) > 0 {
		return located, apperrors.NewSourceError(
			fmt.Sprintf("%d source workbook(s) missing", len(missing)), os.ErrNotExist).
			WithContext("directory", d.basePath).
			WithContext("missing", strings.Join(missing, ","))
	}
	return located, nil
}

// FindExcelFiles lists the .xlsx files in the input directory, sorted by name
func (d *Discovery) FindExcelFiles() ([]FileInfo, error) {
	entries, err := os.ReadDir(d.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", d.basePath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		// Skip Excel lock files such as ~$2018_manhattan.xlsx
		if strings.HasPrefix(name, "~$") || !strings.EqualFold(filepath.Ext(name), ".xlsx") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(d.basePath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// Unplanned returns Excel files in the directory that match no planned source
func (d *Discovery) Unplanned(sources []domain.Source) ([]FileInfo, error) {
	all, err := d.FindExcelFiles()
	if err != nil {
		return nil, err
	}

	planned := make(map[string]bool, len(sources))
	for _, src := range sources {
		planned[src.FileName()] = true
	}

	var extra []FileInfo
	for _, f := range all {
		if !planned[f.Name] {
			extra = append(extra, f)
		}
	}
	return extra, nil
}

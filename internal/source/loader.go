// internal/source/loader.go - Input file loading for GeoJSON and vector tiles
package source

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"geojson-planet/internal"
	"geojson-planet/internal/config"
	"geojson-planet/pkg/mvt"
	"geojson-planet/pkg/planet"
)

var (
	geojsonExtensions = []string{".geojson", ".json"}
	mvtExtensions     = []string{".mvt", ".pbf"}
)

// Loader reads input files into feature collections
type Loader struct {
	fs        afero.Fs
	config    config.InputConfig
	converter *mvt.Converter
	logger    *zap.Logger
}

// NewLoader creates a loader reading from fsys. A nil fsys reads the OS
// filesystem.
func NewLoader(fsys afero.Fs, cfg config.InputConfig, conv mvt.ConversionOptions, logger *zap.Logger) *Loader {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		fs:        fsys,
		config:    cfg,
		converter: mvt.NewConverter(conv, logger),
		logger:    logger,
	}
}

// DetectFormat picks the input format for path. An explicit configured format
// wins over the file extension.
func DetectFormat(path string, configured string) (internal.InputFormat, error) {
	switch internal.InputFormat(strings.ToLower(configured)) {
	case internal.InputFormatGeoJSON:
		return internal.InputFormatGeoJSON, nil
	case internal.InputFormatMVT:
		return internal.InputFormatMVT, nil
	}

	ext := strings.ToLower(filepath.Ext(trimGzip(path)))
	switch {
	case contains(geojsonExtensions, ext):
		return internal.InputFormatGeoJSON, nil
	case contains(mvtExtensions, ext):
		return internal.InputFormatMVT, nil
	}
	return internal.InputFormatAuto, internal.NewError(internal.ErrorCodeValidation,
		fmt.Sprintf("cannot detect input format of %s", path), nil)
}

// Load reads, decodes and optionally simplifies one input file
func (l *Loader) Load(path string) (*planet.FeatureCollection, error) {
	format, err := DetectFormat(path, l.config.Format)
	if err != nil {
		return nil, err
	}

	data, err := l.read(path)
	if err != nil {
		return nil, err
	}

	var fc *planet.FeatureCollection
	switch format {
	case internal.InputFormatMVT:
		fc, err = l.decodeTile(path, data)
	default:
		fc, err = planet.DecodeFeatureCollection(data, l.logger.With(zap.String("file", path)))
	}
	if err != nil {
		return nil, internal.NewError(internal.ErrorCodeDecode, fmt.Sprintf("failed to decode %s", path), err)
	}

	if l.config.Simplify > 0 {
		Simplify(fc, l.config.Simplify)
	}

	l.logger.Debug("loaded input",
		zap.String("file", path),
		zap.String("format", string(format)),
		zap.Int("features", fc.Len()),
		zap.Int("skipped", fc.Skipped))
	return fc, nil
}

func (l *Loader) decodeTile(path string, data []byte) (*planet.FeatureCollection, error) {
	tilePath := path
	if l.config.Tile != "" {
		tilePath = l.config.Tile
	}
	id, err := mvt.ParseTileID(tilePath)
	if err != nil {
		return nil, err
	}

	gfc, meta, err := l.converter.Convert(data, id)
	if err != nil {
		return nil, err
	}
	fc := planet.FromGeoJSON(gfc)
	fc.Skipped += meta.Skipped
	return fc, nil
}

// read returns the file content, transparently decompressing .gz files
func (l *Loader) read(path string) ([]byte, error) {
	info, err := l.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, internal.NewError(internal.ErrorCodeNotFound, fmt.Sprintf("input file not found: %s", path), err)
		}
		return nil, internal.NewError(internal.ErrorCodeFileSystem, fmt.Sprintf("cannot access input file: %s", path), err)
	}
	if !info.Mode().IsRegular() {
		return nil, internal.NewError(internal.ErrorCodeValidation, fmt.Sprintf("path is not a regular file: %s", path), nil)
	}

	file, err := l.fs.Open(path)
	if err != nil {
		return nil, internal.NewError(internal.ErrorCodeFileSystem, fmt.Sprintf("failed to open input file: %s", path), err)
	}
	defer file.Close()

	var reader io.Reader = file
	if isCompressedFile(path) {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, internal.NewError(internal.ErrorCodeDecode, fmt.Sprintf("failed to create gzip reader for: %s", path), err)
		}
		defer gz.Close()
		reader = gz
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, internal.NewError(internal.ErrorCodeFileSystem, fmt.Sprintf("failed to read input file: %s", path), err)
	}
	return data, nil
}

// Discover expands the given paths into input files. Directories are walked
// recursively and only files with a known extension are kept. Plain files are
// kept as given.
func (l *Loader) Discover(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := l.fs.Stat(p)
		if err != nil {
			return nil, internal.NewError(internal.ErrorCodeNotFound, fmt.Sprintf("input not found: %s", p), err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		var found []string
		err = afero.Walk(l.fs, p, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			if _, err := DetectFormat(path, l.config.Format); err != nil {
				l.logger.Debug("skipping file with unknown format", zap.String("file", path))
				return nil
			}
			found = append(found, path)
			return nil
		})
		if err != nil {
			return nil, internal.NewError(internal.ErrorCodeFileSystem, fmt.Sprintf("failed to scan input directory: %s", p), err)
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}

func isCompressedFile(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}

func trimGzip(path string) string {
	if isCompressedFile(path) {
		return path[:len(path)-len(".gz")]
	}
	return path
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

package figures

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

var (
	includegraphicsRe = regexp.MustCompile(`\\includegraphics(?:\[([^\]]*)\])?\{([^}]+)\}`)
	graphicspathRe    = regexp.MustCompile(`\\graphicspath\{\{([^}]+)\}\}`)
)

// lookupExts is the search order for extensionless figure names.
var lookupExts = []string{"", ".pdf", ".png", ".jpg", ".jpeg"}

// DefaultDPI is the rasterization resolution used when none is configured.
const DefaultDPI = 300

// cacheSize bounds the content-address cache. A single manuscript rarely
// holds more than a few hundred figures.
const cacheSize = 512

// Materializer rewrites figure references in markup to raster asset paths.
type Materializer struct {
	raster  Rasterizer
	baseDir string
	workDir string
	dpi     int
	workers int

	cache    *lru.Cache[string, string]
	inflight map[string]*sync.Mutex
	mu       sync.Mutex
}

// MaterializerOption configures a Materializer.
type MaterializerOption func(*Materializer)

// WithDPI sets the rasterization resolution (default 300).
func WithDPI(dpi int) MaterializerOption {
	return func(m *Materializer) {
		if dpi > 0 {
			m.dpi = dpi
		}
	}
}

// WithWorkers bounds the number of simultaneous rasterizer invocations
// (default 1).
func WithWorkers(n int) MaterializerOption {
	return func(m *Materializer) {
		if n > 0 {
			m.workers = n
		}
	}
}

// NewMaterializer creates a materializer resolving figure names against
// baseDir and writing assets into workDir.
func NewMaterializer(raster Rasterizer, baseDir, workDir string, opts ...MaterializerOption) *Materializer {
	cache, _ := lru.New[string, string](cacheSize)
	m := &Materializer{
		raster:   raster,
		baseDir:  baseDir,
		workDir:  workDir,
		dpi:      DefaultDPI,
		workers:  1,
		cache:    cache,
		inflight: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// task is one distinct figure source to materialize.
type task struct {
	name string // name as written in the markup
	path string // resolved source path, empty when not found
}

// Materialize rewrites every \includegraphics reference in text to point
// at a raster asset in the work directory. Failed references are rewritten
// to a placeholder and reported; they never abort the run.
func (m *Materializer) Materialize(ctx context.Context, text string) (string, []*RasterError) {
	searchDirs := m.searchDirs(text)

	// Collect distinct figure names first so each source is materialized
	// once no matter how often it is referenced.
	seen := make(map[string]bool)
	var tasks []task
	for _, match := range includegraphicsRe.FindAllStringSubmatch(text, -1) {
		name := match[2]
		if seen[name] {
			continue
		}
		seen[name] = true
		tasks = append(tasks, task{name: name, path: m.findSource(searchDirs, name)})
	}
	if len(tasks) == 0 {
		return text, nil
	}

	assets := make(map[string]string, len(tasks))
	var failures []*RasterError
	var resMu sync.Mutex

	sem := make(chan struct{}, m.workers)
	var wg sync.WaitGroup
	for _, tk := range tasks {
		wg.Add(1)
		sem <- struct{}{}
		go func(tk task) {
			defer wg.Done()
			defer func() { <-sem }()

			asset, err := m.materializeOne(ctx, tk)
			resMu.Lock()
			defer resMu.Unlock()
			if err != nil {
				failures = append(failures, err)
			}
			assets[tk.name] = asset
		}(tk)
	}
	wg.Wait()

	out := includegraphicsRe.ReplaceAllStringFunc(text, func(match string) string {
		sub := includegraphicsRe.FindStringSubmatch(match)
		asset := assets[sub[2]]
		if asset == "" {
			return match
		}
		if sub[1] != "" {
			return fmt.Sprintf(`\includegraphics[%s]{%s}`, sub[1], asset)
		}
		return fmt.Sprintf(`\includegraphics{%s}`, asset)
	})
	return out, failures
}

// materializeOne produces the asset path for a single figure source. On
// failure it returns the placeholder path together with the error.
func (m *Materializer) materializeOne(ctx context.Context, tk task) (string, *RasterError) {
	if tk.path == "" {
		asset, err := m.placeholder()
		if err != nil {
			return "", &RasterError{Source: tk.name, Err: err}
		}
		return asset, &RasterError{Source: tk.name, Err: os.ErrNotExist}
	}

	if isRaster(tk.path) {
		asset, err := m.copyAsset(tk.path)
		if err != nil {
			return m.placeholderOr(""), &RasterError{Source: tk.path, Err: err}
		}
		return asset, nil
	}

	asset, err := m.rasterize(ctx, Ref{Path: tk.path, DPI: m.dpi})
	if err != nil {
		return m.placeholderOr(""), &RasterError{Source: tk.path, Err: err}
	}
	return asset, nil
}

// rasterize materializes a non-raster ref through the content-address
// cache. Lookups and inserts for the same key are serialized so a source
// is rasterized at most once per run.
func (m *Materializer) rasterize(ctx context.Context, ref Ref) (string, error) {
	key := ref.cacheKey()

	m.mu.Lock()
	lock, ok := m.inflight[key]
	if !ok {
		lock = &sync.Mutex{}
		m.inflight[key] = lock
	}
	m.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()

	if asset, ok := m.cache.Get(key); ok {
		return asset, nil
	}

	data, err := m.raster.Rasterize(ctx, ref.Path, ref.Region, ref.DPI)
	if err != nil {
		return "", err
	}

	data, err = capRasterSize(data)
	if err != nil {
		return "", err
	}

	asset := filepath.Join(m.workDir, assetName(ref.Path, key, ".png"))
	if err := os.WriteFile(asset, data, 0o644); err != nil {
		return "", err
	}

	m.cache.Add(key, asset)
	return asset, nil
}

// searchDirs returns the directories to probe for figure files: the
// \graphicspath directory when declared, then the source base directory.
func (m *Materializer) searchDirs(text string) []string {
	dirs := []string{}
	if gp := graphicspathRe.FindStringSubmatch(text); gp != nil {
		dirs = append(dirs, filepath.Join(m.baseDir, gp[1]))
	}
	return append(dirs, m.baseDir)
}

// findSource locates the figure file for a name, trying each search
// directory and extension in order. Returns "" when nothing matches.
func (m *Materializer) findSource(dirs []string, name string) string {
	for _, dir := range dirs {
		for _, ext := range lookupExts {
			candidate := filepath.Join(dir, name+ext)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}
	}
	return ""
}

// assetName builds the work-dir file name for a materialized source: the
// source stem plus a short digest of the content address, so sources that
// share a basename across search directories never overwrite each other.
func assetName(srcPath, key, ext string) string {
	stem := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	sum := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%s-%x%s", stem, sum[:4], ext)
}

// copyAsset copies an already-raster source into the work directory.
func (m *Materializer) copyAsset(path string) (string, error) {
	dst := filepath.Join(m.workDir, assetName(path, path, filepath.Ext(path)))
	if _, err := os.Stat(dst); err == nil {
		return dst, nil
	}

	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return "", err
	}
	return dst, nil
}

// placeholderOr returns the placeholder asset path, or fallback when even
// the placeholder cannot be written.
func (m *Materializer) placeholderOr(fallback string) string {
	if asset, err := m.placeholder(); err == nil {
		return asset
	}
	return fallback
}

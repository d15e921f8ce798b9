package monitor

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AnweshaPanigrahi/File-integrity/internal/hash"
	"github.com/AnweshaPanigrahi/File-integrity/internal/models"
)

// Errors returned by the registry
var (
	ErrNotRegistered     = errors.New("directory not registered")
	ErrAlreadyRegistered = errors.New("directory already registered")
	ErrNotADirectory     = errors.New("not a directory")
)

// Baselines are always SHA-256; the configurable algorithms only apply to
// the upload endpoints.
const baselineAlgorithm = hash.SHA256

// entry is the tracked state for one registered directory
type entry struct {
	id           string
	path         string
	registeredAt time.Time
	baseline     map[string]string // absolute file path -> digest
}

// Registry tracks registered directories and their per-file hash baselines.
// State lives in process memory only and does not survive a restart.
type Registry struct {
	mu     sync.RWMutex
	dirs   map[string]*entry
	logger *zap.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		dirs:   make(map[string]*entry),
		logger: logger,
	}
}

// Register walks dirPath, hashes every regular file and stores the result
// as the directory's baseline. The directory is addressed by its base name
// afterwards.
func (r *Registry) Register(dirPath string) (*models.Directory, error) {
	abs, err := filepath.Abs(dirPath)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, ErrNotADirectory
	}

	name := filepath.Base(abs)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.dirs[name]; exists {
		return nil, ErrAlreadyRegistered
	}

	e := &entry{
		id:           uuid.New().String(),
		path:         abs,
		registeredAt: time.Now(),
		baseline:     r.scan(abs),
	}
	r.dirs[name] = e

	return &models.Directory{
		ID:              e.id,
		Name:            name,
		Path:            abs,
		FilesRegistered: len(e.baseline),
		RegisteredAt:    e.registeredAt,
	}, nil
}

// Unregister drops a directory from the registry and returns its path so
// the caller can stop watching it.
func (r *Registry) Unregister(name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.dirs[name]
	if !ok {
		return "", ErrNotRegistered
	}
	delete(r.dirs, name)
	return e.path, nil
}

// Rescan walks the directory again, diffs the snapshot against the stored
// baseline and replaces the baseline with the new snapshot.
func (r *Registry) Rescan(name string) (*models.ChangeSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.dirs[name]
	if !ok {
		return nil, ErrNotRegistered
	}

	current := r.scan(e.path)
	changes := &models.ChangeSet{
		Directory: e.path,
		Added:     []string{},
		Deleted:   []string{},
		Modified:  []string{},
	}

	for path, digest := range current {
		old, tracked := e.baseline[path]
		switch {
		case !tracked:
			changes.Added = append(changes.Added, path)
		case old != digest:
			changes.Modified = append(changes.Modified, path)
		}
	}
	for path := range e.baseline {
		if _, still := current[path]; !still {
			changes.Deleted = append(changes.Deleted, path)
		}
	}

	sort.Strings(changes.Added)
	sort.Strings(changes.Deleted)
	sort.Strings(changes.Modified)

	e.baseline = current
	return changes, nil
}

// Refresh rehashes a single file after a filesystem event. It reports true
// when the stored hash changed (or the file is new to the baseline).
func (r *Registry) Refresh(path string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.dirs {
		if !strings.HasPrefix(path, e.path+string(filepath.Separator)) {
			continue
		}

		digest, err := hash.SumFile(path, baselineAlgorithm)
		if err != nil {
			return false, err
		}

		old, tracked := e.baseline[path]
		if tracked && old == digest {
			return false, nil
		}
		e.baseline[path] = digest
		return true, nil
	}
	return false, ErrNotRegistered
}

// ListFiles returns the tracked files of a registered directory with their
// current size, mtime and detected content type, sorted by filename.
func (r *Registry) ListFiles(name string) (string, []models.FileRecord, error) {
	r.mu.RLock()
	e, ok := r.dirs[name]
	if !ok {
		r.mu.RUnlock()
		return "", nil, ErrNotRegistered
	}

	baseline := make(map[string]string, len(e.baseline))
	for path, digest := range e.baseline {
		baseline[path] = digest
	}
	dirPath := e.path
	r.mu.RUnlock()

	records := make([]models.FileRecord, 0, len(baseline))
	for path, digest := range baseline {
		info, err := os.Stat(path)
		if err != nil {
			r.logger.Warn("skipping unreadable file", zap.String("path", path), zap.Error(err))
			continue
		}

		record := models.FileRecord{
			Filename:     filepath.Base(path),
			Path:         path,
			Hash:         digest,
			SizeBytes:    info.Size(),
			LastModified: info.ModTime(),
		}
		if mtype, err := mimetype.DetectFile(path); err == nil {
			record.ContentType = mtype.String()
			record.IsText = strings.HasPrefix(mtype.String(), "text/")
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Filename < records[j].Filename
	})
	return dirPath, records, nil
}

// scan hashes every regular file under root. Unreadable files are logged
// and skipped, matching the behavior of the walk during registration.
// Callers must hold the lock.
func (r *Registry) scan(root string) map[string]string {
	snapshot := make(map[string]string)

	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			r.logger.Warn("skipping path during scan", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		digest, err := hash.SumFile(path, baselineAlgorithm)
		if err != nil {
			r.logger.Warn("skipping unreadable file", zap.String("path", path), zap.Error(err))
			return nil
		}
		snapshot[path] = digest
		return nil
	})

	return snapshot
}

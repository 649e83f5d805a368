package files

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"request-tracker/core"
)

// Store keeps attachments in a single flat directory. Stored names carry a
// millisecond timestamp prefix to keep same-named uploads from colliding.
type Store struct {
	log *slog.Logger
	dir string
}

var allowedExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".pdf":  true,
}

func New(log *slog.Logger, dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create uploads dir")
	}

	return &Store{
		log: log,
		dir: dir,
	}, nil
}

func (s *Store) Save(originalName string, r io.Reader) (string, error) {
	if !allowedExts[strings.ToLower(filepath.Ext(originalName))] {
		return "", core.ErrUnsupportedFileType
	}

	storedName := strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + sanitize(originalName)

	f, err := os.Create(filepath.Join(s.dir, storedName))
	if err != nil {
		return "", errors.Wrap(err, "create file")
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", errors.Wrap(err, "write file")
	}

	s.log.Debug("stored file", "name", storedName)

	return storedName, nil
}

func (s *Store) Open(storedName string) (io.ReadCloser, error) {
	// Names with path separators would escape the uploads directory.
	if storedName != filepath.Base(storedName) || storedName == "." || storedName == "" {
		return nil, core.ErrFileNotFound
	}

	f, err := os.Open(filepath.Join(s.dir, storedName))
	if os.IsNotExist(err) {
		return nil, core.ErrFileNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "open file")
	}

	return f, nil
}

// sanitize strips path components and whitespace from a client-supplied name.
func sanitize(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	return name
}

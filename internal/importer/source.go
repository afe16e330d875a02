package importer

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"salesenq/internal/logging"
)

// Source is the file an import reads. Temporary sources (uploads, files
// unpacked from mail) are deleted once the import is over, whatever its
// result.
type Source struct {
	Path      string
	Temporary bool
	// label is the original file name of a staged copy.
	label string
}

// LocalFile is a file the caller owns; it is left in place.
func LocalFile(path string) Source { return Source{Path: path} }

// UploadedFile is a scratch copy the import consumes.
func UploadedFile(path string) Source { return Source{Path: path, Temporary: true} }

func (s Source) Name() string {
	if s.label != "" {
		return s.label
	}
	return filepath.Base(s.Path)
}

// Release deletes a temporary source. A file that is already gone is not an
// error.
func (s Source) Release(log *logrus.Entry) {
	if !s.Temporary || s.Path == "" {
		return
	}
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		logging.OrDiscard(log).WithError(err).WithField("path", s.Path).Warn("failed to delete import file")
	}
}

// Stage puts src into dir under a unique name and returns the staged file as
// a temporary source. A temporary src is moved there, a local one is copied
// and left alone. If staging fails a temporary src is released before Stage
// returns.
func Stage(dir string, src Source, log *logrus.Entry) (Source, error) {
	staged := Source{
		Path:      filepath.Join(dir, uuid.NewString()+filepath.Ext(src.Path)),
		Temporary: true,
		label:     src.Name(),
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		src.Release(log)
		return Source{}, errors.Wrap(err, "create upload dir")
	}

	if src.Temporary && os.Rename(src.Path, staged.Path) == nil {
		return staged, nil
	}
	if err := copyFile(src.Path, staged.Path); err != nil {
		staged.Release(log)
		src.Release(log)
		return Source{}, errors.Wrapf(err, "stage %s", src.Name())
	}
	src.Release(log)
	return staged, nil
}

func copyFile(from, to string) error {
	in, err := os.Open(from)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(to)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

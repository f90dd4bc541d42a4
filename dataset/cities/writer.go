package cities

import (
	"os"
	"path/filepath"
)

const (
	outputDirPerm  = 0o755
	outputFilePerm = 0o644
)

// writeFileAtomically writes data to a temporary file next to path and renames it into place,
// so readers never observe a half-written dataset. Missing parent directories are created.
func writeFileAtomically(path string, data []byte) error {
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, outputDirPerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}

	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName) // no-op after a successful rename
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}

	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}

	if err = tmp.Close(); err != nil {
		return err
	}

	if err = os.Chmod(tmpName, outputFilePerm); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

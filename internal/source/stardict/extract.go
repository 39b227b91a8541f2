package stardict

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"

	"github.com/ulikunitz/xz"
)

// ExtractTarXz extracts the .tar.xz archive at archivePath into destDir,
// creating it if necessary. Intermediate directories implied by archive
// entries are created as needed.
func ExtractTarXz(archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	xzr, err := xz.NewReader(f)
	if err != nil {
		return err
	}

	tr := tar.NewReader(xzr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		target := filepath.Join(destDir, filepath.Clean(hdr.Name))

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			out, err := os.Create(target)
			if err != nil {
				return err
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
		}
	}
}

// FindStarDictDir searches root (and its subdirectories, to a finite depth)
// for a directory containing a .ifo file alongside a .idx/.idx.gz and a
// .dict/.dict.dz file. It returns the directory and the three file paths.
func FindStarDictDir(root string) (dir, ifoPath, idxPath, dictPath string, err error) {
	const maxDepth = 4

	var search func(path string, depth int) (string, string, string, string, bool)
	search = func(path string, depth int) (string, string, string, string, bool) {
		entries, readErr := os.ReadDir(path)
		if readErr != nil {
			return "", "", "", "", false
		}

		var ifo, idx, dct string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			name := e.Name()
			switch {
			case filepath.Ext(name) == ".ifo":
				ifo = filepath.Join(path, name)
			case hasSuffixAny(name, ".idx", ".idx.gz"):
				idx = filepath.Join(path, name)
			case hasSuffixAny(name, ".dict", ".dict.dz"):
				dct = filepath.Join(path, name)
			}
		}
		if ifo != "" && idx != "" && dct != "" {
			return path, ifo, idx, dct, true
		}

		if depth >= maxDepth {
			return "", "", "", "", false
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			if d, i, x, c, ok := search(filepath.Join(path, e.Name()), depth+1); ok {
				return d, i, x, c, true
			}
		}
		return "", "", "", "", false
	}

	d, i, x, c, ok := search(root, 0)
	if !ok {
		return "", "", "", "", os.ErrNotExist
	}
	return d, i, x, c, nil
}

func hasSuffixAny(name string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if len(name) >= len(suf) && name[len(name)-len(suf):] == suf {
			return true
		}
	}
	return false
}

package deploy

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"
)

func getProgressBar(length int64, desc string) *progressbar.ProgressBar {
	if os.Getenv("CI") == "true" {
		return progressbar.NewOptions64(length, progressbar.OptionSetVisibility(false))
	}

	return progressbar.DefaultBytes(length, desc)
}

// MoveFile moves src to dst. If dst is an existing directory, src keeps its name inside it.
// An existing file at dst is replaced. Moves across devices fall back to copy and delete.
func MoveFile(fs afero.Fs, src, dst string) error {
	src = filepath.Clean(src)
	dst = filepath.Clean(dst)

	info, err := fs.Stat(src)
	if err != nil {
		return eris.Wrapf(err, "Could not find %s", src)
	}

	if info.IsDir() {
		return eris.Errorf("%s is a directory, only files can be moved", src)
	}

	destInfo, err := fs.Stat(dst)
	if err == nil && destInfo.IsDir() {
		dst = filepath.Join(dst, filepath.Base(src))
	} else if err != nil && !eris.Is(err, os.ErrNotExist) {
		return eris.Wrapf(err, "Failed to retrieve info about destination %s", dst)
	}

	destParent := filepath.Dir(dst)
	parentInfo, err := fs.Stat(destParent)
	if err != nil {
		return eris.Wrapf(err, "Could not find destination directory %s", destParent)
	}

	if !parentInfo.IsDir() {
		return eris.Errorf("%s is not a directory!", destParent)
	}

	err = fs.Rename(src, dst)
	if err == nil {
		return nil
	}

	if !isCrossDevice(err) {
		return eris.Wrapf(err, "Failed to move %s to %s", src, dst)
	}

	return copyAndRemove(fs, src, dst, info)
}

// MoveItems moves every item to dest. dest has to be a directory if there's more than one item.
func MoveItems(fs afero.Fs, items []string, dest string) error {
	if len(items) > 1 {
		info, err := fs.Stat(dest)
		if err != nil || !info.IsDir() {
			return eris.Errorf("Can't move multiple items to %s because it is not a directory!", dest)
		}
	}

	for _, item := range items {
		err := MoveFile(fs, item, dest)
		if err != nil {
			return err
		}
	}

	return nil
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) {
		return false
	}

	return linkErr.Err == crossDeviceErrno
}

func copyAndRemove(fs afero.Fs, src, dst string, info os.FileInfo) error {
	in, err := fs.Open(src)
	if err != nil {
		return eris.Wrapf(err, "Failed to open %s", src)
	}
	defer in.Close()

	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return eris.Wrapf(err, "Failed to create %s", dst)
	}

	bar := getProgressBar(info.Size(), "Moving "+filepath.Base(src))
	_, err = io.Copy(io.MultiWriter(out, bar), in)
	if err != nil {
		out.Close()
		return eris.Wrapf(err, "Failed to copy %s to %s", src, dst)
	}

	err = out.Close()
	if err != nil {
		return eris.Wrapf(err, "Failed to write %s", dst)
	}

	in.Close()
	err = fs.Remove(src)
	if err != nil {
		return eris.Wrapf(err, "Copied %s but failed to remove it", src)
	}

	return nil
}

package engine

import (
	"io/ioutil"
	"os"
	"path/filepath"
)

// Import stores every regular file under dir in db, keyed by its slash
// separated path relative to dir with a leading "/". It returns the number
// of files written.
func Import(db DB, dir string) (int, error) {
	bat, err := db.NewBatch()
	if err != nil {
		return 0, err
	}
	n := 0
	err = filepath.Walk(dir, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fi.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		data, err := ioutil.ReadFile(path)
		if err != nil {
			return err
		}
		if err := bat.Set([]byte("/"+filepath.ToSlash(rel)), data); err != nil {
			return err
		}
		n++
		return nil
	})
	if err != nil {
		bat.Cancel()
		return 0, err
	}
	if err := bat.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/kvignite/ignite/pkg/kverrors"
)

// segmentExt is the fixed extension every generation's log file carries.
// Unlike the teacher's seginfo package -- which names files
// "prefix_NNNNN_timestamp.seg" for lexicographic sort-by-creation-time --
// this store's on-disk format is the plain "<gen>.log" spec.md requires, so
// naming collapses to one field: the generation number itself.
const segmentExt = ".log"

// segmentPath returns the path of gen's segment file inside dir.
func segmentPath(dir string, gen uint64) string {
	return filepath.Join(dir, fmt.Sprintf("%d%s", gen, segmentExt))
}

// ListGenerations scans dir for "<gen>.log" files and returns their
// generation numbers in ascending order, the order Open's recovery scan (§
// 4.2.1) requires. Non-matching entries (directories, stray files) are
// skipped rather than treated as corruption -- a data directory with
// unrelated files in it is not this package's business to police.
func ListGenerations(dir string) ([]uint64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, kverrors.ClassifyIO(err, "list_generations", dir)
	}

	var gens []uint64
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != segmentExt {
			continue
		}
		base := strings.TrimSuffix(e.Name(), segmentExt)
		gen, err := strconv.ParseUint(base, 10, 64)
		if err != nil {
			continue
		}
		gens = append(gens, gen)
	}

	slices.Sort(gens)
	return gens, nil
}

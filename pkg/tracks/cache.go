package tracks

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// cacheVersion is bumped whenever cacheFile or Record changes shape
const cacheVersion = 1

// ErrCacheCorrupt is returned when a cache file exists but does not hold a valid track table
var ErrCacheCorrupt = errors.New("track cache is corrupt")

// cacheFile keeps the class sequences behind pointers so a missing key decodes as nil
type cacheFile struct {
	Version  int            `msgpack:"version"`
	Players  *[]FrameTracks `msgpack:"players"`
	Referees *[]FrameTracks `msgpack:"referees"`
	Ball     *[]FrameTracks `msgpack:"ball"`
}

// DecodeMsgpack accepts exactly {"bbox": [x1, y1, x2, y2]}
func (r *Record) DecodeMsgpack(dec *msgpack.Decoder) error {
	fields, err := dec.DecodeMapLen()
	if err != nil {
		return errors.Wrap(err, "record")
	}
	if fields != 1 {
		return errors.Errorf("record has %d fields, expected 1", fields)
	}

	key, err := dec.DecodeString()
	if err != nil {
		return errors.Wrap(err, "record key")
	}
	if key != "bbox" {
		return errors.Errorf("unknown record field '%s'", key)
	}

	n, err := dec.DecodeArrayLen()
	if err != nil {
		return errors.Wrap(err, "bbox")
	}
	if n != len(r.BBox) {
		return errors.Errorf("bbox has %d coordinates, expected %d", n, len(r.BBox))
	}

	var bbox BBox
	for i := range bbox {
		if bbox[i], err = dec.DecodeFloat64(); err != nil {
			return errors.Wrapf(err, "bbox[%d]", i)
		}
	}
	r.BBox = bbox

	return nil
}

// LoadCache reads a table stored by StoreCache. A missing file is reported as ok == false with no error,
// anything unreadable is ErrCacheCorrupt.
func LoadCache(path string) (*Table, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, "LoadCache: could not open '%s'", path)
	}
	defer f.Close()

	dec := msgpack.NewDecoder(bufio.NewReader(f))
	dec.DisallowUnknownFields(true)

	var cached cacheFile
	if err := dec.Decode(&cached); err != nil {
		return nil, false, errors.Wrapf(ErrCacheCorrupt, "LoadCache: '%s': %v", path, err)
	}

	if cached.Version != cacheVersion {
		return nil, false, errors.Wrapf(ErrCacheCorrupt, "LoadCache: '%s': version %d, expected %d", path, cached.Version, cacheVersion)
	}

	if cached.Players == nil || cached.Referees == nil || cached.Ball == nil {
		return nil, false, errors.Wrapf(ErrCacheCorrupt, "LoadCache: '%s': missing class sequence", path)
	}

	table := &Table{
		Players:  *cached.Players,
		Referees: *cached.Referees,
		Ball:     *cached.Ball,
	}
	if err := table.Validate(); err != nil {
		return nil, false, errors.Wrapf(ErrCacheCorrupt, "LoadCache: '%s': %v", path, err)
	}

	return table, true, nil
}

// StoreCache writes table to path, replacing whatever is there
func StoreCache(path string, table *Table) error {
	if err := table.Validate(); err != nil {
		return errors.Wrap(err, "StoreCache")
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "StoreCache: could not create temp file for '%s'", path)
	}
	defer os.Remove(tmp.Name()) //no-op after a successful rename

	players, referees, ball := nonNil(table.Players), nonNil(table.Referees), nonNil(table.Ball)

	w := bufio.NewWriter(tmp)
	err = msgpack.NewEncoder(w).Encode(cacheFile{
		Version:  cacheVersion,
		Players:  &players,
		Referees: &referees,
		Ball:     &ball,
	})
	if err == nil {
		err = w.Flush()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return errors.Wrapf(err, "StoreCache: could not write '%s'", path)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "StoreCache: could not replace '%s'", path)
	}

	return nil
}

// nonNil stores a table without frames as empty sequences, nil means a missing key on load
func nonNil(seq []FrameTracks) []FrameTracks {
	if seq == nil {
		return []FrameTracks{}
	}
	return seq
}

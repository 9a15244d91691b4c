package orm

import (
	"github.com/iov-one/lockbox"
)

// ConsumeIterator reads the remaining models of itr and closes it.
func ConsumeIterator(itr lockbox.Iterator) ([]lockbox.Model, error) {
	defer itr.Close()

	models := []lockbox.Model{}
	for itr.Valid() {
		models = append(models, lockbox.Pair(itr.Key(), itr.Value()))
		if err := itr.Next(); err != nil {
			return nil, err
		}
	}
	return models, nil
}

// prefixRange returns the [start, end) range of keys starting with prefix.
// End is nil when no key sorts after the prefix range.
func prefixRange(prefix []byte) ([]byte, []byte) {
	if len(prefix) == 0 {
		return nil, nil
	}
	// drop trailing 0xFF bytes and increment the last remaining one
	end := append([]byte(nil), prefix...)
	for len(end) > 0 && end[len(end)-1] == 0xFF {
		end = end[:len(end)-1]
	}
	if len(end) == 0 {
		return prefix, nil
	}
	end[len(end)-1]++
	return prefix, end
}

// QueryPrefix returns every model with a key starting with prefix.
func QueryPrefix(db lockbox.ReadOnlyKVStore, prefix []byte) ([]lockbox.Model, error) {
	itr, err := db.Iterator(prefixRange(prefix))
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(itr)
}

package lockbox

import (
	"encoding/json"
	"math"
	"time"

	"github.com/iov-one/lockbox/errors"
)

// UnixTime is a point in time in whole seconds since the epoch. Release
// times of deposits use it.
type UnixTime int64

// AsUnixTime drops the sub second part of t.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

// Time converts back to a time.Time in the local zone.
func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0)
}

// AddSeconds returns t moved secs seconds forward. It fails with
// ErrOverflow when the sum does not fit an int64.
func (t UnixTime) AddSeconds(secs uint64) (UnixTime, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	if room := uint64(math.MaxInt64 - int64(t)); secs > room {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d seconds", t, secs)
	}
	return t + UnixTime(secs), nil
}

// Validate rejects times before the epoch.
func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrapf(errors.ErrState, "time %d before epoch", int64(t))
	}
	return nil
}

func (t UnixTime) String() string {
	return t.Time().UTC().Format(time.RFC3339)
}

// UnmarshalJSON reads seconds as a number, or an RFC 3339 string as
// written in genesis files.
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var secs int64
	if err := json.Unmarshal(raw, &secs); err != nil {
		var std time.Time
		if err := json.Unmarshal(raw, &std); err != nil {
			return errors.Wrapf(errors.ErrInput, "time %s", raw)
		}
		secs = std.Unix()
	}
	if secs < 0 {
		return errors.Wrapf(errors.ErrInput, "time %d before epoch", secs)
	}
	*t = UnixTime(secs)
	return nil
}

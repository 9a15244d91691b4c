package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
)

// Genesis file format, designed to be overlayed with tendermint genesis
type Genesis struct {
	ChainID  string          `json:"chain_id"`
	AppState lockbox.Options `json:"app_state"`
}

// LoadGenesis tries to load a given file into a Genesis struct
func LoadGenesis(filePath string) (Genesis, error) {
	var gen Genesis

	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrapf(errors.ErrInput, "cannot read genesis file: %s", err)
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		return gen, errors.Wrapf(errors.ErrInput, "cannot unmarshal genesis file: %s", err)
	}
	return gen, nil
}

// LoadGenesis reads the genesis file and initializes the application state
// with it. This is equivalent of running InitChain with the file contents.
func (s *StoreApp) LoadGenesis(filePath string) error {
	gen, err := LoadGenesis(filePath)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(gen.AppState)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return s.loadGenesis(raw, gen.ChainID)
}

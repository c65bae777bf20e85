package repository

import "errors"

var errReadBytesNotSupported = errors.New("repository: map provider has no byte form")

// mapProvider is a koanf provider serving an in-memory map.
type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, errReadBytesNotSupported
}

func (m mapProvider) Read() (map[string]any, error) {
	return m, nil
}

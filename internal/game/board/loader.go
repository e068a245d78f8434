package board

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlBoardFile is the top-level YAML structure for a board file.
type yamlBoardFile struct {
	Squares []yamlSquare `yaml:"squares"`
}

type yamlSquare struct {
	Name       string `yaml:"name"`
	LandType   int    `yaml:"land_type"`
	Owner      string `yaml:"owner"`
	Tier       int    `yaml:"tier"`
	DefenderHP *int   `yaml:"defender_hp"`
}

// LoadFromFile reads and validates a board YAML file.
//
// Precondition: path must point to a readable YAML board file.
// Postcondition: Returns a validated Board or a non-nil error.
func LoadFromFile(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading board file %s: %w", path, err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses and validates a board from YAML bytes.
// Squares are indexed in file order.
func LoadFromBytes(data []byte) (*Board, error) {
	var file yamlBoardFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing board YAML: %w", err)
	}
	squares := make([]*Square, 0, len(file.Squares))
	for _, ys := range file.Squares {
		squares = append(squares, &Square{
			Name:         ys.Name,
			LandTypeID:   ys.LandType,
			OwnerID:      ys.Owner,
			DefenderTier: ys.Tier,
			DefenderHP:   ys.DefenderHP,
		})
	}
	b, err := New(squares)
	if err != nil {
		return nil, fmt.Errorf("validating board: %w", err)
	}
	return b, nil
}

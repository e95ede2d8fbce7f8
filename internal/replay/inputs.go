package replay

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadInputs reads a YAML mapping of placeholder name to concrete
// value, e.g.
//
//	url: https://shop.example
//	button_text: Add to cart
func LoadInputs(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inputs file: %v", err)
	}
	inputs := make(map[string]string)
	if err := yaml.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("invalid inputs file %s: %v", path, err)
	}
	return inputs, nil
}

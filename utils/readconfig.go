package utils

import (
	"os"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v2"
)

func LoadTomlConfig(s interface{}, path string) error {
	file, err := os.ReadFile(path)
	if err != nil {
		ErrorLog(err)
		return err
	}
	if err = toml.Unmarshal(file, s); err != nil {
		ErrorLog(err)
		return err
	}
	return nil
}

func WriteTomlConfig(data interface{}, filePath string) error {
	tomlData, err := toml.Marshal(data)
	if err != nil {
		ErrorLog("Error while Marshaling.", err)
		return err
	}
	return os.WriteFile(filePath, tomlData, 0644)
}

// MarshalYaml renders v for human consumption (cli output).
func MarshalYaml(v interface{}) ([]byte, error) {
	return yaml.Marshal(v)
}

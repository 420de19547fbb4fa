package fixtures

import (
	"encoding/json"
	"fmt"

	yaml "gopkg.in/yaml.v3"
)

// ParseJSONOrYAML unmarshals data that may be in either format. JSON is tried
// first; YAML input is converted to JSON before the final unmarshal, so field
// types that only implement json.Unmarshaler (decimal amounts, timestamps)
// work the same in both.
func ParseJSONOrYAML(data []byte, target interface{}) error {
	if err := json.Unmarshal(data, target); err == nil {
		return nil
	}
	var rawStructure interface{}
	if err := yaml.Unmarshal(data, &rawStructure); err != nil {
		return err
	}
	normalized, err := jsonSafe(rawStructure)
	if err != nil {
		return err
	}
	jsonData, err := json.Marshal(normalized)
	if err != nil {
		return err
	}
	return json.Unmarshal(jsonData, target)
}

// jsonSafe rewrites a parsed YAML structure so json.Marshal accepts it: map
// keys become strings (older YAML parsings produce interface{} keys), and the
// rewrite recurses through nested maps and lists.
func jsonSafe(data interface{}) (interface{}, error) {
	switch data := data.(type) {
	case []interface{}:
		listOut := make([]interface{}, 0, len(data))
		for _, v := range data {
			v1, err := jsonSafe(v)
			if err != nil {
				return nil, err
			}
			listOut = append(listOut, v1)
		}
		return listOut, nil
	case map[string]interface{}:
		mapOut := make(map[string]interface{}, len(data))
		for k, v := range data {
			v1, err := jsonSafe(v)
			if err != nil {
				return nil, err
			}
			mapOut[k] = v1
		}
		return mapOut, nil
	case map[interface{}]interface{}:
		mapOut := make(map[string]interface{}, len(data))
		for k, v := range data {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("YAML data contained a map key of type %T; only string keys are allowed", k)
			}
			v1, err := jsonSafe(v)
			if err != nil {
				return nil, err
			}
			mapOut[key] = v1
		}
		return mapOut, nil
	default:
		return data, nil
	}
}

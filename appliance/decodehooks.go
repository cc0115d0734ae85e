package appliance

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Returns a decodeHook function that can be used to unmarshal appliance definitions using mapstructure.
// This supports configuration sources such as TOML that decode to generic maps first.
func GetDecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		definitionDecodeHookFunc(),
	)
}

// Returns a DecodeHookFunc that builds a Definition through NewDefinition.
func definitionDecodeHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if t == reflect.TypeOf(Definition{}) {
			// unmarshal into DefinitionParams and use constructor function to create Definition
			var params DefinitionParams
			if err := decodeParams(&params, data); err != nil {
				return nil, err
			}
			return NewDefinition(params)
		}
		// If the type is not Definition, return data unchanged
		return data, nil
	}
}

// Use mapstructure to unmarshal data into a params struct.
func decodeParams[T any](params *T, data interface{}) error {
	m, ok := data.(map[string]interface{})
	if !ok {
		return fmt.Errorf("expected map[string]interface{}, got %T", data)
	}

	decoderConfig := &mapstructure.DecoderConfig{
		WeaklyTypedInput: true, // TOML integers into float fields
		ErrorUnused:      true,
		Result:           params,
	}
	decoder, err := mapstructure.NewDecoder(decoderConfig)
	if err != nil {
		return err
	}
	return decoder.Decode(m)
}
